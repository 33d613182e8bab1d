package cmd

import (
	"context"
	"sync/atomic"

	bpf "github.com/iovisor/gobpf/bcc"
	"github.com/iovisor/gobpf/pkg/tracepipe"
	"golang.org/x/xerrors"

	"xdpwall/config"
	"xdpwall/constant"
	"xdpwall/infrastructure/capture"
	"xdpwall/infrastructure/log"
)

// Router feeds raw decision records from a record source into a single channel.
type Router interface {
	HandleEvents(ctx context.Context, records chan []byte) (clean func(), err error)
	Lost() uint64
	Decisions() map[string]uint64
}

// EbpfRouter reads the records the XDP program submits to its perf buffer.
type EbpfRouter struct {
	module *bpf.Module
	lost   atomic.Uint64
}

func NewRouter(module *bpf.Module) *EbpfRouter {
	return &EbpfRouter{module: module}
}

func (r *EbpfRouter) Lost() uint64 {
	return r.lost.Load()
}

// Decisions are only counted by the kernel, not reported per action.
func (r *EbpfRouter) Decisions() map[string]uint64 {
	return nil
}

func (r *EbpfRouter) HandleEvents(ctx context.Context, records chan []byte) (clean func(), err error) {
	eventsTable := bpf.NewTable(r.module.TableId(constant.EventsTableName), r.module)
	lostChan := make(chan uint64, constant.RecordChannelDepth)

	perfMap, err := bpf.InitPerfMap(eventsTable, records, lostChan)
	if err != nil {
		err = xerrors.Errorf("failed to init events perf map: %w", err)
		return
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case n := <-lostChan:
				if total := r.lost.Add(n); total == n {
					log.Logger.Warnf("perf buffer overrun, %d records lost", n)
				}
			}
		}
	}()

	if config.IsDebug() {
		if err = forwardTracePipe(ctx); err != nil {
			log.Logger.Warnf("failed to open trace pipe: %+v", err)
		}
	}

	perfMap.Start()
	log.Logger.Infof("start watching")

	return func() {
		// The perf reader blocks on a full records channel, so keep draining until it stops.
		done := make(chan struct{})
		go func() {
			for {
				select {
				case <-records:
				case <-done:
					return
				}
			}
		}()
		perfMap.Stop()
		close(done)
	}, nil
}

func forwardTracePipe(ctx context.Context) error {
	tp, err := tracepipe.New()
	if err != nil {
		return xerrors.Errorf("failed to open trace pipe: %w", err)
	}
	events, errs := tp.Channel()
	go func() {
		defer tp.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-events:
				log.Logger.Debugf("%+v", event)
			case err := <-errs:
				log.Logger.Errorf("%+v", err)
			}
		}
	}()
	return nil
}

// SocketRouter classifies frames from a packet socket in userspace.
type SocketRouter struct {
	source *capture.Source
}

func NewSocketRouter(source *capture.Source) *SocketRouter {
	return &SocketRouter{source: source}
}

func (r *SocketRouter) Lost() uint64 {
	return 0
}

func (r *SocketRouter) Decisions() map[string]uint64 {
	return r.source.Decisions()
}

func (r *SocketRouter) HandleEvents(ctx context.Context, records chan []byte) (clean func(), err error) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := r.source.Run(ctx, records); err != nil {
			log.Logger.Errorf("capture stopped: %+v", err)
		}
	}()

	return func() {
		<-done
		if err := r.source.Close(); err != nil {
			log.Logger.Warnf("failed to close capture source: %+v", err)
		}
	}, nil
}
