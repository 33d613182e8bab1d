package cmd

import (
	"context"
	"os"
	"sync"
	"time"

	"golang.org/x/xerrors"

	"xdpwall/api"
	"xdpwall/config"
	"xdpwall/constant"
	"xdpwall/domain/entity"
	"xdpwall/domain/valueobject"
	"xdpwall/driver"
	"xdpwall/handler"
	"xdpwall/infrastructure/log"
)

// Attacher reports whether the classifier is enforcing in the kernel. It is nil in socket mode.
type Attacher interface {
	Attached() bool
}

// dataplane aggregates the record path counters for the API.
type dataplane struct {
	attacher   Attacher
	router     Router
	dispatcher *driver.Dispatcher
}

func (d *dataplane) Attached() bool {
	return d.attacher != nil && d.attacher.Attached()
}

func (d *dataplane) Lost() uint64 {
	return d.router.Lost() + d.dispatcher.Lost()
}

func (d *dataplane) Decisions() map[string]uint64 {
	return d.router.Decisions()
}

// Execute runs the control loop until a signal arrives: it seeds the policy table,
// starts the observers and the record source, and serves the API.
// If the start channel is passed, "start" is sent once records are flowing.
func Execute(cfg *config.Config, r Router, a Attacher, table *entity.PolicyTable, updater *handler.PolicyUpdater, seeds []valueobject.Command, sig chan os.Signal, start chan string) (err error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		updater.Run(ctx)
	}()

	for _, cmd := range seeds {
		if err = updater.Submit(ctx, cmd); err != nil {
			return xerrors.Errorf("failed to submit seed policy: %w", err)
		}
	}
	log.Logger.Infof("success to load policy: %+v", seeds)

	records := make(chan []byte, constant.SourceQueueDepth)
	dispatcher := driver.NewDispatcher(driver.NewRecordChannels(cfg.Workers, constant.RecordChannelDepth))
	wg.Add(1)
	go func() {
		defer wg.Done()
		dispatcher.Run(ctx, records)
	}()

	for i, ch := range dispatcher.Channels() {
		observer := handler.NewObserver(i)
		wg.Add(1)
		go func(ch chan []byte) {
			defer wg.Done()
			observer.Run(ctx, ch, updater.Commands())
		}(ch)
	}

	clean, err := r.HandleEvents(ctx, records)
	if err != nil {
		cancel()
		wg.Wait()
		return xerrors.Errorf("failed to handle events: %w", err)
	}

	var apiErr <-chan error
	var server *api.Server
	if cfg.APIAddr != "" {
		server = api.NewServer(ctx, cfg.APIAddr, table, updater, &dataplane{attacher: a, router: r, dispatcher: dispatcher})
		apiErr = server.Start()
	}

	if start != nil {
		start <- "start"
	}

	select {
	case <-sig:
		log.Logger.Infof("the signal received")
	case e, ok := <-apiErr:
		if ok {
			err = e
		}
	}

	cancel()
	if server != nil {
		stopCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		if e := server.Stop(stopCtx); e != nil {
			log.Logger.Errorf("%+v", e)
		}
		stop()
	}
	clean()
	wg.Wait()

	stats := updater.Stats()
	log.Logger.Infof("stopped. applied: %d, rejected: %d, lost records: %d, policies: %d/%d", stats.Applied, stats.Rejected, r.Lost()+dispatcher.Lost(), table.Len(), table.Capacity())
	return
}
