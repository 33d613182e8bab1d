package driver

import (
	"context"
	"sync/atomic"

	"xdpwall/domain/valueobject"
	"xdpwall/infrastructure/log"
)

// RecordChannels are the bounded per-observer queues of raw decision records.
type RecordChannels []chan []byte

func NewRecordChannels(workers, depth int) RecordChannels {
	chs := make(RecordChannels, workers)
	for i := range chs {
		chs[i] = make(chan []byte, depth)
	}
	return chs
}

func (c RecordChannels) close() {
	for _, ch := range c {
		close(ch)
	}
}

// Dispatcher fans the single stream of a record source out to the per-observer channels.
// Records of one source address always land on the same observer, so their commands stay ordered.
type Dispatcher struct {
	channels RecordChannels
	lost     atomic.Uint64
}

func NewDispatcher(channels RecordChannels) *Dispatcher {
	return &Dispatcher{channels: channels}
}

func (d *Dispatcher) Channels() RecordChannels {
	return d.channels
}

// Lost is the number of records discarded because their observer was full.
func (d *Dispatcher) Lost() uint64 {
	return d.lost.Load()
}

// Shard returns the index of the observer responsible for a record.
// Records too short to carry a source go to observer 0, which rejects them.
func (d *Dispatcher) Shard(record []byte) int {
	src, ok := valueobject.RecordSource(record)
	if !ok {
		return 0
	}
	return int(uint32(src) % uint32(len(d.channels)))
}

// Dispatch hands a record to its observer without blocking.
func (d *Dispatcher) Dispatch(record []byte) bool {
	select {
	case d.channels[d.Shard(record)] <- record:
		return true
	default:
		if n := d.lost.Add(1); n&(n-1) == 0 {
			log.Logger.Warnf("observer queue full, %d records lost so far", n)
		}
		return false
	}
}

// Run dispatches every record from in until ctx is done or in is closed,
// then closes the per-observer channels.
func (d *Dispatcher) Run(ctx context.Context, in <-chan []byte) {
	log.Logger.Debugf("trying to start record dispatching to %d observers", len(d.channels))
	defer d.channels.close()

	for {
		select {
		case <-ctx.Done():
			return
		case record, ok := <-in:
			if !ok {
				return
			}
			d.Dispatch(record)
		}
	}
}
