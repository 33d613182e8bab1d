package cmd

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	zapobserver "go.uber.org/zap/zaptest/observer"

	"xdpwall/infrastructure/capture"
	"xdpwall/infrastructure/log"
)

// observeLogs replaces the global logger for the duration of the test.
func observeLogs(t *testing.T) *zapobserver.ObservedLogs {
	t.Helper()
	core, obs := zapobserver.New(zap.InfoLevel)
	prev := log.Logger
	log.Logger = log.NewZapLogger(zap.New(core))
	t.Cleanup(func() {
		log.Logger = prev
	})
	return obs
}

// fakeRouter pushes its records once HandleEvents is called.
type fakeRouter struct {
	records [][]byte
	err     error
	cleaned bool
}

func (r *fakeRouter) HandleEvents(ctx context.Context, records chan []byte) (func(), error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, record := range r.records {
		records <- record
	}
	return func() { r.cleaned = true }, nil
}

func (r *fakeRouter) Lost() uint64 {
	return 0
}

func (r *fakeRouter) Decisions() map[string]uint64 {
	return nil
}

// frameReader serves frames and then reports a timeout on every call.
type frameReader struct {
	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func (r *frameReader) ReadFrame(buf []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return 0, io.EOF
	}
	if len(r.frames) == 0 {
		time.Sleep(time.Millisecond)
		return 0, capture.ErrTimeout
	}
	n := copy(buf, r.frames[0])
	r.frames = r.frames[1:]
	return n, nil
}

func (r *frameReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}
