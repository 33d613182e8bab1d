package integration

import (
	"io"
	"os"
	"time"

	"xdpwall/cmd"
	"xdpwall/config"
	"xdpwall/domain/entity"
	"xdpwall/domain/valueobject"
	"xdpwall/handler"
	"xdpwall/infrastructure/capture"
)

type Runnable interface {
	Run(sig chan os.Signal, start chan string) error
}

type RouterRunner struct {
	cfg     *config.Config
	router  cmd.Router
	table   *entity.PolicyTable
	updater *handler.PolicyUpdater
	seeds   []valueobject.Command
}

func (r *RouterRunner) Run(sig chan os.Signal, start chan string) error {
	return cmd.Execute(r.cfg, r.router, nil, r.table, r.updater, r.seeds, sig, start)
}

// wire is a FrameReader fed by the test, one frame per send.
type wire struct {
	frames chan []byte
	closed chan struct{}
}

func newWire() *wire {
	return &wire{frames: make(chan []byte), closed: make(chan struct{})}
}

func (w *wire) ReadFrame(buf []byte) (int, error) {
	select {
	case f := <-w.frames:
		return copy(buf, f), nil
	case <-w.closed:
		return 0, io.EOF
	case <-time.After(50 * time.Millisecond):
		return 0, capture.ErrTimeout
	}
}

func (w *wire) Close() error {
	close(w.closed)
	return nil
}

func (w *wire) send(frame []byte) {
	w.frames <- frame
}
