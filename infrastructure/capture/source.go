package capture

import (
	"context"
	"io"
	"sync/atomic"

	"golang.org/x/xerrors"

	"xdpwall/constant"
	"xdpwall/domain/valueobject"
	"xdpwall/infrastructure/log"
	"xdpwall/usecase/go/classifier"
)

// Source classifies a copy of the traffic in userspace and emits the decision records.
// It only observes, so a Drop decision is counted but the frame is still delivered.
type Source struct {
	reader     FrameReader
	classifier *classifier.Classifier
	decisions  [valueobject.ActionRedirect + 1]atomic.Uint64
}

func NewSource(reader FrameReader, c *classifier.Classifier) *Source {
	return &Source{reader: reader, classifier: c}
}

// Run reads frames until ctx is done or the reader reports io.EOF.
func (s *Source) Run(ctx context.Context, out chan<- []byte) error {
	log.Logger.Infof("start watching")
	buf := make([]byte, constant.CaptureSnapLen)
	for {
		if ctx.Err() != nil {
			return nil
		}

		n, err := s.reader.ReadFrame(buf)
		if err != nil {
			if xerrors.Is(err, ErrTimeout) || xerrors.Is(err, ErrOutgoing) {
				continue
			}
			if xerrors.Is(err, io.EOF) {
				return nil
			}
			return xerrors.Errorf("failed to read frame: %w", err)
		}

		action, record, ok := s.classifier.Classify(buf[:n])
		if action.Valid() {
			s.decisions[action].Add(1)
		}
		if !ok {
			continue
		}

		select {
		case out <- valueobject.MarshalRecord(record):
		case <-ctx.Done():
			return nil
		}
	}
}

// Decisions returns the number of classified frames per action name.
func (s *Source) Decisions() map[string]uint64 {
	res := make(map[string]uint64, len(s.decisions))
	for i := range s.decisions {
		res[valueobject.Action(i).String()] = s.decisions[i].Load()
	}
	return res
}

func (s *Source) Close() error {
	return s.reader.Close()
}
