package batch

import (
	"sync"
	"time"

	"github.com/anime-shed/contour-inspector-go/internal/errors"
	"github.com/anime-shed/contour-inspector-go/pkg/models"
)

// Outcome is what a worker produced for one ImageTask: either a result or
// the error that made the image be skipped.
type Outcome struct {
	Task   ImageTask
	Result *models.AnalysisResult
	Err    error
	Worker int
}

// Skipped reports whether the image produced no metrics
func (o Outcome) Skipped() bool {
	return o.Err != nil || o.Result == nil
}

// Skip converts a skipped outcome into its report form
func (o Outcome) Skip() models.Skip {
	skip := models.Skip{
		Image:  o.Task.Path,
		Reason: string(errors.TypeOf(o.Err)),
		Worker: o.Worker,
	}
	if o.Err != nil {
		skip.Detail = o.Err.Error()
	}
	return skip
}

// ResultSink collects outcomes published by workers. Publish and both drain
// operations are linearizable; every published outcome is returned by
// exactly one drain.
type ResultSink struct {
	mu       sync.Mutex
	outcomes []Outcome
	closed   bool
	notify   chan struct{}
}

// NewResultSink creates an empty sink
func NewResultSink() *ResultSink {
	return &ResultSink{notify: make(chan struct{}, 1)}
}

// Publish stores an outcome. Publishing after Close is still accepted so a
// late worker never loses its result.
func (s *ResultSink) Publish(outcome Outcome) {
	s.mu.Lock()
	s.outcomes = append(s.outcomes, outcome)
	s.mu.Unlock()
	s.wake()
}

// Close marks that no more publishers are running
func (s *ResultSink) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wake()
}

// TryDrain returns everything published so far without waiting. A nil
// result means nothing is ready yet.
func (s *ResultSink) TryDrain() []Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.take()
}

// DrainWithTimeout waits up to timeout for at least one outcome and returns
// everything available. It returns early with nil when the sink
// is closed and exhausted. An empty result is not an error.
func (s *ResultSink) DrainWithTimeout(timeout time.Duration) []Outcome {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		s.mu.Lock()
		if len(s.outcomes) > 0 || s.closed {
			out := s.take()
			s.mu.Unlock()
			return out
		}
		s.mu.Unlock()

		select {
		case <-s.notify:
		case <-timer.C:
			return s.TryDrain()
		}
	}
}

// Len returns the number of outcomes not yet drained
func (s *ResultSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.outcomes)
}

// take must be called with mu held
func (s *ResultSink) take() []Outcome {
	if len(s.outcomes) == 0 {
		return nil
	}
	out := s.outcomes
	s.outcomes = nil
	return out
}

func (s *ResultSink) wake() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}
