package batch

import (
	"context"
	"image"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/anime-shed/contour-inspector-go/internal/analyzer"
	apperrors "github.com/anime-shed/contour-inspector-go/internal/errors"
	"github.com/anime-shed/contour-inspector-go/internal/logger"
	"github.com/anime-shed/contour-inspector-go/internal/observer"
	"github.com/anime-shed/contour-inspector-go/internal/storage"
	"github.com/anime-shed/contour-inspector-go/pkg/models"
)

// DefaultDrainTimeout bounds the final drain after the workers joined
const DefaultDrainTimeout = time.Second

// Reporter receives outcomes as they are drained and the summary at the end.
// It is only called from the coordinator goroutine.
type Reporter interface {
	Report(outcome Outcome)
	Summary(summary models.BatchSummary)
}

// CoordinatorOptions configures a batch run
type CoordinatorOptions struct {
	Workers        int
	Directory      string
	BackgroundPath string
	DrainTimeout   time.Duration
	Reporter       Reporter
	Publisher      observer.Subject
}

// Coordinator drives one batch: it prepares the background, feeds the
// worker pool and reports outcomes.
type Coordinator struct {
	analyzer analyzer.ImageAnalyzer
	source   storage.ImageSource
	opts     CoordinatorOptions
}

// NewCoordinator creates a coordinator over the given analyzer and image source
func NewCoordinator(imageAnalyzer analyzer.ImageAnalyzer, source storage.ImageSource, opts CoordinatorOptions) *Coordinator {
	if opts.DrainTimeout <= 0 {
		opts.DrainTimeout = DefaultDrainTimeout
	}
	if opts.Reporter == nil {
		opts.Reporter = noopReporter{}
	}
	return &Coordinator{
		analyzer: imageAnalyzer,
		source:   source,
		opts:     opts,
	}
}

// Run executes the batch. The returned error is non-nil only for
// batch-fatal conditions: the background could not be prepared or the
// images could not be enumerated. Per-image failures are reported as
// skipped outcomes and counted in the summary.
func (c *Coordinator) Run(ctx context.Context) (*models.BatchSummary, error) {
	started := time.Now()

	background, err := c.analyzer.PrepareBackground(c.opts.BackgroundPath)
	if err != nil {
		return nil, err
	}

	queue := NewWorkQueue()
	sink := NewResultSink()
	pool := NewWorkerPool(c.opts.Workers, queue, sink, c.handler(ctx, background))
	pool.Start()

	logger.WithFields(logrus.Fields{
		"workers":    pool.Workers(),
		"directory":  c.opts.Directory,
		"background": c.opts.BackgroundPath,
	}).Info("Batch started")

	var outcomes []Outcome
	collect := func(drained []Outcome) {
		for _, outcome := range drained {
			c.opts.Reporter.Report(outcome)
			outcomes = append(outcomes, outcome)
		}
	}

	paths, listErr := c.source.List()
	enqueued := 0
	for _, path := range paths {
		if pool.Submit(ImageTask{Path: path}) {
			enqueued++
		}
		collect(sink.TryDrain())
	}

	pool.Close()
	pool.Wait()
	sink.Close()

	for {
		drained := sink.DrainWithTimeout(c.opts.DrainTimeout)
		if len(drained) == 0 {
			break
		}
		collect(drained)
	}

	stats := pool.GetStats()
	logger.WithFields(logrus.Fields{
		"state":     stats.State.String(),
		"total":     stats.TotalJobs,
		"completed": stats.CompletedJobs,
		"skipped":   stats.SkippedJobs,
	}).Debug("Worker pool joined")

	if listErr != nil {
		return nil, apperrors.NewConfigError("failed to enumerate images", listErr)
	}

	summary := Summarize(outcomes)
	summary.Directory = c.opts.Directory
	summary.Workers = pool.Workers()
	summary.Enqueued = enqueued
	summary.WallTime = time.Since(started)

	c.opts.Reporter.Summary(summary)
	return &summary, nil
}

// handler analyzes one task against the shared background and emits
// started and finished events
func (c *Coordinator) handler(ctx context.Context, background *image.Gray) TaskHandler {
	return func(workerID int, task ImageTask) Outcome {
		c.publish(ctx, observer.AnalysisEvent{
			EventType: observer.AnalysisStarted,
			Image:     task.Path,
			Worker:    workerID,
		})

		result, err := c.analyzer.Analyze(task.Path, background)
		if err != nil {
			c.publish(ctx, observer.AnalysisEvent{
				EventType: observer.AnalysisSkipped,
				Image:     task.Path,
				Worker:    workerID,
				ErrorType: string(apperrors.TypeOf(err)),
				Error:     err.Error(),
			})
			return Outcome{Task: task, Err: err, Worker: workerID}
		}

		result.Worker = workerID
		c.publish(ctx, observer.AnalysisEvent{
			EventType: observer.AnalysisCompleted,
			Image:     task.Path,
			Worker:    workerID,
			Duration:  result.Duration,
		})
		return Outcome{Task: task, Result: result, Worker: workerID}
	}
}

func (c *Coordinator) publish(ctx context.Context, event observer.AnalysisEvent) {
	if c.opts.Publisher != nil {
		c.opts.Publisher.NotifyObservers(ctx, event)
	}
}

type noopReporter struct{}

func (noopReporter) Report(Outcome)              {}
func (noopReporter) Summary(models.BatchSummary) {}
