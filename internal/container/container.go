package container

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/anime-shed/contour-inspector-go/internal/analyzer"
	"github.com/anime-shed/contour-inspector-go/internal/batch"
	"github.com/anime-shed/contour-inspector-go/internal/config"
	apperrors "github.com/anime-shed/contour-inspector-go/internal/errors"
	"github.com/anime-shed/contour-inspector-go/internal/factory"
	"github.com/anime-shed/contour-inspector-go/internal/logger"
	"github.com/anime-shed/contour-inspector-go/internal/observer"
	"github.com/anime-shed/contour-inspector-go/internal/report"
	"github.com/anime-shed/contour-inspector-go/internal/storage"
	"github.com/anime-shed/contour-inspector-go/internal/strategy"
	"github.com/anime-shed/contour-inspector-go/pkg/models"
)

// Container holds all application dependencies
type Container struct {
	config      *config.Config
	analyzer    analyzer.ImageAnalyzer
	source      storage.ImageSource
	reporter    batch.Reporter
	publisher   *observer.EventPublisher
	metrics     *observer.MetricsObserver
	progress    *observer.ProgressObserver
	coordinator *batch.Coordinator
}

// NewContainer wires the batch pipeline from cfg. Reports go to out.
func NewContainer(cfg *config.Config, out io.Writer) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigError("invalid configuration", err)
	}

	opts, err := strategy.NewRegistry().ResolveOptions(cfg.Strategy, cfg.PipelineFile)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to load pipeline options", err)
	}

	components := factory.NewComponentFactory()
	imageAnalyzer, err := components.AnalyzerFactory.CreateAnalyzer(factory.BackendType(cfg.Backend), opts)
	if err != nil {
		return nil, apperrors.NewConfigError(fmt.Sprintf("failed to create %s analyzer", cfg.Backend), err)
	}

	reporter, err := report.NewReporter(cfg.ReportFormat, out)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to create reporter", err)
	}

	publisher := observer.NewEventPublisher()
	publisher.Subscribe(observer.NewLoggingObserver(logger.Logger))
	metrics := observer.NewMetricsObserver()
	publisher.Subscribe(metrics)

	source := components.SourceFactory.CreateSource(cfg.ImageDir, cfg.Extensions, cfg.BackgroundName)

	var progress *observer.ProgressObserver
	if cfg.Progress {
		progress = observer.NewProgressObserver(os.Stderr, -1)
		publisher.Subscribe(progress)
		source = &sizedSource{ImageSource: source, onList: progress.SetTotal}
	}

	coordinator := batch.NewCoordinator(imageAnalyzer, source, batch.CoordinatorOptions{
		Workers:        cfg.Workers,
		Directory:      cfg.ImageDir,
		BackgroundPath: cfg.BackgroundPath(),
		DrainTimeout:   cfg.FinalDrainTimeout,
		Reporter:       reporter,
		Publisher:      publisher,
	})

	return &Container{
		config:      cfg,
		analyzer:    imageAnalyzer,
		source:      source,
		reporter:    reporter,
		publisher:   publisher,
		metrics:     metrics,
		progress:    progress,
		coordinator: coordinator,
	}, nil
}

// Run executes one batch
func (c *Container) Run(ctx context.Context) (*models.BatchSummary, error) {
	summary, err := c.coordinator.Run(ctx)
	if c.progress != nil {
		_ = c.progress.Finish()
	}
	if err == nil {
		logger.WithField("events", c.metrics.GetMetrics()).Debug("Observer totals")
	}
	return summary, err
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Analyzer returns the configured image analyzer
func (c *Container) Analyzer() analyzer.ImageAnalyzer {
	return c.analyzer
}

// Metrics returns the event counters collected during Run
func (c *Container) Metrics() *observer.MetricsObserver {
	return c.metrics
}

// sizedSource reports the listing size before handing it on
type sizedSource struct {
	storage.ImageSource
	onList func(n int)
}

func (s *sizedSource) List() ([]string, error) {
	paths, err := s.ImageSource.List()
	if err == nil {
		s.onList(len(paths))
	}
	return paths, err
}
