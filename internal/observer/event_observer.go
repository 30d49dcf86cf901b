package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// AnalysisEvent represents an analysis event
type AnalysisEvent struct {
	EventType EventType     `json:"event_type"`
	Timestamp time.Time     `json:"timestamp"`
	Image     string        `json:"image"`
	Worker    int           `json:"worker"`
	Duration  time.Duration `json:"duration"`
	ErrorType string        `json:"error_type,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// EventType represents the type of analysis event
type EventType string

const (
	// AnalysisStarted when a worker picks up an image
	AnalysisStarted EventType = "analysis_started"
	// AnalysisCompleted when metrics were produced
	AnalysisCompleted EventType = "analysis_completed"
	// AnalysisSkipped when the image was dropped from the batch
	AnalysisSkipped EventType = "analysis_skipped"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event AnalysisEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event AnalysisEvent)
}

// LoggingObserver logs analysis events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles analysis events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event AnalysisEvent) {
	fields := logrus.Fields{
		"event_type": event.EventType,
		"image":      event.Image,
		"worker":     event.Worker,
	}
	if event.Duration > 0 {
		fields["duration"] = event.Duration
	}
	if event.ErrorType != "" {
		fields["error_type"] = event.ErrorType
	}
	if event.Error != "" {
		fields["error"] = event.Error
	}

	entry := o.logger.WithFields(fields)
	switch event.EventType {
	case AnalysisStarted:
		entry.Debug("Image analysis started")
	case AnalysisCompleted:
		entry.Debug("Image analysis completed")
	case AnalysisSkipped:
		entry.Warn("Image skipped")
	default:
		entry.Info("Analysis event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver counts analysis events and keeps completed durations
type MetricsObserver struct {
	mu        sync.RWMutex
	started   int64
	completed int64
	skipped   int64
	byReason  map[string]int64
	durations []float64
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{byReason: make(map[string]int64)}
}

// OnEvent handles analysis events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event AnalysisEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case AnalysisStarted:
		o.started++
	case AnalysisCompleted:
		o.completed++
		o.durations = append(o.durations, float64(event.Duration))
	case AnalysisSkipped:
		o.skipped++
		o.byReason[event.ErrorType]++
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns current metrics
func (o *MetricsObserver) GetMetrics() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	avg := time.Duration(0)
	if len(o.durations) > 0 {
		avg = time.Duration(stat.Mean(o.durations, nil))
	}

	reasons := make(map[string]int64, len(o.byReason))
	for k, v := range o.byReason {
		reasons[k] = v
	}

	return map[string]interface{}{
		"started_analyses":   o.started,
		"completed_analyses": o.completed,
		"skipped_analyses":   o.skipped,
		"skip_reasons":       reasons,
		"avg_duration":       avg,
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers delivers the event to every observer on the calling
// goroutine, so a worker's events reach observers in the order it emits them.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event AnalysisEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	for _, observer := range observers {
		notify(ctx, observer, event)
	}
}

func notify(ctx context.Context, obs Observer, event AnalysisEvent) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("observer", obs.GetObserverName()).
				WithField("panic", r).
				Error("Observer panicked while handling event")
		}
	}()
	obs.OnEvent(ctx, event)
}
