package observer

import (
	"context"
	"io"

	"github.com/schollz/progressbar/v3"
)

// ProgressObserver advances a terminal progress bar once per finished image
type ProgressObserver struct {
	bar *progressbar.ProgressBar
}

// NewProgressObserver creates a bar sized for total images. A negative total
// renders an open-ended spinner.
func NewProgressObserver(w io.Writer, total int) *ProgressObserver {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("analyzing"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	return &ProgressObserver{bar: bar}
}

// OnEvent advances the bar on completed and skipped events
func (o *ProgressObserver) OnEvent(ctx context.Context, event AnalysisEvent) {
	switch event.EventType {
	case AnalysisCompleted, AnalysisSkipped:
		_ = o.bar.Add(1)
	}
}

// GetObserverName returns the observer name
func (o *ProgressObserver) GetObserverName() string {
	return "progress_observer"
}

// SetTotal resizes the bar once the batch size is known
func (o *ProgressObserver) SetTotal(total int) {
	o.bar.ChangeMax(total)
}

// Finish completes the bar
func (o *ProgressObserver) Finish() error {
	return o.bar.Finish()
}
