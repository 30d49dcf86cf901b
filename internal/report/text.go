package report

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/anime-shed/contour-inspector-go/internal/batch"
	"github.com/anime-shed/contour-inspector-go/pkg/models"
)

// TextReporter prints one block per image and a summary table
type TextReporter struct {
	w       io.Writer
	title   *color.Color
	skipped *color.Color
}

// NewTextReporter creates a text reporter writing to w
func NewTextReporter(w io.Writer) *TextReporter {
	return &TextReporter{
		w:       w,
		title:   color.New(color.Bold),
		skipped: color.New(color.FgYellow),
	}
}

// Report prints the metrics of a processed image or the reason it was skipped
func (r *TextReporter) Report(outcome batch.Outcome) {
	name := filepath.Base(outcome.Task.Path)
	if outcome.Skipped() {
		skip := outcome.Skip()
		r.skipped.Fprintf(r.w, "Skipped %s: %s\n", name, skip.Reason)
		if skip.Detail != "" {
			fmt.Fprintf(r.w, "  %s\n", skip.Detail)
		}
		fmt.Fprintln(r.w)
		return
	}

	res := outcome.Result
	m := res.Metrics
	r.title.Fprintf(r.w, "Processing %s (worker %d):\n", name, res.Worker)
	fmt.Fprintf(r.w, "  Processing time: %d µs\n", res.Duration.Microseconds())
	fmt.Fprintf(r.w, "  Original area: %.2f\n", m.AreaOriginal)
	fmt.Fprintf(r.w, "  Convex hull area: %.2f\n", m.AreaHull)
	fmt.Fprintf(r.w, "  Area ratio (hull/original): %.2f\n", m.AreaRatio)
	fmt.Fprintf(r.w, "  Original circularity: %.2f\n", m.CircularityOriginal)
	fmt.Fprintf(r.w, "  Convex hull circularity: %.2f\n", m.CircularityHull)
	fmt.Fprintf(r.w, "  Circularity ratio (hull/original): %.2f\n", m.CircularityRatio)
	fmt.Fprintln(r.w)
}

// Summary renders the batch totals as a table
func (r *TextReporter) Summary(s models.BatchSummary) {
	table := tablewriter.NewWriter(r.w)
	table.Header("Metric", "Value")

	rows := [][]string{
		{"Directory", s.Directory},
		{"Workers", fmt.Sprint(s.Workers)},
		{"Enqueued", fmt.Sprint(s.Enqueued)},
		{"Processed", fmt.Sprint(s.Processed)},
		{"Skipped", fmt.Sprint(s.Skipped)},
	}

	reasons := make([]string, 0, len(s.SkipReasons))
	for reason := range s.SkipReasons {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		rows = append(rows, []string{"  " + reason, fmt.Sprint(s.SkipReasons[reason])})
	}

	if s.Processed > 0 {
		rows = append(rows,
			[]string{"Mean time", formatDuration(s.AverageDuration)},
			[]string{"Std dev", formatDuration(s.StdDevDuration)},
			[]string{"p50", formatDuration(s.P50Duration)},
			[]string{"p95", formatDuration(s.P95Duration)},
			[]string{"Max time", formatDuration(s.MaxDuration)},
			[]string{"Slowest image", filepath.Base(s.SlowestImage)},
			[]string{"Mean area ratio", fmt.Sprintf("%.2f", s.MeanAreaRatio)},
			[]string{"Mean circularity", fmt.Sprintf("%.2f", s.MeanCircularity)},
		)
	}
	rows = append(rows, []string{"Wall time", formatDuration(s.WallTime)})

	for _, row := range rows {
		_ = table.Append(row)
	}
	_ = table.Render()
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%d µs", d.Microseconds())
}
