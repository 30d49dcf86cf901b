package batch

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	apperrors "github.com/anime-shed/contour-inspector-go/internal/errors"
	"github.com/anime-shed/contour-inspector-go/pkg/models"
)

// Summarize aggregates drained outcomes. Run-level fields (directory,
// worker count, enqueued, wall time) are left for the caller.
func Summarize(outcomes []Outcome) models.BatchSummary {
	summary := models.BatchSummary{SkipReasons: make(map[string]int)}

	var (
		durations   []float64
		images      []string
		areaRatios  []float64
		circularity []float64
	)
	for _, outcome := range outcomes {
		if outcome.Skipped() {
			summary.Skipped++
			summary.SkipReasons[string(apperrors.TypeOf(outcome.Err))]++
			continue
		}
		summary.Processed++
		durations = append(durations, float64(outcome.Result.Duration))
		images = append(images, outcome.Task.Path)
		areaRatios = append(areaRatios, outcome.Result.Metrics.AreaRatio)
		circularity = append(circularity, outcome.Result.Metrics.CircularityOriginal)
	}

	if len(durations) == 0 {
		return summary
	}

	slowest := floats.MaxIdx(durations)
	summary.MaxDuration = time.Duration(durations[slowest])
	summary.SlowestImage = images[slowest]

	mean, std := stat.MeanStdDev(durations, nil)
	summary.AverageDuration = time.Duration(mean)
	if len(durations) > 1 {
		summary.StdDevDuration = time.Duration(std)
	}

	sorted := append([]float64(nil), durations...)
	sort.Float64s(sorted)
	summary.P50Duration = time.Duration(stat.Quantile(0.5, stat.Empirical, sorted, nil))
	summary.P95Duration = time.Duration(stat.Quantile(0.95, stat.Empirical, sorted, nil))

	summary.MeanAreaRatio = stat.Mean(areaRatios, nil)
	summary.MeanCircularity = stat.Mean(circularity, nil)
	return summary
}
