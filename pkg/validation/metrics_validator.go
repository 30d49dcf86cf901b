package validation

import (
	"fmt"
	"math"

	"github.com/anime-shed/contour-inspector-go/pkg/models"
)

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// MetricsThresholds defines configurable tolerances for metric validation
type MetricsThresholds struct {
	// Relative slack allowed when the hull area comes out below the
	// original area because of rounding.
	HullAreaTolerance float64
}

// DefaultMetricsThresholds returns the default tolerances
func DefaultMetricsThresholds() MetricsThresholds {
	return MetricsThresholds{
		HullAreaTolerance: 1e-9,
	}
}

// MetricsValidator checks ContourMetrics records before they are reported
type MetricsValidator struct {
	thresholds MetricsThresholds
}

// NewMetricsValidator creates a validator with default tolerances
func NewMetricsValidator() *MetricsValidator {
	return &MetricsValidator{
		thresholds: DefaultMetricsThresholds(),
	}
}

// NewMetricsValidatorWithThresholds creates a validator with custom tolerances
func NewMetricsValidatorWithThresholds(thresholds MetricsThresholds) *MetricsValidator {
	return &MetricsValidator{
		thresholds: thresholds,
	}
}

// MetricIssue represents a metric validation issue
type MetricIssue struct {
	Field       string  `json:"field"`
	Message     string  `json:"message"`
	Severity    string  `json:"severity"` // "error", "warning"
	ActualValue float64 `json:"actual_value"`
}

// Validate returns every issue found in m.
func (mv *MetricsValidator) Validate(m models.ContourMetrics) []MetricIssue {
	var issues []MetricIssue

	fields := []struct {
		name  string
		value float64
	}{
		{"area_original", m.AreaOriginal},
		{"area_hull", m.AreaHull},
		{"area_ratio", m.AreaRatio},
		{"circularity_original", m.CircularityOriginal},
		{"circularity_hull", m.CircularityHull},
		{"circularity_ratio", m.CircularityRatio},
	}
	for _, f := range fields {
		switch {
		case math.IsNaN(f.value) || math.IsInf(f.value, 0):
			issues = append(issues, MetricIssue{
				Field:       f.name,
				Message:     fmt.Sprintf("%s is not finite", f.name),
				Severity:    SeverityError,
				ActualValue: f.value,
			})
		case f.value < 0:
			issues = append(issues, MetricIssue{
				Field:       f.name,
				Message:     fmt.Sprintf("%s is negative", f.name),
				Severity:    SeverityError,
				ActualValue: f.value,
			})
		}
	}

	if m.AreaHull < m.AreaOriginal*(1-mv.thresholds.HullAreaTolerance) {
		issues = append(issues, MetricIssue{
			Field:       "area_hull",
			Message:     "convex hull encloses less area than the contour",
			Severity:    SeverityWarning,
			ActualValue: m.AreaHull,
		})
	}

	return issues
}

// HasErrors reports whether any issue has error severity
func HasErrors(issues []MetricIssue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}
