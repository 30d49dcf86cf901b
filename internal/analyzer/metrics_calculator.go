package analyzer

import (
	"fmt"
	"math"

	apperrors "github.com/anime-shed/contour-inspector-go/internal/errors"
	"github.com/anime-shed/contour-inspector-go/internal/logger"
	"github.com/anime-shed/contour-inspector-go/internal/vision"
	"github.com/anime-shed/contour-inspector-go/pkg/models"
	"github.com/anime-shed/contour-inspector-go/pkg/validation"
	"github.com/sirupsen/logrus"
)

// contourEpsilon is the smallest area or perimeter treated as non-degenerate
const contourEpsilon = 1e-6

// metricsCalculator implements MetricsCalculator on top of a vision.Geometry
type metricsCalculator struct {
	geometry  vision.Geometry
	validator *validation.MetricsValidator
}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator(geometry vision.Geometry) MetricsCalculator {
	return &metricsCalculator{
		geometry:  geometry,
		validator: validation.NewMetricsValidator(),
	}
}

// Calculate measures the largest contour and its convex hull.
//
// A degenerate primary contour is an InvalidContour error. A degenerate hull
// is not: its circularity and the dependent ratio fall back to zero.
func (mc *metricsCalculator) Calculate(contours []vision.Contour) (models.ContourMetrics, error) {
	if len(contours) == 0 {
		return models.ContourMetrics{}, apperrors.NewNoContoursError("")
	}

	// Strictly greater keeps the first of equally large contours
	best, areaOriginal := 0, mc.geometry.Area(contours[0])
	for i := 1; i < len(contours); i++ {
		if a := mc.geometry.Area(contours[i]); a > areaOriginal {
			best, areaOriginal = i, a
		}
	}
	cnt := contours[best]
	perimeterOriginal := mc.geometry.Perimeter(cnt)

	if areaOriginal <= contourEpsilon || perimeterOriginal <= contourEpsilon {
		return models.ContourMetrics{}, apperrors.NewInvalidContourError(
			fmt.Sprintf("degenerate contour: area=%f, perimeter=%f", areaOriginal, perimeterOriginal))
	}
	circularityOriginal := circularity(areaOriginal, perimeterOriginal)

	hull := mc.geometry.ConvexHull(cnt)
	areaHull := mc.geometry.Area(hull)
	perimeterHull := mc.geometry.Perimeter(hull)
	var circularityHull float64
	if perimeterHull > contourEpsilon {
		circularityHull = circularity(areaHull, perimeterHull)
	}

	m := models.ContourMetrics{
		AreaOriginal:        areaOriginal,
		AreaHull:            areaHull,
		CircularityOriginal: circularityOriginal,
		CircularityHull:     circularityHull,
	}
	if areaOriginal > 0 {
		m.AreaRatio = areaHull / areaOriginal
	}
	if circularityOriginal > 0 {
		m.CircularityRatio = circularityHull / circularityOriginal
	}

	issues := mc.validator.Validate(m)
	if validation.HasErrors(issues) {
		return models.ContourMetrics{}, apperrors.NewInvalidContourError(issues[0].Message)
	}
	for _, issue := range issues {
		logger.WithFields(logrus.Fields{
			"field": issue.Field,
			"value": issue.ActualValue,
		}).Warn(issue.Message)
	}
	return m, nil
}

// circularity is the isoperimetric ratio 4*pi*A/P^2, 1 for a perfect circle
func circularity(area, perimeter float64) float64 {
	return 4 * math.Pi * area / (perimeter * perimeter)
}
