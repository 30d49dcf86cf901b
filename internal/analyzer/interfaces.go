package analyzer

import (
	"image"

	"github.com/anime-shed/contour-inspector-go/internal/vision"
	"github.com/anime-shed/contour-inspector-go/pkg/models"
)

// ImageAnalyzer turns one image into contour metrics
type ImageAnalyzer interface {
	// PrepareBackground loads and blurs the shared background reference.
	PrepareBackground(path string) (*image.Gray, error)

	// Analyze runs the full pipeline on the image at path. background must
	// come from PrepareBackground and is only read.
	Analyze(path string, background *image.Gray) (*models.AnalysisResult, error)

	// Options returns the tuning the analyzer was built with.
	Options() PipelineOptions
}

// MetricsCalculator handles contour metrics computation
type MetricsCalculator interface {
	Calculate(contours []vision.Contour) (models.ContourMetrics, error)
}
