package analyzer

import (
	"errors"
	"fmt"
	"image"
	"time"

	apperrors "github.com/anime-shed/contour-inspector-go/internal/errors"
	"github.com/anime-shed/contour-inspector-go/internal/vision"
	"github.com/anime-shed/contour-inspector-go/pkg/models"
)

// imageAnalyzer implements ImageAnalyzer as a fixed sequence of primitives
type imageAnalyzer struct {
	vision  vision.Primitives
	metrics MetricsCalculator
	opts    PipelineOptions
}

// NewImageAnalyzer creates an analyzer running opts on the given primitives
func NewImageAnalyzer(primitives vision.Primitives, opts PipelineOptions) (ImageAnalyzer, error) {
	if err := opts.Validate(); err != nil {
		return nil, apperrors.NewConfigError("invalid pipeline options", err)
	}
	return &imageAnalyzer{
		vision:  primitives,
		metrics: NewMetricsCalculator(primitives),
		opts:    opts,
	}, nil
}

func (ia *imageAnalyzer) Options() PipelineOptions {
	return ia.opts
}

// PrepareBackground loads the background and applies the same blur as every
// image. Any failure here is fatal for the batch.
func (ia *imageAnalyzer) PrepareBackground(path string) (*image.Gray, error) {
	bg, err := ia.vision.LoadGrayscale(path)
	if err != nil {
		return nil, apperrors.NewBackgroundError(path, "failed to load background", err)
	}
	blurred, err := ia.vision.GaussianBlur(bg, ia.opts.BlurKernelSize)
	if err != nil {
		return nil, apperrors.NewBackgroundError(path, "failed to blur background", err)
	}
	return blurred, nil
}

// Analyze loads the image at path and measures its dominant contour.
// Timing covers everything after the load.
func (ia *imageAnalyzer) Analyze(path string, background *image.Gray) (*models.AnalysisResult, error) {
	img, err := ia.vision.LoadGrayscale(path)
	if err != nil {
		return nil, apperrors.NewImageLoadError(path, "failed to load image", err)
	}
	if img.Bounds().Size() != background.Bounds().Size() {
		return nil, apperrors.NewImageLoadError(path, fmt.Sprintf("image size %v differs from background %v",
			img.Bounds().Size(), background.Bounds().Size()), nil)
	}

	start := time.Now()

	contours, err := ia.segment(img, background)
	if err != nil {
		return nil, apperrors.NewInternalError("pipeline stage failed", err).WithImage(path)
	}
	if len(contours) == 0 {
		return nil, apperrors.NewNoContoursError(path)
	}

	metrics, err := ia.metrics.Calculate(contours)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr.WithImage(path)
		}
		return nil, err
	}

	return &models.AnalysisResult{
		Image:    path,
		Metrics:  metrics,
		Duration: time.Since(start),
	}, nil
}

// segment runs blur, subtraction, threshold, morphology, edges and contour
// extraction. Each stage's error stops the chain.
func (ia *imageAnalyzer) segment(img, background *image.Gray) ([]vision.Contour, error) {
	blurred, err := ia.vision.GaussianBlur(img, ia.opts.BlurKernelSize)
	if err != nil {
		return nil, err
	}
	diff, err := ia.vision.Subtract(background, blurred)
	if err != nil {
		return nil, err
	}
	mask, err := ia.vision.Threshold(diff, uint8(ia.opts.ThresholdCutoff))
	if err != nil {
		return nil, err
	}
	for _, step := range ia.opts.Morphology {
		mask, err = ia.vision.Morphology(mask, step.Op, ia.opts.Element, step.Iterations)
		if err != nil {
			return nil, err
		}
	}
	edges, err := ia.vision.CannyEdges(mask, ia.opts.CannyLow, ia.opts.CannyHigh)
	if err != nil {
		return nil, err
	}
	return ia.vision.FindExternalContours(edges)
}
