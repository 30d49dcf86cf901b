package analyzer

import (
	"fmt"
	"os"

	"github.com/anime-shed/contour-inspector-go/internal/vision"
	"gopkg.in/yaml.v3"
)

// MorphStep is one morphological operation repeated Iterations times
type MorphStep struct {
	Op         vision.MorphOp `yaml:"op"`
	Iterations int            `yaml:"iterations"`
}

// PipelineOptions holds the tuning constants of the segmentation pipeline
type PipelineOptions struct {
	// Gaussian kernel size applied to both background and image
	BlurKernelSize int `yaml:"blur_kernel_size"`

	// Pixels of background-minus-image strictly above this become foreground
	ThresholdCutoff int `yaml:"threshold_cutoff"`

	// Morphological cleanup
	Element    vision.StructuringElement `yaml:"structuring_element"`
	Morphology []MorphStep               `yaml:"morphology"`

	// Canny hysteresis pair
	CannyLow  float64 `yaml:"canny_low"`
	CannyHigh float64 `yaml:"canny_high"`
}

// DefaultPipelineOptions returns the production tuning: 5x5 blur, cutoff 10,
// 3x3 cross with dilate x2, erode x3, dilate x1, Canny 50/150
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		BlurKernelSize:  5,
		ThresholdCutoff: 10,
		Element:         vision.StructuringElement{Shape: vision.ShapeCross, Size: 3},
		Morphology: []MorphStep{
			{Op: vision.Dilate, Iterations: 2},
			{Op: vision.Erode, Iterations: 3},
			{Op: vision.Dilate, Iterations: 1},
		},
		CannyLow:  50,
		CannyHigh: 150,
	}
}

// OpenCloseOptions returns the lighter tuning used for single-image checks:
// 3x3 blur followed by an opening and a closing with the same cross
func OpenCloseOptions() PipelineOptions {
	opts := DefaultPipelineOptions()
	opts.BlurKernelSize = 3
	opts.Morphology = []MorphStep{
		{Op: vision.Erode, Iterations: 1},
		{Op: vision.Dilate, Iterations: 2},
		{Op: vision.Erode, Iterations: 1},
	}
	return opts
}

// Validate checks that every constant is usable by the primitives
func (o PipelineOptions) Validate() error {
	if o.BlurKernelSize < 1 || o.BlurKernelSize%2 == 0 {
		return fmt.Errorf("blur_kernel_size must be odd and >= 1 (got %d)", o.BlurKernelSize)
	}
	if o.ThresholdCutoff < 0 || o.ThresholdCutoff > 255 {
		return fmt.Errorf("threshold_cutoff must be in [0, 255] (got %d)", o.ThresholdCutoff)
	}
	if err := o.Element.Validate(); err != nil {
		return err
	}
	for i, step := range o.Morphology {
		if step.Op != vision.Dilate && step.Op != vision.Erode {
			return fmt.Errorf("morphology[%d]: unsupported op %q", i, step.Op)
		}
		if step.Iterations < 0 {
			return fmt.Errorf("morphology[%d]: iterations must be >= 0 (got %d)", i, step.Iterations)
		}
	}
	if o.CannyLow < 0 || o.CannyHigh < o.CannyLow {
		return fmt.Errorf("canny thresholds must satisfy 0 <= low <= high (got %g/%g)", o.CannyLow, o.CannyHigh)
	}
	return nil
}

// LoadPipelineOptions overlays the YAML file at path on the defaults.
// An empty path yields the defaults.
func LoadPipelineOptions(path string) (PipelineOptions, error) {
	return OverlayPipelineOptions(DefaultPipelineOptions(), path)
}

// OverlayPipelineOptions overlays the YAML file at path on base. Keys absent
// from the file keep the value from base; a morphology list replaces the
// base sequence entirely.
func OverlayPipelineOptions(base PipelineOptions, path string) (PipelineOptions, error) {
	opts := base
	opts.Morphology = append([]MorphStep(nil), base.Morphology...)
	if path == "" {
		return opts, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("failed to read pipeline file: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("failed to parse pipeline file %s: %w", path, err)
	}
	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("invalid pipeline file %s: %w", path, err)
	}
	return opts, nil
}
