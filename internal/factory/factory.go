package factory

import (
	"fmt"

	"github.com/anime-shed/contour-inspector-go/internal/analyzer"
	"github.com/anime-shed/contour-inspector-go/internal/storage"
	"github.com/anime-shed/contour-inspector-go/internal/vision"
)

// BackendType selects the implementation of the vision primitives
type BackendType string

const (
	// GoBackend runs the pipeline in pure Go
	GoBackend BackendType = "go"
	// OpenCVBackend delegates to OpenCV through gocv
	OpenCVBackend BackendType = "opencv"
)

// PrimitivesFactory creates vision backends
type PrimitivesFactory interface {
	CreatePrimitives(backend BackendType) (vision.Primitives, error)
}

// AnalyzerFactory creates image analyzers
type AnalyzerFactory interface {
	CreateAnalyzer(backend BackendType, opts analyzer.PipelineOptions) (analyzer.ImageAnalyzer, error)
}

// SourceFactory creates image sources
type SourceFactory interface {
	CreateSource(dir string, extensions []string, exclude string) storage.ImageSource
}

// primitivesFactory implements PrimitivesFactory
type primitivesFactory struct{}

// NewPrimitivesFactory creates a new primitives factory
func NewPrimitivesFactory() PrimitivesFactory {
	return &primitivesFactory{}
}

// CreatePrimitives returns the backend for the given type
func (f *primitivesFactory) CreatePrimitives(backend BackendType) (vision.Primitives, error) {
	switch backend {
	case GoBackend, "":
		return vision.NewGoPrimitives(), nil
	case OpenCVBackend:
		return vision.NewOpenCVPrimitives()
	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
}

// analyzerFactory implements AnalyzerFactory
type analyzerFactory struct {
	primitives PrimitivesFactory
}

// NewAnalyzerFactory creates a new analyzer factory
func NewAnalyzerFactory(primitives PrimitivesFactory) AnalyzerFactory {
	return &analyzerFactory{primitives: primitives}
}

// CreateAnalyzer builds an analyzer on top of the selected backend
func (f *analyzerFactory) CreateAnalyzer(backend BackendType, opts analyzer.PipelineOptions) (analyzer.ImageAnalyzer, error) {
	primitives, err := f.primitives.CreatePrimitives(backend)
	if err != nil {
		return nil, err
	}
	return analyzer.NewImageAnalyzer(primitives, opts)
}

// sourceFactory implements SourceFactory
type sourceFactory struct{}

// NewSourceFactory creates a new source factory
func NewSourceFactory() SourceFactory {
	return &sourceFactory{}
}

// CreateSource returns a directory source
func (f *sourceFactory) CreateSource(dir string, extensions []string, exclude string) storage.ImageSource {
	return storage.NewDirectorySource(dir, extensions, exclude)
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	PrimitivesFactory PrimitivesFactory
	AnalyzerFactory   AnalyzerFactory
	SourceFactory     SourceFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory() *ComponentFactory {
	primitives := NewPrimitivesFactory()
	return &ComponentFactory{
		PrimitivesFactory: primitives,
		AnalyzerFactory:   NewAnalyzerFactory(primitives),
		SourceFactory:     NewSourceFactory(),
	}
}
