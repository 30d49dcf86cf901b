package strategy

import (
	"fmt"
	"sort"

	"github.com/anime-shed/contour-inspector-go/internal/analyzer"
)

// PipelineStrategy names a preset of pipeline tuning constants
type PipelineStrategy interface {
	Options() analyzer.PipelineOptions
	GetStrategyName() string
}

// StandardStrategy is the production tuning: 5x5 blur and a
// dilate/erode/dilate cleanup
type StandardStrategy struct{}

// NewStandardStrategy creates the standard strategy
func NewStandardStrategy() PipelineStrategy {
	return &StandardStrategy{}
}

// Options returns the standard pipeline options
func (s *StandardStrategy) Options() analyzer.PipelineOptions {
	return analyzer.DefaultPipelineOptions()
}

// GetStrategyName returns the strategy name
func (s *StandardStrategy) GetStrategyName() string {
	return "standard"
}

// OpenCloseStrategy uses a 3x3 blur and an opening followed by a closing
type OpenCloseStrategy struct{}

// NewOpenCloseStrategy creates the open/close strategy
func NewOpenCloseStrategy() PipelineStrategy {
	return &OpenCloseStrategy{}
}

// Options returns the open/close pipeline options
func (s *OpenCloseStrategy) Options() analyzer.PipelineOptions {
	return analyzer.OpenCloseOptions()
}

// GetStrategyName returns the strategy name
func (s *OpenCloseStrategy) GetStrategyName() string {
	return "open_close"
}

// Registry looks strategies up by name
type Registry struct {
	strategies map[string]PipelineStrategy
}

// NewRegistry creates a registry holding the built-in strategies
func NewRegistry() *Registry {
	r := &Registry{strategies: make(map[string]PipelineStrategy)}
	r.Register(NewStandardStrategy())
	r.Register(NewOpenCloseStrategy())
	return r
}

// Register adds or replaces a strategy
func (r *Registry) Register(s PipelineStrategy) {
	r.strategies[s.GetStrategyName()] = s
}

// Get returns the strategy with the given name. An empty name selects the
// standard strategy.
func (r *Registry) Get(name string) (PipelineStrategy, error) {
	if name == "" {
		name = "standard"
	}
	s, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown pipeline strategy %q (available: %v)", name, r.Names())
	}
	return s, nil
}

// Names returns the registered strategy names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveOptions picks the named preset and overlays the optional YAML file
func (r *Registry) ResolveOptions(name, pipelineFile string) (analyzer.PipelineOptions, error) {
	s, err := r.Get(name)
	if err != nil {
		return analyzer.PipelineOptions{}, err
	}
	return analyzer.OverlayPipelineOptions(s.Options(), pipelineFile)
}
