// Package report renders batch outcomes for humans or machines.
package report

import (
	"fmt"
	"io"

	"github.com/anime-shed/contour-inspector-go/internal/batch"
	"github.com/anime-shed/contour-inspector-go/internal/config"
)

// NewReporter returns the reporter for the given format writing to w
func NewReporter(format string, w io.Writer) (batch.Reporter, error) {
	switch format {
	case config.FormatText, "":
		return NewTextReporter(w), nil
	case config.FormatJSON:
		return NewJSONReporter(w), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}
