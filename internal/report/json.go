package report

import (
	"io"
	"sync"

	"github.com/goccy/go-json"

	"github.com/anime-shed/contour-inspector-go/internal/batch"
	"github.com/anime-shed/contour-inspector-go/internal/logger"
	"github.com/anime-shed/contour-inspector-go/pkg/models"
)

// Record kinds emitted by JSONReporter
const (
	KindResult  = "result"
	KindSkip    = "skip"
	KindSummary = "summary"
)

// Record is one line of JSON output
type Record struct {
	Kind    string                 `json:"kind"`
	Result  *models.AnalysisResult `json:"result,omitempty"`
	Skip    *models.Skip           `json:"skip,omitempty"`
	Summary *models.BatchSummary   `json:"summary,omitempty"`
}

// JSONReporter writes one JSON object per line
type JSONReporter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONReporter creates a JSON-lines reporter writing to w
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{enc: json.NewEncoder(w)}
}

// Report emits a result or skip record
func (r *JSONReporter) Report(outcome batch.Outcome) {
	if outcome.Skipped() {
		skip := outcome.Skip()
		r.write(Record{Kind: KindSkip, Skip: &skip})
		return
	}
	r.write(Record{Kind: KindResult, Result: outcome.Result})
}

// Summary emits the summary record
func (r *JSONReporter) Summary(s models.BatchSummary) {
	r.write(Record{Kind: KindSummary, Summary: &s})
}

func (r *JSONReporter) write(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enc.Encode(rec); err != nil {
		logger.WithError(err).WithField("kind", rec.Kind).Error("Failed to write report record")
	}
}
