package report

import (
	"bufio"
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/goccy/go-json"

	"github.com/anime-shed/contour-inspector-go/internal/batch"
	apperrors "github.com/anime-shed/contour-inspector-go/internal/errors"
	"github.com/anime-shed/contour-inspector-go/pkg/models"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func processed() batch.Outcome {
	return batch.Outcome{
		Task:   batch.ImageTask{Path: "/data/cropped/cell_01.tiff"},
		Worker: 2,
		Result: &models.AnalysisResult{
			Image:    "/data/cropped/cell_01.tiff",
			Duration: 1500 * time.Microsecond,
			Worker:   2,
			Metrics: models.ContourMetrics{
				AreaOriginal:        792,
				AreaHull:            810.5,
				AreaRatio:           1.0234,
				CircularityOriginal: 0.8912,
				CircularityHull:     0.9876,
				CircularityRatio:    1.1082,
			},
		},
	}
}

func skipped() batch.Outcome {
	return batch.Outcome{
		Task:   batch.ImageTask{Path: "/data/cropped/cell_02.tiff"},
		Worker: 1,
		Err:    apperrors.NewNoContoursError("/data/cropped/cell_02.tiff"),
	}
}

func TestNewReporter(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"text", false},
		{"", false},
		{"json", false},
		{"xml", true},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			r, err := NewReporter(tt.format, &bytes.Buffer{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewReporter(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
			if !tt.wantErr && r == nil {
				t.Error("Expected a reporter")
			}
		})
	}
}

func TestTextReporter_Result(t *testing.T) {
	var buf bytes.Buffer
	NewTextReporter(&buf).Report(processed())
	out := buf.String()

	for _, want := range []string{
		"Processing cell_01.tiff (worker 2):",
		"Processing time: 1500 µs",
		"Original area: 792.00",
		"Convex hull area: 810.50",
		"Area ratio (hull/original): 1.02",
		"Original circularity: 0.89",
		"Convex hull circularity: 0.99",
		"Circularity ratio (hull/original): 1.11",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "/data/cropped") {
		t.Error("Expected only the file name, not the full path")
	}
}

func TestTextReporter_Skip(t *testing.T) {
	var buf bytes.Buffer
	NewTextReporter(&buf).Report(skipped())
	out := buf.String()

	if !strings.Contains(out, "Skipped cell_02.tiff: no_contours") {
		t.Errorf("Unexpected skip output:\n%s", out)
	}
	if strings.Contains(out, "Original area") {
		t.Error("Skipped image must not print metrics")
	}
}

func TestTextReporter_Summary(t *testing.T) {
	var buf bytes.Buffer
	NewTextReporter(&buf).Summary(models.BatchSummary{
		Directory:       "cropped",
		Workers:         4,
		Enqueued:        3,
		Processed:       2,
		Skipped:         1,
		SkipReasons:     map[string]int{"no_contours": 1},
		AverageDuration: 2 * time.Millisecond,
		MaxDuration:     3 * time.Millisecond,
		SlowestImage:    "/data/cropped/cell_03.tiff",
		MeanAreaRatio:   1.25,
	})
	out := buf.String()

	for _, want := range []string{"Processed", "no_contours", "cell_03.tiff", "2000 µs", "1.25"} {
		if !strings.Contains(out, want) {
			t.Errorf("Summary missing %q:\n%s", want, out)
		}
	}
}

func TestJSONReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONReporter(&buf)
	r.Report(processed())
	r.Report(skipped())
	r.Summary(models.BatchSummary{Processed: 1, Skipped: 1})

	var records []Record
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("Invalid JSON line %q: %v", scanner.Text(), err)
		}
		records = append(records, rec)
	}

	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	if records[0].Kind != KindResult || records[0].Result == nil || records[0].Result.Metrics.AreaOriginal != 792 {
		t.Errorf("Unexpected result record: %+v", records[0])
	}
	if records[1].Kind != KindSkip || records[1].Skip == nil || records[1].Skip.Reason != "no_contours" {
		t.Errorf("Unexpected skip record: %+v", records[1])
	}
	if records[2].Kind != KindSummary || records[2].Summary == nil || records[2].Summary.Processed != 1 {
		t.Errorf("Unexpected summary record: %+v", records[2])
	}
}
