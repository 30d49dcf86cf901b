package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.BackgroundName != "background.tiff" {
		t.Errorf("Expected background.tiff, got %s", cfg.BackgroundName)
	}
	if cfg.FinalDrainTimeout != time.Second {
		t.Errorf("Expected 1s drain timeout, got %s", cfg.FinalDrainTimeout)
	}
	if cfg.Backend != BackendGo || cfg.ReportFormat != FormatText {
		t.Errorf("Unexpected backend/format: %s/%s", cfg.Backend, cfg.ReportFormat)
	}
	if cfg.Strategy != "standard" {
		t.Errorf("Expected standard strategy, got %s", cfg.Strategy)
	}
	if len(cfg.Extensions) != 2 || cfg.Extensions[0] != ".tiff" {
		t.Errorf("Unexpected extensions: %v", cfg.Extensions)
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("INSPECTOR_IMAGE_DIR", "/data/run1")
	t.Setenv("INSPECTOR_WORKERS", "3")
	t.Setenv("INSPECTOR_DRAIN_TIMEOUT", "250ms")
	t.Setenv("INSPECTOR_EXTENSIONS", "PNG, tif")
	t.Setenv("INSPECTOR_REPORT_FORMAT", "json")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Workers != 3 {
		t.Errorf("Expected 3 workers, got %d", cfg.Workers)
	}
	if cfg.FinalDrainTimeout != 250*time.Millisecond {
		t.Errorf("Expected 250ms, got %s", cfg.FinalDrainTimeout)
	}
	if cfg.Extensions[0] != ".png" || cfg.Extensions[1] != ".tif" {
		t.Errorf("Expected normalized extensions, got %v", cfg.Extensions)
	}
	if got, want := cfg.BackgroundPath(), filepath.Join("/data/run1", "background.tiff"); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"negative workers", "INSPECTOR_WORKERS", "-2"},
		{"unknown backend", "INSPECTOR_BACKEND", "cuda"},
		{"unknown format", "INSPECTOR_REPORT_FORMAT", "xml"},
		{"nested background", "INSPECTOR_BACKGROUND", filepath.Join("sub", "bg.tiff")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := LoadFromEnv(); err == nil {
				t.Errorf("Expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
