package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	BackendGo     = "go"
	BackendOpenCV = "opencv"

	FormatText = "text"
	FormatJSON = "json"
)

type Config struct {
	ImageDir          string
	BackgroundName    string
	Extensions        []string
	Workers           int
	FinalDrainTimeout time.Duration
	Backend           string
	ReportFormat      string
	Strategy          string
	PipelineFile      string
	Progress          bool
	LogLevel          string
	LogFormat         string
}

// BackgroundPath returns the location of the shared background image.
func (c *Config) BackgroundPath() string {
	return filepath.Join(c.ImageDir, c.BackgroundName)
}

func LoadFromEnv() (*Config, error) {
	// Set defaults
	cfg := &Config{
		ImageDir:          getEnvOrDefault("INSPECTOR_IMAGE_DIR", "Test_images/Cropped"),
		BackgroundName:    getEnvOrDefault("INSPECTOR_BACKGROUND", "background.tiff"),
		Extensions:        parseListOrDefault("INSPECTOR_EXTENSIONS", []string{".tiff", ".tif"}),
		Workers:           int(parseIntOrDefault("INSPECTOR_WORKERS", 0)), // 0 = one per CPU
		FinalDrainTimeout: parseDurationOrDefault("INSPECTOR_DRAIN_TIMEOUT", time.Second),
		Backend:           getEnvOrDefault("INSPECTOR_BACKEND", BackendGo),
		ReportFormat:      getEnvOrDefault("INSPECTOR_REPORT_FORMAT", FormatText),
		Strategy:          getEnvOrDefault("INSPECTOR_STRATEGY", "standard"),
		PipelineFile:      os.Getenv("INSPECTOR_PIPELINE_FILE"),
		Progress:          parseBoolOrDefault("INSPECTOR_PROGRESS", false),
		LogLevel:          getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:         getEnvOrDefault("LOG_FORMAT", "json"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration after every source has been applied.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ImageDir) == "" {
		return fmt.Errorf("image directory must not be empty")
	}
	if strings.TrimSpace(c.BackgroundName) == "" || strings.ContainsRune(c.BackgroundName, os.PathSeparator) {
		return fmt.Errorf("invalid background file name: %q", c.BackgroundName)
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("at least one image extension is required")
	}
	for i, ext := range c.Extensions {
		c.Extensions[i] = normalizeExtension(ext)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0 (got %d)", c.Workers)
	}
	if c.FinalDrainTimeout <= 0 {
		return fmt.Errorf("drain timeout must be > 0 (got %s)", c.FinalDrainTimeout)
	}
	switch c.Backend {
	case BackendGo, BackendOpenCV:
	default:
		return fmt.Errorf("unsupported backend: %q", c.Backend)
	}
	switch c.ReportFormat {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("unsupported report format: %q", c.ReportFormat)
	}
	return nil
}

func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}

func parseListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
