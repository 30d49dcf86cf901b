package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/anime-shed/contour-inspector-go/internal/config"
	"github.com/anime-shed/contour-inspector-go/internal/container"
	"github.com/anime-shed/contour-inspector-go/internal/logger"
)

func main() {
	// Environment first, flags override
	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load config")
	}

	extensions := strings.Join(cfg.Extensions, ",")
	flag.StringVar(&cfg.ImageDir, "dir", cfg.ImageDir, "Directory containing the images to analyze")
	flag.StringVar(&cfg.BackgroundName, "background", cfg.BackgroundName, "Background image file name inside -dir")
	flag.StringVar(&extensions, "ext", extensions, "Comma-separated image extensions")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of workers (0 = one per CPU)")
	flag.StringVar(&cfg.Backend, "backend", cfg.Backend, "Vision backend: go or opencv")
	flag.StringVar(&cfg.ReportFormat, "format", cfg.ReportFormat, "Report format: text or json")
	flag.StringVar(&cfg.Strategy, "strategy", cfg.Strategy, "Pipeline preset: standard or open_close")
	flag.StringVar(&cfg.PipelineFile, "pipeline", cfg.PipelineFile, "YAML file overriding pipeline tuning")
	flag.DurationVar(&cfg.FinalDrainTimeout, "drain-timeout", cfg.FinalDrainTimeout, "Bound on the final result drain")
	flag.BoolVar(&cfg.Progress, "progress", cfg.Progress, "Show a progress bar on stderr")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	flag.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: json or text")
	flag.Parse()

	cfg.Extensions = strings.Split(extensions, ",")
	logger.Configure(cfg.LogLevel, cfg.LogFormat)

	c, err := container.NewContainer(cfg, os.Stdout)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize container")
	}

	summary, err := c.Run(context.Background())
	if err != nil {
		logger.WithError(err).Fatal("Batch aborted")
	}

	logger.WithFields(logrus.Fields{
		"processed": summary.Processed,
		"skipped":   summary.Skipped,
		"wall_time": summary.WallTime,
	}).Info("Batch finished")
}
