package main

import (
	"flag"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"github.com/anime-shed/contour-inspector-go/internal/logger"
	"github.com/anime-shed/contour-inspector-go/internal/vision"
)

func main() {
	input := flag.String("in", "", "Input image (required)")
	output := flag.String("out", "", "Output image; format follows the extension (required)")
	target := flag.Float64("target", 128, "Target mean grey level in (0, 255]")
	flag.Parse()

	if *input == "" || *output == "" {
		flag.Usage()
		logger.Logger.Fatal("both -in and -out are required")
	}

	img, err := imaging.Open(*input)
	if err != nil {
		logger.WithError(err).WithField("path", *input).Fatal("Failed to open image")
	}

	before := vision.MeanIntensity(vision.ToGray(img))
	adjusted, factor, err := vision.NormalizeBrightness(img, *target)
	if err != nil {
		logger.WithError(err).Fatal("Failed to normalize brightness")
	}

	if err := imaging.Save(adjusted, *output); err != nil {
		logger.WithError(err).WithField("path", *output).Fatal("Failed to save image")
	}

	after := vision.MeanIntensity(vision.ToGray(adjusted))
	logger.WithFields(logrus.Fields{
		"factor": factor,
		"before": before,
		"after":  after,
	}).Debug("Brightness normalized")
	fmt.Printf("Mean brightness %.2f -> %.2f (scale %.4f), saved to %s\n", before, after, factor, *output)
}
