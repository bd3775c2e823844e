// Command analyze runs the frame-sampling pipeline against a local video
// file and prints the per-second predictions as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/presnaplabs/presnap-vision/internal/analysis"
	"github.com/presnaplabs/presnap-vision/internal/config"
	"github.com/presnaplabs/presnap-vision/internal/inference"
	"github.com/presnaplabs/presnap-vision/internal/observability"
)

func main() {
	var videoPath = flag.String("file", "", "Path to the video to analyze")
	flag.Parse()

	if *videoPath == "" {
		log.Fatal("Please provide a video path with -file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	zapLogger, err := observability.InitLogger(true)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	model, err := inference.NewRoboflowClient(cfg.RoboflowAPIURL, cfg.RoboflowModelID, cfg.RoboflowAPIKey)
	if err != nil {
		logger.Fatalw("failed to initialize detection model", "error", err)
	}

	extractor, err := analysis.NewFrameExtractor(logger)
	if err != nil {
		logger.Fatalw("failed to initialize frame extractor", "error", err)
	}

	pipeline := analysis.NewPipeline(extractor, model, cfg.FrameSize, logger)

	results, err := pipeline.Analyze(context.Background(), *videoPath)
	if err != nil {
		logger.Fatalw("analysis failed", "video", *videoPath, "error", err)
	}

	fmt.Fprintf(os.Stderr, "Analyzed %d frames\n", len(results))

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		logger.Fatalw("failed to encode results", "error", err)
	}
}
