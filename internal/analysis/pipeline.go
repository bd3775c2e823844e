package analysis

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/presnaplabs/presnap-vision/internal/inference"
)

var ErrModelNotConfigured = errors.New("detection model is not configured")

// FramePrediction pairs a one-second frame ordinal with the model output
// for that frame. Timestamps are 1-indexed and consecutive.
type FramePrediction struct {
	Timestamp  int                   `json:"timestamp"`
	Prediction *inference.Prediction `json:"prediction"`
}

// FrameSampler probes and samples a source video. Implemented by
// FrameExtractor; split out so the pipeline is testable without ffmpeg.
type FrameSampler interface {
	Duration(ctx context.Context, videoPath string) (float64, error)
	SampleFrames(ctx context.Context, videoPath string) (string, []string, error)
}

// Pipeline runs the full per-video analysis: probe, sample at 1 fps, then
// one sequential model call per frame. Any failure aborts the run with no
// partial result.
type Pipeline struct {
	sampler   FrameSampler
	model     inference.Model
	frameSize int
	logger    *zap.SugaredLogger
}

func NewPipeline(sampler FrameSampler, model inference.Model, frameSize int, logger *zap.SugaredLogger) *Pipeline {
	return &Pipeline{
		sampler:   sampler,
		model:     model,
		frameSize: frameSize,
		logger:    logger,
	}
}

func (p *Pipeline) Analyze(ctx context.Context, videoPath string) ([]FramePrediction, error) {
	if p.model == nil {
		return nil, ErrModelNotConfigured
	}

	duration, err := p.sampler.Duration(ctx, videoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to probe video duration: %w", err)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("invalid video duration: %f", duration)
	}

	scratchDir, framePaths, err := p.sampler.SampleFrames(ctx, videoPath)
	if scratchDir != "" {
		defer os.RemoveAll(scratchDir)
	}
	if err != nil {
		return nil, err
	}
	if len(framePaths) == 0 {
		return nil, fmt.Errorf("no frames extracted from video")
	}

	results := make([]FramePrediction, 0, len(framePaths))
	for i, framePath := range framePaths {
		data, err := os.ReadFile(framePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read frame %d: %w", i+1, err)
		}

		dataURL, err := p.encodeFrame(data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode frame %d: %w", i+1, err)
		}

		prediction, err := p.model.Predict(ctx, dataURL)
		if err != nil {
			return nil, fmt.Errorf("prediction failed for frame %d: %w", i+1, err)
		}

		results = append(results, FramePrediction{Timestamp: i + 1, Prediction: prediction})

		if err := os.Remove(framePath); err != nil {
			p.logger.Warnw("failed to remove frame file", "path", framePath, "error", err)
		}
	}

	p.logger.Infow("analysis complete", "video", videoPath, "frames", len(results))
	return results, nil
}

// encodeFrame downscales oversized frames and returns a JPEG data URL.
// Hosted detection models cap payload size, so frames are fit into a
// frameSize square before encoding.
func (p *Pipeline) encodeFrame(data []byte) (string, error) {
	if p.frameSize > 0 {
		img, err := imaging.Decode(bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("failed to decode frame: %w", err)
		}

		bounds := img.Bounds()
		if bounds.Dx() > p.frameSize || bounds.Dy() > p.frameSize {
			img = imaging.Fit(img, p.frameSize, p.frameSize, imaging.Lanczos)
		}

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
			return "", fmt.Errorf("failed to encode frame: %w", err)
		}
		data = buf.Bytes()
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data), nil
}
