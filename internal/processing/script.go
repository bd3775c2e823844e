package processing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// NewJobLimiter returns the semaphore shared by all script adapters.
func NewJobLimiter(maxConcurrent int64) *semaphore.Weighted {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return semaphore.NewWeighted(maxConcurrent)
}

// ScriptVideoProcessor runs an external tool as
// "<interpreter> <script> <input> <output>".
type ScriptVideoProcessor struct {
	interpreter string
	script      string
	jobs        *semaphore.Weighted
	logger      *zap.SugaredLogger
}

func NewScriptVideoProcessor(interpreter, script string, jobs *semaphore.Weighted, logger *zap.SugaredLogger) (*ScriptVideoProcessor, error) {
	if _, err := os.Stat(script); err != nil {
		return nil, fmt.Errorf("video processing script not found: %w", err)
	}
	return &ScriptVideoProcessor{
		interpreter: interpreter,
		script:      script,
		jobs:        jobs,
		logger:      logger,
	}, nil
}

func (p *ScriptVideoProcessor) Process(ctx context.Context, inputPath, outputPath string) error {
	if err := p.jobs.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("failed to acquire processing slot: %w", err)
	}
	defer p.jobs.Release(1)

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	cmd := exec.CommandContext(ctx, p.interpreter, p.script, inputPath, outputPath)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	p.logger.Infow("processing video", "input", inputPath, "output", outputPath)

	if err := cmd.Run(); err != nil {
		p.logger.Errorw("video processing failed", "input", inputPath, "stderr", stderr.String())
		return fmt.Errorf("video processing failed: %w", err)
	}

	// A zero exit with no output file still counts as a failure; the
	// catalog must never reference a path that does not exist.
	if _, err := os.Stat(outputPath); err != nil {
		return fmt.Errorf("processed output missing: %w", err)
	}

	return nil
}

// ScriptImageClassifier runs an external tool as
// "<interpreter> <script> <image>" and reads the formation label from
// stdout.
type ScriptImageClassifier struct {
	interpreter string
	script      string
	jobs        *semaphore.Weighted
	logger      *zap.SugaredLogger
}

func NewScriptImageClassifier(interpreter, script string, jobs *semaphore.Weighted, logger *zap.SugaredLogger) (*ScriptImageClassifier, error) {
	if _, err := os.Stat(script); err != nil {
		return nil, fmt.Errorf("image inference script not found: %w", err)
	}
	return &ScriptImageClassifier{
		interpreter: interpreter,
		script:      script,
		jobs:        jobs,
		logger:      logger,
	}, nil
}

func (c *ScriptImageClassifier) Classify(ctx context.Context, imagePath string) (string, error) {
	if err := c.jobs.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("failed to acquire processing slot: %w", err)
	}
	defer c.jobs.Release(1)

	cmd := exec.CommandContext(ctx, c.interpreter, c.script, imagePath)

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			c.logger.Errorw("image classification failed", "image", imagePath, "stderr", string(exitErr.Stderr))
		} else {
			c.logger.Errorw("image classification failed", "image", imagePath, "error", err)
		}
		return "", fmt.Errorf("image classification failed: %w", err)
	}

	formation := strings.TrimSpace(string(output))
	if formation == "" {
		return "", fmt.Errorf("image classifier produced no output")
	}

	return formation, nil
}
