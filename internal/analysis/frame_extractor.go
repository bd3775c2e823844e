package analysis

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// FrameExtractor shells out to ffmpeg to sample a video at one frame per
// second. Each sampling run gets its own scratch directory so concurrent
// analyses never see each other's frames.
type FrameExtractor struct {
	ffmpegPath  string
	ffprobePath string
	scratchBase string
	logger      *zap.SugaredLogger
}

func NewFrameExtractor(logger *zap.SugaredLogger) (*FrameExtractor, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	// ffprobe is optional; duration falls back to parsing ffmpeg output.
	ffprobePath, err := exec.LookPath("ffprobe")
	if err != nil {
		ffprobePath = ""
	}

	scratchBase := filepath.Join(os.TempDir(), "presnap-frames")
	if err := os.MkdirAll(scratchBase, 0755); err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}

	logger.Infow("frame extractor ready", "ffmpeg", ffmpegPath, "scratch", scratchBase)

	return &FrameExtractor{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		scratchBase: scratchBase,
		logger:      logger,
	}, nil
}

// Duration returns the source video length in seconds.
func (fe *FrameExtractor) Duration(ctx context.Context, videoPath string) (float64, error) {
	if _, err := os.Stat(videoPath); err != nil {
		return 0, fmt.Errorf("video file not accessible: %w", err)
	}

	if fe.ffprobePath != "" {
		cmd := exec.CommandContext(ctx, fe.ffprobePath,
			"-v", "error",
			"-show_entries", "format=duration",
			"-of", "default=noprint_wrappers=1:nokey=1",
			videoPath)

		var stdout bytes.Buffer
		cmd.Stdout = &stdout

		if err := cmd.Run(); err == nil {
			durationStr := strings.TrimSpace(stdout.String())
			if duration, err := strconv.ParseFloat(durationStr, 64); err == nil && duration > 0 {
				return duration, nil
			}
		}
	}

	// Fallback: parse the "Duration: HH:MM:SS.ss" line from ffmpeg stderr.
	cmd := exec.CommandContext(ctx, fe.ffmpegPath,
		"-i", videoPath,
		"-f", "null",
		"-")

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	_ = cmd.Run()

	return parseFFmpegDuration(stderr.String())
}

func parseFFmpegDuration(output string) (float64, error) {
	durationPrefix := "Duration: "
	startIndex := strings.Index(output, durationPrefix)
	if startIndex == -1 {
		return 0, fmt.Errorf("duration not found in ffmpeg output")
	}

	startIndex += len(durationPrefix)
	endIndex := strings.Index(output[startIndex:], ",")
	if endIndex == -1 {
		return 0, fmt.Errorf("invalid duration format")
	}

	durationStr := output[startIndex : startIndex+endIndex]
	parts := strings.Split(durationStr, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid duration format: %s", durationStr)
	}

	hours, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, err
	}
	minutes, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, err
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, err
	}

	return hours*3600 + minutes*60 + seconds, nil
}

// SampleFrames extracts one frame per second into a fresh scratch
// directory and returns the directory plus the frame paths in temporal
// order. The caller owns the scratch directory and must remove it.
func (fe *FrameExtractor) SampleFrames(ctx context.Context, videoPath string) (string, []string, error) {
	scratchDir, err := os.MkdirTemp(fe.scratchBase, "analysis-")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}

	args := []string{
		"-i", videoPath,
		"-vf", "fps=1",
		"-q:v", "2",
		filepath.Join(scratchDir, "frame-%03d.jpg"),
	}

	cmd := exec.CommandContext(ctx, fe.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		fe.logger.Errorw("ffmpeg frame extraction failed", "video", videoPath, "stderr", stderr.String())
		return scratchDir, nil, fmt.Errorf("failed to extract frames: %w", err)
	}

	frames, err := listFrameFiles(scratchDir)
	if err != nil {
		return scratchDir, nil, err
	}

	fe.logger.Infow("extracted frames", "video", videoPath, "count", len(frames))
	return scratchDir, frames, nil
}

// listFrameFiles returns the .jpg files in dir sorted lexically. Frame
// names are zero padded, so lexical order equals temporal order.
func listFrameFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scratch directory: %w", err)
	}

	frames := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jpg") {
			continue
		}
		frames = append(frames, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(frames)

	return frames, nil
}
