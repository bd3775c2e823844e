// Package processing wraps the external computer-vision tools invoked per
// upload. Both adapters share a weighted semaphore so a burst of uploads
// cannot fork an unbounded number of subprocesses.
package processing

import "context"

// VideoProcessor renders an annotated copy of a video. Processing is
// blocking; a nil error guarantees outputPath exists.
type VideoProcessor interface {
	Process(ctx context.Context, inputPath, outputPath string) error
}

// ImageClassifier labels the formation shown in a still image.
type ImageClassifier interface {
	Classify(ctx context.Context, imagePath string) (string, error)
}
