package inference

import "context"

// Detection is one object found in a frame. Coordinates are center-based,
// as returned by the detection API.
type Detection struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
}

// Prediction is the parsed result of a single inference call.
type Prediction struct {
	InferenceTime float64     `json:"time"`
	Detections    []Detection `json:"predictions"`
}

// Model is a hosted detection model that accepts a JPEG data URL.
type Model interface {
	Predict(ctx context.Context, imageDataURL string) (*Prediction, error)
}
