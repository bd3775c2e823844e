package inference

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewRoboflowClient(t *testing.T) {
	tests := []struct {
		name      string
		modelID   string
		apiKey    string
		expectErr bool
	}{
		{"valid", "football-presnap-tracker/6", "key", false},
		{"missing key", "football-presnap-tracker/6", "", true},
		{"missing model", "", "key", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRoboflowClient("", tt.modelID, tt.apiKey)
			if tt.expectErr && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestRoboflowPredict(t *testing.T) {
	var gotPath, gotQuery, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"time": 0.042,
			"predictions": [
				{"class": "qb", "confidence": 0.91, "x": 120.5, "y": 300, "width": 40, "height": 80},
				{"class": "wide_receiver", "confidence": 0.87, "x": 400, "y": 310, "width": 38, "height": 76}
			]
		}`))
	}))
	defer server.Close()

	client, err := NewRoboflowClient(server.URL, "football-presnap-tracker/6", "secret")
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	prediction, err := client.Predict(context.Background(), "data:image/jpeg;base64,aGVsbG8=")
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	if gotPath != "/football-presnap-tracker/6" {
		t.Errorf("Unexpected request path: %s", gotPath)
	}
	if gotQuery != "api_key=secret" {
		t.Errorf("Unexpected query: %s", gotQuery)
	}
	if gotBody != "aGVsbG8=" {
		t.Errorf("Expected data URL prefix stripped, got body %q", gotBody)
	}

	if len(prediction.Detections) != 2 {
		t.Fatalf("Expected 2 detections, got %d", len(prediction.Detections))
	}
	first := prediction.Detections[0]
	if first.Class != "qb" || first.Confidence != 0.91 {
		t.Errorf("Unexpected first detection: %+v", first)
	}
	if first.X != 120.5 || first.Height != 80 {
		t.Errorf("Unexpected bounding box: %+v", first)
	}
}

func TestRoboflowPredictAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"invalid api key"}`))
	}))
	defer server.Close()

	client, err := NewRoboflowClient(server.URL, "model/1", "bad")
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	if _, err := client.Predict(context.Background(), "aGVsbG8="); err == nil {
		t.Error("Expected error for non-200 response")
	}
}
