package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultAPIURL = "https://detect.roboflow.com"

	dataURLPrefix = "data:image/jpeg;base64,"
)

// RoboflowClient calls a hosted Roboflow detection model. The serverless
// API takes the base64 image as the POST body and the key as a query
// parameter.
type RoboflowClient struct {
	apiURL     string
	modelID    string
	apiKey     string
	httpClient *http.Client
}

func NewRoboflowClient(apiURL, modelID, apiKey string) (*RoboflowClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("roboflow api key is required")
	}
	if modelID == "" {
		return nil, fmt.Errorf("roboflow model id is required")
	}
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	return &RoboflowClient{
		apiURL:  strings.TrimRight(apiURL, "/"),
		modelID: strings.Trim(modelID, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

func (c *RoboflowClient) Predict(ctx context.Context, imageDataURL string) (*Prediction, error) {
	payload := strings.TrimPrefix(imageDataURL, dataURLPrefix)

	endpoint := fmt.Sprintf("%s/%s?api_key=%s", c.apiURL, c.modelID, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var prediction Prediction
	if err := json.Unmarshal(body, &prediction); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &prediction, nil
}
