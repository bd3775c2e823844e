package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/presnaplabs/presnap-vision/internal/api"
	"github.com/presnaplabs/presnap-vision/internal/catalog"
	"github.com/presnaplabs/presnap-vision/internal/observability"
	"github.com/presnaplabs/presnap-vision/internal/processing"
	"github.com/presnaplabs/presnap-vision/internal/storage"
)

type testServer struct {
	Server       *httptest.Server
	App          *api.App
	UploadDir    string
	PreloadedDir string
}

func (ts *testServer) Cleanup() {
	ts.Server.Close()
}

// setupTestServer wires a full server: memory catalog, local storage over
// temp directories, and no external tools unless a test attaches them.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	uploadDir := t.TempDir()
	preloadedDir := t.TempDir()

	localStorage, err := storage.NewLocalStorage(uploadDir)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	app := &api.App{
		Logger:        zap.NewNop().Sugar(),
		Store:         catalog.NewMemoryStore(),
		Storage:       localStorage,
		Metrics:       observability.NewMetrics(),
		MaxUploadSize: 1 << 20,
		UploadDir:     uploadDir,
		PreloadedDir:  preloadedDir,
	}

	server := httptest.NewServer(api.NewRouter(app))
	ts := &testServer{
		Server:       server,
		App:          app,
		UploadDir:    uploadDir,
		PreloadedDir: preloadedDir,
	}
	t.Cleanup(ts.Cleanup)

	return ts
}

// attachShellClassifier wires an image classifier backed by a real shell
// script so the subprocess path is exercised end to end.
func attachShellClassifier(t *testing.T, ts *testServer, body string) {
	t.Helper()

	script := filepath.Join(t.TempDir(), "classify.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatalf("Failed to write classifier script: %v", err)
	}

	classifier, err := processing.NewScriptImageClassifier("/bin/sh", script, processing.NewJobLimiter(1), ts.App.Logger)
	if err != nil {
		t.Fatalf("Failed to create classifier: %v", err)
	}
	ts.App.ImageClassifier = classifier
}

func attachShellProcessor(t *testing.T, ts *testServer, body string) {
	t.Helper()

	script := filepath.Join(t.TempDir(), "process.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatalf("Failed to write processor script: %v", err)
	}

	processor, err := processing.NewScriptVideoProcessor("/bin/sh", script, processing.NewJobLimiter(1), ts.App.Logger)
	if err != nil {
		t.Fatalf("Failed to create processor: %v", err)
	}
	ts.App.VideoProcessor = processor
}

func createMultipartUpload(filename, contentType string, content []byte) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(content); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return body, writer.FormDataContentType(), nil
}

func uploadFile(t *testing.T, baseURL, filename, contentType string, content []byte) *http.Response {
	t.Helper()

	body, formContentType, err := createMultipartUpload(filename, contentType, content)
	if err != nil {
		t.Fatalf("Failed to create upload body: %v", err)
	}

	resp, err := http.Post(baseURL+"/api/upload", formContentType, body)
	if err != nil {
		t.Fatalf("Failed to perform upload: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func listMedia(t *testing.T, baseURL string) []catalog.MediaRecord {
	t.Helper()

	resp, err := http.Get(baseURL + "/api/videos")
	if err != nil {
		t.Fatalf("Failed to list media: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("List returned status %d", resp.StatusCode)
	}

	var records []catalog.MediaRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		t.Fatalf("Failed to decode list response: %v", err)
	}
	return records
}
