package api

import (
	"context"
	"encoding/json"
	"net/http"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/presnaplabs/presnap-vision/internal/analysis"
	"github.com/presnaplabs/presnap-vision/internal/catalog"
	"github.com/presnaplabs/presnap-vision/internal/observability"
	"github.com/presnaplabs/presnap-vision/internal/processing"
	"github.com/presnaplabs/presnap-vision/internal/storage"
)

const uploadField = "file"

// Analyzer runs the frame-sampling pipeline against a stored video.
type Analyzer interface {
	Analyze(ctx context.Context, videoPath string) ([]analysis.FramePrediction, error)
}

// App wires the handlers to their collaborators. VideoProcessor,
// ImageClassifier and Analyzer may be nil when the matching external tool
// is not configured; uploads then pass through unprocessed and analysis
// requests fail with a server error.
type App struct {
	Logger          *zap.SugaredLogger
	Store           catalog.Store
	Storage         storage.Storage
	VideoProcessor  processing.VideoProcessor
	ImageClassifier processing.ImageClassifier
	Analyzer        Analyzer
	Metrics         *observability.Metrics

	MaxUploadSize int64
	UploadDir     string
	PreloadedDir  string
	StaticDir     string
}

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

// UploadHandler accepts one multipart file, stores it, optionally runs it
// through the external processing tools, and catalogs the result.
func (app *App) UploadHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, app.MaxUploadSize)

	if err := r.ParseMultipartForm(app.MaxUploadSize); err != nil {
		http.Error(w, "File too large", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		http.Error(w, "No file uploaded.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	isVideo := strings.HasPrefix(contentType, "video/")

	filename, err := app.Storage.SaveFile(file, storage.FileInfo{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
	})
	if err != nil {
		app.Logger.Errorw("failed to save upload", "name", header.Filename, "error", err)
		app.Metrics.UploadFailures.Inc()
		http.Error(w, "Failed to save file", http.StatusInternalServerError)
		return
	}

	record := catalog.NewMediaRecord(header.Filename, "/uploads/"+filename, isVideo)

	if isVideo && app.VideoProcessor != nil {
		if err := app.processVideo(r.Context(), record, filename); err != nil {
			// Video processing failure is fatal: the record must never
			// point at an output that was not produced.
			app.Logger.Errorw("video processing failed", "name", header.Filename, "error", err)
			app.Metrics.UploadFailures.Inc()
			http.Error(w, "Error processing video.", http.StatusInternalServerError)
			return
		}
	} else if !isVideo && app.ImageClassifier != nil {
		// Image inference failure is non-fatal; the record keeps the raw
		// upload with the sentinel label.
		app.classifyImage(r.Context(), record, filename)
	}

	if err := app.Store.Insert(record); err != nil {
		app.Storage.DeleteFile(filename)
		app.Logger.Errorw("failed to insert media record", "name", header.Filename, "error", err)
		app.Metrics.UploadFailures.Inc()
		http.Error(w, "Failed to save media information", http.StatusInternalServerError)
		return
	}

	kind := "image"
	if isVideo {
		kind = "video"
	}
	app.Metrics.UploadsTotal.WithLabelValues(kind).Inc()

	app.writeJSON(w, record)
}

func (app *App) processVideo(ctx context.Context, record *catalog.MediaRecord, filename string) error {
	inputPath, err := app.Storage.FullPath(filename)
	if err != nil {
		return err
	}
	outputPath, err := app.Storage.FullPath(path.Join("processed", filename))
	if err != nil {
		return err
	}

	if err := app.VideoProcessor.Process(ctx, inputPath, outputPath); err != nil {
		return err
	}

	record.Path = "/uploads/processed/" + filename
	return nil
}

func (app *App) classifyImage(ctx context.Context, record *catalog.MediaRecord, filename string) {
	record.Formation = "UNKNOWN"

	imagePath, err := app.Storage.FullPath(filename)
	if err != nil {
		app.Logger.Warnw("failed to resolve image path", "name", record.Name, "error", err)
		return
	}

	formation, err := app.ImageClassifier.Classify(ctx, imagePath)
	if err != nil {
		app.Logger.Warnw("image classification failed, keeping sentinel", "name", record.Name, "error", err)
		return
	}

	record.Formation = formation
}

// ListMediaHandler returns the full catalog, newest first.
func (app *App) ListMediaHandler(w http.ResponseWriter, r *http.Request) {
	records, err := app.Store.ListNewestFirst()
	if err != nil {
		app.Logger.Errorw("failed to list media", "error", err)
		http.Error(w, "Error loading media", http.StatusInternalServerError)
		return
	}

	app.writeJSON(w, records)
}

// AnalyzeHandler stores the uploaded video and runs the frame-sampling
// pipeline over it, returning one prediction per sampled second.
func (app *App) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, app.MaxUploadSize)

	if err := r.ParseMultipartForm(app.MaxUploadSize); err != nil {
		http.Error(w, "File too large", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		http.Error(w, "No file uploaded.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if app.Analyzer == nil {
		app.Logger.Errorw("analysis requested but not configured", "name", header.Filename)
		http.Error(w, "Error analyzing video.", http.StatusInternalServerError)
		return
	}

	app.Metrics.AnalyzeRequests.Inc()

	filename, err := app.Storage.SaveFile(file, storage.FileInfo{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	})
	if err != nil {
		app.Logger.Errorw("failed to save video for analysis", "name", header.Filename, "error", err)
		app.Metrics.AnalyzeFailures.Inc()
		http.Error(w, "Failed to save file", http.StatusInternalServerError)
		return
	}

	videoPath, err := app.Storage.FullPath(filename)
	if err != nil {
		app.Metrics.AnalyzeFailures.Inc()
		http.Error(w, "Error analyzing video.", http.StatusInternalServerError)
		return
	}

	results, err := app.Analyzer.Analyze(r.Context(), videoPath)
	if err != nil {
		app.Logger.Errorw("video analysis failed", "name", header.Filename, "error", err)
		app.Metrics.AnalyzeFailures.Inc()
		http.Error(w, "Error analyzing video.", http.StatusInternalServerError)
		return
	}

	app.Metrics.FramesAnalyzed.Add(float64(len(results)))
	app.writeJSON(w, results)
}

func (app *App) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		app.Logger.Errorw("failed to write response", "error", err)
	}
}
