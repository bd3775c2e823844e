package main

import (
	"log"
	"net/http"

	"github.com/presnaplabs/presnap-vision/internal/analysis"
	"github.com/presnaplabs/presnap-vision/internal/api"
	"github.com/presnaplabs/presnap-vision/internal/catalog"
	"github.com/presnaplabs/presnap-vision/internal/config"
	"github.com/presnaplabs/presnap-vision/internal/inference"
	"github.com/presnaplabs/presnap-vision/internal/observability"
	"github.com/presnaplabs/presnap-vision/internal/processing"
	"github.com/presnaplabs/presnap-vision/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	zapLogger, err := observability.InitLogger(cfg.DevLog)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	localStorage, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		logger.Fatalw("failed to initialize storage", "error", err)
	}

	var store catalog.Store
	if cfg.DBType == "sqlite" {
		sqliteStore, err := catalog.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			logger.Fatalw("failed to initialize catalog database", "error", err)
		}
		defer sqliteStore.Close()
		store = sqliteStore
	} else {
		store = catalog.NewMemoryStore()
	}

	preloaded, err := catalog.LoadPreloaded(store, cfg.PreloadedDir, "/videos")
	if err != nil {
		logger.Fatalw("failed to load preloaded media", "error", err)
	}
	logger.Infow("preloaded media loaded", "dir", cfg.PreloadedDir, "count", preloaded)

	app := &api.App{
		Logger:        logger,
		Store:         store,
		Storage:       localStorage,
		Metrics:       observability.NewMetrics(),
		MaxUploadSize: cfg.MaxUploadSize,
		UploadDir:     cfg.UploadDir,
		PreloadedDir:  cfg.PreloadedDir,
		StaticDir:     cfg.StaticDir,
	}

	jobs := processing.NewJobLimiter(cfg.MaxConcurrentJobs)

	if cfg.ProcessVideoScript != "" {
		videoProcessor, err := processing.NewScriptVideoProcessor(cfg.PythonBin, cfg.ProcessVideoScript, jobs, logger)
		if err != nil {
			logger.Fatalw("failed to initialize video processor", "error", err)
		}
		app.VideoProcessor = videoProcessor
		logger.Infow("video processing enabled", "script", cfg.ProcessVideoScript)
	} else {
		logger.Info("video processing disabled (PROCESS_VIDEO_SCRIPT not set)")
	}

	if cfg.ImageInferenceScript != "" {
		imageClassifier, err := processing.NewScriptImageClassifier(cfg.PythonBin, cfg.ImageInferenceScript, jobs, logger)
		if err != nil {
			logger.Fatalw("failed to initialize image classifier", "error", err)
		}
		app.ImageClassifier = imageClassifier
		logger.Infow("image classification enabled", "script", cfg.ImageInferenceScript)
	} else {
		logger.Info("image classification disabled (IMAGE_INFERENCE_SCRIPT not set)")
	}

	if cfg.RoboflowAPIKey != "" {
		model, err := inference.NewRoboflowClient(cfg.RoboflowAPIURL, cfg.RoboflowModelID, cfg.RoboflowAPIKey)
		if err != nil {
			logger.Fatalw("failed to initialize detection model", "error", err)
		}

		extractor, err := analysis.NewFrameExtractor(logger)
		if err != nil {
			logger.Warnw("frame extractor unavailable, analysis disabled", "error", err)
		} else {
			app.Analyzer = analysis.NewPipeline(extractor, model, cfg.FrameSize, logger)
			logger.Infow("video analysis enabled", "model", cfg.RoboflowModelID)
		}
	} else {
		logger.Info("video analysis disabled (ROBOFLOW_API_KEY not set)")
	}

	router := api.NewRouter(app)

	logger.Infow("server starting",
		"port", cfg.Port,
		"uploadDir", cfg.UploadDir,
		"catalog", cfg.DBType,
		"maxUploadSize", cfg.MaxUploadSize,
	)

	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		logger.Fatalw("server stopped", "error", err)
	}
}
