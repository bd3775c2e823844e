package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	MaxUploadSize int64

	UploadDir    string
	PreloadedDir string
	StaticDir    string

	// Catalog backend: "memory" (default) or "sqlite".
	DBType string
	DBPath string

	RoboflowAPIURL  string
	RoboflowAPIKey  string
	RoboflowModelID string
	FrameSize       int

	PythonBin            string
	ProcessVideoScript   string
	ImageInferenceScript string
	MaxConcurrentJobs    int64

	DevLog bool
}

// Load reads configuration from the environment, after sourcing a .env
// file when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnv("PORT", "4000"),
		UploadDir:            getEnv("UPLOAD_DIR", "./uploads"),
		PreloadedDir:         getEnv("PRELOADED_DIR", "./public/videos"),
		StaticDir:            getEnv("STATIC_DIR", "./build"),
		DBType:               getEnv("DB_TYPE", "memory"),
		DBPath:               getEnv("DB_PATH", "./presnap.db"),
		RoboflowAPIURL:       os.Getenv("ROBOFLOW_API_URL"),
		RoboflowAPIKey:       os.Getenv("ROBOFLOW_API_KEY"),
		RoboflowModelID:      getEnv("ROBOFLOW_MODEL_ID", "football-presnap-tracker/6"),
		PythonBin:            getEnv("PYTHON_BIN", "python3"),
		ProcessVideoScript:   os.Getenv("PROCESS_VIDEO_SCRIPT"),
		ImageInferenceScript: os.Getenv("IMAGE_INFERENCE_SCRIPT"),
		DevLog:               os.Getenv("DEV_LOG") != "",
	}

	maxUploadSize, err := parseInt64(getEnv("MAX_UPLOAD_SIZE", "104857600"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_SIZE: %w", err)
	}
	cfg.MaxUploadSize = maxUploadSize

	frameSize, err := strconv.Atoi(getEnv("FRAME_SIZE", "1024"))
	if err != nil {
		return nil, fmt.Errorf("invalid FRAME_SIZE: %w", err)
	}
	cfg.FrameSize = frameSize

	maxJobs, err := parseInt64(getEnv("MAX_CONCURRENT_JOBS", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_CONCURRENT_JOBS: %w", err)
	}
	cfg.MaxConcurrentJobs = maxJobs

	if cfg.DBType != "memory" && cfg.DBType != "sqlite" {
		return nil, fmt.Errorf("unsupported DB_TYPE: %s", cfg.DBType)
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseInt64(val string) (int64, error) {
	return strconv.ParseInt(val, 10, 64)
}
