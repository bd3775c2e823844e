// Command check-model verifies the external tooling the server depends
// on: ffmpeg/ffprobe, the processing scripts, the hosted model
// configuration, and the sqlite catalog when one is configured.
package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"

	"github.com/presnaplabs/presnap-vision/internal/catalog"
	"github.com/presnaplabs/presnap-vision/internal/config"
	"github.com/presnaplabs/presnap-vision/internal/inference"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	fmt.Println("Checking external dependencies")
	fmt.Println("==============================")

	ok := true

	if path, err := exec.LookPath("ffmpeg"); err == nil {
		fmt.Printf("✅ ffmpeg: %s\n", path)
	} else {
		fmt.Println("❌ ffmpeg not found in PATH (frame sampling unavailable)")
		ok = false
	}

	if path, err := exec.LookPath("ffprobe"); err == nil {
		fmt.Printf("✅ ffprobe: %s\n", path)
	} else {
		fmt.Println("⚠️  ffprobe not found (duration falls back to ffmpeg output parsing)")
	}

	checkScript := func(label, script string) {
		if script == "" {
			fmt.Printf("⚠️  %s not configured\n", label)
			return
		}
		if _, err := os.Stat(script); err != nil {
			fmt.Printf("❌ %s missing: %s\n", label, script)
			ok = false
			return
		}
		fmt.Printf("✅ %s: %s %s\n", label, cfg.PythonBin, script)
	}
	checkScript("video processing script", cfg.ProcessVideoScript)
	checkScript("image inference script", cfg.ImageInferenceScript)

	if cfg.RoboflowAPIKey == "" {
		fmt.Println("⚠️  ROBOFLOW_API_KEY not set (analysis endpoint disabled)")
	} else if _, err := inference.NewRoboflowClient(cfg.RoboflowAPIURL, cfg.RoboflowModelID, cfg.RoboflowAPIKey); err != nil {
		fmt.Printf("❌ detection model config invalid: %v\n", err)
		ok = false
	} else {
		fmt.Printf("✅ detection model: %s\n", cfg.RoboflowModelID)
	}

	if cfg.DBType == "sqlite" {
		store, err := catalog.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			fmt.Printf("❌ catalog database unusable: %v\n", err)
			ok = false
		} else {
			defer store.Close()
			records, err := store.ListNewestFirst()
			if err != nil {
				fmt.Printf("❌ catalog query failed: %v\n", err)
				ok = false
			} else {
				fmt.Printf("✅ catalog database: %s (%d records)\n", cfg.DBPath, len(records))
			}
		}
	} else {
		fmt.Println("✅ catalog backend: memory")
	}

	if !ok {
		os.Exit(1)
	}
	fmt.Println("\nAll required dependencies look good.")
}
