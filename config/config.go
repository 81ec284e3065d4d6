package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the environment-derived defaults for the pipeline. Values can
// be overridden per-run with command-line flags.
type Config struct {
	InputStream   string
	ListenAddr    string
	ModelPath     string
	ClassesPath   string
	ResultsDBPath string
	LogDirectory  string

	ClipLength        int
	AverageOverNClips int
	ResultNClips      int
	LoopRate          int
	TopK              int

	UseGPU     bool
	CropSize   int
	ResizeSize int

	FrameWidth  int
	FrameHeight int
}

// Load reads configuration from the environment, after loading a .env file
// when one is present.
func Load() *Config {
	godotenv.Load()

	return &Config{
		InputStream:   getEnv("INPUT_STREAM", "0"),
		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),
		ModelPath:     getEnv("MODEL_PATH", "models/activity_net.onnx"),
		ClassesPath:   getEnv("ACTIVITY_CLASSES_PATH", "models/activity_classes.txt"),
		ResultsDBPath: getEnv("RESULTS_DB_PATH", "results.db"),
		LogDirectory:  getEnv("LOG_DIR", ""),

		ClipLength:        getEnvAsInt("CLIP_LENGTH", 64),
		AverageOverNClips: getEnvAsInt("AVERAGE_OVER_N_CLIPS", 10),
		ResultNClips:      getEnvAsInt("RESULT_N_CLIPS", 150),
		LoopRate:          getEnvAsInt("LOOP_RATE", 10),
		TopK:              getEnvAsInt("TOP_K", 5),

		UseGPU:     getEnvAsBool("USE_GPU", false),
		CropSize:   getEnvAsInt("CROP_SIZE", 448),
		ResizeSize: getEnvAsInt("RESIZE_SIZE", 224),

		FrameWidth:  getEnvAsInt("FRAME_WIDTH", 1280),
		FrameHeight: getEnvAsInt("FRAME_HEIGHT", 720),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
