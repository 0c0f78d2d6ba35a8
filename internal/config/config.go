package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	CameraSource      string // Indeks urządzenia ("0") albo "udp::5000" dla kamer sieciowych
	CameraFPS         int
	UDPReadTimeoutMs  int
	ModelPath         string
	InferenceThreads  int
	KeypointThreshold float64
	Mirror            bool // Odbicie lustrzane klatki przed detekcją
	WindowName        string
	MarkerRadius      int
	DrawSkeleton      bool
	LogDirectory      string
	ViewerPort        int // 0 = serwer podglądu wyłączony
	ViewerToken       string
	DatabasePath      string // Pusta ścieżka = nagrywanie póz wyłączone
	RecordInterval    int    // Co którą zdekodowaną klatkę zapisywać
	RecordBufferLimit int
	StatsInterval     int // Co ile klatek logować statystyki
}

// Load reads configuration from the environment. Values from a .env file in
// the working directory are loaded first without overriding variables that
// are already set.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		CameraSource:      getEnv("CAMERA_SOURCE", "0"),
		CameraFPS:         getEnvAsInt("CAMERA_FPS", 30),
		UDPReadTimeoutMs:  getEnvAsInt("UDP_READ_TIMEOUT_MS", 1000),
		ModelPath:         getEnv("MODEL_PATH", filepath.Join(".", "resource", "posenet_mobilenet_v1_100_257x257_multi_kpt_stripped.tflite")),
		InferenceThreads:  getEnvAsInt("INFERENCE_THREADS", 1),
		KeypointThreshold: getEnvAsFloat("KEYPOINT_THRESHOLD", 0.25),
		Mirror:            getEnvAsBool("MIRROR", true),
		WindowName:        getEnv("WINDOW_NAME", "PoseNet"),
		MarkerRadius:      getEnvAsInt("MARKER_RADIUS", 5),
		DrawSkeleton:      getEnvAsBool("DRAW_SKELETON", false),
		LogDirectory:      getEnv("LOG_DIR", filepath.Join(".", "logs")),
		ViewerPort:        getEnvAsInt("VIEWER_PORT", 0),
		ViewerToken:       getEnv("VIEWER_TOKEN", ""),
		DatabasePath:      getEnv("DB_PATH", ""),
		RecordInterval:    getEnvAsInt("RECORD_INTERVAL", 15),
		RecordBufferLimit: getEnvAsInt("RECORD_BUFFER", 32),
		StatsInterval:     getEnvAsInt("STATS_INTERVAL", 300),
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
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
