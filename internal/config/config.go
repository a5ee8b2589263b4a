package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// StorageConfig holds the local directories used for temporary files.
type StorageConfig struct {
	UploadDir     string
	ProcessedDir  string
	ChunkDir      string
	MaxUploadSize int64
}

// CleanupConfig holds retention thresholds and background cadence.
type CleanupConfig struct {
	// Regular is the age after which any temporary file is removed.
	Regular time.Duration
	// Urgent is the shorter age used for files already consumed by a download.
	Urgent        time.Duration
	SweepEvery    time.Duration
	DeletionGrace time.Duration
	DeletionQueue int
}

// ExtensionConfig holds the allowed file extensions (lowercase, without dot) per category.
type ExtensionConfig struct {
	Image    []string
	Video    []string
	Document []string
}

// ProcessingConfig holds compression defaults and the video worker pool settings.
type ProcessingConfig struct {
	WorkerCount         int
	WorkerQueueSize     int
	VideoAsync          bool
	FFmpegPath          string
	FFprobePath         string
	FFmpegPreset        string
	DefaultQuality      int
	DefaultResizeFactor float64
	DefaultCRF          int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables.
type AppConfig struct {
	Port            string
	Timezone        string
	LogLevel        string
	UploadRateLimit int
	ShutdownTimeout time.Duration
	Storage         StorageConfig
	Cleanup         CleanupConfig
	Extensions      ExtensionConfig
	Processing      ProcessingConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Port:            getEnv("PORT", "8080"),
		Timezone:        getEnv("APP_TIMEZONE", "UTC"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		UploadRateLimit: getEnvInt("UPLOAD_RATE_LIMIT", 60),
		ShutdownTimeout: getEnvSeconds("SHUTDOWN_TIMEOUT_SEC", 30),
		Storage: StorageConfig{
			UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
			ProcessedDir:  getEnv("PROCESSED_DIR", "processed"),
			ChunkDir:      getEnv("CHUNK_DIR", "chunks"),
			MaxUploadSize: getEnvInt64("MAX_UPLOAD_SIZE", 10*1024*1024*1024),
		},
		Cleanup: CleanupConfig{
			Regular:       getEnvSeconds("CLEANUP_INTERVAL_SEC", 600),
			Urgent:        getEnvSeconds("URGENT_CLEANUP_INTERVAL_SEC", 300),
			SweepEvery:    getEnvSeconds("SWEEP_EVERY_SEC", 60),
			DeletionGrace: getEnvSeconds("DELETION_GRACE_SEC", 30),
			DeletionQueue: getEnvInt("DELETION_QUEUE_SIZE", 256),
		},
		Extensions: ExtensionConfig{
			Image:    getEnvList("ALLOWED_IMAGE_EXTENSIONS", []string{"png", "jpg", "jpeg", "gif", "webp"}),
			Video:    getEnvList("ALLOWED_VIDEO_EXTENSIONS", []string{"mp4", "avi", "mov", "mkv", "wmv"}),
			Document: getEnvList("ALLOWED_DOCUMENT_EXTENSIONS", []string{"pdf", "doc", "docx", "ppt", "pptx", "xls", "xlsx"}),
		},
		Processing: ProcessingConfig{
			WorkerCount:         getEnvInt("WORKER_COUNT", 2),
			WorkerQueueSize:     getEnvInt("WORKER_QUEUE_SIZE", 32),
			VideoAsync:          getEnvBool("VIDEO_ASYNC", true),
			FFmpegPath:          getEnv("FFMPEG_PATH", "ffmpeg"),
			FFprobePath:         getEnv("FFPROBE_PATH", "ffprobe"),
			FFmpegPreset:        getEnv("FFMPEG_PRESET", "medium"),
			DefaultQuality:      getEnvInt("DEFAULT_QUALITY", 70),
			DefaultResizeFactor: getEnvFloat("DEFAULT_RESIZE_FACTOR", 0.8),
			DefaultCRF:          getEnvInt("DEFAULT_CRF", 28),
		},
	}
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

// getEnvSeconds reads a whole number of seconds. Negative values fall back to def.
func getEnvSeconds(key string, def int) time.Duration {
	n := getEnvInt(key, def)
	if n < 0 {
		n = def
	}
	return time.Duration(n) * time.Second
}

// getEnvList reads a comma-separated list, normalized to lowercase without leading dots.
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(item)), ".")
		if item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
