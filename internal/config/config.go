package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Auth
	TextpubAPIKey string

	// LLM cleaner
	LLMProvider     string
	AnthropicAPIKey string
	AnthropicModel  string
	GeminiAPIKey    string
	GeminiModel     string
	AISegmentChars  int
	AIRequestDelay  time.Duration

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool

	// EPUB defaults
	DefaultLanguage string
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables take precedence over it.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "8090"),

		TextpubAPIKey: os.Getenv("TEXTPUB_API_KEY"),

		LLMProvider:     strings.ToLower(envOr("LLM_PROVIDER", "gemini")),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     envOr("GEMINI_MODEL", "gemini-2.0-flash"),
		AISegmentChars:  envInt("AI_SEGMENT_CHARS", 10000),
		AIRequestDelay:  envDuration("AI_REQUEST_DELAY", 1*time.Second),

		WorkerCount:  envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		DefaultLanguage: envOr("DEFAULT_LANGUAGE", "en"),
	}

	if cfg.AISegmentChars <= 0 {
		cfg.AISegmentChars = 10000
	}
	if cfg.AIRequestDelay < 0 {
		cfg.AIRequestDelay = 0
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

// Validate checks settings the HTTP server cannot run without.
// LLM keys are optional; without one the AI cleaner is disabled.
func (c Config) Validate() error {
	if c.TextpubAPIKey == "" {
		return fmt.Errorf("TEXTPUB_API_KEY is required")
	}
	switch c.LLMProvider {
	case "anthropic", "claude", "gemini", "google":
	default:
		return fmt.Errorf("LLM_PROVIDER must be anthropic or gemini, got %q", c.LLMProvider)
	}
	return nil
}

// LLMAPIKey returns the key for the selected provider.
func (c Config) LLMAPIKey() string {
	switch c.LLMProvider {
	case "anthropic", "claude":
		return c.AnthropicAPIKey
	default:
		return c.GeminiAPIKey
	}
}

// LLMModel returns the model for the selected provider.
func (c Config) LLMModel() string {
	switch c.LLMProvider {
	case "anthropic", "claude":
		return c.AnthropicModel
	default:
		return c.GeminiModel
	}
}

// AIEnabled reports whether the AI cleaner can be offered.
func (c Config) AIEnabled() bool {
	return c.LLMAPIKey() != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
