package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// PipelineConfig holds settings for the extraction pipeline.
type PipelineConfig struct {
	OCREngine    string // auto | tesseract | gemini
	OCRLanguages []string
	Workers      int
	DPI          float64
	Timeout      time.Duration
}

// GeminiConfig holds settings for the Gemini OCR engine.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// SpeechConfig holds settings for speech synthesis.
type SpeechConfig struct {
	Provider      string // auto | google | openai
	GoogleAPIKey  string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	OpenAIVoice   string
	Timeout       time.Duration
}

// MinIOConfig holds settings for the optional S3-compatible document source.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether an object store endpoint is configured.
func (c MinIOConfig) Enabled() bool {
	return c.Endpoint != ""
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost     string
	Port        string
	MaxUploadMB int
	Pipeline    PipelineConfig
	Gemini      GeminiConfig
	Speech      SpeechConfig
	MinIO       MinIOConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:     getEnv("APP_HOST", "localhost:8080"),
		Port:        getEnv("PORT", "8080"),
		MaxUploadMB: getEnvInt("MAX_UPLOAD_MB", 32),
		Pipeline: PipelineConfig{
			OCREngine:    strings.ToLower(getEnv("OCR_ENGINE", "auto")),
			OCRLanguages: getEnvList("OCR_LANGUAGES", []string{"eng"}),
			Workers:      getEnvInt("OCR_WORKERS", 1),
			DPI:          getEnvFloat("RASTER_DPI", 72),
			Timeout:      getEnvDuration("PIPELINE_TIMEOUT", 5*time.Minute),
		},
		Gemini: GeminiConfig{
			// API_KEY is the historical name of the Gemini key.
			APIKey: getEnv("GEMINI_API_KEY", getEnv("API_KEY", "")),
			Model:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		},
		Speech: SpeechConfig{
			Provider:      strings.ToLower(getEnv("SPEECH_PROVIDER", "auto")),
			GoogleAPIKey:  getEnv("GOOGLE_TTS_API_KEY", ""),
			OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
			OpenAIModel:   getEnv("OPENAI_TTS_MODEL", "tts-1"),
			OpenAIVoice:   getEnv("OPENAI_TTS_VOICE", "alloy"),
			Timeout:       getEnvDuration("SPEECH_TIMEOUT", 2*time.Minute),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

// ResolveOCREngine returns the concrete engine for the configured choice,
// lowercased. Empty or "auto" selects gemini when an API key is present,
// tesseract otherwise. Any other value is returned as is so callers can reject it.
func (c *AppConfig) ResolveOCREngine() string {
	engine := strings.ToLower(strings.TrimSpace(c.Pipeline.OCREngine))
	if engine != "" && engine != "auto" {
		return engine
	}
	if c.Gemini.APIKey != "" {
		return "gemini"
	}
	return "tesseract"
}

// ResolveSpeechProvider returns the concrete speech provider for the configured
// choice, lowercased. Empty or "auto" selects openai when an OpenAI key is
// present, google otherwise. Unknown values are returned as is.
func (c *AppConfig) ResolveSpeechProvider() string {
	provider := strings.ToLower(strings.TrimSpace(c.Speech.Provider))
	if provider != "" && provider != "auto" {
		return provider
	}
	if c.Speech.OpenAIAPIKey != "" {
		return "openai"
	}
	return "google"
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

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

// getEnvList splits a comma- or plus-separated value ("eng+deu" is Tesseract's own notation).
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	fields := strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == '+' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
