package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("OCR_WORKERS", "4")
	t.Setenv("RASTER_DPI", "150")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("OCR_LANGUAGES", "eng+deu")
	t.Setenv("SPEECH_TIMEOUT", "30s")

	cfg := Load()

	assert.Equal(t, 4, cfg.Pipeline.Workers)
	assert.Equal(t, 150.0, cfg.Pipeline.DPI)
	assert.Equal(t, []string{"eng", "deu"}, cfg.Pipeline.OCRLanguages)
	assert.Equal(t, 30*time.Second, cfg.Speech.Timeout)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.False(t, cfg.MinIO.Enabled())
}

func TestLoad_APIKeyFallback(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "legacy-key")

	cfg := Load()
	assert.Equal(t, "legacy-key", cfg.Gemini.APIKey)

	t.Setenv("GEMINI_API_KEY", "new-key")
	cfg = Load()
	assert.Equal(t, "new-key", cfg.Gemini.APIKey)
}

func TestResolveOCREngine(t *testing.T) {
	cfg := &AppConfig{}

	cfg.Pipeline.OCREngine = "auto"
	assert.Equal(t, "tesseract", cfg.ResolveOCREngine())

	cfg.Gemini.APIKey = "key"
	assert.Equal(t, "gemini", cfg.ResolveOCREngine())

	cfg.Pipeline.OCREngine = "tesseract"
	assert.Equal(t, "tesseract", cfg.ResolveOCREngine())
}

func TestResolveSpeechProvider(t *testing.T) {
	cfg := &AppConfig{}

	cfg.Speech.Provider = ""
	assert.Equal(t, "google", cfg.ResolveSpeechProvider())

	cfg.Speech.OpenAIAPIKey = "sk-test"
	assert.Equal(t, "openai", cfg.ResolveSpeechProvider())

	cfg.Speech.Provider = "google"
	assert.Equal(t, "google", cfg.ResolveSpeechProvider())
}

func TestResolve_MixedCaseAndUnknownNames(t *testing.T) {
	cfg := &AppConfig{}
	cfg.Gemini.APIKey = "key"
	cfg.Speech.OpenAIAPIKey = "sk-test"

	cfg.Pipeline.OCREngine = "Tesseract"
	assert.Equal(t, "tesseract", cfg.ResolveOCREngine())

	cfg.Pipeline.OCREngine = " AUTO "
	assert.Equal(t, "gemini", cfg.ResolveOCREngine())

	cfg.Pipeline.OCREngine = "tesserect"
	assert.Equal(t, "tesserect", cfg.ResolveOCREngine())

	cfg.Speech.Provider = "Google"
	assert.Equal(t, "google", cfg.ResolveSpeechProvider())

	cfg.Speech.Provider = "gogle"
	assert.Equal(t, "gogle", cfg.ResolveSpeechProvider())
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvList(t *testing.T) {
	key := "TEST_LIST_VAR"
	def := []string{"eng"}

	t.Setenv(key, "eng, fra,,spa")
	assert.Equal(t, []string{"eng", "fra", "spa"}, getEnvList(key, def))

	t.Setenv(key, " , ")
	assert.Equal(t, def, getEnvList(key, def))

	t.Setenv(key, "")
	assert.Equal(t, def, getEnvList(key, def))
}
