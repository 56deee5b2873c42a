package config

import (
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func TestLoad(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("SESSION_SECRET", "0123456789abcdef")
	t.Setenv("LANGUAGES", "EN, ru,et,ru")
	t.Setenv("BACKEND_TIMEOUT", "3s")

	cfg, err := Load()
	assert.Equal(t, err, nil)
	assert.Equal(t, cfg.Languages, []string{"en", "ru", "et"})
	assert.Equal(t, cfg.DefaultLanguage, "en")
	assert.Equal(t, cfg.BackendURL, "http://127.0.0.1:8000")
	assert.Equal(t, cfg.BackendTimeout, 3*time.Second)
	assert.Equal(t, cfg.CacheTTL, 5*time.Minute)
	assert.Equal(t, cfg.MaxUploadBytes, int64(5<<20))
	assert.Equal(t, cfg.Port, 8080)
	assert.Equal(t, cfg.Production(), true)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("SESSION_SECRET", "")

	_, err := Load()
	assert.NotEqual(t, err, nil)
}

func TestValidate(t *testing.T) {
	cfg := Config{
		Port:            8080,
		BackendURL:      "http://localhost:8000",
		SessionSecret:   "secret",
		Languages:       []string{"en", "ru"},
		DefaultLanguage: "et",
	}
	assert.NotEqual(t, cfg.Validate(), nil)

	cfg.DefaultLanguage = "ru"
	assert.Equal(t, cfg.Validate(), nil)

	cfg.BackendURL = "not a url"
	assert.NotEqual(t, cfg.Validate(), nil)

	cfg.BackendURL = "http://localhost:8000"
	cfg.ContactEmail = "nope"
	assert.NotEqual(t, cfg.Validate(), nil)
}
