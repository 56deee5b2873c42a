package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/soffa-projects/folio-web/h"
	"github.com/soffa-projects/folio-web/i18n"
	"github.com/thoas/go-funk"
)

type Config struct {
	Env             string        `envconfig:"ENV" default:"development"`
	Port            int           `envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	BackendURL      string        `envconfig:"BACKEND_URL" default:"http://127.0.0.1:8000" validate:"required,url"`
	BackendTimeout  time.Duration `envconfig:"BACKEND_TIMEOUT" default:"10s"`
	SessionSecret   string        `envconfig:"SESSION_SECRET" validate:"required"`
	TokenSecret     string        `envconfig:"TOKEN_SECRET"`
	CsrfSecret      string        `envconfig:"CSRF_SECRET"`
	AllowOrigins    []string      `envconfig:"ALLOW_ORIGINS"`
	Languages       []string      `envconfig:"LANGUAGES" default:"en,ru,et" validate:"min=1,dive,required"`
	DefaultLanguage string        `envconfig:"DEFAULT_LANGUAGE" default:"en" validate:"required"`
	CacheProvider   string        `envconfig:"CACHE_PROVIDER" default:"memory"`
	CacheTTL        time.Duration `envconfig:"CACHE_TTL" default:"5m"`
	ContactEmail    string        `envconfig:"CONTACT_EMAIL" validate:"omitempty,email"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	MaxUploadBytes  int64         `envconfig:"MAX_UPLOAD_BYTES" default:"5242880" validate:"min=0"`
}

// Load reads .env (outside production) and the environment into a validated Config.
func Load() (Config, error) {
	var cfg Config
	if err := h.LoadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("unable to read environment: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	languages := make([]string, 0, len(c.Languages))
	for _, lang := range c.Languages {
		if lang = i18n.NormalizeLanguage(lang); lang != "" {
			languages = append(languages, lang)
		}
	}
	c.Languages = funk.UniqString(languages)
	c.DefaultLanguage = i18n.NormalizeLanguage(c.DefaultLanguage)
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if !funk.ContainsString(c.Languages, c.DefaultLanguage) {
		return fmt.Errorf("invalid configuration: default language %q is not one of %v", c.DefaultLanguage, c.Languages)
	}
	return nil
}

func (c Config) Production() bool {
	return h.IsProduction(c.Env)
}
