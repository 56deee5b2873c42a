package h

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/soffa-projects/folio-web/log"
)

func IsProduction(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production"
}

// LoadEnv loads the .env file (outside production) and processes the environment into cfg.
func LoadEnv(cfg any, files ...string) error {
	if !IsProduction(os.Getenv("ENV")) {
		if len(files) == 0 {
			files = []string{".env"}
		}
		if err := godotenv.Load(files...); err != nil {
			log.Warn("unable to load %s: %v", strings.Join(files, ","), err)
		}
	}
	return envconfig.Process("", cfg)
}
