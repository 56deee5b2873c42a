package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soffa-projects/folio-web/app"
	"github.com/soffa-projects/folio-web/config"
	f "github.com/soffa-projects/folio-web/core"
	"github.com/soffa-projects/folio-web/log"
	"github.com/soffa-projects/folio-web/web"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("%v", err)
	}
	log.Configure(cfg.LogLevel, cfg.Production())

	application := app.New("folio-web", version, cfg.Env).
		WithConfig(cfg).
		WithBackend(cfg.BackendURL, cfg.BackendTimeout).
		WithCacheProvider(cfg.CacheProvider, cfg.CacheTTL).
		WithSecrets(cfg.TokenSecret, cfg.CsrfSecret).
		WithLanguages(cfg.DefaultLanguage, cfg.Languages...).
		WithContactEmail(cfg.ContactEmail).
		WithMaxUploadBytes(cfg.MaxUploadBytes).
		WithRouterConfig(f.RouterConfig{
			AllowOrigins:  cfg.AllowOrigins,
			AssetsFS:      web.Assets(),
			SessionSecret: cfg.SessionSecret,
			BodyLimit:     "32M",
			ErrorPage:     web.ErrorPage,
		}).
		Init(web.Features())

	go application.Start(cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	application.Shutdown(ctx)
}
