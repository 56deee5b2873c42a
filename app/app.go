package app

import (
	"context"
	"time"

	"github.com/soffa-projects/folio-web/adapters"
	f "github.com/soffa-projects/folio-web/core"
	"github.com/soffa-projects/folio-web/h"
	"github.com/soffa-projects/folio-web/i18n"
	"github.com/soffa-projects/folio-web/log"
	"github.com/thoas/go-funk"
)

const initialLoadTimeout = 15 * time.Second

type builderConfig struct {
	appName         string
	appVersion      string
	envName         string
	publicURL       string
	backendURL      string
	backendTimeout  time.Duration
	backend         f.Backend
	cacheProvider   string
	cacheTTL        time.Duration
	tokenSecret     string
	csrfSecret      string
	languages       []string
	defaultLanguage string
	contactEmail    string
	maxUploadBytes  int64
	config          any
	routerConfig    f.RouterConfig
	instanceId      string
}

type AppBuilder struct {
	config builderConfig
}

type appImpl struct {
	router     f.Router
	env        f.ApplicationEnv
	instanceId string
}

func (app *appImpl) Start(port int) {
	log.Info("starting webserver on port %d...", port)
	app.router.Listen(port)
}

func (app *appImpl) Router() f.Router {
	return app.router
}

func (app *appImpl) Env() f.ApplicationEnv {
	return app.env
}

func (app *appImpl) InstanceId() string {
	return app.instanceId
}

func (app *appImpl) Shutdown(ctx context.Context) {
	if err := app.router.Shutdown(ctx); err != nil {
		log.Error("error shutting down server: %v", err)
	}
	if app.env.Cache != nil {
		if err := app.env.Cache.Close(); err != nil {
			log.Error("error closing cache provider: %v", err)
		}
	}
	log.Info("shutdown complete")
}

func New(name string, version string, envName string) AppBuilder {
	return AppBuilder{
		config: builderConfig{
			appName:         name,
			appVersion:      version,
			envName:         envName,
			backendTimeout:  10 * time.Second,
			cacheTTL:        5 * time.Minute,
			languages:       []string{"en", "ru", "et"},
			defaultLanguage: "en",
			maxUploadBytes:  5 << 20,
			instanceId:      h.RandomString(32),
		},
	}
}

// Init wires the providers, loads the translations once and registers the
// routes of every feature, dependencies first.
func (app AppBuilder) Init(features []f.Feature) f.App {
	cfg := app.config
	production := h.IsProduction(cfg.envName)

	backend := cfg.backend
	if backend == nil {
		if funk.IsEmpty(cfg.backendURL) {
			log.Fatal("a backend url is required")
		}
		backend = adapters.NewBackendClient(cfg.backendURL, cfg.backendTimeout)
	}

	cache, err := adapters.NewCacheProvider(cfg.cacheProvider)
	if err != nil {
		log.Fatal("failed to create cache provider: %v", err)
	}
	if err := cache.Init(); err != nil {
		log.Fatal("failed to initialize cache provider: %v", err)
	}
	backend = adapters.NewCachedBackend(backend, cache, cfg.cacheTTL)

	store := i18n.NewStore(backend, i18n.Defaults())
	ctx, cancel := context.WithTimeout(context.Background(), initialLoadTimeout)
	set := store.Load(ctx)
	cancel()
	log.With(log.Fields{
		"languages":    set.Languages(),
		"defaultsOnly": set.DefaultsOnly(),
	}).Info("translations ready")

	env := f.ApplicationEnv{
		AppInfo: f.AppInfo{
			Name:      cfg.appName,
			Version:   cfg.appVersion,
			PublicURL: cfg.publicURL,
		},
		Production:      production,
		Backend:         backend,
		Translations:    store,
		Editor:          i18n.NewEditor(backend, store),
		Localizer:       adapters.NewLocalizer(cfg.defaultLanguage),
		Csrf:            adapters.NewCsrfTokenProvider(cfg.csrfSecret),
		Tokens:          adapters.NewTokenInspector(cfg.tokenSecret),
		Cache:           cache,
		Languages:       cfg.languages,
		DefaultLanguage: cfg.defaultLanguage,
		ContactEmail:    cfg.contactEmail,
		MaxUploadBytes:  cfg.maxUploadBytes,
	}

	routerConfig := cfg.routerConfig
	routerConfig.Env = cfg.envName
	routerConfig.Debug = !production
	router := adapters.NewEchoRouter(&routerConfig)
	router.Init(env)

	initContext := f.InitContext{
		InstanceId: cfg.instanceId,
		Config:     cfg.config,
		Env:        env,
		Router:     router,
	}
	for _, feature := range checkFeatures(features...) {
		if feature.OnInit == nil {
			log.Fatal("feature %s has no init function", feature.Name)
		}
		feature.OnInit(initContext)
	}

	return &appImpl{
		router:     router,
		env:        env,
		instanceId: cfg.instanceId,
	}
}

func (app AppBuilder) WithInstanceId(id string) AppBuilder {
	app.config.instanceId = id
	return app
}

func (app AppBuilder) WithPublicURL(url string) AppBuilder {
	app.config.publicURL = url
	return app
}

func (app AppBuilder) WithConfig(config any) AppBuilder {
	app.config.config = config
	return app
}

func (app AppBuilder) WithBackend(url string, timeout time.Duration) AppBuilder {
	app.config.backendURL = url
	if timeout > 0 {
		app.config.backendTimeout = timeout
	}
	return app
}

// WithBackendImpl replaces the http client, the cache is still applied.
func (app AppBuilder) WithBackendImpl(backend f.Backend) AppBuilder {
	app.config.backend = backend
	return app
}

func (app AppBuilder) WithCacheProvider(provider string, ttl time.Duration) AppBuilder {
	app.config.cacheProvider = provider
	if ttl > 0 {
		app.config.cacheTTL = ttl
	}
	return app
}

func (app AppBuilder) WithSecrets(tokenSecret string, csrfSecret string) AppBuilder {
	app.config.tokenSecret = tokenSecret
	app.config.csrfSecret = csrfSecret
	return app
}

func (app AppBuilder) WithLanguages(defaultLanguage string, languages ...string) AppBuilder {
	app.config.defaultLanguage = defaultLanguage
	if len(languages) > 0 {
		app.config.languages = languages
	}
	return app
}

func (app AppBuilder) WithContactEmail(email string) AppBuilder {
	app.config.contactEmail = email
	return app
}

func (app AppBuilder) WithMaxUploadBytes(limit int64) AppBuilder {
	app.config.maxUploadBytes = limit
	return app
}

func (app AppBuilder) WithRouterConfig(cfg f.RouterConfig) AppBuilder {
	app.config.routerConfig = cfg
	return app
}

func checkFeatures(features ...f.Feature) []f.Feature {
	featureMap := make(map[string]bool, len(features))
	loadedFeatures := []f.Feature{}
	for _, feature := range features {
		if feature.Name == "" {
			log.Fatal("feature name is required")
		}
		if _, ok := featureMap[feature.Name]; ok {
			log.Fatal("feature name %s is already registered", feature.Name)
		}
		featureMap[feature.Name] = true
		loadedFeatures = append(loadedFeatures, feature)
	}
	// pull in dependencies that were not listed, transitively
	for i := 0; i < len(loadedFeatures); i++ {
		for _, dep := range loadedFeatures[i].DependsOn {
			if _, ok := featureMap[dep.Name]; !ok {
				loadedFeatures = append(loadedFeatures, dep)
				featureMap[dep.Name] = true
			}
		}
	}
	return orderFeatures(loadedFeatures)
}

func orderFeatures(features []f.Feature) []f.Feature {
	featureMap := make(map[string]f.Feature, len(features))
	indegree := make(map[string]int, len(features))
	graph := make(map[string][]string)

	for _, feature := range features {
		featureMap[feature.Name] = feature
		indegree[feature.Name] = 0
	}
	for _, feature := range features {
		for _, dep := range feature.DependsOn {
			graph[dep.Name] = append(graph[dep.Name], feature.Name)
			indegree[feature.Name]++
		}
	}

	// keep the registration order among features that are ready
	queue := make([]string, 0)
	for _, feature := range features {
		if indegree[feature.Name] == 0 {
			queue = append(queue, feature.Name)
		}
	}

	var ordered []f.Feature
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		ordered = append(ordered, featureMap[name])
		for _, next := range graph[name] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(ordered) != len(features) {
		log.Fatal("cyclic dependency detected - %v  / %v", len(ordered), len(features))
	}
	return ordered
}
