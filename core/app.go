package f

import (
	"context"
)

type App interface {
	Start(port int)
	Shutdown(ctx context.Context)
	Router() Router
	Env() ApplicationEnv
	InstanceId() string
}

type AppInfo struct {
	Name      string
	Version   string
	PublicURL string
}

type AppConfig = any

type Feature struct {
	Name      string
	DependsOn []Feature
	OnInit    func(c InitContext)
}

type InitContext struct {
	InstanceId string
	Config     AppConfig
	Env        ApplicationEnv
	Router     Router
}

// ApplicationEnv is what every handler receives. It is built once by the app
// builder and never modified afterwards.
type ApplicationEnv struct {
	AppInfo         AppInfo
	Production      bool
	Backend         Backend
	Translations    Translations
	Editor          TranslationEditor
	Localizer       Localizer
	Csrf            CsrfTokenProvider
	Tokens          TokenInspector
	Cache           CacheProvider
	Languages       []string
	DefaultLanguage string
	ContactEmail    string
	MaxUploadBytes  int64
}
