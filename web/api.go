package web

import (
	"net/http"
	"strings"

	f "github.com/soffa-projects/folio-web/core"
	"github.com/soffa-projects/folio-web/i18n"
)

type translationsResponse struct {
	Language     string            `json:"language"`
	DefaultsOnly bool              `json:"defaultsOnly"`
	Translations map[string]string `json:"translations"`
}

// TranslationsAPI returns the merged set of one language, flattened.
func TranslationsAPI(env f.ApplicationEnv) f.Handler {
	return f.Handler{
		Handle: func(c f.Context) any {
			lang := i18n.NormalizeLanguage(c.QueryParam("lang"))
			if lang == "" {
				lang = c.Language()
			}
			set := c.Translations()
			return f.JSON(http.StatusOK, translationsResponse{
				Language:     lang,
				DefaultsOnly: set.DefaultsOnly(),
				Translations: set.Flatten(lang),
			})
		},
	}
}

// requireSessionCsrf checks the csrf field for cookie sessions only; bearer
// callers never carry the session cookie.
func requireSessionCsrf(c f.Context) error {
	if strings.HasPrefix(strings.ToLower(c.Header("Authorization")), "bearer ") {
		return nil
	}
	return RequireCsrf(c)
}

func ReloadTranslations(env f.ApplicationEnv) f.Handler {
	return f.Handler{
		Pre:           []f.Middleware{requireSessionCsrf},
		Authenticated: true,
		Handle: func(c f.Context) any {
			set := env.Translations.Reload(c)
			return f.JSON(http.StatusOK, map[string]any{
				"defaultsOnly": set.DefaultsOnly(),
				"languages":    set.Languages(),
			})
		},
	}
}

// Health reports the backend reachability and whether overrides are in use.
func Health(env f.ApplicationEnv) f.Handler {
	return f.Handler{
		Handle: func(c f.Context) any {
			check := f.NewHealthCheck(env.AppInfo)
			check.Add("backend", func() error {
				return env.Backend.Ping(c)
			})
			if !env.Translations.Loaded() {
				check.Degrade("translations", "not loaded yet")
			} else if env.Translations.Current().DefaultsOnly() {
				check.Degrade("translations", "overrides unavailable, serving defaults")
			}
			res := check.Build()
			status := http.StatusOK
			if res.Status == f.StatusDown {
				status = http.StatusServiceUnavailable
			}
			return f.JSON(status, res)
		},
	}
}
