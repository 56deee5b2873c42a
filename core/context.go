package f

import (
	"context"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/soffa-projects/folio-web/i18n"
)

type Authentication struct {
	Username  string
	ExpiresAt time.Time
}

type Context interface {
	context.Context
	Env() ApplicationEnv
	Request() *http.Request
	RealIP() string
	UserAgent() string
	Host() string
	Path() string

	Param(value string) string
	QueryParam(value string) string
	FormValue(value string) string
	Header(value string) string
	FormFiles(field string) ([]*multipart.FileHeader, error)
	// Bind panics with a 400 when the input is invalid, ShouldBind returns the error.
	Bind(input any)
	ShouldBind(input any) error

	Cookie(name string) string
	SetCookie(name string, value string, maxAge time.Duration)

	Language() string
	SetLanguage(code string)
	Translations() *i18n.Set
	T(key string) string
	Tf(key string, data map[string]any) string

	Auth() *Authentication
	AuthToken() string
	SetAuthToken(token string) error
	ClearAuthToken() error

	Session(key string) string
	SetSession(key string, value string) error
	SetFlash(value string) error
	UseFlash() (string, error)

	CsrfToken() string

	Get(key string) any
	Set(key string, value any)
	WithValue(key, value any) Context
}

type bearerKey struct{}

// WithBearer attaches the admin token to ctx; the backend client sends it as
// the Authorization header.
func WithBearer(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, bearerKey{}, token)
}

func BearerFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	token, _ := ctx.Value(bearerKey{}).(string)
	return token
}
