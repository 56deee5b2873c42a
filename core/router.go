package f

import (
	"context"
	"io/fs"
	"net/http"

	"github.com/a-h/templ"
)

type RouterConfig struct {
	AllowOrigins  []string
	AssetsFS      fs.FS
	SessionSecret string
	SessionMaxAge int
	BodyLimit     string
	Env           string
	Debug         bool
	// ErrorPage renders failed html handlers and unmatched routes.
	ErrorPage func(c Context, status int, message string) templ.Component
}

type HttpRouter interface {
	GET(path string, handler HandlerInit)
	POST(path string, handler HandlerInit)
	DELETE(path string, handler HandlerInit)
	PUT(path string, handler HandlerInit)
	PATCH(path string, handler HandlerInit)
}

type Router interface {
	HttpRouter
	Init(env ApplicationEnv)
	Handler() http.Handler
	Listen(port int)
	Shutdown(ctx context.Context) error
	Use(middleware Middleware)
	Group(path string, middlewares ...Middleware) RouterGroup
}

type RouterGroup interface {
	HttpRouter
}

type Middleware = func(Context) error

type Handler struct {
	Pre           []Middleware
	Authenticated bool
	// Html handlers answer errors with the error page instead of the json envelope.
	Html   bool
	Handle func(c Context) any
}

type HandlerInit func(env ApplicationEnv) Handler

type HttpResponse struct {
	Code        int
	File        bool
	Template    templ.Component
	Data        any
	ContentType string
	Filename    string
}

func (r HttpResponse) Error() string {
	if msg, ok := r.Data.(string); ok {
		return msg
	}
	return http.StatusText(r.Code)
}

type RedirectResponse struct {
	Code int
	Url  string
}

// Error lets a middleware stop the chain with a redirect.
func (r RedirectResponse) Error() string {
	return "redirect to " + r.Url
}

func Redirect(url string) RedirectResponse {
	return RedirectResponse{Code: http.StatusSeeOther, Url: url}
}

func Render(status int, template templ.Component) HttpResponse {
	return HttpResponse{Code: status, Template: template}
}

func JSON(status int, data any) HttpResponse {
	return HttpResponse{Code: status, Data: data}
}
