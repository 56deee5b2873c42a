package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"

	"github.com/a-h/templ"
	f "github.com/soffa-projects/folio-web/core"
	"github.com/soffa-projects/folio-web/log"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Assets serves the stylesheet under /assets.
func Assets() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

var funcs = template.FuncMap{
	"join":  strings.Join,
	"upper": strings.ToUpper,
	"add": func(a, b int) int {
		return a + b
	},
}

var (
	pagesMu sync.Mutex
	pages   = map[string]*template.Template{}
)

// page parses templates/<name>.html together with the layout, once.
func page(name string) *template.Template {
	pagesMu.Lock()
	defer pagesMu.Unlock()
	if t, ok := pages[name]; ok {
		return t
	}
	t := template.Must(template.New("layout.html").Funcs(funcs).ParseFS(
		templatesFS, "templates/layout.html", fmt.Sprintf("templates/%s.html", name),
	))
	pages[name] = t
	return t
}

// View is the data every page template receives.
type View struct {
	c         f.Context
	Title     string
	Lang      string
	Languages []string
	User      string
	Csrf      string
	Flash     string
	Path      string
	Data      any
}

func (v View) T(key string) string {
	return v.c.T(key)
}

// Tf renders a message with its template data given as name/value pairs.
func (v View) Tf(key string, pairs ...any) string {
	data := make(map[string]any, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		data[fmt.Sprint(pairs[i])] = pairs[i+1]
	}
	return v.c.Tf(key, data)
}

func newView(c f.Context, titleKey string, data any) View {
	v := View{
		c:         c,
		Title:     c.T(titleKey),
		Lang:      c.Language(),
		Languages: c.Env().Languages,
		Csrf:      c.CsrfToken(),
		Path:      c.Path(),
		Data:      data,
	}
	if auth := c.Auth(); auth != nil {
		v.User = auth.Username
	}
	if flash, err := c.UseFlash(); err == nil {
		v.Flash = flash
	} else {
		log.Debug("unable to read flash: %v", err)
	}
	return v
}

func render(c f.Context, status int, name string, titleKey string, data any) f.HttpResponse {
	return f.Render(status, templ.FromGoHTML(page(name), newView(c, titleKey, data)))
}

// ErrorPage renders failed html requests in the visitor's language.
func ErrorPage(c f.Context, status int, message string) templ.Component {
	data := map[string]any{"Status": status, "Message": message}
	switch {
	case status == http.StatusNotFound:
		data["Message"] = c.T("errors.notFound")
	case status >= 500:
		data["Message"] = c.T("errors.backend")
	}
	return templ.FromGoHTML(page("error"), newView(c, "errors.title", data))
}
