package test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/labstack/echo/v4"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
	f "github.com/soffa-projects/folio-web/core"
	"github.com/soffa-projects/folio-web/h"
	"github.com/soffa-projects/folio-web/i18n"
)

const (
	FakeUsername = "admin"
	FakePassword = "secret"
	FakeSecret   = "fake-backend-secret"
)

// FakeBackend serves the portfolio API from memory.
type FakeBackend struct {
	Server *httptest.Server
	URL    string

	mu        sync.Mutex
	overrides []i18n.Override
	projects  map[int]f.Project
	nextId    int
	cv        f.CV
	messages  []f.ContactMessage
	uploads   []string
	calls     map[string]int
	failing   map[string]int
	down      bool
}

func NewFakeBackend(t *testing.T) *FakeBackend {
	fb := &FakeBackend{
		projects: map[int]f.Project{},
		calls:    map[string]int{},
		failing:  map[string]int{},
		nextId:   1,
	}
	e := echo.New()
	e.HideBanner = true
	e.Use(fb.track)

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Welcome to the Portfolio API"})
	})
	e.GET("/translations", fb.listTranslations)
	e.POST("/translations", fb.updateTranslations, fb.authenticated)
	e.POST("/token", fb.login)
	e.GET("/auth/verify", fb.verify, fb.authenticated)
	e.GET("/projects/", fb.listProjects)
	e.GET("/projects/:id", fb.getProject)
	e.POST("/projects/", fb.createProject, fb.authenticated)
	e.PUT("/projects/:id", fb.updateProject, fb.authenticated)
	e.DELETE("/projects/:id", fb.deleteProject, fb.authenticated)
	e.GET("/cv", fb.getCV)
	e.PUT("/cv", fb.updateCV, fb.authenticated)
	e.POST("/contact", fb.contact)
	e.POST("/upload", fb.upload, fb.authenticated)

	fb.Server = httptest.NewServer(e)
	fb.URL = fb.Server.URL
	t.Cleanup(fb.Close)
	return fb
}

func (fb *FakeBackend) Close() {
	fb.Server.Close()
}

// ------------------------------------------------------------------------------------------------------------------
// FIXTURES & TOGGLES
// ------------------------------------------------------------------------------------------------------------------

func (fb *FakeBackend) AddOverride(language string, key string, value string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.overrides = append(fb.overrides, i18n.Override{ID: len(fb.overrides) + 1, Language: language, Key: key, Value: value})
}

func (fb *FakeBackend) Overrides() []i18n.Override {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]i18n.Override{}, fb.overrides...)
}

// AddProject stores project, filling the blanks with fake data.
func (fb *FakeBackend) AddProject(project f.Project) f.Project {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if project.Title == "" {
		project.Title = faker.Sentence()
	}
	if project.Description == "" {
		project.Description = faker.Paragraph()
	}
	if project.Tags == nil {
		project.Tags = []string{faker.Word(), faker.Word()}
	}
	if project.Images == nil {
		project.Images = []string{}
	}
	project.ID = fb.nextId
	fb.nextId++
	fb.projects[project.ID] = project
	return project
}

func (fb *FakeBackend) Project(id int) (f.Project, bool) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	p, ok := fb.projects[id]
	return p, ok
}

func (fb *FakeBackend) SetCV(cv f.CV) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	cv.ID = 1
	fb.cv = cv
}

func (fb *FakeBackend) CV() f.CV {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.cv
}

func (fb *FakeBackend) Messages() []f.ContactMessage {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]f.ContactMessage{}, fb.messages...)
}

func (fb *FakeBackend) Uploads() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]string{}, fb.uploads...)
}

// Calls counts the requests received for "METHOD /path".
func (fb *FakeBackend) Calls(route string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.calls[route]
}

// Fail makes the route answer status until Recover is called.
func (fb *FakeBackend) Fail(route string, status int) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.failing[route] = status
}

func (fb *FakeBackend) Recover(route string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	delete(fb.failing, route)
}

// Down makes every route answer 503.
func (fb *FakeBackend) Down(down bool) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.down = down
}

// Token issues a token the way POST /token does.
func (fb *FakeBackend) Token(username string, ttl time.Duration) string {
	token, err := h.NewJwt(h.JwtConfig{
		Subject:   username,
		Issuer:    "portfolio-api",
		Ttl:       ttl,
		SecretKey: FakeSecret,
	})
	if err != nil {
		panic(err)
	}
	return token
}

// ------------------------------------------------------------------------------------------------------------------
// MIDDLEWARES
// ------------------------------------------------------------------------------------------------------------------

func (fb *FakeBackend) track(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		route := c.Request().Method + " " + c.Path()
		fb.mu.Lock()
		fb.calls[route]++
		status, failing := fb.failing[route]
		if fb.down {
			status, failing = http.StatusServiceUnavailable, true
		}
		fb.mu.Unlock()
		if failing {
			return c.JSON(status, map[string]string{"detail": "simulated failure"})
		}
		return next(c)
	}
}

func (fb *FakeBackend) authenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authz := c.Request().Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
		}
		tok, err := jwt.Parse([]byte(strings.TrimPrefix(authz, "Bearer ")), jwt.WithKey(jwa.HS256(), []byte(FakeSecret)))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
		}
		sub, _ := tok.Subject()
		c.Set("user", sub)
		return next(c)
	}
}

// ------------------------------------------------------------------------------------------------------------------
// HANDLERS
// ------------------------------------------------------------------------------------------------------------------

func (fb *FakeBackend) listTranslations(c echo.Context) error {
	return c.JSON(http.StatusOK, fb.Overrides())
}

func (fb *FakeBackend) updateTranslations(c echo.Context) error {
	var input struct {
		Language     string            `json:"language"`
		Translations map[string]string `json:"translations"`
	}
	if err := c.Bind(&input); err != nil || input.Language == "" {
		return c.JSON(http.StatusUnprocessableEntity, map[string]any{"detail": []map[string]string{{"msg": "invalid body"}}})
	}
	keys := make([]string, 0, len(input.Translations))
	for key := range input.Translations {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fb.mu.Lock()
	defer fb.mu.Unlock()
	for _, key := range keys {
		updated := false
		for i, o := range fb.overrides {
			if o.Language == input.Language && o.Key == key {
				fb.overrides[i].Value = input.Translations[key]
				updated = true
			}
		}
		if !updated {
			fb.overrides = append(fb.overrides, i18n.Override{
				ID: len(fb.overrides) + 1, Language: input.Language, Key: key, Value: input.Translations[key],
			})
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "ok", "updated": len(keys)})
}

func (fb *FakeBackend) login(c echo.Context) error {
	if c.FormValue("username") != FakeUsername || c.FormValue("password") != FakePassword {
		c.Response().Header().Set("WWW-Authenticate", "Bearer")
		return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Incorrect username or password"})
	}
	return c.JSON(http.StatusOK, f.Token{AccessToken: fb.Token(FakeUsername, 30*time.Minute), TokenType: "bearer"})
}

func (fb *FakeBackend) verify(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok", "user": c.Get("user").(string)})
}

func (fb *FakeBackend) listProjects(c echo.Context) error {
	skip, _ := strconv.Atoi(c.QueryParam("skip"))
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil {
		limit = 100
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	ids := make([]int, 0, len(fb.projects))
	for id := range fb.projects {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := []f.Project{}
	for i, id := range ids {
		if i < skip || len(out) >= limit {
			continue
		}
		out = append(out, fb.projects[id])
	}
	return c.JSON(http.StatusOK, out)
}

func (fb *FakeBackend) getProject(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	p, ok := fb.Project(id)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"detail": "Project not found"})
	}
	return c.JSON(http.StatusOK, p)
}

func (fb *FakeBackend) createProject(c echo.Context) error {
	var input f.Project
	if err := c.Bind(&input); err != nil || input.Title == "" || input.Description == "" {
		return c.JSON(http.StatusUnprocessableEntity, map[string]any{"detail": []map[string]string{{"msg": "title and description are required"}}})
	}
	return c.JSON(http.StatusOK, fb.AddProject(input))
}

func (fb *FakeBackend) updateProject(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	var input f.Project
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"detail": "invalid body"})
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if _, ok := fb.projects[id]; !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"detail": "Project not found"})
	}
	input.ID = id
	fb.projects[id] = input
	return c.JSON(http.StatusOK, input)
}

func (fb *FakeBackend) deleteProject(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if _, ok := fb.projects[id]; !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"detail": "Project not found"})
	}
	delete(fb.projects, id)
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

func (fb *FakeBackend) getCV(c echo.Context) error {
	return c.JSON(http.StatusOK, fb.CV())
}

func (fb *FakeBackend) updateCV(c echo.Context) error {
	var input f.CV
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"detail": "invalid body"})
	}
	fb.SetCV(input)
	return c.JSON(http.StatusOK, fb.CV())
}

func (fb *FakeBackend) contact(c echo.Context) error {
	var input f.ContactMessage
	if err := c.Bind(&input); err != nil || input.Email == "" {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"detail": "invalid body"})
	}
	fb.mu.Lock()
	fb.messages = append(fb.messages, input)
	fb.mu.Unlock()
	return c.JSON(http.StatusOK, map[string]string{"status": "sent"})
}

func (fb *FakeBackend) upload(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"detail": "file is required"})
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !h.ContainsString([]string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"}, ext) {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Unsupported file type"})
	}
	url := fmt.Sprintf("%s/media/%s%s", fb.URL, h.NewId(""), ext)
	fb.mu.Lock()
	fb.uploads = append(fb.uploads, file.Filename)
	fb.mu.Unlock()
	return c.JSON(http.StatusOK, f.UploadResult{URL: url})
}
