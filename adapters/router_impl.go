package adapters

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/ztrue/tracerr"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	prettylogger "github.com/rdbell/echo-pretty-logger"
	f "github.com/soffa-projects/folio-web/core"
	"github.com/soffa-projects/folio-web/errors"
	"github.com/soffa-projects/folio-web/h"
	"github.com/soffa-projects/folio-web/i18n"
	"github.com/soffa-projects/folio-web/log"
)

const _authKey = "auth"
const _authTokenKey = "authToken"
const _envKey = "env"
const _languageKey = "language"
const _translationsKey = "translations"
const _csrfKey = "csrf"
const _expiredKey = "tokenExpired"

const _sessionName = "session"
const _flashName = "flash"
const _sessionTokenKey = "token"

const defaultSessionMaxAge = 86400

var validate = validator.New()

func NewEchoRouter(cfg *f.RouterConfig) f.Router {
	e := echo.New()
	e.HideBanner = true
	e.Use(prettylogger.Logger)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogLevel: 2,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			tracerr.PrintSourceColor(tracerr.Wrap(err))
			return mapError(c, http.StatusInternalServerError, "err_technical", "err_unexpected_error")
		},
	}))
	e.Use(middleware.RemoveTrailingSlash())
	e.Use(middleware.RequestID())
	if cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}

	if cfg.AssetsFS != nil {
		e.StaticFS("/assets", cfg.AssetsFS)
	}

	if cfg.SessionSecret != "" {
		e.Logger.Info("session secret found, enabling session middleware")
		e.Use(session.Middleware(sessions.NewCookieStore([]byte(cfg.SessionSecret))))
	}

	if cfg.AllowOrigins != nil {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.AllowOrigins,
			AllowHeaders:     []string{"*"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	maxAge := cfg.SessionMaxAge
	if maxAge <= 0 {
		maxAge = defaultSessionMaxAge
	}

	return &routerImpl{
		internal:      e,
		errorPage:     cfg.ErrorPage,
		sessionMaxAge: maxAge,
	}
}

func (r *routerImpl) Init(env f.ApplicationEnv) {
	r.env = env

	r.internal.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status := http.StatusInternalServerError
		message := "err_unexpected_error"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			message = fmt.Sprint(he.Message)
		}
		if r.errorPage != nil && !isApiRequest(c) {
			rc := r.newRequestContext(c)
			if err := h.WriteTempl(rc, c.Response(), status, r.errorPage(rc, status, message)); err != nil {
				log.Error("unable to render error page: %v", err)
			}
			return
		}
		kind := "err_functional"
		if status >= 500 {
			kind = "err_technical"
		}
		_ = mapError(c, status, kind, message)
	}

	r.internal.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(_authKey, (*f.Authentication)(nil))
			c.Set(_envKey, env)
			authToken := ""
			fromSession := false
			authz := c.Request().Header.Get("Authorization")
			if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				authToken = authz[len("bearer "):]
			} else if sess, err := session.Get(_sessionName, c); err == nil {
				authToken, _ = sess.Values[_sessionTokenKey].(string)
				fromSession = true
			}
			if authToken != "" && env.Tokens != nil {
				auth, err := env.Tokens.Inspect(authToken)
				if err != nil {
					log.Debug("ignoring admin token: %v", err)
					if fromSession {
						c.Set(_expiredKey, true)
						rc := r.newRequestContext(c).(*ctxImpl)
						if err := rc.deleteSessionValue(_sessionTokenKey); err != nil {
							log.Warn("unable to drop admin token: %v", err)
						}
					}
					authToken = ""
				} else {
					c.Set(_authKey, auth)
				}
			}
			if authToken != "" {
				c.Set(_authTokenKey, authToken)
			}
			return next(c)
		}
	})
}

func (r *routerImpl) Handler() http.Handler {
	return r.internal
}

func (r *routerImpl) Listen(port int) {
	if port == 0 {
		port = 8080
	}
	err := r.internal.Start(fmt.Sprintf(":%d", port))
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("failed to start server: %v", err)
	}
}

func (r *routerImpl) Shutdown(ctx context.Context) error {
	return r.internal.Shutdown(ctx)
}

type routerImpl struct {
	internal      *echo.Echo
	env           f.ApplicationEnv
	errorPage     func(c f.Context, status int, message string) templ.Component
	sessionMaxAge int
}

type groupRouterImpl struct {
	router   *routerImpl
	internal *echo.Group
}

func (r *routerImpl) Group(path string, middlewares ...f.Middleware) f.RouterGroup {
	g := r.internal.Group(path)
	for _, mw := range middlewares {
		g.Use(r.adapt(mw))
	}
	return &groupRouterImpl{
		router:   r,
		internal: g,
	}
}

func (r *routerImpl) GET(path string, handler f.HandlerInit) {
	r.internal.GET(path, r.wrap(handler))
}

func (r *routerImpl) POST(path string, handler f.HandlerInit) {
	r.internal.POST(path, r.wrap(handler))
}

func (r *routerImpl) DELETE(path string, handler f.HandlerInit) {
	r.internal.DELETE(path, r.wrap(handler))
}

func (r *routerImpl) PUT(path string, handler f.HandlerInit) {
	r.internal.PUT(path, r.wrap(handler))
}

func (r *routerImpl) PATCH(path string, handler f.HandlerInit) {
	r.internal.PATCH(path, r.wrap(handler))
}

func (r *groupRouterImpl) GET(path string, handler f.HandlerInit) {
	r.internal.GET(path, r.router.wrap(handler))
}

func (r *groupRouterImpl) POST(path string, handler f.HandlerInit) {
	r.internal.POST(path, r.router.wrap(handler))
}

func (r *groupRouterImpl) DELETE(path string, handler f.HandlerInit) {
	r.internal.DELETE(path, r.router.wrap(handler))
}

func (r *groupRouterImpl) PUT(path string, handler f.HandlerInit) {
	r.internal.PUT(path, r.router.wrap(handler))
}

func (r *groupRouterImpl) PATCH(path string, handler f.HandlerInit) {
	r.internal.PATCH(path, r.router.wrap(handler))
}

func (r *routerImpl) Use(mw f.Middleware) {
	r.internal.Use(r.adapt(mw))
}

func (r *routerImpl) adapt(mw f.Middleware) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rc := r.newRequestContext(c)
			if err := mw(rc); err != nil {
				return r.formatResponse(c, rc, !isApiRequest(c), err)
			}
			return next(c)
		}
	}
}

func (r *routerImpl) wrap(handlerInit f.HandlerInit) echo.HandlerFunc {

	handler := handlerInit(r.env)

	return func(c echo.Context) (err error) {
		rc := r.newRequestContext(c)

		defer func() {
			if rec := recover(); rec != nil {
				var originalErr error
				switch v := rec.(type) {
				case error:
					originalErr = v
				default:
					originalErr = fmt.Errorf("%v", v)
				}
				if !r.env.Production && errors.GetStatusCode(originalErr) >= 500 {
					log.Error("panic: %v", originalErr)
					tracerr.PrintSourceColor(tracerr.Wrap(originalErr), 1)
				}
				err = r.formatResponse(c, rc, handler.Html, originalErr)
			}
		}()

		for _, pre := range handler.Pre {
			if err := pre(rc); err != nil {
				return r.formatResponse(c, rc, handler.Html, err)
			}
		}

		if handler.Authenticated && rc.Auth() == nil {
			return r.formatResponse(c, rc, handler.Html, errors.Unauthorized("unauthorized"))
		}

		result := handler.Handle(rc)

		if result == nil {
			return r.formatResponse(c, rc, handler.Html, f.HttpResponse{Code: http.StatusNoContent})
		}

		switch v := result.(type) {
		case f.HttpResponse, f.RedirectResponse, error:
			return r.formatResponse(c, rc, handler.Html, v)
		default:
			return c.JSON(http.StatusOK, result)
		}
	}
}

func (r *routerImpl) formatResponse(c echo.Context, rc f.Context, html bool, result any) error {

	if result == nil {
		log.Error("unexpected empty response -- check that all interfaces have been implemented")
		return nil
	}

	var resp f.HttpResponse
	switch v := result.(type) {
	case f.RedirectResponse:
		return c.Redirect(v.Code, v.Url)
	case f.HttpResponse:
		resp = v
	case error:
		if errors.IsUnauthorized(v) {
			// the backend no longer accepts the admin token
			expired, _ := c.Get(_expiredKey).(bool)
			hadToken := rc.AuthToken() != ""
			if hadToken {
				if err := rc.ClearAuthToken(); err != nil {
					log.Warn("unable to clear admin token: %v", err)
				}
			}
			if html {
				if hadToken || expired {
					return c.Redirect(http.StatusSeeOther, "/login?expired=1")
				}
				return c.Redirect(http.StatusSeeOther, "/login")
			}
		}
		resp = f.HttpResponse{Code: errors.GetStatusCode(v), Data: v.Error()}
	default:
		log.Error("unexpected response: %v", result)
		return c.JSON(http.StatusInternalServerError, result)
	}

	if resp.Code == 0 {
		resp.Code = http.StatusOK
	}
	if resp.Code == http.StatusNoContent {
		return c.NoContent(resp.Code)
	}

	if resp.Code >= 400 {
		message := fmt.Sprint(resp.Data)
		if resp.Code >= 500 {
			log.Error("unexpected error: %v", message)
		} else {
			log.Warn("functional error: %v", message)
		}
		if html && r.errorPage != nil && resp.Template == nil {
			if resp.Code >= 500 {
				message = ""
			}
			return h.WriteTempl(rc, c.Response(), resp.Code, r.errorPage(rc, resp.Code, message))
		}
		if resp.Template == nil {
			if resp.Code >= 500 {
				return mapError(c, resp.Code, "err_technical", "err_unexpected_error")
			}
			return mapError(c, resp.Code, "err_functional", resp.Data)
		}
	}

	if resp.Template != nil {
		return h.WriteTempl(rc, c.Response(), resp.Code, resp.Template)
	}

	if resp.File {

		c.Response().Header().Set("Access-Control-Expose-Headers", "Content-Type,Content-Disposition, X-Filename")
		c.Response().Header().Set("Content-Type", resp.ContentType)
		c.Response().Header().Set("X-Filename", resp.Filename)
		c.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", resp.Filename))

		return c.Blob(
			resp.Code,
			resp.ContentType,
			resp.Data.([]byte),
		)
	}

	return c.JSON(resp.Code, resp.Data)
}

func mapError(c echo.Context, status int, kind string, error any) error {
	return c.JSON(status, map[string]any{
		"requestId": c.Response().Header().Get(echo.HeaderXRequestID),
		"kind":      kind,
		"timestamp": time.Now().Format(time.RFC3339),
		"uri":       c.Request().URL.Path,
		"error":     error,
		"success":   false,
	})
}

func isApiRequest(c echo.Context) bool {
	if strings.HasPrefix(c.Request().URL.Path, "/api/") || c.Request().URL.Path == "/health" {
		return true
	}
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

// ------------------------------------------------------------------------------------------------------------------
// REQUEST CONTEXT
// ------------------------------------------------------------------------------------------------------------------

type ctxImpl struct {
	context.Context
	internal echo.Context
	router   *routerImpl
}

func (r *routerImpl) newRequestContext(c echo.Context) f.Context {
	token, _ := c.Get(_authTokenKey).(string)
	return &ctxImpl{
		Context:  f.WithBearer(c.Request().Context(), token),
		internal: c,
		router:   r,
	}
}

func (c *ctxImpl) Env() f.ApplicationEnv {
	return c.router.env
}

func (c *ctxImpl) Request() *http.Request {
	return c.internal.Request()
}

func (c *ctxImpl) Get(key string) any {
	return c.internal.Get(key)
}

func (c *ctxImpl) Set(key string, value any) {
	c.internal.Set(key, value)
}

func (c *ctxImpl) WithValue(key, value any) f.Context {
	return &ctxImpl{
		Context:  context.WithValue(c.Context, key, value),
		internal: c.internal,
		router:   c.router,
	}
}

func (c *ctxImpl) RealIP() string {
	return c.internal.RealIP()
}

func (c *ctxImpl) Host() string {
	return strings.ToLower(c.internal.Request().Host)
}

func (c *ctxImpl) Path() string {
	return c.internal.Request().URL.Path
}

func (c *ctxImpl) UserAgent() string {
	return c.internal.Request().UserAgent()
}

func (c *ctxImpl) Param(value string) string {
	return c.internal.Param(value)
}

func (c *ctxImpl) QueryParam(value string) string {
	return c.internal.QueryParam(value)
}

func (c *ctxImpl) FormValue(value string) string {
	return c.internal.FormValue(value)
}

func (c *ctxImpl) Header(value string) string {
	return c.internal.Request().Header.Get(value)
}

func (c *ctxImpl) FormFiles(field string) ([]*multipart.FileHeader, error) {
	form, err := c.internal.MultipartForm()
	if err != nil {
		return nil, errors.BadRequest(fmt.Sprintf("invalid multipart form: %v", err))
	}
	return form.File[field], nil
}

func (c *ctxImpl) Bind(input any) {
	if err := c.ShouldBind(input); err != nil {
		panic(err)
	}
}

func (c *ctxImpl) ShouldBind(input any) error {
	if err := c.internal.Bind(input); err != nil {
		return errors.BadRequest(fmt.Sprintf("invalid input: %v", err))
	}
	if err := validate.Struct(input); err != nil {
		return errors.BadRequest(err.Error())
	}
	return nil
}

func (c *ctxImpl) Cookie(name string) string {
	cookie, err := c.internal.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (c *ctxImpl) SetCookie(name string, value string, maxAge time.Duration) {
	c.internal.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *ctxImpl) Language() string {
	if value, ok := c.internal.Get(_languageKey).(string); ok && value != "" {
		return value
	}
	return c.router.env.DefaultLanguage
}

func (c *ctxImpl) SetLanguage(code string) {
	c.internal.Set(_languageKey, i18n.NormalizeLanguage(code))
}

// Translations returns the set published when the request first asked for
// it, so a reload in the middle of a request never mixes two sets.
func (c *ctxImpl) Translations() *i18n.Set {
	if set, ok := c.internal.Get(_translationsKey).(*i18n.Set); ok {
		return set
	}
	var set *i18n.Set
	if c.router.env.Translations != nil {
		set = c.router.env.Translations.Current()
	}
	if set == nil {
		set = i18n.Defaults()
	}
	c.internal.Set(_translationsKey, set)
	return set
}

func (c *ctxImpl) T(key string) string {
	return c.Tf(key, nil)
}

func (c *ctxImpl) Tf(key string, data map[string]any) string {
	if c.router.env.Localizer == nil {
		return i18n.Resolve(c.Translations(), c.Language(), key)
	}
	return c.router.env.Localizer.Localize(c.Translations(), c.Language(), key, data)
}

func (c *ctxImpl) Auth() *f.Authentication {
	value := c.internal.Get(_authKey)
	if value == nil {
		return nil
	}
	return value.(*f.Authentication)
}

func (c *ctxImpl) AuthToken() string {
	value := c.internal.Get(_authTokenKey)
	if value == nil {
		return ""
	}
	return value.(string)
}

func (c *ctxImpl) SetAuthToken(token string) error {
	if err := c.SetSession(_sessionTokenKey, token); err != nil {
		return err
	}
	c.internal.Set(_authTokenKey, token)
	c.Context = f.WithBearer(c.Context, token)
	if c.router.env.Tokens != nil {
		if auth, err := c.router.env.Tokens.Inspect(token); err == nil {
			c.internal.Set(_authKey, auth)
		}
	}
	return nil
}

func (c *ctxImpl) ClearAuthToken() error {
	c.internal.Set(_authTokenKey, "")
	c.internal.Set(_authKey, (*f.Authentication)(nil))
	return c.deleteSessionValue(_sessionTokenKey)
}

func (c *ctxImpl) Session(key string) string {
	sess, err := session.Get(_sessionName, c.internal)
	if err != nil {
		return ""
	}
	value, _ := sess.Values[key].(string)
	return value
}

func (c *ctxImpl) SetSession(key string, value string) error {
	sess, err := session.Get(_sessionName, c.internal)
	if err != nil {
		return err
	}
	sess.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   c.router.sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	sess.Values[key] = value
	return sess.Save(c.internal.Request(), c.internal.Response())
}

func (c *ctxImpl) deleteSessionValue(key string) error {
	sess, err := session.Get(_sessionName, c.internal)
	if err != nil {
		return err
	}
	delete(sess.Values, key)
	return sess.Save(c.internal.Request(), c.internal.Response())
}

func (c *ctxImpl) SetFlash(value string) error {
	sess, err := session.Get(_flashName, c.internal)
	if err != nil {
		return err
	}
	sess.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   15,
		HttpOnly: true,
	}
	sess.Values[_flashName] = value
	return sess.Save(c.internal.Request(), c.internal.Response())
}

func (c *ctxImpl) UseFlash() (string, error) {
	sess, err := session.Get(_flashName, c.internal)
	if err != nil {
		return "", err
	}
	value, ok := sess.Values[_flashName].(string)
	if !ok || value == "" {
		return "", nil
	}
	if err := c.SetFlash(""); err != nil {
		return value, err
	}
	return value, nil
}

func (c *ctxImpl) CsrfToken() string {
	if value, ok := c.internal.Get(_csrfKey).(string); ok {
		return value
	}
	if c.router.env.Csrf == nil {
		return ""
	}
	token, err := c.router.env.Csrf.Create(time.Hour)
	if err != nil {
		log.Error("unable to create csrf token: %v", err)
		return ""
	}
	c.internal.Set(_csrfKey, token)
	return token
}
