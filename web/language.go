package web

import (
	"time"

	f "github.com/soffa-projects/folio-web/core"
	"github.com/soffa-projects/folio-web/errors"
	"github.com/soffa-projects/folio-web/h"
	"github.com/soffa-projects/folio-web/i18n"
	"github.com/soffa-projects/folio-web/log"
	"golang.org/x/text/language"
)

const languageCookie = "lang"
const languageCookieAge = 365 * 24 * time.Hour

// languageResolver picks the request language: ?lang, then the lang cookie,
// then Accept-Language, then the default.
type languageResolver struct {
	supported []string
	fallback  string
	matcher   language.Matcher
}

func newLanguageResolver(supported []string, fallback string) *languageResolver {
	codes := make([]string, 0, len(supported))
	tags := make([]language.Tag, 0, len(supported))
	for _, code := range supported {
		code = i18n.NormalizeLanguage(code)
		tag, err := language.Parse(code)
		if err != nil {
			log.Warn("ignoring unsupported language %q: %v", code, err)
			continue
		}
		codes = append(codes, code)
		tags = append(tags, tag)
	}
	fallback = i18n.NormalizeLanguage(fallback)
	if fallback == "" && len(codes) > 0 {
		fallback = codes[0]
	}
	return &languageResolver{
		supported: codes,
		fallback:  fallback,
		matcher:   language.NewMatcher(tags),
	}
}

func (r *languageResolver) Supports(code string) bool {
	return h.ContainsString(r.supported, i18n.NormalizeLanguage(code))
}

func (r *languageResolver) Resolve(query string, cookie string, acceptLanguage string) string {
	for _, candidate := range []string{query, cookie} {
		if r.Supports(candidate) {
			return i18n.NormalizeLanguage(candidate)
		}
	}
	if acceptLanguage != "" && len(r.supported) > 0 {
		tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
		if err == nil && len(tags) > 0 {
			if _, index, confidence := r.matcher.Match(tags...); confidence != language.No {
				return r.supported[index]
			}
		}
	}
	return r.fallback
}

// LanguageMiddleware stores the resolved language in the request context.
// An explicit ?lang is remembered in the cookie.
func LanguageMiddleware(supported []string, fallback string) f.Middleware {
	resolver := newLanguageResolver(supported, fallback)
	return func(c f.Context) error {
		query := c.QueryParam("lang")
		lang := resolver.Resolve(query, c.Cookie(languageCookie), c.Header("Accept-Language"))
		if query != "" && resolver.Supports(query) && c.Cookie(languageCookie) != lang {
			c.SetCookie(languageCookie, lang, languageCookieAge)
		}
		c.SetLanguage(lang)
		return nil
	}
}

// SwitchLanguage sets the language cookie and sends the visitor back where they came from.
func SwitchLanguage(env f.ApplicationEnv) f.Handler {
	resolver := newLanguageResolver(env.Languages, env.DefaultLanguage)
	return f.Handler{
		Html: true,
		Handle: func(c f.Context) any {
			code := i18n.NormalizeLanguage(c.Param("code"))
			if !resolver.Supports(code) {
				return errors.NotFound("unsupported language " + code)
			}
			c.SetCookie(languageCookie, code, languageCookieAge)
			c.SetLanguage(code)
			return f.Redirect(h.LocalPath(c.Header("Referer"), "/"))
		},
	}
}
