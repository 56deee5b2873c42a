package h

import (
	"html"
	"net/url"
	"strings"
)

type Url struct {
	Scheme   string
	Path     string
	Url      string
	Host     string
	User     string
	Password string
	query    map[string]any
}

func ParseUrl(input string) (Url, error) {
	queryParams := make(map[string]any)
	u, err := url.Parse(input)
	if err != nil {
		return Url{}, err
	}
	for key, values := range u.Query() {
		if len(values) > 0 {
			queryParams[key] = values[0]
		}
	}
	password, ok := u.User.Password()
	if !ok {
		password = ""
	}
	return Url{
		Scheme:   u.Scheme,
		Path:     u.Path,
		Url:      input,
		Host:     u.Host,
		User:     u.User.Username(),
		Password: password,
		query:    queryParams,
	}, nil
}

func (u Url) HasQueryParam(key string) bool {
	_, ok := u.query[key]
	return ok
}

func (u Url) Query(key string) any {
	return u.query[key]
}

func StripOriginFromUrl(input string) (string, error) {
	raw := html.UnescapeString(input)

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	out := u.EscapedPath()
	if u.RawQuery != "" {
		out += "?" + u.RawQuery
	}
	return out, nil
}

// LocalPath turns a Referer (or any url) into a same-site path, so redirects
// never leave the site. Falls back when nothing usable is left.
func LocalPath(input string, fallback string) string {
	if strings.TrimSpace(input) == "" {
		return fallback
	}
	out, err := StripOriginFromUrl(input)
	if err != nil || !strings.HasPrefix(out, "/") || strings.HasPrefix(out, "//") {
		return fallback
	}
	return out
}
