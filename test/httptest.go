package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/go-resty/resty/v2"
	matcher "github.com/panta/go-json-matcher"
	"github.com/soffa-projects/folio-web/h"
)

// RestClient keeps cookies between calls, so a login carries over to the next requests.
type RestClient struct {
	client *resty.Client
	assert Assertions
	bearer string
}

type HttpRes struct {
	resp   *resty.Response
	err    error
	assert Assertions
}

type FileReader struct {
	Field   string
	Name    string
	Content []byte
}

type HttpReq struct {
	Body        any
	Headers     map[string]string
	Query       map[string]string
	Files       map[string]string
	FileReaders []FileReader
	Form        map[string]string
	Bearer      string
	Result      any
}

func ProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("go.mod not found")
		}
		dir = parent
	}
}

func NewRestClient(t *testing.T, baseUrl string) *RestClient {
	r := resty.New()
	r.SetRedirectPolicy(resty.RedirectPolicyFunc(func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}))
	r.SetBaseURL(baseUrl)
	return &RestClient{client: r, assert: NewAssertions(t)}
}

func (c *RestClient) Get(path string, opts ...HttpReq) HttpRes {
	return c.invoke(http.MethodGet, path, opts...)
}

func (c *RestClient) Post(path string, opts ...HttpReq) HttpRes {
	return c.invoke(http.MethodPost, path, opts...)
}

func (c *RestClient) Put(path string, opts ...HttpReq) HttpRes {
	return c.invoke(http.MethodPut, path, opts...)
}

func (c *RestClient) Delete(path string, opts ...HttpReq) HttpRes {
	return c.invoke(http.MethodDelete, path, opts...)
}

func (c *RestClient) SetBearerAuth(token string) *RestClient {
	c.bearer = token
	return c
}

// SetCookie adds a cookie sent with every following request.
func (c *RestClient) SetCookie(name string, value string) *RestClient {
	c.client.SetCookie(&http.Cookie{Name: name, Value: value, Path: "/"})
	return c
}

func (c *RestClient) invoke(method string, path string, opts ...HttpReq) HttpRes {
	q := c.client.R()
	bearerAuth := ""
	for _, opt := range opts {
		if opt.Body != nil {
			q = q.SetBody(opt.Body)
		}
		if opt.Bearer != "" {
			bearerAuth = opt.Bearer
		}
		if opt.Form != nil {
			q = q.SetFormData(opt.Form)
		}
		if opt.Query != nil {
			q = q.SetQueryParams(opt.Query)
		}
		if opt.Result != nil {
			q = q.SetResult(opt.Result)
		}
		for key, value := range opt.Headers {
			q = q.SetHeader(key, value)
		}
		if opt.Files != nil {
			q = q.SetFiles(opt.Files)
		}
		for _, file := range opt.FileReaders {
			q = q.SetFileReader(file.Field, file.Name, bytes.NewReader(file.Content))
		}
	}
	if bearerAuth == "" && c.bearer != "" {
		bearerAuth = c.bearer
	}
	if bearerAuth != "" {
		q = q.SetHeader("Authorization", fmt.Sprintf("Bearer %s", bearerAuth))
	}
	resp, err := q.Execute(method, path)
	c.assert.Nil(err, "request failed: %s %s", method, path)
	return HttpRes{
		resp:   resp,
		err:    err,
		assert: c.assert,
	}
}

func (r HttpRes) IsOk() HttpRes {
	r.assert.Equals(r.resp.StatusCode(), http.StatusOK)
	return r
}

// IsRedirect accepts both 302 and 303.
func (r HttpRes) IsRedirect() HttpRes {
	status := r.resp.StatusCode()
	r.assert.True(status == http.StatusFound || status == http.StatusSeeOther, "expected a redirect, got %d", status)
	return r
}

func (r HttpRes) RedirectsTo(location string) HttpRes {
	r.IsRedirect()
	r.assert.Equals(r.GetLocation(), location)
	return r
}

func (r HttpRes) Is(status int) HttpRes {
	r.assert.Equals(r.resp.StatusCode(), status)
	return r
}

func (r HttpRes) IsBadRequest() HttpRes {
	return r.Is(http.StatusBadRequest)
}

func (r HttpRes) IsForbidden() HttpRes {
	return r.Is(http.StatusForbidden)
}

func (r HttpRes) IsUnauthorized() HttpRes {
	return r.Is(http.StatusUnauthorized)
}

func (r HttpRes) IsNotFound() HttpRes {
	return r.Is(http.StatusNotFound)
}

func (r HttpRes) StatusCode() int {
	return r.resp.StatusCode()
}

func (r HttpRes) GetLocation() string {
	return r.resp.Header().Get("Location")
}

func (r HttpRes) Header(name string) string {
	return r.resp.Header().Get(name)
}

func (r HttpRes) Result() []byte {
	return r.resp.Body()
}

func (r HttpRes) Body() string {
	return string(r.resp.Body())
}

func (r HttpRes) Contains(values ...string) HttpRes {
	body := r.Body()
	for _, value := range values {
		r.assert.Contains(body, value)
	}
	return r
}

func (r HttpRes) NotContains(values ...string) HttpRes {
	body := r.Body()
	for _, value := range values {
		r.assert.NotContains(body, value)
	}
	return r
}

func (r HttpRes) Cookie(name string) string {
	for _, cookie := range r.resp.Cookies() {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}

var csrfPattern = regexp.MustCompile(`name="csrf" value="([^"]+)"`)

// Csrf returns the csrf token of the first form of the page.
func (r HttpRes) Csrf() string {
	match := csrfPattern.FindStringSubmatch(r.Body())
	r.assert.True(len(match) == 2, "no csrf token in page")
	if len(match) != 2 {
		return ""
	}
	return match[1]
}

func (r HttpRes) JSONValue() h.JsonValue {
	return h.NewJsonValue(r.Body())
}

func (r HttpRes) JSON() *JsonMatcher {
	result := r.Result()
	r.assert.NotNil(result)
	var data any
	err := json.Unmarshal(result, &data)
	r.assert.Nil(err, "failed to unmarshal json")
	return &JsonMatcher{assert: r.assert, value: string(result)}
}

type JsonMatcher struct {
	assert Assertions
	value  string
}

func (j JsonMatcher) Match(pattern string) JsonMatcher {
	j.assert.MatchJson(j.value, pattern)
	return j
}

func (j JsonMatcher) MatchShape(pattern string) JsonMatcher {
	match, err := matcher.JSONStringMatches(j.value, pattern)
	j.assert.Nil(err)
	j.assert.True(match, "%s does not match %s", j.value, pattern)
	return j
}

func (j JsonMatcher) Value() h.JsonValue {
	return h.NewJsonValue(j.value)
}
