package test

import (
	"context"
	"net/http/httptest"
	"path"
	"testing"

	f "github.com/soffa-projects/folio-web/core"
)

type Helper struct {
	app        f.App
	InstanceId string
	Context    context.Context
	Server     *httptest.Server
	Http       *RestClient
	Assert     Assertions
	rootDir    string
	t          *testing.T
}

func New(app f.App, t *testing.T) *Helper {
	server := httptest.NewServer(app.Router().Handler())
	return &Helper{
		app:        app,
		InstanceId: app.InstanceId(),
		Context:    context.TODO(),
		Server:     server,
		Http:       NewRestClient(t, server.URL),
		Assert:     NewAssertions(t),
		rootDir:    ProjectRoot(t),
		t:          t,
	}
}

func (t *Helper) App() f.App {
	return t.app
}

func (t *Helper) FilePath(p string) string {
	return path.Join(t.rootDir, p)
}

// NewClient returns a client with an empty cookie jar.
func (t *Helper) NewClient() *RestClient {
	return NewRestClient(t.t, t.Server.URL)
}

// Login signs in through the login form and keeps the session cookie on the client.
func (t *Helper) Login(client *RestClient, username string, password string) HttpRes {
	page := client.Get("/login").IsOk()
	return client.Post("/login", HttpReq{
		Form: map[string]string{
			"username": username,
			"password": password,
			"csrf":     page.Csrf(),
		},
	})
}

func (t *Helper) TearDown() {
	t.Server.Close()
	t.app.Shutdown(context.Background())
}
