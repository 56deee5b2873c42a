package adapters

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	f "github.com/soffa-projects/folio-web/core"
	"github.com/soffa-projects/folio-web/errors"
	"github.com/soffa-projects/folio-web/test"
)

func newClient(t *testing.T) (*BackendClient, *test.FakeBackend) {
	fb := test.NewFakeBackend(t)
	return NewBackendClient(fb.URL+"/", 5*time.Second), fb
}

func adminContext(fb *test.FakeBackend) context.Context {
	return f.WithBearer(context.Background(), fb.Token(test.FakeUsername, time.Hour))
}

func TestBackendClient_Ping(t *testing.T) {
	assert := test.NewAssertions(t)
	client, fb := newClient(t)

	assert.Nil(client.Ping(context.Background()))

	fb.Down(true)
	err := client.Ping(context.Background())
	assert.NotNil(err)
	assert.Equals(errors.GetStatusCode(err), http.StatusBadGateway)
}

func TestBackendClient_Unreachable(t *testing.T) {
	assert := test.NewAssertions(t)
	fb := test.NewFakeBackend(t)
	client := NewBackendClient(fb.URL, time.Second)
	fb.Close()

	_, err := client.FetchOverrides(context.Background())
	assert.NotNil(err)
	assert.Equals(errors.GetStatusCode(err), http.StatusBadGateway)
	assert.Contains(err.Error(), "backend unreachable")
}

func TestBackendClient_Translations(t *testing.T) {
	assert := test.NewAssertions(t)
	client, fb := newClient(t)
	fb.AddOverride("en", "hero.title", "Hello there")

	overrides, err := client.FetchOverrides(context.Background())
	assert.Nil(err)
	assert.Len(overrides, 1)
	assert.Equals(overrides[0].Key, "hero.title")
	assert.Equals(overrides[0].Value, "Hello there")

	// writes need the admin token
	err = client.UpdateTranslations(context.Background(), "en", map[string]string{"nav.home": "Start"})
	assert.True(errors.IsUnauthorized(err))

	err = client.UpdateTranslations(adminContext(fb), "en", map[string]string{"nav.home": "Start", "hero.title": "Hi"})
	assert.Nil(err)
	overrides, err = client.FetchOverrides(context.Background())
	assert.Nil(err)
	assert.Len(overrides, 2)
	assert.Equals(overrides[0].Value, "Hi")
}

func TestBackendClient_Login(t *testing.T) {
	assert := test.NewAssertions(t)
	client, _ := newClient(t)

	token, err := client.Login(context.Background(), f.Credentials{Username: test.FakeUsername, Password: test.FakePassword})
	assert.Nil(err)
	assert.NotEmpty(token.AccessToken)
	assert.Equals(token.TokenType, "bearer")

	user, err := client.VerifyToken(f.WithBearer(context.Background(), token.AccessToken))
	assert.Nil(err)
	assert.Equals(user, test.FakeUsername)

	_, err = client.Login(context.Background(), f.Credentials{Username: test.FakeUsername, Password: "nope"})
	assert.True(errors.IsUnauthorized(err))
	assert.Equals(err.Error(), "Incorrect username or password")

	_, err = client.VerifyToken(context.Background())
	assert.True(errors.IsUnauthorized(err))
}

func TestBackendClient_Projects(t *testing.T) {
	assert := test.NewAssertions(t)
	client, fb := newClient(t)
	for i := 0; i < 3; i++ {
		fb.AddProject(f.Project{})
	}
	ctx := context.Background()

	projects, err := client.ListProjects(ctx, 0, 10)
	assert.Nil(err)
	assert.Len(projects, 3)

	projects, err = client.ListProjects(ctx, 1, 1)
	assert.Nil(err)
	assert.Len(projects, 1)
	assert.Equals(projects[0].ID, 2)

	_, err = client.GetProject(ctx, 42)
	assert.True(errors.IsNotFound(err))
	assert.Equals(err.Error(), "Project not found")

	_, err = client.CreateProject(ctx, f.Project{Title: "Folio", Description: "Site"})
	assert.True(errors.IsUnauthorized(err))

	admin := adminContext(fb)
	created, err := client.CreateProject(admin, f.Project{ID: 99, Title: "Folio", Description: "Site", Tags: []string{"go"}})
	assert.Nil(err)
	assert.Equals(created.ID, 4)
	assert.Equals(created.Tags, []string{"go"})

	// validation errors come back as a list
	_, err = client.CreateProject(admin, f.Project{Title: "No description"})
	assert.Equals(errors.GetStatusCode(err), http.StatusUnprocessableEntity)
	assert.Equals(err.Error(), "title and description are required")

	updated, err := client.UpdateProject(admin, created.ID, f.Project{Title: "Folio 2", Description: "Site"})
	assert.Nil(err)
	assert.Equals(updated.Title, "Folio 2")

	got, err := client.GetProject(ctx, created.ID)
	assert.Nil(err)
	assert.Equals(got.Title, "Folio 2")

	assert.Nil(client.DeleteProject(admin, created.ID))
	_, found := fb.Project(created.ID)
	assert.False(found)
}

func TestBackendClient_CVAndContact(t *testing.T) {
	assert := test.NewAssertions(t)
	client, fb := newClient(t)
	ctx := context.Background()

	cv, err := client.GetCV(ctx)
	assert.Nil(err)
	assert.True(cv.IsEmpty())

	saved, err := client.UpdateCV(adminContext(fb), f.CV{About: "Gopher", Skills: []f.Skill{{Name: "Go", Level: "expert"}}})
	assert.Nil(err)
	assert.Equals(saved.About, "Gopher")

	cv, err = client.GetCV(ctx)
	assert.Nil(err)
	assert.Len(cv.Skills, 1)

	err = client.SendContact(ctx, f.ContactMessage{Name: "Ann", Email: "ann@example.com", Message: "Hi"})
	assert.Nil(err)
	assert.Len(fb.Messages(), 1)
}

func TestBackendClient_Upload(t *testing.T) {
	assert := test.NewAssertions(t)
	client, fb := newClient(t)
	content := strings.Repeat("x", 64*1024)

	var last int64
	res, err := client.Upload(adminContext(fb), f.UploadFile{
		Name:   "cover.png",
		Size:   int64(len(content)),
		Reader: strings.NewReader(content),
	}, func(sent int64, total int64) {
		last = sent
		assert.Equals(total, int64(len(content)))
	})
	assert.Nil(err)
	assert.Contains(res.URL, "/media/")
	assert.Equals(last, int64(len(content)))
	assert.Equals(fb.Uploads(), []string{"cover.png"})
}
