package adapters

import (
	"context"
	"testing"
	"time"

	f "github.com/soffa-projects/folio-web/core"
	"github.com/soffa-projects/folio-web/test"
)

func newCachedBackend(t *testing.T) (*CachedBackend, *test.FakeBackend) {
	client, fb := newClient(t)
	return NewCachedBackend(client, newMemoryCache(t), time.Minute), fb
}

func TestCachedBackend_Reads(t *testing.T) {
	assert := test.NewAssertions(t)
	backend, fb := newCachedBackend(t)
	project := fb.AddProject(f.Project{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		projects, err := backend.ListProjects(ctx, 0, 10)
		assert.Nil(err)
		assert.Len(projects, 1)

		got, err := backend.GetProject(ctx, project.ID)
		assert.Nil(err)
		assert.Equals(got.Title, project.Title)

		_, err = backend.GetCV(ctx)
		assert.Nil(err)
	}
	assert.Equals(fb.Calls("GET /projects/"), 1)
	assert.Equals(fb.Calls("GET /projects/:id"), 1)
	assert.Equals(fb.Calls("GET /cv"), 1)
}

func TestCachedBackend_ErrorsAreNotCached(t *testing.T) {
	assert := test.NewAssertions(t)
	backend, fb := newCachedBackend(t)
	ctx := context.Background()

	_, err := backend.GetProject(ctx, 7)
	assert.NotNil(err)
	_, err = backend.GetProject(ctx, 7)
	assert.NotNil(err)
	assert.Equals(fb.Calls("GET /projects/:id"), 2)
}

func TestCachedBackend_WritesInvalidate(t *testing.T) {
	assert := test.NewAssertions(t)
	backend, fb := newCachedBackend(t)
	ctx := context.Background()
	admin := adminContext(fb)
	project := fb.AddProject(f.Project{})

	_, _ = backend.ListProjects(ctx, 0, 10)
	_, _ = backend.ListProjects(ctx, 0, 5)
	_, _ = backend.GetProject(ctx, project.ID)

	_, err := backend.CreateProject(admin, f.Project{Title: "New", Description: "New"})
	assert.Nil(err)
	projects, _ := backend.ListProjects(ctx, 0, 10)
	assert.Len(projects, 2)
	_, _ = backend.ListProjects(ctx, 0, 5)
	assert.Equals(fb.Calls("GET /projects/"), 4)

	_, err = backend.UpdateProject(admin, project.ID, f.Project{Title: "Renamed", Description: "x"})
	assert.Nil(err)
	got, _ := backend.GetProject(ctx, project.ID)
	assert.Equals(got.Title, "Renamed")

	assert.Nil(backend.DeleteProject(admin, project.ID))
	projects, _ = backend.ListProjects(ctx, 0, 10)
	assert.Len(projects, 1)

	_, _ = backend.GetCV(ctx)
	_, err = backend.UpdateCV(admin, f.CV{About: "Updated"})
	assert.Nil(err)
	cv, _ := backend.GetCV(ctx)
	assert.Equals(cv.About, "Updated")
	assert.Equals(fb.Calls("GET /cv"), 2)
}

func TestCachedBackend_TranslationsBypassCache(t *testing.T) {
	assert := test.NewAssertions(t)
	backend, fb := newCachedBackend(t)

	_, _ = backend.FetchOverrides(context.Background())
	_, _ = backend.FetchOverrides(context.Background())
	assert.Equals(fb.Calls("GET /translations"), 2)
	assert.Nil(backend.Ping(context.Background()))
}
