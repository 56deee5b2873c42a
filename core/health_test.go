package f

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestHealthCheck(t *testing.T) {
	check := NewHealthCheck(AppInfo{Name: "folio", Version: "1.0.0"})
	check.Add("backend", func() error { return nil })
	res := check.Build()
	assert.Equal(t, res.Status, StatusUp)
	assert.Equal(t, res.Whoami, "folio")
	assert.Equal(t, res.Components["backend"].Status, StatusUp)

	check.Degrade("translations", "defaults only")
	assert.Equal(t, check.Build().Status, StatusDegraded)

	check.Add("cache", func() error { return errors.New("refused") })
	res = check.Build()
	assert.Equal(t, res.Status, StatusDown)
	assert.Equal(t, res.Components["cache"].Message, "refused")

	check.Degrade("other", "still down")
	assert.Equal(t, check.Build().Status, StatusDown)
}

func TestBearer(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, BearerFrom(ctx), "")
	assert.Equal(t, WithBearer(ctx, ""), ctx)

	ctx = WithBearer(ctx, "abc")
	assert.Equal(t, BearerFrom(ctx), "abc")
}

func TestProject(t *testing.T) {
	assert.Equal(t, Project{}.Cover(), "")
	assert.Equal(t, Project{Images: []string{"a.png", "b.png"}}.Cover(), "a.png")
	assert.Equal(t, CV{}.IsEmpty(), true)
	assert.Equal(t, CV{About: "me"}.IsEmpty(), false)
}
