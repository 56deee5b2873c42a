package adapters

import (
	"testing"

	folio "github.com/soffa-projects/folio-web/i18n"
	"github.com/soffa-projects/folio-web/test"
)

func TestLocalizer(t *testing.T) {
	assert := test.NewAssertions(t)
	localizer := NewLocalizer("en")
	set := folio.Defaults()

	assert.Equals(localizer.Localize(set, "en", "projects.count", map[string]any{"Count": 3}), "3 projects")
	assert.Equals(localizer.Localize(set, "en", "admin.welcome", map[string]any{"User": "admin"}), "Signed in as admin")
	assert.Equals(localizer.Localize(set, "en", "admin.upload.done", map[string]any{"Done": 1, "Total": 2}), "1 of 2 files uploaded")

	// plain lookups and misses
	assert.Equals(localizer.Localize(set, "en", "nav.home", nil), folio.Resolve(set, "en", "nav.home"))
	assert.Equals(localizer.Localize(set, "en", "does.not.exist", map[string]any{"Count": 1}), "does.not.exist")
	assert.Equals(localizer.Localize(set, "xx", "nav.home", nil), "nav.home")
}

func TestLocalizer_FollowsOverrides(t *testing.T) {
	assert := test.NewAssertions(t)
	localizer := NewLocalizer("en")

	first := folio.Merge(folio.Defaults(), []folio.Override{{Language: "en", Key: "projects.count", Value: "{{.Count}} works"}})
	assert.Equals(localizer.Localize(first, "en", "projects.count", map[string]any{"Count": 2}), "2 works")

	second := folio.Merge(folio.Defaults(), []folio.Override{{Language: "en", Key: "projects.count", Value: "{{.Count}} items"}})
	assert.Equals(localizer.Localize(second, "en", "projects.count", map[string]any{"Count": 2}), "2 items")

	// the default language is never used as a fallback
	partial := folio.Merge(folio.Defaults(), []folio.Override{{Language: "en", Key: "only.english", Value: "{{.Count}} x"}})
	assert.Equals(localizer.Localize(partial, "ru", "only.english", map[string]any{"Count": 2}), "only.english")
}
