package i18n

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestResolveUnknownPath(t *testing.T) {
	set := Defaults()
	for _, p := range []string{"hero.nonexistent", "nope", "a.b.c.d", "", "admin.form", "techCheck.sub", "hero..badge"} {
		assert.Equal(t, Resolve(set, "en", p), p)
	}
	assert.Equal(t, Resolve(set, "fr", "hero.badge"), "hero.badge")
	assert.Equal(t, Resolve(nil, "en", "hero.badge"), "hero.badge")
}

func TestMergeOverrideWins(t *testing.T) {
	static := Defaults()
	merged := Merge(static, []Override{{Language: "en", Key: "hero.badge", Value: "Open to offers"}})

	assert.Equal(t, Resolve(merged, "en", "hero.badge"), "Open to offers")
	assert.Equal(t, Resolve(merged, "en", "hero.nonexistent"), "hero.nonexistent")
	// untouched keys keep their defaults
	assert.Equal(t, Resolve(merged, "en", "hero.viewWork"), "View My Work")
	assert.Equal(t, Resolve(merged, "ru", "hero.badge"), "Открыт к предложениям")
	// static is not modified
	assert.Equal(t, Resolve(static, "en", "hero.badge"), "Available for Hire")
}

func TestMergeEveryOverrideResolves(t *testing.T) {
	overrides := []Override{
		{Language: "en", Key: "hero.badge", Value: "a"},
		{Language: "ru", Key: "nav.home", Value: "b"},
		{Language: "et", Key: "brand.new.key", Value: "c"},
		{Language: "fr", Key: "hero.badge", Value: "d"},
		{Language: "en", Key: "techCheck", Value: ""},
	}
	merged := Merge(Defaults(), overrides)
	for _, o := range overrides {
		assert.Equal(t, Resolve(merged, o.Language, o.Key), o.Value)
	}
	assert.Equal(t, Resolve(merged, "fr", "hero.titleEnd"), "hero.titleEnd")
}

func TestMergeNilEqualsStatic(t *testing.T) {
	static := Defaults()
	before := static.Flatten("en")

	for i := 0; i < 3; i++ {
		merged := Merge(static, nil)
		assert.Equal(t, merged.Equal(static), true)
		assert.Equal(t, merged != static, true)
	}
	merged := Merge(static, []Override{{Language: "en", Key: "nav.home", Value: "Start"}})
	assert.Equal(t, Resolve(merged, "en", "nav.home"), "Start")
	assert.Equal(t, static.Flatten("en"), before)
}

func TestMergeLastRecordWins(t *testing.T) {
	merged := Merge(Defaults(), []Override{
		{Language: "en", Key: "hero.badge", Value: "first"},
		{Language: "EN", Key: "hero.badge", Value: "second"},
		{Language: "en", Key: "hero.badge", Value: "third"},
	})
	assert.Equal(t, Resolve(merged, "en", "hero.badge"), "third")
}

func TestMergeReshapesTree(t *testing.T) {
	merged := Merge(Defaults(), []Override{
		// a leaf where a branch is needed becomes a branch
		{Language: "en", Key: "techCheck.title", Value: "Stack"},
		// a leaf written over a branch replaces it
		{Language: "en", Key: "footer", Value: "Footer"},
	})
	assert.Equal(t, Resolve(merged, "en", "techCheck.title"), "Stack")
	assert.Equal(t, Resolve(merged, "en", "techCheck"), "techCheck")
	assert.Equal(t, Resolve(merged, "en", "footer"), "Footer")
	assert.Equal(t, Resolve(merged, "en", "footer.rights"), "footer.rights")
}

func TestMergeSkipsMalformed(t *testing.T) {
	merged := Merge(Defaults(), []Override{
		{Language: "", Key: "hero.badge", Value: "x"},
		{Language: "en", Key: "", Value: "x"},
		{Language: "en", Key: "hero..badge", Value: "x"},
	})
	assert.Equal(t, merged.Equal(Defaults()), true)
}

func TestMergeNilStatic(t *testing.T) {
	merged := Merge(nil, []Override{{Language: "en", Key: "a.b", Value: "c"}})
	assert.Equal(t, merged.Languages(), []string{"en"})
	assert.Equal(t, Resolve(merged, "en", "a.b"), "c")
}
