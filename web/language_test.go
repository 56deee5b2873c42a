package web

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestLanguageResolver(t *testing.T) {
	r := newLanguageResolver([]string{"en", "RU", "et", "??"}, "")

	assert.Equal(t, r.supported, []string{"en", "ru", "et"})
	assert.Equal(t, r.fallback, "en")

	cases := []struct {
		query, cookie, accept string
		expected              string
	}{
		{"ru", "et", "en", "ru"},
		{"xx", "et", "en", "et"},
		{"", "", "et-EE,et;q=0.9", "et"},
		{"", "", "ru-RU", "ru"},
		{"", "", "de-DE,fr;q=0.8", "en"},
		{"", "", "not a header;;", "en"},
		{"", "", "", "en"},
		{" ET ", "", "", "et"},
	}
	for _, c := range cases {
		assert.Equal(t, r.Resolve(c.query, c.cookie, c.accept), c.expected)
	}
}

func TestParseSkills(t *testing.T) {
	skills := parseSkills("Go | expert | daily | https://cert\n\n  | ignored\nSQL")
	assert.Equal(t, len(skills), 2)
	assert.Equal(t, skills[0].CertificateURL, "https://cert")
	assert.Equal(t, skills[1].Name, "SQL")
	assert.Equal(t, skills[1].Level, "")

	assert.Equal(t, formatSkills(skills), "Go | expert | daily | https://cert\nSQL")
}
