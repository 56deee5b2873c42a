package i18n

import (
	"github.com/soffa-projects/folio-web/log"
)

// Override is one server-persisted translation, as returned by GET /translations.
type Override struct {
	ID       int    `json:"id,omitempty"`
	Language string `json:"language"`
	Key      string `json:"key"`
	Value    string `json:"value"`
}

// Merge layers overrides on top of static and returns a new set. static is
// deep copied first and is never modified. Records are applied in order, so
// the last one wins for a repeated (language, key).
func Merge(static *Set, overrides []Override) *Set {
	var merged *Set
	if static == nil {
		merged = NewSet()
	} else {
		merged = static.clone()
	}
	merged.defaultsOnly = false
	for _, o := range overrides {
		language := NormalizeLanguage(o.Language)
		path := ParsePath(o.Key)
		if language == "" || !path.Valid() {
			log.Debug("ignoring malformed translation override %q/%q", o.Language, o.Key)
			continue
		}
		merged.put(language, path, o.Value)
	}
	return merged
}

// defaultsOnly returns a copy of static flagged as missing its overrides.
func defaultsOnly(static *Set) *Set {
	out := Merge(static, nil)
	out.defaultsOnly = true
	return out
}
