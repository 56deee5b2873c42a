package f

import (
	"context"

	"github.com/soffa-projects/folio-web/i18n"
)

// Translations is the process-wide store of merged translation sets.
type Translations interface {
	Current() *i18n.Set
	Load(ctx context.Context) *i18n.Set
	Reload(ctx context.Context) *i18n.Set
	Loaded() bool
}

type TranslationEditor interface {
	State() i18n.State
	Err() error
	Open() i18n.State
	Submit(ctx context.Context, language string, values map[string]string) (i18n.Ack, error)
}

// Localizer renders a message of set in language. Unknown keys render as the key itself.
type Localizer interface {
	Localize(set *i18n.Set, language string, key string, data map[string]any) string
}
