package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

//go:embed locales/*.toml
var embeddedLocales embed.FS

var (
	defaultsOnce sync.Once
	defaultSet   *Set
)

// Defaults is the compiled-in translation set (locales/<lang>.toml).
// The returned set is shared and must be treated as read-only.
func Defaults() *Set {
	defaultsOnce.Do(func() {
		set, err := LoadTables(embeddedLocales, "locales")
		if err != nil {
			panic(fmt.Sprintf("embedded locales are invalid: %v", err))
		}
		defaultSet = set
	})
	return defaultSet
}

// LoadTables reads every <lang>.toml file of dir into a set.
func LoadTables(fsys fs.FS, dir string) (*Set, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	tables := map[string]map[string]any{}
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".toml" {
			continue
		}
		raw, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		table := map[string]any{}
		if _, err := toml.Decode(string(raw), &table); err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		tables[strings.TrimSuffix(entry.Name(), ".toml")] = table
	}
	return FromTables(tables)
}
