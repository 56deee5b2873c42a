package i18n

import (
	"fmt"
	"sort"
)

// node is either a leaf carrying a value or a branch with named children.
type node struct {
	value    string
	children map[string]*node
}

func newLeaf(value string) *node {
	return &node{value: value}
}

func newBranch() *node {
	return &node{children: map[string]*node{}}
}

func (n *node) isLeaf() bool {
	return n.children == nil
}

func (n *node) clone() *node {
	if n.isLeaf() {
		return newLeaf(n.value)
	}
	out := &node{children: make(map[string]*node, len(n.children))}
	for name, child := range n.children {
		out.children[name] = child.clone()
	}
	return out
}

func (n *node) flatten(prefix string, out map[string]string) {
	for name, child := range n.children {
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}
		if child.isLeaf() {
			out[key] = child.value
			continue
		}
		child.flatten(key, out)
	}
}

// Set is a translation set: one tree per language code. A Set is never
// modified once it has been handed out; merges and reloads build new ones.
type Set struct {
	languages    map[string]*node
	defaultsOnly bool
}

func NewSet() *Set {
	return &Set{languages: map[string]*node{}}
}

// FromTables builds a set from decoded nested tables, one per language
// (the shape BurntSushi/toml and encoding/json produce).
func FromTables(tables map[string]map[string]any) (*Set, error) {
	set := NewSet()
	for language, table := range tables {
		root := newBranch()
		if err := fillBranch(root, table, Path{language}); err != nil {
			return nil, err
		}
		set.languages[NormalizeLanguage(language)] = root
	}
	return set, nil
}

func fillBranch(branch *node, table map[string]any, at Path) error {
	for name, raw := range table {
		switch value := raw.(type) {
		case map[string]any:
			child := newBranch()
			if err := fillBranch(child, value, append(at[:len(at):len(at)], name)); err != nil {
				return err
			}
			branch.children[name] = child
		case string:
			branch.children[name] = newLeaf(value)
		case []any, []map[string]any:
			return fmt.Errorf("%s.%s: arrays are not supported in translation tables", at, name)
		default:
			branch.children[name] = newLeaf(fmt.Sprint(value))
		}
	}
	return nil
}

// Languages returns the language codes present in the set, sorted.
func (s *Set) Languages() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.languages))
	for language := range s.languages {
		out = append(out, language)
	}
	sort.Strings(out)
	return out
}

func (s *Set) HasLanguage(language string) bool {
	if s == nil {
		return false
	}
	_, ok := s.languages[NormalizeLanguage(language)]
	return ok
}

// DefaultsOnly is true when the overrides could not be fetched and the set
// only carries the compiled-in defaults.
func (s *Set) DefaultsOnly() bool {
	return s != nil && s.defaultsOnly
}

// Lookup walks the tree of language along path. It only succeeds on a leaf.
func (s *Set) Lookup(language string, path Path) (string, bool) {
	if s == nil || len(path) == 0 {
		return "", false
	}
	current, ok := s.languages[NormalizeLanguage(language)]
	if !ok {
		return "", false
	}
	for _, segment := range path {
		if current.isLeaf() {
			return "", false
		}
		current, ok = current.children[segment]
		if !ok {
			return "", false
		}
	}
	if !current.isLeaf() {
		return "", false
	}
	return current.value, true
}

// Flatten returns the dotted-key view of one language. Unknown languages give an empty map.
func (s *Set) Flatten(language string) map[string]string {
	out := map[string]string{}
	if s == nil {
		return out
	}
	if root, ok := s.languages[NormalizeLanguage(language)]; ok {
		root.flatten("", out)
	}
	return out
}

// Len counts the leaves of one language.
func (s *Set) Len(language string) int {
	return len(s.Flatten(language))
}

// Equal compares the content of two sets, ignoring the defaults-only flag.
func (s *Set) Equal(other *Set) bool {
	left, right := s.Languages(), other.Languages()
	if len(left) != len(right) {
		return false
	}
	for i, language := range left {
		if right[i] != language {
			return false
		}
		a, b := s.Flatten(language), other.Flatten(language)
		if len(a) != len(b) {
			return false
		}
		for key, value := range a {
			if other, ok := b[key]; !ok || other != value {
				return false
			}
		}
	}
	return true
}

func (s *Set) clone() *Set {
	out := &Set{
		languages:    make(map[string]*node, len(s.languages)),
		defaultsOnly: s.defaultsOnly,
	}
	for language, root := range s.languages {
		out.languages[language] = root.clone()
	}
	return out
}

// put writes value at path, creating branches on the way and replacing a leaf
// found where a branch is needed (and the reverse at the last segment).
// Only ever called on a set that has not been published yet.
func (s *Set) put(language string, path Path, value string) {
	root, ok := s.languages[language]
	if !ok {
		root = newBranch()
		s.languages[language] = root
	}
	current := root
	for _, segment := range path.parent() {
		child, ok := current.children[segment]
		if !ok || child.isLeaf() {
			child = newBranch()
			current.children[segment] = child
		}
		current = child
	}
	current.children[path.last()] = newLeaf(value)
}
