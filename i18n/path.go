package i18n

import "strings"

// Path is a dotted translation key split into its segments ("hero.badge" -> [hero badge]).
type Path []string

func ParsePath(dotted string) Path {
	if dotted == "" {
		return nil
	}
	return strings.Split(dotted, ".")
}

func (p Path) String() string {
	return strings.Join(p, ".")
}

// Valid reports whether every segment is non-blank. "a..b", ".a" and "" are not.
func (p Path) Valid() bool {
	if len(p) == 0 {
		return false
	}
	for _, segment := range p {
		if strings.TrimSpace(segment) == "" {
			return false
		}
	}
	return true
}

func (p Path) parent() Path {
	return p[:len(p)-1]
}

func (p Path) last() string {
	return p[len(p)-1]
}

// NormalizeLanguage lower-cases and trims a language code ("ET " -> "et").
func NormalizeLanguage(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
