package i18n

// Resolve returns the value at dottedPath for language, or dottedPath itself
// when the language, a level or the leaf is missing, or when the path stops on a branch.
func Resolve(set *Set, language string, dottedPath string) string {
	if value, ok := set.Lookup(language, ParsePath(dottedPath)); ok {
		return value
	}
	return dottedPath
}
