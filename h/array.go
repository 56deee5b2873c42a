package h

import (
	"strings"

	"github.com/thoas/go-funk"
)

func ContainsString(array []string, value string) bool {
	if len(array) == 0 || value == "" {
		return false
	}
	return funk.ContainsString(array, value)
}

// SplitList splits a comma separated setting, trimming blanks and duplicates
// while keeping the first-seen order.
func SplitList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return funk.UniqString(items)
}
