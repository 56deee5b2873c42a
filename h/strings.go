package h

import (
	"strconv"
	"strings"
)

func ToInt(value string) int {
	i, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		panic(err)
	}
	return i
}

// SplitTags turns "go, react ,, api" into [go react api].
func SplitTags(value string) []string {
	tags := []string{}
	for _, tag := range strings.Split(value, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
