package h

import (
	"encoding/base64"
	"strings"

	"github.com/google/uuid"
)

// NewId returns a random identifier, optionally prefixed ("req_...").
func NewId(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	if prefix == "" {
		return id
	}
	return prefix + "_" + id
}

// RandomString returns a url-safe random string of the given length.
func RandomString(length int) string {
	bytes, err := GenerateSecureRandomBytes(length)
	if err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes)[:length]
}
