package h

import (
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

func TestGenerateSecureRandomBytes(t *testing.T) {
	bytes, err := GenerateSecureRandomBytes(32)
	assert.Equal(t, err, nil)
	assert.Equal(t, len(bytes), 32)
}

func TestNewJwt(t *testing.T) {
	token, err := NewJwt(JwtConfig{
		Subject:   "admin",
		SecretKey: "test-secret",
		Ttl:       time.Hour,
	})
	assert.Equal(t, err, nil)
	assert.Equal(t, len(strings.Split(token, ".")), 3)

	parsed, err := jwt.Parse([]byte(token), jwt.WithKey(jwa.HS256(), []byte("test-secret")))
	assert.Equal(t, err, nil)
	sub, _ := parsed.Subject()
	assert.Equal(t, sub, "admin")
}

func TestNewJwt_WrongSecret(t *testing.T) {
	token, err := NewJwt(JwtConfig{Subject: "admin", SecretKey: "one", Ttl: time.Hour})
	assert.Equal(t, err, nil)
	_, err = jwt.Parse([]byte(token), jwt.WithKey(jwa.HS256(), []byte("two")))
	assert.NotEqual(t, err, nil)
}

func TestVerifyCsrf_Valid(t *testing.T) {
	token, err := NewCsrf("secret", time.Minute)
	assert.Equal(t, err, nil)
	assert.Equal(t, VerifyCsrf("secret", token), nil)
}

func TestNewCsrf_Uniqueness(t *testing.T) {
	a, _ := NewCsrf("secret", time.Minute)
	b, _ := NewCsrf("secret", time.Minute)
	assert.NotEqual(t, a, b)
}

func TestVerifyCsrf_InvalidFormat(t *testing.T) {
	assert.NotEqual(t, VerifyCsrf("secret", "not-a-token"), nil)
}

func TestVerifyCsrf_InvalidSignature(t *testing.T) {
	token, _ := NewCsrf("secret", time.Minute)
	assert.NotEqual(t, VerifyCsrf("other-secret", token), nil)
}

func TestVerifyCsrf_Expired(t *testing.T) {
	token, _ := NewCsrf("secret", -time.Minute)
	err := VerifyCsrf("secret", token)
	assert.NotEqual(t, err, nil)
	assert.Equal(t, err.Error(), "CSRF token expired")
}
