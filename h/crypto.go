package h

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

func GenerateSecureRandomBytes(length int) ([]byte, error) {
	bytes := make([]byte, length)
	_, err := rand.Read(bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return bytes, nil
}

type JwtConfig struct {
	Subject   string
	SecretKey string
	Issuer    string
	Audience  []string
	Claims    map[string]any
	Ttl       time.Duration
}

// NewJwt builds an HS256 token. The portfolio API issues the same shape ({sub, exp}).
func NewJwt(cfg JwtConfig) (string, error) {
	builder := jwt.NewBuilder().
		JwtID(NewId("")).
		Issuer(cfg.Issuer).
		IssuedAt(time.Now()).
		Subject(cfg.Subject).
		Expiration(time.Now().Add(cfg.Ttl))
	if len(cfg.Audience) > 0 {
		builder = builder.Audience(cfg.Audience)
	}
	for k, v := range cfg.Claims {
		builder.Claim(k, v)
	}
	tok, err := builder.Build()
	if err != nil {
		return "", err
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256(), []byte(cfg.SecretKey)))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %s", err)
	}

	return string(signed), nil
}

func NewCsrf(secret string, duration time.Duration) (string, error) {
	random := make([]byte, 32)
	if _, err := rand.Read(random); err != nil {
		return "", err
	}
	payload := base64.RawURLEncoding.EncodeToString(random)

	exp := time.Now().Add(duration).Unix()
	expStr := strconv.FormatInt(exp, 10)
	payloadWithExp := payload + ":" + base64.RawURLEncoding.EncodeToString([]byte(expStr))

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payloadWithExp))
	signature := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	// payload:exp.signature
	return payloadWithExp + "." + signature, nil
}

func VerifyCsrf(secret string, token string) error {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return errors.New("invalid token format")
	}

	payloadWithExp := parts[0]
	signature := parts[1]

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payloadWithExp))
	expectedSig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(signature), []byte(expectedSig)) {
		return errors.New("invalid CSRF token signature")
	}

	payloadParts := strings.Split(payloadWithExp, ":")
	if len(payloadParts) != 2 {
		return errors.New("invalid token payload")
	}

	expBytes, err := base64.RawURLEncoding.DecodeString(payloadParts[1])
	if err != nil {
		return errors.New("invalid expiry encoding")
	}

	exp, err := strconv.ParseInt(string(expBytes), 10, 64)
	if err != nil {
		return errors.New("invalid expiry value")
	}

	if time.Now().Unix() > exp {
		return errors.New("CSRF token expired")
	}

	return nil
}
