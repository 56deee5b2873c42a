package adapters

import (
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
	f "github.com/soffa-projects/folio-web/core"
	"github.com/soffa-projects/folio-web/errors"
)

// jwtInspector reads the token the portfolio API issued at login ({sub, exp}).
// With a secret the HS256 signature is checked too; without one the claims
// are trusted and the backend rejects forged tokens on the next admin call.
type jwtInspector struct {
	secretKey string
	now       func() time.Time
}

func NewTokenInspector(secretKey string) f.TokenInspector {
	return &jwtInspector{secretKey: secretKey, now: time.Now}
}

func (p *jwtInspector) Inspect(token string) (*f.Authentication, error) {
	if token == "" {
		return nil, errors.Unauthorized("missing token")
	}
	var tok jwt.Token
	var err error
	if p.secretKey != "" {
		tok, err = jwt.Parse([]byte(token), jwt.WithKey(jwa.HS256(), []byte(p.secretKey)))
	} else {
		tok, err = jwt.ParseInsecure([]byte(token))
	}
	if err != nil {
		return nil, errors.Unauthorized(fmt.Sprintf("failed to parse token: %s", err))
	}

	sub, ok := tok.Subject()
	if !ok || sub == "" {
		return nil, errors.Unauthorized("token has no subject")
	}
	auth := &f.Authentication{Username: sub}
	if exp, ok := tok.Expiration(); ok && !exp.IsZero() {
		if p.now().After(exp) {
			return nil, errors.Unauthorized("token expired")
		}
		auth.ExpiresAt = exp
	}
	return auth, nil
}
