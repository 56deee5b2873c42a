package adapters

import (
	"time"

	f "github.com/soffa-projects/folio-web/core"
	"github.com/soffa-projects/folio-web/h"
)

type defaultCsrfTokenProvider struct {
	secret string
}

// NewCsrfTokenProvider signs tokens with secret. An empty secret picks a
// random one, which only works with a single instance.
func NewCsrfTokenProvider(secret string) f.CsrfTokenProvider {
	if secret == "" {
		secret = h.RandomString(32)
	}
	return &defaultCsrfTokenProvider{
		secret: secret,
	}
}

func (p *defaultCsrfTokenProvider) Create(duration time.Duration) (string, error) {
	return h.NewCsrf(p.secret, duration)
}

func (p *defaultCsrfTokenProvider) Verify(token string) error {
	return h.VerifyCsrf(p.secret, token)
}
