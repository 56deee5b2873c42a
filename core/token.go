package f

import (
	"time"
)

type CsrfTokenProvider interface {
	Create(duration time.Duration) (string, error)
	Verify(token string) error
}

// TokenInspector reads the claims of the backend-issued admin token without
// verifying its signature; the backend remains the authority.
type TokenInspector interface {
	Inspect(token string) (*Authentication, error)
}
