package adapters

import (
	"testing"
	"time"

	"github.com/soffa-projects/folio-web/test"
)

func TestCsrfTokenProvider(t *testing.T) {
	assert := test.NewAssertions(t)
	provider := NewCsrfTokenProvider("secret")

	token, err := provider.Create(time.Hour)
	assert.Nil(err)
	assert.NotEmpty(token)
	assert.Nil(provider.Verify(token))

	assert.NotNil(NewCsrfTokenProvider("another").Verify(token))
	assert.NotNil(provider.Verify("garbage"))

	expired, err := provider.Create(-time.Minute)
	assert.Nil(err)
	assert.NotNil(provider.Verify(expired))
}

func TestCsrfTokenProvider_RandomSecret(t *testing.T) {
	assert := test.NewAssertions(t)
	provider := NewCsrfTokenProvider("")

	token, err := provider.Create(time.Hour)
	assert.Nil(err)
	assert.Nil(provider.Verify(token))
}
