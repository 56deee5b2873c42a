package test

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestAssertions(t *testing.T) {
	assert := NewAssertions(t)

	assert.Nil(nil)
	assert.NotNil("test", 42, errors.New("boom"))
	assert.NotEmpty(" ")
	assert.True(true)
	assert.False(false)
	assert.Equals([]int{1, 2, 3}, []int{1, 2, 3})
	assert.NotEqual(42, 43)
	assert.Contains("Available for Hire", "Hire")
	assert.NotContains("Available for Hire", "hero.badge")
	assert.HasKey(map[string]int{"a": 1}, "a")
	assert.Len([]string{"en", "ru", "et"}, 3)
}

func TestAssertions_MatchJson(t *testing.T) {
	assert := NewAssertions(t)

	assert.MatchJson(`{"name":"John","age":30}`, `{"age":30,"name":"John"}`)
	assert.MatchJson("[]", "[]")
	assert.MatchJson(`{"outer":{"inner":"value"}}`, `{"outer":{"inner":"value"}}`)
}

func TestAssertions_Eventually(t *testing.T) {
	assert := NewAssertions(t)

	var ticks atomic.Int32
	assert.Eventually(func() bool {
		return ticks.Add(1) > 3
	})
}
