package test

import (
	"testing"

	"github.com/onsi/gomega"
)

type Assertions struct {
	internal *gomega.WithT
}

func NewAssertions(t *testing.T) Assertions {
	return Assertions{internal: gomega.NewWithT(t)}
}

func (a Assertions) Nil(err error, msg ...any) {
	a.internal.Expect(err).To(gomega.BeNil(), msg...)
}

func (a Assertions) NotNil(values ...any) {
	for _, value := range values {
		a.internal.Expect(value).To(gomega.Not(gomega.BeNil()))
	}
}

func (a Assertions) NotEmpty(value string) {
	a.internal.Expect(value).To(gomega.Not(gomega.BeEmpty()))
}

func (a Assertions) True(value bool, msg ...any) {
	a.internal.Expect(value).To(gomega.BeTrue(), msg...)
}

func (a Assertions) False(value bool, msg ...any) {
	a.internal.Expect(value).To(gomega.BeFalse(), msg...)
}

func (a Assertions) Equals(value any, expected any) {
	a.internal.Expect(value).To(gomega.Equal(expected))
}

func (a Assertions) NotEqual(value any, expected any) {
	a.internal.Expect(value).NotTo(gomega.Equal(expected))
}

func (a Assertions) Contains(value string, substr string) {
	a.internal.Expect(value).To(gomega.ContainSubstring(substr))
}

func (a Assertions) NotContains(value string, substr string) {
	a.internal.Expect(value).NotTo(gomega.ContainSubstring(substr))
}

func (a Assertions) HasKey(value any, key any) {
	a.internal.Expect(value).To(gomega.HaveKey(key))
}

func (a Assertions) Len(value any, count int) {
	a.internal.Expect(value).To(gomega.HaveLen(count))
}

func (a Assertions) MatchJson(value string, pattern string) {
	a.internal.Expect(value).To(gomega.MatchJSON(pattern))
}

// Eventually polls fn until it returns true (1s, every 10ms).
func (a Assertions) Eventually(fn func() bool) {
	a.internal.Eventually(fn).Should(gomega.BeTrue())
}
