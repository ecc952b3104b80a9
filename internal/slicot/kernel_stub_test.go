//go:build !slicot || !cgo

package slicot

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestDefaultKernelNotBuilt(t *testing.T) {
	g := NewWithT(t)

	k, err := DefaultKernel()
	g.Expect(k).To(BeNil())
	g.Expect(err).To(MatchError(ErrNotBuilt))

	s, err := New()
	g.Expect(s).To(BeNil())
	g.Expect(err).To(MatchError(ErrNotBuilt))
}
