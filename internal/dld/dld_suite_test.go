package dld_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestDLD(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "DLD Suite")
}
