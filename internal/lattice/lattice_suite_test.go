package lattice_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestLattice(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Lattice Suite")
}
