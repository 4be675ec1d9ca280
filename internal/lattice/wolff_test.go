package lattice_test

import (
	"math"
	"math/rand/v2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/umdetree/Ising2D-Wolff/internal/lattice"
)

func uniform(size int, s int8) [][]int8 {
	grid := make([][]int8, size)
	for r := range grid {
		grid[r] = make([]int8, size)
		for c := range grid[r] {
			grid[r][c] = s
		}
	}
	return grid
}

func expectConsistent(l *lattice.Lattice) {
	e, m := l.Recompute()
	Expect(l.Magnetization()).To(Equal(m))
	Expect(l.Energy()).To(BeNumerically("~", e, 1e-9*math.Max(1, math.Abs(e))))
	Expect(l.MagnetizationPerSite()).To(And(
		BeNumerically(">=", -1.0),
		BeNumerically("<=", 1.0),
	))
}

var _ = Describe("Lattice", func() {
	var rng *rand.Rand

	BeforeEach(func() {
		rng = rand.New(rand.NewPCG(42, 7))
	})

	Describe("construction", func() {
		It("rejects non-positive sizes", func() {
			for _, size := range []int{0, -1, -16} {
				_, err := lattice.New(size, 1.0, 0.4, rng)
				Expect(err).To(MatchError(lattice.ErrInvalidSize))
			}
		})

		It("computes the ground state energy of an aligned lattice", func() {
			for _, size := range []int{1, 2, 3, 8, 17} {
				l, err := lattice.NewFromSpins(uniform(size, 1), 1.0, 0.4)
				Expect(err).NotTo(HaveOccurred())
				Expect(l.Energy()).To(Equal(-2.0 * float64(size*size)))
				Expect(l.MagnetizationPerSite()).To(Equal(1.0))
			}
		})

		It("rejects ragged or non-±1 grids", func() {
			_, err := lattice.NewFromSpins([][]int8{{1, 1}, {1}}, 1.0, 0.4)
			Expect(err).To(MatchError(lattice.ErrInvalidSpins))

			_, err = lattice.NewFromSpins([][]int8{{1, 0}, {1, 1}}, 1.0, 0.4)
			Expect(err).To(MatchError(lattice.ErrInvalidSpins))

			_, err = lattice.NewFromSpins(nil, 1.0, 0.4)
			Expect(err).To(MatchError(lattice.ErrInvalidSize))
		})

		It("draws a consistent random initial state", func() {
			l, err := lattice.New(16, 1.0, 0.4, rng)
			Expect(err).NotTo(HaveOccurred())
			expectConsistent(l)

			up := 0
			for _, row := range l.Spins() {
				for _, s := range row {
					Expect(s == 1 || s == -1).To(BeTrue())
					if s == 1 {
						up++
					}
				}
			}
			Expect(up).To(BeNumerically(">", 0))
			Expect(up).To(BeNumerically("<", 256))
		})

		It("is reproducible for a fixed seed", func() {
			a, _ := lattice.New(10, 1.0, 0.4, rand.New(rand.NewPCG(1, 2)))
			b, _ := lattice.New(10, 1.0, 0.4, rand.New(rand.NewPCG(1, 2)))
			Expect(a.Spins()).To(Equal(b.Spins()))
		})
	})

	DescribeTable("keeps energy and magnetization consistent across cluster steps",
		func(size int, j, beta float64) {
			l, err := lattice.New(size, j, beta, rng)
			Expect(err).NotTo(HaveOccurred())
			for k := 0; k < 200; k++ {
				l.WolffStep(rng, rng.IntN(size), rng.IntN(size))
				expectConsistent(l)
			}
			l.SimulateWolff(rng, 5*size*size)
			expectConsistent(l)
		},
		Entry("infinite temperature", 8, 1.0, 0.0),
		Entry("disordered", 12, 1.0, 0.2),
		Entry("critical", 16, 1.0, 0.4406868),
		Entry("ordered", 16, 1.0, 1.0),
		Entry("odd size", 7, 1.0, 0.5),
		Entry("non-unit coupling", 10, 2.5, 0.1),
		Entry("antiferromagnetic coupling", 10, -1.0, 0.5),
	)

	Describe("WolffStep", func() {
		It("flips only the seed when βJ is zero", func() {
			l, err := lattice.New(4, 1.0, 0.0, rng)
			Expect(err).NotTo(HaveOccurred())
			Expect(l.ClusterProbability()).To(Equal(0.0))

			for k := 0; k < 50; k++ {
				row, col := rng.IntN(4), rng.IntN(4)
				before := l.Spins()
				Expect(l.WolffStep(rng, row, col)).To(Equal(1))
				after := l.Spins()

				for r := 0; r < 4; r++ {
					for c := 0; c < 4; c++ {
						if r == row && c == col {
							Expect(after[r][c]).To(Equal(-before[r][c]))
						} else {
							Expect(after[r][c]).To(Equal(before[r][c]))
						}
					}
				}
				expectConsistent(l)
			}
		})

		It("flips a whole uniform lattice when βJ is large", func() {
			full := 0
			const trials = 100
			for k := 0; k < trials; k++ {
				trial := rand.New(rand.NewPCG(uint64(k), 99))
				l, err := lattice.NewFromSpins(uniform(5, 1), 1.0, 50.0)
				Expect(err).NotTo(HaveOccurred())
				if l.WolffStep(trial, trial.IntN(5), trial.IntN(5)) == 25 {
					full++
				}
				Expect(l.MagnetizationPerSite()).To(Equal(-1.0))
				expectConsistent(l)
			}
			Expect(full).To(Equal(trials))
		})

		It("stops at unlike spins", func() {
			grid := uniform(4, -1)
			grid[1][1], grid[1][2] = 1, 1
			l, err := lattice.NewFromSpins(grid, 1.0, 50.0)
			Expect(err).NotTo(HaveOccurred())

			Expect(l.WolffStep(rng, 1, 1)).To(Equal(2))
			Expect(l.MagnetizationPerSite()).To(Equal(-1.0))
			Expect(l.Energy()).To(Equal(-32.0))
		})

		It("wraps seed indices onto the torus", func() {
			l, err := lattice.NewFromSpins(uniform(3, 1), 1.0, 0.0)
			Expect(err).NotTo(HaveOccurred())

			l.WolffStep(rng, -1, 4)
			Expect(l.Spin(2, 1)).To(Equal(-1))
			Expect(l.Spin(-1, 1)).To(Equal(-1))
			expectConsistent(l)
		})

		It("applies the single flip energy change", func() {
			l, err := lattice.NewFromSpins(uniform(4, 1), 1.0, 0.0)
			Expect(err).NotTo(HaveOccurred())

			l.WolffStep(rng, 2, 2)
			// four broken bonds: -32 + 4·2
			Expect(l.Energy()).To(Equal(-24.0))
			Expect(l.Magnetization()).To(Equal(14))
		})
	})
})
