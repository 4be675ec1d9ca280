package lattice

// WolffStep grows one cluster of like spins from (row, col) and flips it,
// returning the number of flipped sites. Indices wrap onto the torus.
//
// A site joins the cluster only while it still carries the seed's original
// spin. Flipping a site therefore also marks it visited: later pops of the
// same site fail the spin test and are no-ops, so no visited set is needed.
// Each candidate consumes exactly one uniform draw.
func (l *Lattice) WolffStep(rng Rand, row, col int) int {
	seed := l.index(row, col)
	original := l.spins[seed]

	l.flip(seed)
	flipped := 1

	stack := l.stack[:0]
	for _, nb := range l.neighbors(seed) {
		stack = append(stack, nb)
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if l.spins[i] != original {
			continue
		}
		if rng.Float64() < l.pAdd {
			l.flip(i)
			flipped++
			for _, nb := range l.neighbors(i) {
				stack = append(stack, nb)
			}
		}
	}

	l.stack = stack
	return flipped
}

// SimulateWolff performs steps Wolff updates, each from a uniformly drawn
// seed site. It returns the total number of flipped sites.
func (l *Lattice) SimulateWolff(rng Rand, steps int) int {
	total := 0
	for k := 0; k < steps; k++ {
		row := rng.IntN(l.size)
		col := rng.IntN(l.size)
		total += l.WolffStep(rng, row, col)
	}
	return total
}
