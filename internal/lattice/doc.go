// Package lattice holds the state of a 2D Ising model on an N×N torus and the
// Wolff single-cluster update that evolves it.
//
// A [Lattice] keeps its energy and magnetization up to date incrementally:
// each single-site flip changes them in O(1), so reading either observable
// never requires a pass over the grid.
//
//	rng := rand.New(rand.NewPCG(seed, 0))
//	l, err := lattice.New(32, 1.0, 0.44, rng)
//	if err != nil {
//	    return err
//	}
//	l.SimulateWolff(rng, 32*32)
//	m := l.MagnetizationPerSite()
//
// # Randomness
//
// The lattice never owns a random source. Callers pass a [Rand] to [New],
// [Lattice.WolffStep] and [Lattice.SimulateWolff], which keeps runs
// reproducible and lets independent trials run on separate goroutines with
// separate streams.
//
// # Thread Safety
//
// A Lattice is NOT safe for concurrent use. Give each goroutine its own
// Lattice and its own random stream.
package lattice
