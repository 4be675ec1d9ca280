// Package sampler drives Wolff updates on lattices and turns them into the
// series the tools plot: energy and magnetization time series, Binder
// cumulant curves across a temperature grid, and finite-size scaling
// coordinates.
//
// Scans run every (size, β) point as an independent task on a bounded worker
// pool. Each trial gets its own lattice and its own PCG stream derived from
// the scan seed and the point, so results do not depend on the number of
// workers or on scheduling order.
package sampler
