// Package viz provides the terminal views of the ising tools.
//
// It contains:
//
//   - [Model] and [Watch]: a Bubble Tea view that advances a time-series
//     recorder while drawing the lattice and its magnetization history
//   - [Canvas]: Braille-based pixel canvas, one dot per spin (or per stride
//     of spins on large lattices)
//   - Styles and progress bars used by the CLI summaries
//   - Theme selection with 3 built-in color schemes
//
// # Key Bindings
//
//	q, Esc, Ctrl+C - abort the run
//
// The viewer never alters the run parameters. An aborted run returns
// [ErrAborted] and the caller writes nothing.
package viz
