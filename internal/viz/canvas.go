package viz

import (
	"strings"

	"github.com/umdetree/Ising2D-Wolff/internal/lattice"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
	return c
}

// Set raises the dot at (x, y) in sub-pixel coordinates. The canvas is
// (Width*2) x (Height*4) sub-pixels.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// CanvasFor sizes a canvas for an n×n lattice shown at most maxSites sites
// per side. It returns the canvas and the sampling stride.
func CanvasFor(n, maxSites int) (*Canvas, int) {
	stride := 1
	if maxSites > 0 && n > maxSites {
		stride = (n + maxSites - 1) / maxSites
	}
	shown := (n + stride - 1) / stride
	return NewCanvas((shown+1)/2, (shown+3)/4), stride
}

// DrawLattice raises one dot per sampled up spin.
func (c *Canvas) DrawLattice(l *lattice.Lattice, stride int) {
	if stride < 1 {
		stride = 1
	}
	c.Clear()
	n := l.Size()
	for r := 0; r < n; r += stride {
		for col := 0; col < n; col += stride {
			if l.Spin(r, col) > 0 {
				c.Set(col/stride, r/stride)
			}
		}
	}
}
