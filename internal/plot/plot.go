// Package plot renders numeric series to raster images and terminal previews.
package plot

import (
	"bytes"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/pkg/errors"
	"github.com/wcharczuk/go-chart/v2"
	"golang.org/x/image/bmp"
	"gonum.org/v1/gonum/floats"
)

const (
	DefaultWidth  = 600
	DefaultHeight = 400
)

// ErrNoData is returned when nothing finite is left to draw.
var ErrNoData = errors.New("plot: no finite data points")

type Figure struct {
	Title  string
	XLabel string
	YLabel string
	Width  int
	Height int
}

// Series is one named curve.
type Series struct {
	Name string
	X, Y []float64
}

// Index pairs ys with their positions 0, 1, 2, ...
func Index(name string, ys []float64) Series {
	xs := make([]float64, len(ys))
	for i := range xs {
		xs[i] = float64(i)
	}
	return Series{Name: name, X: xs, Y: ys}
}

// Line draws ys against their index.
func Line(path string, fig Figure, ys []float64) error {
	return render(path, fig, []Series{Index(fig.YLabel, ys)}, false)
}

// Curves draws one line per series with a legend.
func Curves(path string, fig Figure, series []Series) error {
	return render(path, fig, series, false)
}

// Scatter draws one dot cloud per series with a legend.
func Scatter(path string, fig Figure, series []Series) error {
	return render(path, fig, series, true)
}

func render(path string, fig Figure, series []Series, dots bool) error {
	if fig.Width <= 0 {
		fig.Width = DefaultWidth
	}
	if fig.Height <= 0 {
		fig.Height = DefaultHeight
	}

	clean := make([]Series, 0, len(series))
	for _, s := range series {
		if f := finitePoints(s); len(f.X) > 0 {
			clean = append(clean, f)
		}
	}
	if len(clean) == 0 {
		return errors.Wrap(ErrNoData, path)
	}

	xMin, xMax, yMin, yMax := bounds(clean)

	graph := chart.Chart{
		Title:  fig.Title,
		Width:  fig.Width,
		Height: fig.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Name:  fig.XLabel,
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
		},
		YAxis: chart.YAxis{
			Name:  fig.YLabel,
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
		},
	}

	for i, s := range clean {
		style := chart.Style{StrokeColor: chart.GetDefaultColor(i), StrokeWidth: 1.5}
		if dots {
			style = chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    2.5,
				DotColor:    chart.GetDefaultColor(i),
			}
		}
		graph.Series = append(graph.Series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: s.X,
			YValues: s.Y,
			Style:   style,
		})
	}
	if len(clean) > 1 {
		graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return errors.Wrapf(err, "render %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "create image directory")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create image")
	}
	defer f.Close()

	if err := encode(f, path, buffer); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return f.Close()
}

// encode writes the rendered PNG as is, or re-encodes it when path asks for
// a bitmap.
func encode(w io.Writer, path string, rendered *bytes.Buffer) error {
	if !strings.EqualFold(filepath.Ext(path), ".bmp") {
		_, err := rendered.WriteTo(w)
		return err
	}
	img, err := png.Decode(rendered)
	if err != nil {
		return err
	}
	return bmp.Encode(w, img)
}

func finitePoints(s Series) Series {
	n := min(len(s.X), len(s.Y))
	out := Series{Name: s.Name, X: make([]float64, 0, n), Y: make([]float64, 0, n)}
	for i := 0; i < n; i++ {
		if isFinite(s.X[i]) && isFinite(s.Y[i]) {
			out.X = append(out.X, s.X[i])
			out.Y = append(out.Y, s.Y[i])
		}
	}
	return out
}

// bounds returns axis ranges padded by a tenth of the span, or by one unit
// around a single value.
func bounds(series []Series) (xMin, xMax, yMin, yMax float64) {
	xMin, yMin = math.Inf(1), math.Inf(1)
	xMax, yMax = math.Inf(-1), math.Inf(-1)
	for _, s := range series {
		xMin, xMax = math.Min(xMin, floats.Min(s.X)), math.Max(xMax, floats.Max(s.X))
		yMin, yMax = math.Min(yMin, floats.Min(s.Y)), math.Max(yMax, floats.Max(s.Y))
	}
	xMin, xMax = pad(xMin, xMax, 0)
	yMin, yMax = pad(yMin, yMax, 0.1)
	return
}

func pad(lo, hi, frac float64) (float64, float64) {
	if hi == lo {
		return lo - 1, hi + 1
	}
	d := (hi - lo) * frac
	return lo - d, hi + d
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Preview renders ys as a terminal chart. It returns an empty string when no
// finite value remains.
func Preview(caption string, ys []float64, width, height int) string {
	data := make([]float64, 0, len(ys))
	for _, v := range ys {
		if isFinite(v) {
			data = append(data, v)
		}
	}
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
