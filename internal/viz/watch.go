package viz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/umdetree/Ising2D-Wolff/internal/sampler"
)

const (
	maxShownSites = 96
	historyWidth  = 60
	frameRate     = 30
)

// ErrAborted is returned by Watch when the viewer is closed before all
// requested samples are recorded.
var ErrAborted = errors.New("viz: run aborted")

type TickMsg time.Time

// Model shows a time-series run as it records. It never changes the run's
// parameters; it only advances the recorder until steps samples exist.
type Model struct {
	rec             *sampler.Recorder
	steps           int
	samplesPerFrame int
	canvas          *Canvas
	stride          int
	theme           Theme
	aborted         bool
}

// NewModel prepares a viewer that records steps samples, spreading them over
// roughly ten seconds of frames.
func NewModel(rec *sampler.Recorder, steps int, theme Theme) Model {
	canvas, stride := CanvasFor(rec.Lattice().Size(), maxShownSites)
	perFrame := steps / (10 * frameRate)
	if perFrame < 1 {
		perFrame = 1
	}
	m := Model{
		rec:             rec,
		steps:           steps,
		samplesPerFrame: perFrame,
		canvas:          canvas,
		stride:          stride,
		theme:           theme,
	}
	m.canvas.DrawLattice(rec.Lattice(), stride)
	return m
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Done() bool    { return m.rec.Series().Len() >= m.steps }
func (m Model) Aborted() bool { return m.aborted }

// Update advances the recorder on each tick and quits once every sample is
// recorded.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		}
	case TickMsg:
		for i := 0; i < m.samplesPerFrame && !m.Done(); i++ {
			m.rec.Step()
		}
		m.canvas.DrawLattice(m.rec.Lattice(), m.stride)
		if m.Done() {
			return m, tea.Quit
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	header := lipgloss.NewStyle().Foreground(m.theme.Primary).Bold(true).MarginBottom(1)
	spins := lipgloss.NewStyle().Foreground(m.theme.Spins).Padding(0, 2)
	label := lipgloss.NewStyle().Foreground(m.theme.Muted).Width(16)
	value := lipgloss.NewStyle().Foreground(m.theme.Text)
	help := lipgloss.NewStyle().Foreground(m.theme.Muted).MarginTop(1)

	l := m.rec.Lattice()
	series := m.rec.Series()

	var s strings.Builder
	s.WriteString(header.Render(fmt.Sprintf("ISING %d×%d  J=%g  β=%g", l.Size(), l.Size(), l.Coupling(), l.Beta())) + "\n")
	s.WriteString(spins.Render(m.canvas.String()) + "\n")

	if hist := tail(series.Magnetization, historyWidth); len(hist) > 1 {
		chart := asciigraph.Plot(hist, asciigraph.Height(5), asciigraph.Width(historyWidth), asciigraph.Caption("magnetization per site"))
		s.WriteString(lipgloss.NewStyle().Foreground(m.theme.Success).Render(chart) + "\n\n")
	}

	s.WriteString(label.Render("samples") + value.Render(fmt.Sprintf("%d/%d", series.Len(), m.steps)) + "\n")
	s.WriteString(label.Render("energy") + value.Render(fmt.Sprintf("%.2f", l.Energy())) + "\n")
	s.WriteString(label.Render("m") + value.Render(fmt.Sprintf("%+.4f", l.MagnetizationPerSite())) + "\n")
	s.WriteString(label.Render("mean cluster") + value.Render(fmt.Sprintf("%.1f", series.MeanClusterSize(m.rec.StepsPerSample()))) + "\n")
	if m.stride > 1 {
		warn := lipgloss.NewStyle().Foreground(m.theme.Warning)
		s.WriteString(label.Render("shown") + warn.Render(fmt.Sprintf("every %d sites", m.stride)) + "\n")
	}
	if m.aborted {
		s.WriteString(lipgloss.NewStyle().Foreground(m.theme.Error).Bold(true).MarginTop(1).Render("aborted, nothing written"))
		return s.String()
	}
	s.WriteString(help.Render("q: abort"))
	return s.String()
}

func tail(v []float64, n int) []float64 {
	if len(v) > n {
		return v[len(v)-n:]
	}
	return v
}

// Watch runs the viewer until steps samples are recorded and returns them.
func Watch(ctx context.Context, rec *sampler.Recorder, steps int, theme Theme) (*sampler.Series, error) {
	p := tea.NewProgram(NewModel(rec, steps, theme), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	if m, ok := final.(Model); ok && m.Aborted() {
		return nil, ErrAborted
	}
	return rec.Series(), nil
}
