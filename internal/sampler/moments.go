package sampler

import "math"

// CriticalTemperature is the exact Onsager critical temperature of the square
// lattice Ising model for J = 1, k_B = 1: 2 / ln(1 + √2).
const CriticalTemperature = 2.269185

// Moments accumulates running sums of magnetization-per-site moments. Sums
// are associative, so partial Moments from independent trials can be merged
// in any grouping.
type Moments struct {
	Count  int
	SumAbs float64
	Sum2   float64
	Sum4   float64

	// SumCluster is the total number of flipped sites, and Steps the number of
	// Wolff steps that produced them.
	SumCluster int
	Steps      int
}

// Add records one trial's magnetization per site.
func (m *Moments) Add(mag float64) {
	m2 := mag * mag
	m.Count++
	m.SumAbs += math.Abs(mag)
	m.Sum2 += m2
	m.Sum4 += m2 * m2
}

// AddClusters records the flipped sites of steps Wolff steps.
func (m *Moments) AddClusters(flipped, steps int) {
	m.SumCluster += flipped
	m.Steps += steps
}

// Merge folds o into m. Scans reduce every trial's contribution through it,
// so the result does not depend on how trials are grouped.
func (m *Moments) Merge(o Moments) {
	m.Count += o.Count
	m.SumAbs += o.SumAbs
	m.Sum2 += o.Sum2
	m.Sum4 += o.Sum4
	m.SumCluster += o.SumCluster
	m.Steps += o.Steps
}

func (m Moments) MeanAbs() float64 { return m.mean(m.SumAbs) }
func (m Moments) Mean2() float64   { return m.mean(m.Sum2) }
func (m Moments) Mean4() float64   { return m.mean(m.Sum4) }

func (m Moments) mean(sum float64) float64 {
	if m.Count == 0 {
		return 0
	}
	return sum / float64(m.Count)
}

// Binder is the Binder cumulant of the accumulated moments.
func (m Moments) Binder() float64 { return BinderCumulant(m.Mean2(), m.Mean4()) }

// MeanClusterSize is the average number of sites flipped per Wolff step.
func (m Moments) MeanClusterSize() float64 {
	if m.Steps == 0 {
		return 0
	}
	return float64(m.SumCluster) / float64(m.Steps)
}

// Susceptibility is β·L²·(⟨m²⟩ − ⟨|m|⟩²).
func (m Moments) Susceptibility(beta float64, size int) float64 {
	abs := m.MeanAbs()
	return beta * float64(size*size) * (m.Mean2() - abs*abs)
}

// BinderCumulant computes U = 1.5·(1 − ⟨m⁴⟩ / (3·⟨m²⟩²)). It follows
// ordinary floating point rules: a zero ⟨m²⟩ yields NaN or ±Inf.
func BinderCumulant(m2, m4 float64) float64 {
	return 1.5 * (1 - m4/(3*m2*m2))
}

// ScaledTemperature is the collapse abscissa L·(T − Tc)/Tc with T = 1/β.
func ScaledTemperature(size int, beta float64) float64 {
	return float64(size) * (1/beta - CriticalTemperature) / CriticalTemperature
}

// ScaledMagnetization is the collapse ordinate ⟨|m|⟩·L^(1/8).
func ScaledMagnetization(size int, meanAbs float64) float64 {
	return meanAbs * math.Pow(float64(size), 1.0/8.0)
}
