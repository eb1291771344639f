package analysis

import "math"

// Histogram holds equal-width bins over [Min, Max].
type Histogram struct {
	Min, Max float64
	Counts   []float64
}

func (h *Histogram) Width() float64 {
	if len(h.Counts) == 0 {
		return 0
	}
	return (h.Max - h.Min) / float64(len(h.Counts))
}

// Center returns the midpoint of bin i.
func (h *Histogram) Center(i int) float64 {
	return h.Min + (float64(i)+0.5)*h.Width()
}

// Expected returns the Rayleigh(sigma) bin counts for n samples.
func (h *Histogram) Expected(sigma float64, n int) []float64 {
	out := make([]float64, len(h.Counts))
	w := h.Width()
	for i := range out {
		lo := h.Min + float64(i)*w
		out[i] = float64(n) * (rayleighCDF(lo+w, sigma) - rayleighCDF(lo, sigma))
	}
	return out
}

// SpeedHistogram bins speeds into the given number of bins from zero to the
// largest speed.
func SpeedHistogram(speeds []float64, bins int) *Histogram {
	if bins < 1 {
		bins = 1
	}
	h := &Histogram{Counts: make([]float64, bins)}
	if len(speeds) == 0 {
		return h
	}

	for _, v := range speeds {
		h.Max = math.Max(h.Max, v)
	}
	if h.Max == 0 {
		h.Counts[0] = float64(len(speeds))
		return h
	}

	w := h.Width()
	for _, v := range speeds {
		idx := int(v / w)
		if idx >= bins {
			idx = bins - 1
		}
		h.Counts[idx]++
	}
	return h
}

// RayleighScale is the maximum-likelihood scale of a 2D speed distribution:
// sqrt(sum v^2 / 2N).
func RayleighScale(speeds []float64) float64 {
	if len(speeds) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range speeds {
		sum += v * v
	}
	return math.Sqrt(sum / (2 * float64(len(speeds))))
}

func RayleighPDF(v, sigma float64) float64 {
	if v < 0 || sigma <= 0 {
		return 0
	}
	s2 := sigma * sigma
	return v / s2 * math.Exp(-v*v/(2*s2))
}

func rayleighCDF(v, sigma float64) float64 {
	if v <= 0 || sigma <= 0 {
		return 0
	}
	return 1 - math.Exp(-v*v/(2*sigma*sigma))
}

// MeanFreeSteps is the average number of steps a particle travels between
// collisions. Every collision involves two particles. It returns +Inf when
// no collision happened.
func MeanFreeSteps(steps, collisions, count int) float64 {
	if collisions == 0 {
		return math.Inf(1)
	}
	return float64(steps) * float64(count) / (2 * float64(collisions))
}
