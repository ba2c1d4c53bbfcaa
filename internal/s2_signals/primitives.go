package s2_signals

import "github.com/wonny/qscreen/internal/contracts"

// LowerIsBetter scores a value under a cap: 1 well below, 0 at the cap.
// Callers must check value ≤ threshold first.
func LowerIsBetter(value, threshold float64) float64 {
	return clamp01(1 - value/threshold)
}

// HigherIsBetter scores a value above a minimum: 0.5 at the minimum, 1.0 at 2× and beyond.
// Callers must check value ≥ minimum first.
func HigherIsBetter(value, minimum float64) float64 {
	return clamp01(value / (2 * minimum))
}

// BoundedScale passes a value on a fixed scale through to [0, 1]
func BoundedScale(value, scaleMax float64) float64 {
	return clamp01(value / scaleMax)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// configured reports whether a threshold is set and usable as a divisor
func configured(t *float64) bool {
	return t != nil && *t > 0
}

// accumulator averages the applicable metric scores of one component
type accumulator struct {
	component contracts.Component
	policy    ShortfallPolicy
	sum       float64
	count     int
	metrics   map[string]float64
}

func newAccumulator(component contracts.Component, policy ShortfallPolicy) *accumulator {
	return &accumulator{
		component: component,
		policy:    policy,
		metrics:   make(map[string]float64),
	}
}

func (a *accumulator) add(name string, score float64) {
	a.sum += score
	a.count++
	a.metrics[name] = score
}

func (a *accumulator) shortfall(name string) {
	if a.policy == ShortfallZero {
		a.add(name, 0)
	}
}

// lower adds a lower-is-better metric
func (a *accumulator) lower(name string, value, threshold *float64) {
	if value == nil || !configured(threshold) {
		return
	}
	if *value > *threshold {
		a.shortfall(name)
		return
	}
	a.add(name, LowerIsBetter(*value, *threshold))
}

// lowerCapped adds a lower-is-better metric whose ratio is capped at 1 (PEG)
func (a *accumulator) lowerCapped(name string, value, threshold *float64) {
	if value == nil || !configured(threshold) {
		return
	}
	if *value > *threshold {
		a.shortfall(name)
		return
	}
	ratio := *value / *threshold
	if ratio > 1 {
		ratio = 1
	}
	a.add(name, clamp01(1-ratio))
}

// higher adds a higher-is-better metric capped at 2× minimum
func (a *accumulator) higher(name string, value, minimum *float64) {
	if value == nil || !configured(minimum) {
		return
	}
	if *value < *minimum {
		a.shortfall(name)
		return
	}
	a.add(name, HigherIsBetter(*value, *minimum))
}

// ratioTo adds min(1, value/threshold), used for bounded higher-is-better metrics
func (a *accumulator) ratioTo(name string, value, threshold *float64) {
	if value == nil || !configured(threshold) {
		return
	}
	a.add(name, clamp01(*value / *threshold))
}

// scaled adds a bounded pass-through metric
func (a *accumulator) scaled(name string, value *float64, scaleMax float64) {
	if value == nil {
		return
	}
	a.add(name, BoundedScale(*value, scaleMax))
}

func (a *accumulator) result() contracts.ComponentScore {
	out := contracts.ComponentScore{
		Component:  a.component,
		Applicable: a.count,
		Metrics:    a.metrics,
	}
	if a.count == 0 {
		out.NoData = true
		return out
	}
	out.Score = a.sum / float64(a.count)
	out.Normalized = out.Score * 100
	return out
}
