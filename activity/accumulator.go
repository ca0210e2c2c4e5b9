package activity

import "github.com/mtraver/beerbeat/sensor"

// Accumulator holds per-axis running sums of above-threshold samples.
// The zero value is an empty accumulator.
type Accumulator struct {
	X float64
	Y float64
	Z float64
}

// Add adds each axis of s whose value is strictly greater than threshold to
// that axis's sum. The raw value is added, not its distance from the previous
// sample, so sums never decrease between resets.
func (a *Accumulator) Add(s sensor.Sample, threshold float64) {
	if s.X > threshold {
		a.X += s.X
	}
	if s.Y > threshold {
		a.Y += s.Y
	}
	if s.Z > threshold {
		a.Z += s.Z
	}
}

func (a Accumulator) Total() float64 {
	return a.X + a.Y + a.Z
}

func (a *Accumulator) Reset() {
	*a = Accumulator{}
}
