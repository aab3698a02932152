package clock

// RNG is a linear-congruential generator with fixed constants so that a
// given seed produces the same sequence on every platform. Action scripts
// that use randomness replay identically for a given seed, which makes
// recorded sessions reproducible.
//
// state' = state*1664525 + 1013904223 (mod 2^32)
type RNG struct {
	state uint32
}

// NewRNG creates a generator seeded with the given value.
func NewRNG(seed int64) *RNG {
	r := &RNG{}
	r.Seed(seed)
	return r
}

// Seed resets the generator state.
func (r *RNG) Seed(seed int64) {
	r.state = uint32(seed)
}

// next advances the state by one step.
func (r *RNG) next() uint32 {
	r.state = r.state*1664525 + 1013904223
	return r.state
}

// Float64 returns the next value in [0, 1).
func (r *RNG) Float64() float64 {
	return float64(r.next()) / 4294967296.0
}

// IntN returns an integer in [min, max] inclusive. If max < min the
// bounds are swapped rather than failing; scripts never see an error.
func (r *RNG) IntN(min, max int) int {
	if max < min {
		min, max = max, min
	}
	span := int64(max) - int64(min) + 1
	return min + int(int64(r.Float64()*float64(span)))
}

// Float64N returns a value in [min, max).
func (r *RNG) Float64N(min, max float64) float64 {
	return min + r.Float64()*(max-min)
}
