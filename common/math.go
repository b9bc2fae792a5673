package common

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Relax moves prev toward target by rate and returns the new filtered value.
// Callers store the result as prev for the next call. rate must be in (0, 1].
func Relax(target, prev, rate float64) float64 {
	return prev + rate*(target-prev)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
