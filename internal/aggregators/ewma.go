package aggregators

import "math"

const (
	// varianceSeed is the small positive variance assigned on the first
	// sample so early z-scores stay finite.
	varianceSeed = 1e-6
	// zEpsilon guards the z-score denominator against a zero variance.
	zEpsilon = 1e-9
)

// EWMA is an online exponentially-weighted estimator of mean and variance.
// The mean is undefined until the first sample arrives.
type EWMA struct {
	alpha float64
	mean  float64
	vari  float64
	seen  bool
}

func NewEWMA(alpha float64) *EWMA {
	return &EWMA{alpha: alpha, vari: varianceSeed}
}

// Update feeds one sample. The first sample sets the mean exactly; later
// samples move mean and variance using the pre-update mean for the delta.
func (e *EWMA) Update(x float64) {
	if !e.seen {
		e.seen = true
		e.mean = x
		return
	}
	d := x - e.mean
	e.mean += e.alpha * d
	e.vari = (1 - e.alpha) * (e.vari + e.alpha*d*d)
}

// Z returns how many standard deviations x lies from the current mean.
// Returns 0 while the mean is undefined.
func (e *EWMA) Z(x float64) float64 {
	if !e.seen {
		return 0
	}
	return (x - e.mean) / math.Sqrt(e.vari+zEpsilon)
}

// Mean returns the current mean and whether it is defined yet.
func (e *EWMA) Mean() (float64, bool) {
	return e.mean, e.seen
}

// Variance returns the current variance estimate.
func (e *EWMA) Variance() float64 {
	return e.vari
}
