package opinion

import (
	"fmt"
	"math"
	"time"
)

// DecayFunction selects how committed mass erodes toward uncertainty over
// elapsed time.
type DecayFunction int

const (
	// DecayExponential halves committed mass every half-life.
	DecayExponential DecayFunction = iota
	// DecayLinear erodes committed mass linearly, reaching half at one
	// half-life and zero at two.
	DecayLinear
	// DecayStep leaves the opinion untouched before one full half-life,
	// then halves committed mass per completed half-life.
	DecayStep
)

// String implements fmt.Stringer for DecayFunction.
func (f DecayFunction) String() string {
	switch f {
	case DecayExponential:
		return "EXPONENTIAL"
	case DecayLinear:
		return "LINEAR"
	case DecayStep:
		return "STEP"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(f))
	}
}

// Decay reduces belief and disbelief toward uncertainty as evidence ages.
// The belief/disbelief ratio and the base rate are preserved; uncertainty is
// monotonically non-decreasing in elapsed time. At elapsed 0 the opinion is
// unchanged, and as elapsed grows without bound the opinion converges to
// fully vacuous.
func Decay(op Opinion, elapsed, halfLife time.Duration, fn DecayFunction) (Opinion, error) {
	if err := op.Validate(); err != nil {
		return Opinion{}, err
	}
	if elapsed < 0 {
		return Opinion{}, fmt.Errorf("%w: negative elapsed time %v", ErrInvalidTemporalInput, elapsed)
	}
	if halfLife <= 0 {
		return Opinion{}, fmt.Errorf("%w: non-positive half-life %v", ErrInvalidTemporalInput, halfLife)
	}

	lives := elapsed.Seconds() / halfLife.Seconds()

	var factor float64
	switch fn {
	case DecayExponential:
		factor = math.Pow(0.5, lives)
	case DecayLinear:
		factor = math.Max(0, 1-0.5*lives)
	case DecayStep:
		factor = math.Pow(0.5, math.Floor(lives))
	default:
		return Opinion{}, fmt.Errorf("%w: unknown decay function %d", ErrInvalidTemporalInput, int(fn))
	}

	belief := op.Belief * factor
	disbelief := op.Disbelief * factor
	uncertainty := 1 - belief - disbelief

	return normalized(belief, disbelief, uncertainty, op.BaseRate)
}
