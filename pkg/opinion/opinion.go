// Package opinion implements the subjective-logic opinion algebra: the
// (belief, disbelief, uncertainty, base rate) value type and the fusion,
// discount, deduction, and temporal decay operators defined over it.
//
// Every operator is a pure function over immutable values: inputs are never
// mutated and each call returns a freshly validated Opinion. The simplex
// invariant belief + disbelief + uncertainty == 1 (within Tolerance) is
// checked at construction and re-checked on every operator output.
package opinion

import (
	"fmt"
	"math"
)

// Tolerance is the floating-point tolerance applied to all constraint checks
// and opinion equality. Several algebraic identities (associativity of
// cumulative fusion, chain flattening) hold only up to this tolerance, so it
// is a single package-wide constant rather than a per-call knob.
const Tolerance = 1e-9

// Opinion is a subjective-logic opinion about a binary proposition.
//
// Belief, Disbelief and Uncertainty are probability masses on the simplex;
// BaseRate is the prior probability used to project the opinion onto a
// classical probability. Opinions are immutable values: operators return new
// Opinions and never modify their arguments.
type Opinion struct {
	Belief      float64 `json:"belief"`
	Disbelief   float64 `json:"disbelief"`
	Uncertainty float64 `json:"uncertainty"`
	BaseRate    float64 `json:"base_rate"`
}

// New constructs an Opinion and validates the simplex constraint and bounds.
func New(belief, disbelief, uncertainty, baseRate float64) (Opinion, error) {
	op := Opinion{Belief: belief, Disbelief: disbelief, Uncertainty: uncertainty, BaseRate: baseRate}
	if err := op.Validate(); err != nil {
		return Opinion{}, err
	}
	return op, nil
}

// NewDefault constructs an Opinion with the neutral base rate 0.5.
func NewDefault(belief, disbelief, uncertainty float64) (Opinion, error) {
	return New(belief, disbelief, uncertainty, 0.5)
}

// Vacuous returns the totally ignorant opinion (0, 0, 1, a). It is the
// identity element of cumulative fusion.
func Vacuous(baseRate float64) Opinion {
	return Opinion{Uncertainty: 1, BaseRate: baseRate}
}

// FullBelief returns the dogmatic opinion (1, 0, 0, a).
func FullBelief(baseRate float64) Opinion {
	return Opinion{Belief: 1, BaseRate: baseRate}
}

// FullDisbelief returns the dogmatic opinion (0, 1, 0, a).
func FullDisbelief(baseRate float64) Opinion {
	return Opinion{Disbelief: 1, BaseRate: baseRate}
}

// Validate checks bounds and the additivity constraint. A violation is a
// programming or data-quality defect in the caller, never recoverable state.
func (o Opinion) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"belief", o.Belief},
		{"disbelief", o.Disbelief},
		{"uncertainty", o.Uncertainty},
		{"base_rate", o.BaseRate},
	} {
		if math.IsNaN(f.value) || f.value < -Tolerance || f.value > 1+Tolerance {
			return fmt.Errorf("%w: %s = %v out of [0,1]", ErrConstraintViolation, f.name, f.value)
		}
	}
	if sum := o.Belief + o.Disbelief + o.Uncertainty; math.Abs(sum-1) > Tolerance {
		return fmt.Errorf("%w: belief+disbelief+uncertainty = %v, want 1", ErrConstraintViolation, sum)
	}
	return nil
}

// ProjectedProbability returns belief + base_rate * uncertainty, the
// classical probability the opinion projects to.
func (o Opinion) ProjectedProbability() float64 {
	return o.Belief + o.BaseRate*o.Uncertainty
}

// IsDogmatic reports whether the opinion carries no uncertainty mass.
func (o Opinion) IsDogmatic() bool {
	return o.Uncertainty <= Tolerance
}

// IsVacuous reports whether the opinion is total ignorance.
func (o Opinion) IsVacuous() bool {
	return o.Uncertainty >= 1-Tolerance
}

// Equal reports whether two opinions are equal within Tolerance on every
// component.
func (o Opinion) Equal(other Opinion) bool {
	return math.Abs(o.Belief-other.Belief) <= Tolerance &&
		math.Abs(o.Disbelief-other.Disbelief) <= Tolerance &&
		math.Abs(o.Uncertainty-other.Uncertainty) <= Tolerance &&
		math.Abs(o.BaseRate-other.BaseRate) <= Tolerance
}

// String implements fmt.Stringer.
func (o Opinion) String() string {
	return fmt.Sprintf("ω(b=%.4f d=%.4f u=%.4f a=%.4f)", o.Belief, o.Disbelief, o.Uncertainty, o.BaseRate)
}

// clamp snaps tiny negative residues from floating-point arithmetic back
// into [0,1]. Residues larger than Tolerance are left for Validate to reject.
func clamp(v float64) float64 {
	if v < 0 && v > -Tolerance {
		return 0
	}
	if v > 1 && v < 1+Tolerance {
		return 1
	}
	return v
}

// normalized clamps all components and validates the result. Operators call
// this on their outputs as an assertion boundary: for valid inputs it never
// fails.
func normalized(belief, disbelief, uncertainty, baseRate float64) (Opinion, error) {
	op := Opinion{
		Belief:      clamp(belief),
		Disbelief:   clamp(disbelief),
		Uncertainty: clamp(uncertainty),
		BaseRate:    clamp(baseRate),
	}
	if err := op.Validate(); err != nil {
		return Opinion{}, err
	}
	return op, nil
}
