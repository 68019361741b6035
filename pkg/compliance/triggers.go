package compliance

import (
	"fmt"
	"time"

	"github.com/credence-labs/credence/pkg/opinion"
)

// ExpiryTrigger applies a consent/retention expiry to an opinion. Before the
// trigger time the opinion is unchanged. At or after it, lawfulness is
// scaled by the residual factor γ ∈ [0,1] and the removed lawfulness moves
// to violation:
//
//	l' = γ·l    v' = v + (1−γ)·l    u' = u
//
// Expired lawfulness becomes a known violation, never uncertainty: the
// expiry is a fact, not lost evidence. γ=0 is hard expiry; γ=1 is a no-op.
func ExpiryTrigger(op Opinion, at, trigger time.Time, residualFactor float64) (Opinion, error) {
	if err := op.Validate(); err != nil {
		return Opinion{}, err
	}
	if at.IsZero() || trigger.IsZero() {
		return Opinion{}, fmt.Errorf("%w: expiry trigger requires both timestamps", opinion.ErrInvalidTemporalInput)
	}
	if residualFactor < 0 || residualFactor > 1 {
		return Opinion{}, fmt.Errorf("%w: residual factor %v out of [0,1]", opinion.ErrConstraintViolation, residualFactor)
	}

	if at.Before(trigger) {
		return op, nil
	}

	lawfulness := residualFactor * op.Lawfulness()
	violation := op.Violation() + (1-residualFactor)*op.Lawfulness()
	return newChecked(lawfulness, violation, op.Uncertainty, op.BaseRate)
}

// ReviewDueTrigger handles a missed compliance review. Before the review-due
// time the opinion is unchanged. At or after it, the opinion decays with the
// accelerated half-life over the time elapsed since the review fell due: a
// missed review erodes confidence toward vacuity, it does not create
// evidence of violation.
func ReviewDueTrigger(op Opinion, at, trigger time.Time, acceleratedHalfLife time.Duration) (Opinion, error) {
	if err := op.Validate(); err != nil {
		return Opinion{}, err
	}
	if at.IsZero() || trigger.IsZero() {
		return Opinion{}, fmt.Errorf("%w: review-due trigger requires both timestamps", opinion.ErrInvalidTemporalInput)
	}

	if at.Before(trigger) {
		return op, nil
	}

	decayed, err := opinion.Decay(op.Opinion, at.Sub(trigger), acceleratedHalfLife, opinion.DecayExponential)
	if err != nil {
		return Opinion{}, err
	}
	return Opinion{decayed}, nil
}

// RegulatoryChangeTrigger applies a regulatory change by proposition
// replacement, identical in shape to WithdrawalOverride: before the change
// takes effect the existing opinion stands; at or after, the re-assessed
// opinion under the new regulation replaces it exactly.
//
// Trigger application is deliberately non-commutative: expiry followed by a
// regulatory change is a different assessment than the reverse order, and
// callers own the ordering.
func RegulatoryChangeTrigger(op Opinion, at, trigger time.Time, reassessed Opinion) (Opinion, error) {
	if err := op.Validate(); err != nil {
		return Opinion{}, err
	}
	if err := reassessed.Validate(); err != nil {
		return Opinion{}, err
	}
	if at.IsZero() || trigger.IsZero() {
		return Opinion{}, fmt.Errorf("%w: regulatory-change trigger requires both timestamps", opinion.ErrInvalidTemporalInput)
	}

	if at.Before(trigger) {
		return op, nil
	}
	return reassessed, nil
}
