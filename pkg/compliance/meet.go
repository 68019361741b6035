package compliance

import (
	"fmt"

	"github.com/credence-labs/credence/pkg/opinion"
)

// Meet composes two compliance opinions conjunctively: the result is lawful
// only to the extent both inputs are lawful, and in violation as soon as
// either is.
//
//	l = l₁·l₂
//	v = v₁ + v₂ − v₁·v₂
//	u = (1−v₁)(1−v₂) − l₁·l₂
//	a = a₁·a₂
//
// Properties, for all valid inputs: additivity and non-negativity;
// l ≤ min(l₁,l₂); v ≥ max(v₁,v₂); commutative; associative; Identity() is
// the identity element and Annihilator() the absorbing element. The meet is
// not idempotent except at lawfulness 0 or 1.
func Meet(a, b Opinion) (Opinion, error) {
	if err := a.Validate(); err != nil {
		return Opinion{}, err
	}
	if err := b.Validate(); err != nil {
		return Opinion{}, err
	}

	lawfulness := a.Lawfulness() * b.Lawfulness()
	violation := a.Violation() + b.Violation() - a.Violation()*b.Violation()
	uncertainty := (1-a.Violation())*(1-b.Violation()) - lawfulness
	baseRate := a.BaseRate * b.BaseRate

	return newChecked(lawfulness, violation, uncertainty, baseRate)
}

// MeetAll left-folds the jurisdictional meet over 1..N opinions. Because the
// binary meet is associative, the fold order is immaterial up to Tolerance.
func MeetAll(opinions ...Opinion) (Opinion, error) {
	if len(opinions) == 0 {
		return Opinion{}, fmt.Errorf("%w: jurisdictional meet requires at least one opinion", opinion.ErrEmptyInput)
	}
	acc := opinions[0]
	if err := acc.Validate(); err != nil {
		return Opinion{}, err
	}
	for _, op := range opinions[1:] {
		met, err := Meet(acc, op)
		if err != nil {
			return Opinion{}, err
		}
		acc = met
	}
	return acc, nil
}

// newChecked snaps floating residues and validates, mirroring the base
// package's assertion boundary for operator outputs.
func newChecked(lawfulness, violation, uncertainty, baseRate float64) (Opinion, error) {
	op, err := opinion.New(snap(lawfulness), snap(violation), snap(uncertainty), snap(baseRate))
	if err != nil {
		return Opinion{}, err
	}
	return Opinion{op}, nil
}

func snap(v float64) float64 {
	if v < 0 && v > -opinion.Tolerance {
		return 0
	}
	if v > 1 && v < 1+opinion.Tolerance {
		return 1
	}
	return v
}
