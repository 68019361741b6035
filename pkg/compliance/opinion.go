// Package compliance specializes the subjective-logic opinion algebra into
// a GDPR-style compliance algebra: opinions about lawfulness, the
// jurisdictional meet that composes them conjunctively, propagation through
// derivation chains, consent validity, temporal triggers, and erasure-scope
// reasoning.
//
// A compliance opinion is not a new representation. It is the same simplex
// tuple with domain names: lawfulness is belief, violation is disbelief.
// Every operator here accepts and returns compliance opinions, and any
// plain opinion converts losslessly in either direction.
package compliance

import (
	"github.com/credence-labs/credence/pkg/opinion"
)

// Opinion is a compliance-domain view of a subjective-logic opinion.
// It embeds the canonical value type, so the full base algebra (fusion,
// discount, deduction, decay) applies to it unchanged.
type Opinion struct {
	opinion.Opinion
}

// New constructs a compliance opinion and validates the simplex constraint.
func New(lawfulness, violation, uncertainty, baseRate float64) (Opinion, error) {
	op, err := opinion.New(lawfulness, violation, uncertainty, baseRate)
	if err != nil {
		return Opinion{}, err
	}
	return Opinion{op}, nil
}

// FromOpinion relabels a plain opinion as a compliance opinion. The
// conversion is lossless and free: the representation is identical.
func FromOpinion(op opinion.Opinion) Opinion {
	return Opinion{op}
}

// Lawfulness is the belief mass that the assessed processing is lawful.
func (o Opinion) Lawfulness() float64 { return o.Belief }

// Violation is the disbelief mass: evidence of non-compliance.
func (o Opinion) Violation() float64 { return o.Disbelief }

// Vacuous returns the totally ignorant compliance opinion (0,0,1,a).
func Vacuous(baseRate float64) Opinion {
	return Opinion{opinion.Vacuous(baseRate)}
}

// Identity returns (1,0,0,1), the identity element of the jurisdictional
// meet: certain lawfulness under a fully permissive prior.
func Identity() Opinion {
	return Opinion{opinion.Opinion{Belief: 1, BaseRate: 1}}
}

// Annihilator returns (0,1,0,0), the absorbing element of the jurisdictional
// meet: certain violation. Any meet with it returns it exactly.
func Annihilator() Opinion {
	return Opinion{opinion.Opinion{Disbelief: 1}}
}
