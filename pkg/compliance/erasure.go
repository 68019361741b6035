package compliance

import (
	"fmt"

	"github.com/credence-labs/credence/pkg/opinion"
)

// ErasureScope composes per-node erasure opinions over a lineage scope with
// the jurisdictional meet: erasure of the scope holds only if every node in
// it is erased. With uniform per-node confidence p over m nodes, composite
// lawfulness is p^m — degradation is exponential in scope size. A perfectly
// erased node (l=1, v=0) is a multiplicative identity and contributes no
// degradation.
func ErasureScope(erasures ...Opinion) (Opinion, error) {
	if len(erasures) == 0 {
		return Opinion{}, fmt.Errorf("%w: erasure scope is empty", opinion.ErrEmptyInput)
	}
	return MeetAll(erasures...)
}

// ResidualContamination assesses the risk that erased data persists through
// a node's ancestors. The composition is disjunctive — any persisting
// ancestor contaminates:
//
//	risk  = 1 − ∏(1−vᵢ)      (violation: evidence of persistence)
//	clean = ∏lᵢ              (lawfulness: evidence of erasure)
//	u     = ∏(1−vᵢ) − ∏lᵢ
//
// Risk is monotonically non-decreasing in ancestor-set depth; all-clean
// ancestors yield zero risk; one ancestor with certain persistence (v=1)
// makes the risk certain.
func ResidualContamination(ancestors ...Opinion) (Opinion, error) {
	if len(ancestors) == 0 {
		return Opinion{}, fmt.Errorf("%w: residual contamination requires at least one ancestor", opinion.ErrEmptyInput)
	}

	cleanProduct := 1.0
	persistFree := 1.0
	baseRate := 1.0
	for _, a := range ancestors {
		if err := a.Validate(); err != nil {
			return Opinion{}, err
		}
		cleanProduct *= a.Lawfulness()
		persistFree *= 1 - a.Violation()
		baseRate *= a.BaseRate
	}

	risk := 1 - persistFree
	uncertainty := persistFree - cleanProduct

	return newChecked(cleanProduct, risk, uncertainty, baseRate)
}
