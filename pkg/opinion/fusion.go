package opinion

import (
	"fmt"
	"math"
	"sort"
)

// Fuse combines two opinions from assumed-independent sources using
// cumulative fusion. Belief and disbelief mix proportionally to the other
// source's uncertainty; the result's uncertainty is never greater than
// either input's.
//
// Properties: commutative; associative for non-dogmatic inputs (up to
// Tolerance); Vacuous(a) is the identity element. When both inputs are
// dogmatic the κ denominator vanishes, so the result falls back to the
// evidence-weighted average of the two dogmatic opinions.
func Fuse(a, b Opinion) (Opinion, error) {
	if err := a.Validate(); err != nil {
		return Opinion{}, err
	}
	if err := b.Validate(); err != nil {
		return Opinion{}, err
	}

	kappa := a.Uncertainty + b.Uncertainty - a.Uncertainty*b.Uncertainty
	if kappa <= Tolerance {
		// Both dogmatic: equal evidence weights.
		return normalized(
			(a.Belief+b.Belief)/2,
			(a.Disbelief+b.Disbelief)/2,
			0,
			(a.BaseRate+b.BaseRate)/2,
		)
	}

	belief := (a.Belief*b.Uncertainty + b.Belief*a.Uncertainty) / kappa
	disbelief := (a.Disbelief*b.Uncertainty + b.Disbelief*a.Uncertainty) / kappa
	uncertainty := (a.Uncertainty * b.Uncertainty) / kappa

	baseRate := (a.BaseRate + b.BaseRate) / 2
	if denom := a.Uncertainty + b.Uncertainty - 2*a.Uncertainty*b.Uncertainty; math.Abs(denom) > Tolerance {
		baseRate = (a.BaseRate*b.Uncertainty + b.BaseRate*a.Uncertainty -
			(a.BaseRate+b.BaseRate)*a.Uncertainty*b.Uncertainty) / denom
	}

	return normalized(belief, disbelief, uncertainty, baseRate)
}

// FuseAll left-folds cumulative fusion over one or more opinions.
func FuseAll(opinions ...Opinion) (Opinion, error) {
	if len(opinions) == 0 {
		return Opinion{}, fmt.Errorf("%w: cumulative fusion requires at least one opinion", ErrEmptyInput)
	}
	acc := opinions[0]
	if err := acc.Validate(); err != nil {
		return Opinion{}, err
	}
	for _, op := range opinions[1:] {
		fused, err := Fuse(acc, op)
		if err != nil {
			return Opinion{}, err
		}
		acc = fused
	}
	return acc, nil
}

// AverageFuse combines two opinions from correlated or simultaneous sources.
// Unlike cumulative fusion it does not accumulate evidence, so fusing an
// opinion with itself returns that opinion unchanged.
//
// Properties: commutative and idempotent. Averaging fusion is intentionally
// NOT associative: (A⊘B)⊘C and A⊘(B⊘C) weight C's evidence differently.
// That asymmetry is inherent to the operator, not a defect.
func AverageFuse(a, b Opinion) (Opinion, error) {
	if err := a.Validate(); err != nil {
		return Opinion{}, err
	}
	if err := b.Validate(); err != nil {
		return Opinion{}, err
	}

	sum := a.Uncertainty + b.Uncertainty
	if sum <= Tolerance {
		// Both dogmatic: arithmetic mean.
		return normalized(
			(a.Belief+b.Belief)/2,
			(a.Disbelief+b.Disbelief)/2,
			0,
			(a.BaseRate+b.BaseRate)/2,
		)
	}

	belief := (a.Belief*b.Uncertainty + b.Belief*a.Uncertainty) / sum
	disbelief := (a.Disbelief*b.Uncertainty + b.Disbelief*a.Uncertainty) / sum
	uncertainty := 2 * a.Uncertainty * b.Uncertainty / sum

	return normalized(belief, disbelief, uncertainty, (a.BaseRate+b.BaseRate)/2)
}

// AverageFuseAll left-folds averaging fusion over one or more opinions.
// Because the binary operator is not associative, fold order matters and is
// fixed as left-to-right.
func AverageFuseAll(opinions ...Opinion) (Opinion, error) {
	if len(opinions) == 0 {
		return Opinion{}, fmt.Errorf("%w: averaging fusion requires at least one opinion", ErrEmptyInput)
	}
	acc := opinions[0]
	if err := acc.Validate(); err != nil {
		return Opinion{}, err
	}
	for _, op := range opinions[1:] {
		fused, err := AverageFuse(acc, op)
		if err != nil {
			return Opinion{}, err
		}
		acc = fused
	}
	return acc, nil
}

// DefaultOutlierThreshold is the projected-probability divergence from the
// group median beyond which RobustFuse excludes a source.
const DefaultOutlierThreshold = 0.35

// RobustFuse excludes outlier opinions before cumulative fusion. An opinion
// is an outlier when its projected probability diverges from the group's
// median member by more than threshold (pass 0 for
// DefaultOutlierThreshold).
//
// It returns the fused opinion of the surviving sources together with the
// indices of the excluded ones. The divergence center is always a projection
// some member holds (the lower-middle member for even counts), so that
// member survives exclusion and the surviving set is never empty.
func RobustFuse(opinions []Opinion, threshold float64) (Opinion, []int, error) {
	if len(opinions) == 0 {
		return Opinion{}, nil, fmt.Errorf("%w: robust fusion requires at least one opinion", ErrEmptyInput)
	}
	if threshold <= 0 {
		threshold = DefaultOutlierThreshold
	}

	projections := make([]float64, len(opinions))
	for i, op := range opinions {
		if err := op.Validate(); err != nil {
			return Opinion{}, nil, err
		}
		projections[i] = op.ProjectedProbability()
	}

	center := medianMember(projections)

	var kept []Opinion
	var excluded []int
	for i, p := range projections {
		if math.Abs(p-center) > threshold {
			excluded = append(excluded, i)
			continue
		}
		kept = append(kept, opinions[i])
	}

	fused, err := FuseAll(kept...)
	if err != nil {
		return Opinion{}, excluded, err
	}
	return fused, excluded, nil
}

// medianMember returns the median of values, resolved to a value some member
// actually holds: the lower-middle element when the count is even. Averaging
// the two middles could yield a center every member diverges from, emptying
// the inlier set.
func medianMember(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted[(len(sorted)-1)/2]
}
