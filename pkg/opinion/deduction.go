package opinion

import "math"

// Deduce applies the law of total probability under uncertainty: given an
// opinion about an antecedent X and conditional opinions about Y given X and
// Y given not-X, it derives an opinion about Y.
//
// Two anchor cases pin the operator down:
//
//   - Identical conditionals make the antecedent irrelevant; the result is
//     that shared conditional, uncertainty included.
//   - A dogmatic antecedent yields a dogmatic result whose projected
//     probability is exactly P(X)·P(Y|X) + (1−P(X))·P(Y|¬X).
//
// Between the anchors the result's projected probability always equals the
// total-probability mixture of the conditionals' projections; uncertainty
// grows with the antecedent's uncertainty and with the divergence between
// the conditionals.
func Deduce(x, yGivenX, yGivenNotX Opinion) (Opinion, error) {
	if err := x.Validate(); err != nil {
		return Opinion{}, err
	}
	if err := yGivenX.Validate(); err != nil {
		return Opinion{}, err
	}
	if err := yGivenNotX.Validate(); err != nil {
		return Opinion{}, err
	}

	if yGivenX.Equal(yGivenNotX) {
		return yGivenX, nil
	}

	px := x.ProjectedProbability()
	pyx := yGivenX.ProjectedProbability()
	pynx := yGivenNotX.ProjectedProbability()

	projected := px*pyx + (1-px)*pynx
	baseRate := px*yGivenX.BaseRate + (1-px)*yGivenNotX.BaseRate

	// Target uncertainty: the expected conditional uncertainty plus the
	// conditional divergence, both gated by the antecedent's uncertainty so
	// a dogmatic antecedent forces a dogmatic conclusion.
	condUncertainty := px*yGivenX.Uncertainty + (1-px)*yGivenNotX.Uncertainty
	uncertainty := x.Uncertainty * (condUncertainty + (1-condUncertainty)*math.Abs(pyx-pynx))

	// Cap uncertainty so belief and disbelief stay non-negative while the
	// projection is preserved exactly.
	if baseRate > Tolerance {
		uncertainty = math.Min(uncertainty, projected/baseRate)
	}
	if 1-baseRate > Tolerance {
		uncertainty = math.Min(uncertainty, (1-projected)/(1-baseRate))
	}

	belief := projected - baseRate*uncertainty
	disbelief := 1 - belief - uncertainty

	return normalized(belief, disbelief, uncertainty, baseRate)
}
