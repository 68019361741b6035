package reconstruct

import (
	"fmt"
	"math"
	"strings"

	"github.com/credence-labs/credence/pkg/opinion"
)

// FromStatus maps an externally observed status code to an opinion via the
// config's status table. Unrecognized codes reconstruct to the vacuous
// opinion: an unknown status is no evidence at all.
func FromStatus(cfg Config, status string) (opinion.Opinion, error) {
	entry, ok := cfg.StatusTable[strings.ToLower(strings.TrimSpace(status))]
	if !ok {
		return opinion.Vacuous(cfg.BaseRate), nil
	}
	return opinion.New(entry.Belief, entry.Disbelief, entry.Uncertainty, cfg.BaseRate)
}

// FromVerification reconstructs an opinion from a boolean verification
// flag. A verified record leaves VerifiedUncertainty of ignorance and
// commits the rest to belief; an unverified record commits nothing to
// disbelief — absence of verification is not evidence of falsity — and
// leaves UnverifiedUncertainty plus the balance as weak belief.
func FromVerification(cfg Config, verified bool) (opinion.Opinion, error) {
	if verified {
		return opinion.New(1-cfg.VerifiedUncertainty, 0, cfg.VerifiedUncertainty, cfg.BaseRate)
	}
	return opinion.New(1-cfg.UnverifiedUncertainty, 0, cfg.UnverifiedUncertainty, cfg.BaseRate)
}

// FromCompleteness reconstructs an opinion from a completeness ratio in
// [0,1], e.g. the fraction of required metadata fields present. The ratio
// becomes belief, its complement disbelief, and the distance from a
// decisive ratio (0 or 1) becomes uncertainty: a half-complete record says
// the least.
func FromCompleteness(cfg Config, ratio float64) (opinion.Opinion, error) {
	if math.IsNaN(ratio) || ratio < 0 || ratio > 1 {
		return opinion.Opinion{}, fmt.Errorf("%w: completeness ratio %v out of [0,1]", opinion.ErrConstraintViolation, ratio)
	}

	// Peak uncertainty 0.5 at ratio 0.5, zero at the extremes.
	uncertainty := 1 - math.Abs(2*ratio-1)
	if uncertainty > 0.5 {
		uncertainty = 0.5
	}
	belief := ratio * (1 - uncertainty)
	disbelief := 1 - belief - uncertainty
	return opinion.New(belief, disbelief, uncertainty, cfg.BaseRate)
}
