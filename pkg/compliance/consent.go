package compliance

import (
	"fmt"
	"time"

	"github.com/credence-labs/credence/pkg/opinion"
)

// ConsentConditions holds per-condition opinions for the six requirements a
// valid consent must satisfy simultaneously: GDPR Articles 4(11) and 7.
type ConsentConditions struct {
	FreelyGiven     Opinion
	Specific        Opinion
	Informed        Opinion
	Unambiguous     Opinion
	Demonstrable    Opinion
	Distinguishable Opinion
}

// ConsentValidity composes the six consent conditions with a six-way
// jurisdictional meet. Composite lawfulness is the product of all six
// condition lawfulness values, so a single weak condition dominates the
// assessment.
func ConsentValidity(c ConsentConditions) (Opinion, error) {
	return MeetAll(
		c.FreelyGiven,
		c.Specific,
		c.Informed,
		c.Unambiguous,
		c.Demonstrable,
		c.Distinguishable,
	)
}

// WithdrawalOverride resolves consent against a withdrawal event by
// proposition replacement, not blending: before the withdrawal time the
// consent opinion stands unchanged; at or after it, the withdrawal opinion
// replaces it exactly. The boundary is inclusive toward withdrawal — a
// withdrawal effective at the assessment instant already governs it.
func WithdrawalOverride(consent, withdrawal Opinion, at, withdrawnAt time.Time) (Opinion, error) {
	if err := consent.Validate(); err != nil {
		return Opinion{}, err
	}
	if err := withdrawal.Validate(); err != nil {
		return Opinion{}, err
	}
	if at.IsZero() || withdrawnAt.IsZero() {
		return Opinion{}, fmt.Errorf("%w: withdrawal override requires both timestamps", opinion.ErrInvalidTemporalInput)
	}

	if at.Before(withdrawnAt) {
		return consent, nil
	}
	return withdrawal, nil
}
