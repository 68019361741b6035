// Package assessment composes the compliance algebra with externally owned
// lineage and review-schedule data. The functions here do nothing but gather
// opinions through the adapter protocols and delegate to the operators in
// pkg/compliance; their results are numerically identical to calling those
// operators directly with the same opinions.
package assessment

import (
	"context"
	"fmt"
	"time"

	"github.com/credence-labs/credence/pkg/compliance"
	"github.com/credence-labs/credence/pkg/lineage"
	"github.com/credence-labs/credence/pkg/opinion"
	"github.com/credence-labs/credence/pkg/schedule"
)

// ErasureScopeAssessment gathers the erasure opinions of every node in the
// lineage scope of source and composes them with the jurisdictional meet.
// A scope left empty by exemption filtering is an error: there is nothing
// to assess.
func ErasureScopeAssessment(ctx context.Context, provider lineage.Provider, source string) (compliance.Opinion, error) {
	scope, err := provider.Scope(ctx, source)
	if err != nil {
		return compliance.Opinion{}, err
	}
	if len(scope) == 0 {
		return compliance.Opinion{}, fmt.Errorf("%w: erasure scope of %q is empty after exemption filtering",
			opinion.ErrEmptyInput, source)
	}

	opinions := make([]compliance.Opinion, 0, len(scope))
	for _, node := range scope {
		op, err := provider.ErasureOpinion(ctx, node)
		if err != nil {
			return compliance.Opinion{}, err
		}
		opinions = append(opinions, op)
	}
	return compliance.ErasureScope(opinions...)
}

// ContaminationRisk gathers the erasure opinions of a node's ancestors and
// assesses residual contamination. A node with no ancestors has nothing to
// persist through: the result is the empty-product opinion (1,0,0,1) —
// certainly clean.
func ContaminationRisk(ctx context.Context, provider lineage.Provider, node string) (compliance.Opinion, error) {
	ancestors, err := provider.Ancestors(ctx, node)
	if err != nil {
		return compliance.Opinion{}, err
	}
	if len(ancestors) == 0 {
		return compliance.Identity(), nil
	}

	opinions := make([]compliance.Opinion, 0, len(ancestors))
	for _, ancestor := range ancestors {
		op, err := provider.ErasureOpinion(ctx, ancestor)
		if err != nil {
			return compliance.Opinion{}, err
		}
		opinions = append(opinions, op)
	}
	return compliance.ResidualContamination(opinions...)
}

// ReviewDueAssessment applies the review-due trigger to an assessment's
// opinion using the schedule provider's due time and accelerated half-life.
// An assessment with no scheduled review passes through unchanged.
func ReviewDueAssessment(ctx context.Context, provider schedule.Provider, assessmentID string, op compliance.Opinion, at time.Time) (compliance.Opinion, error) {
	due, ok, err := provider.ReviewDue(ctx, assessmentID)
	if err != nil {
		return compliance.Opinion{}, err
	}
	if !ok {
		if err := op.Validate(); err != nil {
			return compliance.Opinion{}, err
		}
		return op, nil
	}

	accelerated, err := provider.AcceleratedHalfLife(ctx, assessmentID)
	if err != nil {
		return compliance.Opinion{}, err
	}
	return compliance.ReviewDueTrigger(op, at, due, accelerated)
}
