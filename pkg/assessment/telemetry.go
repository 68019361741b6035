package assessment

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/credence-labs/credence/pkg/compliance"
	"github.com/credence-labs/credence/pkg/lineage"
	"github.com/credence-labs/credence/pkg/schedule"
)

// tracerName identifies this instrumentation scope.
const tracerName = "github.com/credence-labs/credence/pkg/assessment"

// Assessor bundles the adapter providers with tracing and logging so callers
// get receipted, observable assessments without wiring telemetry themselves.
// The algebra underneath stays pure; only this layer records spans.
type Assessor struct {
	lineage  lineage.Provider
	schedule schedule.Provider
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewAssessor creates an Assessor over the given providers. A nil logger
// falls back to slog.Default.
func NewAssessor(l lineage.Provider, s schedule.Provider, logger *slog.Logger) *Assessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assessor{
		lineage:  l,
		schedule: s,
		tracer:   otel.Tracer(tracerName),
		logger:   logger.With("component", "assessment"),
	}
}

// ErasureScope runs an erasure-scope assessment for source and returns the
// composed opinion together with its receipt.
func (a *Assessor) ErasureScope(ctx context.Context, source string) (compliance.Opinion, Receipt, error) {
	ctx, span := a.tracer.Start(ctx, "assessment.ErasureScope",
		trace.WithAttributes(attribute.String("lineage.source", source)))
	defer span.End()

	scope, err := a.lineage.Scope(ctx, source)
	if err != nil {
		return a.fail(ctx, span, "erasure scope", err)
	}
	result, err := ErasureScopeAssessment(ctx, a.lineage, source)
	if err != nil {
		return a.fail(ctx, span, "erasure scope", err)
	}
	span.SetAttributes(
		attribute.Int("lineage.scope_size", len(scope)),
		attribute.Float64("compliance.lawfulness", result.Lawfulness()),
	)

	receipt, err := NewReceipt(KindErasureScope, source, scope, time.Now(), result)
	if err != nil {
		return a.fail(ctx, span, "erasure scope receipt", err)
	}
	return result, receipt, nil
}

// Contamination runs a residual-contamination assessment for node.
func (a *Assessor) Contamination(ctx context.Context, node string) (compliance.Opinion, Receipt, error) {
	ctx, span := a.tracer.Start(ctx, "assessment.Contamination",
		trace.WithAttributes(attribute.String("lineage.node", node)))
	defer span.End()

	result, err := ContaminationRisk(ctx, a.lineage, node)
	if err != nil {
		return a.fail(ctx, span, "contamination risk", err)
	}
	span.SetAttributes(attribute.Float64("compliance.violation", result.Violation()))

	receipt, err := NewReceipt(KindContamination, node, nil, time.Now(), result)
	if err != nil {
		return a.fail(ctx, span, "contamination receipt", err)
	}
	return result, receipt, nil
}

// ReviewDue applies the review-due trigger for an assessment at the given
// time.
func (a *Assessor) ReviewDue(ctx context.Context, assessmentID string, op compliance.Opinion, at time.Time) (compliance.Opinion, Receipt, error) {
	ctx, span := a.tracer.Start(ctx, "assessment.ReviewDue",
		trace.WithAttributes(attribute.String("assessment.id", assessmentID)))
	defer span.End()

	result, err := ReviewDueAssessment(ctx, a.schedule, assessmentID, op, at)
	if err != nil {
		return a.fail(ctx, span, "review due", err)
	}
	span.SetAttributes(attribute.Float64("compliance.uncertainty", result.Uncertainty))

	receipt, err := NewReceipt(KindReviewDue, assessmentID, nil, at, result)
	if err != nil {
		return a.fail(ctx, span, "review due receipt", err)
	}
	return result, receipt, nil
}

func (a *Assessor) fail(ctx context.Context, span trace.Span, what string, err error) (compliance.Opinion, Receipt, error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	a.logger.ErrorContext(ctx, "assessment failed", "operation", what, "error", err)
	return compliance.Opinion{}, Receipt{}, err
}
