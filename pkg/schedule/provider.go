// Package schedule supplies the review-schedule adapter protocol for the
// compliance algebra: when an assessment's review falls due and which
// half-lives govern its decay. Implementations are read-only data sources;
// the algebra never writes through them.
package schedule

import (
	"context"
	"sync"
	"time"
)

// DefaultHalfLife is the provider-wide fallback half-life when an
// assessment has none configured: one year.
const DefaultHalfLife = 365 * 24 * time.Hour

// AcceleratedDivisor derives the accelerated half-life from the regular one
// when no explicit override exists. A missed review erodes confidence four
// times as fast.
const AcceleratedDivisor = 4

// Provider is the narrow contract between the compliance algebra and an
// externally owned review schedule.
type Provider interface {
	// ReviewDue returns when the assessment's review falls due. The second
	// return is false when no review is scheduled.
	ReviewDue(ctx context.Context, assessmentID string) (time.Time, bool, error)

	// HalfLife returns the decay half-life for the assessment, falling back
	// to a provider-wide default when none is configured.
	HalfLife(ctx context.Context, assessmentID string) (time.Duration, error)

	// AcceleratedHalfLife returns the half-life applied after a missed
	// review. Unless explicitly overridden it is HalfLife/AcceleratedDivisor.
	AcceleratedHalfLife(ctx context.Context, assessmentID string) (time.Duration, error)
}

// Entry is one assessment's schedule. Zero values mean "not configured" and
// trigger the provider fallbacks.
type Entry struct {
	ReviewDue           time.Time
	HalfLife            time.Duration
	AcceleratedHalfLife time.Duration
}

// Static is an in-memory schedule Provider. It is safe for concurrent use.
type Static struct {
	mu              sync.RWMutex
	entries         map[string]Entry
	defaultHalfLife time.Duration
}

// NewStatic creates a static schedule with the given provider-wide default
// half-life (pass 0 for DefaultHalfLife).
func NewStatic(defaultHalfLife time.Duration) *Static {
	if defaultHalfLife <= 0 {
		defaultHalfLife = DefaultHalfLife
	}
	return &Static{
		entries:         make(map[string]Entry),
		defaultHalfLife: defaultHalfLife,
	}
}

// Set records the schedule entry for an assessment.
func (s *Static) Set(assessmentID string, entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[assessmentID] = entry
}

// ReviewDue implements Provider.
func (s *Static) ReviewDue(_ context.Context, assessmentID string) (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[assessmentID]
	if !ok || entry.ReviewDue.IsZero() {
		return time.Time{}, false, nil
	}
	return entry.ReviewDue, true, nil
}

// HalfLife implements Provider.
func (s *Static) HalfLife(_ context.Context, assessmentID string) (time.Duration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if entry, ok := s.entries[assessmentID]; ok && entry.HalfLife > 0 {
		return entry.HalfLife, nil
	}
	return s.defaultHalfLife, nil
}

// AcceleratedHalfLife implements Provider.
func (s *Static) AcceleratedHalfLife(ctx context.Context, assessmentID string) (time.Duration, error) {
	s.mu.RLock()
	entry, ok := s.entries[assessmentID]
	s.mu.RUnlock()
	if ok && entry.AcceleratedHalfLife > 0 {
		return entry.AcceleratedHalfLife, nil
	}
	halfLife, err := s.HalfLife(ctx, assessmentID)
	if err != nil {
		return 0, err
	}
	return halfLife / AcceleratedDivisor, nil
}
