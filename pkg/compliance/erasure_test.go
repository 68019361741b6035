package compliance

import (
	"errors"
	"math"
	"testing"

	"github.com/credence-labs/credence/pkg/opinion"
)

func TestErasureScope_UniformConfidenceDegradesExponentially(t *testing.T) {
	node := mustCompliance(t, 0.95, 0.01, 0.04, 0.5)
	scope := make([]Opinion, 10)
	for i := range scope {
		scope[i] = node
	}

	composite, err := ErasureScope(scope...)
	if err != nil {
		t.Fatal(err)
	}
	// 0.95^10 ≈ 0.599: ten well-erased nodes still leave a scope that is
	// barely more likely erased than not.
	if math.Abs(composite.Lawfulness()-0.599) > 0.002 {
		t.Fatalf("composite lawfulness = %v, want ≈ 0.599", composite.Lawfulness())
	}
}

func TestErasureScope_PerfectNodeIsNeutral(t *testing.T) {
	certain := mustCompliance(t, 1, 0, 0, 1)
	partial := mustCompliance(t, 0.8, 0.1, 0.1, 0.5)

	with, err := ErasureScope(partial, certain)
	if err != nil {
		t.Fatal(err)
	}
	if !with.Equal(partial.Opinion) {
		t.Fatalf("a perfectly erased node changed the composite: %v -> %v", partial, with)
	}
}

func TestErasureScope_Empty(t *testing.T) {
	if _, err := ErasureScope(); !errors.Is(err, opinion.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestResidualContamination_AllCleanAncestors(t *testing.T) {
	clean := mustCompliance(t, 1, 0, 0, 1)
	result, err := ResidualContamination(clean, clean, clean)
	if err != nil {
		t.Fatal(err)
	}
	if result.Violation() != 0 {
		t.Fatalf("risk = %v with all-clean ancestors, want 0", result.Violation())
	}
	if result.Lawfulness() != 1 {
		t.Fatalf("clean mass = %v, want 1", result.Lawfulness())
	}
}

func TestResidualContamination_CertainPersistenceDominates(t *testing.T) {
	clean := mustCompliance(t, 0.9, 0.05, 0.05, 0.5)
	persisting := mustCompliance(t, 0, 1, 0, 0.5)

	result, err := ResidualContamination(clean, persisting)
	if err != nil {
		t.Fatal(err)
	}
	if result.Violation() != 1 {
		t.Fatalf("risk = %v with a certainly persisting ancestor, want 1", result.Violation())
	}
}

func TestResidualContamination_RiskGrowsWithDepth(t *testing.T) {
	ancestor := mustCompliance(t, 0.8, 0.1, 0.1, 0.5)

	prev := -1.0
	ancestors := []Opinion{}
	for depth := 1; depth <= 6; depth++ {
		ancestors = append(ancestors, ancestor)
		result, err := ResidualContamination(ancestors...)
		if err != nil {
			t.Fatalf("depth %d: %v", depth, err)
		}
		if result.Violation() <= prev {
			t.Fatalf("risk did not grow at depth %d: %v -> %v", depth, prev, result.Violation())
		}
		if err := result.Validate(); err != nil {
			t.Fatalf("depth %d: %v", depth, err)
		}
		prev = result.Violation()
	}

	want := 1 - math.Pow(0.9, 6)
	if math.Abs(prev-want) > opinion.Tolerance {
		t.Fatalf("risk at depth 6 = %v, want 1 − 0.9^6 = %v", prev, want)
	}
}

func TestResidualContamination_Empty(t *testing.T) {
	if _, err := ResidualContamination(); !errors.Is(err, opinion.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}
