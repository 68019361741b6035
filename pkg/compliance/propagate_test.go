package compliance

import (
	"math"
	"testing"
	"time"

	"github.com/credence-labs/credence/pkg/opinion"
)

func TestPropagate_DegradesLawfulness(t *testing.T) {
	source := mustCompliance(t, 0.9, 0.02, 0.08, 0.8)
	trust := mustCompliance(t, 0.7, 0.1, 0.2, 0.5)
	purpose := mustCompliance(t, 0.85, 0.05, 0.1, 0.6)

	derived, err := Propagate(source, trust, purpose)
	if err != nil {
		t.Fatal(err)
	}
	if derived.Lawfulness() > source.Lawfulness()+opinion.Tolerance {
		t.Fatalf("derivation raised lawfulness: %v -> %v", source.Lawfulness(), derived.Lawfulness())
	}
	if derived.Violation()+opinion.Tolerance < source.Violation() {
		t.Fatalf("derivation lowered violation: %v -> %v", source.Violation(), derived.Violation())
	}

	want := 0.9 * 0.7 * 0.85
	if math.Abs(derived.Lawfulness()-want) > opinion.Tolerance {
		t.Fatalf("lawfulness = %v, want %v", derived.Lawfulness(), want)
	}
}

func TestPropagate_PerfectTrustAndPurposeIsIdentity(t *testing.T) {
	source := mustCompliance(t, 0.6, 0.2, 0.2, 0.4)
	derived, err := Propagate(source, Identity(), Identity())
	if err != nil {
		t.Fatal(err)
	}
	if !derived.Equal(source.Opinion) {
		t.Fatalf("lossless derivation changed the opinion: %v -> %v", source, derived)
	}
}

func TestProvenanceChain_ResultMatchesFlattened(t *testing.T) {
	source := mustCompliance(t, 0.9, 0.02, 0.08, 0.8)
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	chain := NewProvenanceChain(source).
		Append(ProvenanceStep{
			Trust:     mustCompliance(t, 0.8, 0.05, 0.15, 0.5),
			Purpose:   mustCompliance(t, 0.7, 0.1, 0.2, 0.6),
			Timestamp: base,
		}).
		Append(ProvenanceStep{
			Trust:     mustCompliance(t, 0.6, 0.2, 0.2, 0.5),
			Purpose:   mustCompliance(t, 0.9, 0.03, 0.07, 0.7),
			Timestamp: base.Add(24 * time.Hour),
		})

	iterative, err := chain.Result()
	if err != nil {
		t.Fatal(err)
	}
	flattened, err := chain.Flattened()
	if err != nil {
		t.Fatal(err)
	}
	if !iterative.Equal(flattened.Opinion) {
		t.Fatalf("iterative result %v disagrees with flattened meet %v", iterative, flattened)
	}
	if chain.Len() != 2 {
		t.Fatalf("chain length = %d, want 2", chain.Len())
	}
}

func TestProvenanceChain_AppendDoesNotMutate(t *testing.T) {
	source := mustCompliance(t, 0.9, 0.02, 0.08, 0.8)
	step := ProvenanceStep{
		Trust:   mustCompliance(t, 0.5, 0.3, 0.2, 0.5),
		Purpose: mustCompliance(t, 0.5, 0.3, 0.2, 0.5),
	}

	base := NewProvenanceChain(source)
	extended := base.Append(step)
	extendedAgain := extended.Append(step)

	if base.Len() != 0 || extended.Len() != 1 || extendedAgain.Len() != 2 {
		t.Fatalf("chain lengths = %d/%d/%d, want 0/1/2",
			base.Len(), extended.Len(), extendedAgain.Len())
	}

	baseResult, err := base.Result()
	if err != nil {
		t.Fatal(err)
	}
	if !baseResult.Equal(source.Opinion) {
		t.Fatalf("empty chain result = %v, want the source %v", baseResult, source)
	}
}
