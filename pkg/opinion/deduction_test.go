package opinion

import (
	"math"
	"testing"
)

func TestDeduce_IdenticalConditionals(t *testing.T) {
	x := mustOpinion(t, 0.3, 0.4, 0.3, 0.5)
	cond := mustOpinion(t, 0.5, 0.2, 0.3, 0.4)

	deduced, err := Deduce(x, cond, cond)
	if err != nil {
		t.Fatal(err)
	}
	if !deduced.Equal(cond) {
		t.Fatalf("identical conditionals should make the antecedent irrelevant: got %v, want %v", deduced, cond)
	}
}

func TestDeduce_DogmaticAntecedentIsExact(t *testing.T) {
	x := mustOpinion(t, 0.7, 0.3, 0, 0.5) // dogmatic: P(X) = 0.7
	yGivenX := mustOpinion(t, 0.9, 0.1, 0, 0.5)
	yGivenNotX := mustOpinion(t, 0.2, 0.8, 0, 0.5)

	deduced, err := Deduce(x, yGivenX, yGivenNotX)
	if err != nil {
		t.Fatal(err)
	}
	if deduced.Uncertainty != 0 {
		t.Fatalf("dogmatic antecedent must yield zero uncertainty, got %v", deduced.Uncertainty)
	}
	want := 0.7*0.9 + 0.3*0.2
	if got := deduced.ProjectedProbability(); math.Abs(got-want) > Tolerance {
		t.Fatalf("projected probability = %v, want exactly %v", got, want)
	}
}

func TestDeduce_DogmaticAntecedentUncertainConditionals(t *testing.T) {
	x := mustOpinion(t, 0.4, 0.6, 0, 0.5)
	yGivenX := mustOpinion(t, 0.6, 0.2, 0.2, 0.5)
	yGivenNotX := mustOpinion(t, 0.1, 0.7, 0.2, 0.5)

	deduced, err := Deduce(x, yGivenX, yGivenNotX)
	if err != nil {
		t.Fatal(err)
	}
	if deduced.Uncertainty != 0 {
		t.Fatalf("dogmatic antecedent must force a dogmatic result, got u=%v", deduced.Uncertainty)
	}
	want := 0.4*yGivenX.ProjectedProbability() + 0.6*yGivenNotX.ProjectedProbability()
	if got := deduced.ProjectedProbability(); math.Abs(got-want) > Tolerance {
		t.Fatalf("projected probability = %v, want %v", got, want)
	}
}

func TestDeduce_PreservesTotalProbabilityProjection(t *testing.T) {
	x := mustOpinion(t, 0.3, 0.2, 0.5, 0.6)
	yGivenX := mustOpinion(t, 0.8, 0.1, 0.1, 0.5)
	yGivenNotX := mustOpinion(t, 0.1, 0.8, 0.1, 0.5)

	deduced, err := Deduce(x, yGivenX, yGivenNotX)
	if err != nil {
		t.Fatal(err)
	}

	px := x.ProjectedProbability()
	want := px*yGivenX.ProjectedProbability() + (1-px)*yGivenNotX.ProjectedProbability()
	if got := deduced.ProjectedProbability(); math.Abs(got-want) > Tolerance {
		t.Fatalf("projected probability = %v, want %v", got, want)
	}
	if err := deduced.Validate(); err != nil {
		t.Fatalf("deduced opinion violates constraints: %v", err)
	}
	if deduced.Uncertainty <= 0 {
		t.Fatal("uncertain antecedent with diverging conditionals should leave uncertainty")
	}
}
