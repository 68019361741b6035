package compliance

import "time"

// Propagate derives the compliance opinion of data that passed through one
// derivation step: a 3-way jurisdictional meet of the source's compliance,
// the trust in the processing pipeline, and the purpose compatibility of the
// derivation. Derivation can only degrade lawfulness and can only raise
// violation relative to the source.
func Propagate(source, trust, purpose Opinion) (Opinion, error) {
	return MeetAll(source, trust, purpose)
}

// ProvenanceStep is one derivation step in a provenance chain: the trust and
// purpose-compatibility opinions for the step, and when it happened.
type ProvenanceStep struct {
	Trust     Opinion
	Purpose   Opinion
	Timestamp time.Time
}

// ProvenanceChain accumulates derivation steps over time so a caller can
// record intermediate state while a derivation is still in flight. The chain
// is a value: Append returns a new chain and never mutates the receiver.
//
// Result() is guaranteed to equal the single flattened (2N+1)-way meet of
// the source and every step's trust and purpose opinions, within Tolerance.
type ProvenanceChain struct {
	source Opinion
	steps  []ProvenanceStep
}

// NewProvenanceChain starts a chain at the given source opinion.
func NewProvenanceChain(source Opinion) ProvenanceChain {
	return ProvenanceChain{source: source}
}

// Append returns a new chain extended by one derivation step.
func (c ProvenanceChain) Append(step ProvenanceStep) ProvenanceChain {
	steps := make([]ProvenanceStep, len(c.steps), len(c.steps)+1)
	copy(steps, c.steps)
	return ProvenanceChain{source: c.source, steps: append(steps, step)}
}

// Source returns the chain's source opinion.
func (c ProvenanceChain) Source() Opinion { return c.source }

// Steps returns a copy of the accumulated derivation steps.
func (c ProvenanceChain) Steps() []ProvenanceStep {
	steps := make([]ProvenanceStep, len(c.steps))
	copy(steps, c.steps)
	return steps
}

// Len returns the number of derivation steps.
func (c ProvenanceChain) Len() int { return len(c.steps) }

// Result applies Propagate iteratively over the accumulated steps.
func (c ProvenanceChain) Result() (Opinion, error) {
	acc := c.source
	for _, step := range c.steps {
		propagated, err := Propagate(acc, step.Trust, step.Purpose)
		if err != nil {
			return Opinion{}, err
		}
		acc = propagated
	}
	if err := acc.Validate(); err != nil {
		return Opinion{}, err
	}
	return acc, nil
}

// Flattened computes the same result as Result via a single (2N+1)-way meet
// of the source and all step opinions. The two paths agree within Tolerance;
// callers and tests may use either interchangeably.
func (c ProvenanceChain) Flattened() (Opinion, error) {
	flat := make([]Opinion, 0, 1+2*len(c.steps))
	flat = append(flat, c.source)
	for _, step := range c.steps {
		flat = append(flat, step.Trust, step.Purpose)
	}
	return MeetAll(flat...)
}
