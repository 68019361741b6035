package assessment

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gowebpki/jcs"

	"github.com/credence-labs/credence/pkg/compliance"
)

// Kind labels what an assessment receipt records.
type Kind string

const (
	KindErasureScope  Kind = "ERASURE_SCOPE"
	KindContamination Kind = "CONTAMINATION_RISK"
	KindReviewDue     Kind = "REVIEW_DUE"
)

// Receipt is a canonical, hashable record of one assessment: what was
// assessed, over which nodes, when, and the resulting opinion. The content
// hash is computed over the RFC 8785 (JCS) canonical form, so two receipts
// for the same assessment hash identically regardless of field ordering.
type Receipt struct {
	ReceiptID  string             `json:"receipt_id"`
	Kind       Kind               `json:"kind"`
	Subject    string             `json:"subject"`
	Scope      []string           `json:"scope,omitempty"`
	AssessedAt time.Time          `json:"assessed_at"`
	Result     compliance.Opinion `json:"result"`
	Hash       string             `json:"hash"`
}

// NewReceipt builds a receipt for an assessment result and seals it with a
// canonical content hash.
func NewReceipt(kind Kind, subject string, scope []string, at time.Time, result compliance.Opinion) (Receipt, error) {
	if err := result.Validate(); err != nil {
		return Receipt{}, err
	}
	r := Receipt{
		ReceiptID:  uuid.New().String(),
		Kind:       kind,
		Subject:    subject,
		Scope:      scope,
		AssessedAt: at.UTC(),
		Result:     result,
	}
	hash, err := r.contentHash()
	if err != nil {
		return Receipt{}, err
	}
	r.Hash = hash
	return r, nil
}

// Verify recomputes the content hash and reports whether the receipt is
// intact.
func (r Receipt) Verify() (bool, error) {
	hash, err := r.contentHash()
	if err != nil {
		return false, err
	}
	return hash == r.Hash, nil
}

// contentHash hashes the receipt's canonical JSON form, excluding the hash
// field itself and the random receipt ID so re-assessments of identical
// content compare equal.
func (r Receipt) contentHash() (string, error) {
	content := struct {
		Kind       Kind               `json:"kind"`
		Subject    string             `json:"subject"`
		Scope      []string           `json:"scope,omitempty"`
		AssessedAt time.Time          `json:"assessed_at"`
		Result     compliance.Opinion `json:"result"`
	}{r.Kind, r.Subject, r.Scope, r.AssessedAt, r.Result}

	raw, err := json.Marshal(content)
	if err != nil {
		return "", fmt.Errorf("marshal receipt: %w", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("canonicalize receipt: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
