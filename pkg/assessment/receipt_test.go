package assessment

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestReceipt_VerifyAndTamper(t *testing.T) {
	result := mustCompliance(t, 0.8, 0.1, 0.1, 0.5)
	at := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)

	receipt, err := NewReceipt(KindErasureScope, "raw", []string{"features", "model", "raw"}, at, result)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := uuid.Parse(receipt.ReceiptID); err != nil {
		t.Fatalf("receipt id %q is not a UUID: %v", receipt.ReceiptID, err)
	}

	ok, err := receipt.Verify()
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("freshly sealed receipt failed verification")
	}

	tampered := receipt
	tampered.Subject = "other"
	ok, err = tampered.Verify()
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("tampered receipt passed verification")
	}
}

func TestReceipt_HashIgnoresReceiptID(t *testing.T) {
	result := mustCompliance(t, 0.8, 0.1, 0.1, 0.5)
	at := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)

	first, err := NewReceipt(KindContamination, "model", nil, at, result)
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewReceipt(KindContamination, "model", nil, at, result)
	if err != nil {
		t.Fatal(err)
	}

	if first.ReceiptID == second.ReceiptID {
		t.Fatal("receipt ids should be unique")
	}
	if first.Hash != second.Hash {
		t.Fatalf("identical content hashed differently: %s vs %s", first.Hash, second.Hash)
	}
}

func TestReceipt_HashCoversAllContent(t *testing.T) {
	result := mustCompliance(t, 0.8, 0.1, 0.1, 0.5)
	at := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)

	base, err := NewReceipt(KindReviewDue, "dpia-7", nil, at, result)
	if err != nil {
		t.Fatal(err)
	}

	variants := []Receipt{}
	if r, err := NewReceipt(KindErasureScope, "dpia-7", nil, at, result); err == nil {
		variants = append(variants, r)
	}
	if r, err := NewReceipt(KindReviewDue, "dpia-8", nil, at, result); err == nil {
		variants = append(variants, r)
	}
	if r, err := NewReceipt(KindReviewDue, "dpia-7", []string{"raw"}, at, result); err == nil {
		variants = append(variants, r)
	}
	if r, err := NewReceipt(KindReviewDue, "dpia-7", nil, at.Add(time.Second), result); err == nil {
		variants = append(variants, r)
	}
	if r, err := NewReceipt(KindReviewDue, "dpia-7", nil, at, mustCompliance(t, 0.7, 0.2, 0.1, 0.5)); err == nil {
		variants = append(variants, r)
	}

	for i, variant := range variants {
		if variant.Hash == base.Hash {
			t.Errorf("variant %d hashed identically to the base receipt", i)
		}
	}
}

func TestNewReceipt_RejectsInvalidResult(t *testing.T) {
	bad := mustCompliance(t, 0.8, 0.1, 0.1, 0.5)
	bad.Belief = 0.99
	if _, err := NewReceipt(KindErasureScope, "raw", nil, time.Now(), bad); err == nil {
		t.Fatal("expected an error for a constraint-violating result")
	}
}
