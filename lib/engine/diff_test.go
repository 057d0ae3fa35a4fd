package engine

import (
	"bytes"
	"errors"
	"testing"
)

// TestDiffApplyLaw tests applyDiff(old, computeDiff(old, new)) == new across
// every pair of test engines
func TestDiffApplyLaw(t *testing.T) {
	engines := testEngines()

	for oldName, old := range engines {
		for newName, updated := range engines {
			t.Run(oldName+"->"+newName, func(t *testing.T) {
				d := ComputeDiff(old, updated)

				got, err := d.Apply(old)
				if err != nil {
					t.Fatalf("Apply failed: %v", err)
				}
				if !got.Equal(updated) {
					t.Errorf("apply mismatch:\n got  %+v\n want %+v", got, updated)
				}
			})
		}
	}
}

// TestDiffNoop tests that a self-diff is empty and applies to identity
func TestDiffNoop(t *testing.T) {
	e := NewSearchEngine("eng",
		[]IndexRef{NewIndexRef("idx", "uuid")},
		true, false, strPtr("rel"), nil)

	d := ComputeDiff(e, e)
	if !d.Unchanged() {
		t.Error("self-diff must carry no changes")
	}

	got, err := d.Apply(e)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !got.Equal(e) {
		t.Error("no-op diff must reproduce the value unchanged")
	}
}

// TestDiffSingleFieldPayload tests that a one-field change ships only that
// field: the diff encoding is header-sized plus the single boolean
func TestDiffSingleFieldPayload(t *testing.T) {
	indices := []IndexRef{NewIndexRef("idx-a", "uuid-a"), NewIndexRef("idx-b", "uuid-b")}
	v1 := NewSearchEngine("eng", indices, false, false, strPtr("rel"), strPtr("coll"))
	v2 := NewSearchEngine("eng", indices, true, false, strPtr("rel"), strPtr("coll"))

	d := ComputeDiff(v1, v2)
	data := d.EncodeBinary()

	// 8 bytes base hash + 1 byte mask + 1 byte for the changed boolean
	if len(data) != 10 {
		t.Errorf("one-bool diff must encode 10 bytes, got %d", len(data))
	}

	got, err := d.Apply(v1)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !got.Equal(v2) {
		t.Errorf("apply mismatch:\n got  %+v\n want %+v", got, v2)
	}
}

// TestDiffDeterminism tests that the same pair always yields a bit-identical diff
func TestDiffDeterminism(t *testing.T) {
	v1 := NewSearchEngine("eng", []IndexRef{NewIndexRef("a", "u1")}, false, false, nil, nil)
	v2 := NewSearchEngine("eng", []IndexRef{NewIndexRef("b", "u2")}, true, false, strPtr("rel"), nil)

	first := ComputeDiff(v1, v2).EncodeBinary()
	second := ComputeDiff(v1, v2).EncodeBinary()
	if !bytes.Equal(first, second) {
		t.Error("diff encoding must be deterministic")
	}
}

// TestDiffBinaryRoundTrip tests that decoded diffs apply identically
func TestDiffBinaryRoundTrip(t *testing.T) {
	engines := testEngines()
	old := engines["single-index"]
	updated := engines["multi-index"]

	d := ComputeDiff(old, updated)
	data := d.EncodeBinary()

	decoded, err := DecodeDiff(data)
	if err != nil {
		t.Fatalf("DecodeDiff failed: %v", err)
	}
	if !bytes.Equal(decoded.EncodeBinary(), data) {
		t.Error("re-encoding a decoded diff must be bit-identical")
	}

	got, err := decoded.Apply(old)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !got.Equal(updated) {
		t.Errorf("decoded diff apply mismatch:\n got  %+v\n want %+v", got, updated)
	}
}

// TestDiffWrongBase tests the defensive base check
func TestDiffWrongBase(t *testing.T) {
	v1 := NewSearchEngine("eng", nil, false, false, nil, nil)
	v2 := NewSearchEngine("eng", nil, true, false, nil, nil)
	other := NewSearchEngine("other", nil, false, false, nil, nil)

	d := ComputeDiff(v1, v2)

	_, err := d.Apply(other)
	var mismatch *DiffMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected DiffMismatchError, got %v", err)
	}
	if mismatch.Expected != v1.Hash() || mismatch.Actual != other.Hash() {
		t.Error("mismatch error must carry the expected and actual base hashes")
	}
}

// TestDiffTruncation tests that truncated diff encodings are rejected
func TestDiffTruncation(t *testing.T) {
	v1 := NewSearchEngine("eng", []IndexRef{NewIndexRef("a", "u1")}, false, false, nil, nil)
	v2 := NewSearchEngine("other", []IndexRef{NewIndexRef("b", "u2")}, true, true, strPtr("rel"), strPtr("coll"))
	data := ComputeDiff(v1, v2).EncodeBinary()

	for cut := 0; cut < len(data); cut++ {
		if _, err := DecodeDiff(data[:cut]); err == nil {
			t.Fatalf("truncation at %d bytes must fail", cut)
		}
	}
}
