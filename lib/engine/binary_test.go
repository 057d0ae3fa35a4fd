package engine

import (
	"errors"
	"testing"

	"github.com/tbergmann/searchmeta/lib/stream"
)

// TestBinaryRoundTrip tests decode(encode(v)) == v for all field combinations
func TestBinaryRoundTrip(t *testing.T) {
	for name, e := range testEngines() {
		t.Run(name, func(t *testing.T) {
			data := e.EncodeBinary()

			got, err := DecodeBinary(data)
			if err != nil {
				t.Fatalf("DecodeBinary failed: %v", err)
			}
			if !got.Equal(e) {
				t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, e)
			}
		})
	}
}

// TestBinaryIndexOrder tests that the indices sequence order survives encoding
func TestBinaryIndexOrder(t *testing.T) {
	e := NewSearchEngine("eng",
		[]IndexRef{
			NewIndexRef("z", "u3"),
			NewIndexRef("a", "u1"),
			NewIndexRef("m", "u2"),
		},
		false, false, nil, nil)

	got, err := DecodeBinary(e.EncodeBinary())
	if err != nil {
		t.Fatalf("DecodeBinary failed: %v", err)
	}
	want := []string{"z", "a", "m"}
	for i, ref := range got.Indices() {
		if ref.Name() != want[i] {
			t.Errorf("index %d: got %q, want %q", i, ref.Name(), want[i])
		}
	}
}

// TestBinaryTruncation tests that every possible truncation fails with
// ErrMalformed and never yields a partial value
func TestBinaryTruncation(t *testing.T) {
	e := NewSearchEngine("eng1",
		[]IndexRef{NewIndexRef("idx-a", "uuid-a")},
		false, false, strPtr("rel"), strPtr("coll1"))
	data := e.EncodeBinary()

	for cut := 0; cut < len(data); cut++ {
		got, err := DecodeBinary(data[:cut])
		if err == nil {
			t.Fatalf("truncation at %d bytes must fail", cut)
		}
		if !errors.Is(err, stream.ErrMalformed) {
			t.Errorf("truncation at %d: expected ErrMalformed, got %v", cut, err)
		}
		if got != nil {
			t.Errorf("truncation at %d: decode returned a partial value", cut)
		}
	}
}

// TestBinaryTrailingBytes tests that extra bytes after a value are rejected
func TestBinaryTrailingBytes(t *testing.T) {
	e := NewSearchEngine("eng", nil, false, false, nil, nil)
	data := append(e.EncodeBinary(), 0xff)

	if _, err := DecodeBinary(data); !errors.Is(err, stream.ErrMalformed) {
		t.Errorf("expected ErrMalformed for trailing bytes, got %v", err)
	}
}

// TestIndexRefRoundTrip tests the standalone IndexRef codec
func TestIndexRefRoundTrip(t *testing.T) {
	ref := NewIndexRef("logs-2024", "aBcDeF123")

	w := stream.NewWriter(0)
	ref.EncodeTo(w)

	got, err := ReadIndexRefFrom(stream.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("ReadIndexRefFrom failed: %v", err)
	}
	if got != ref {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, ref)
	}
}
