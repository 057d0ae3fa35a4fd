package stream

import (
	"errors"
	"testing"
)

// TestStringRoundTrip tests that strings survive a write/read cycle
func TestStringRoundTrip(t *testing.T) {
	values := []string{"", "a", "hello world", "utf8 äöü 編集"}

	for _, v := range values {
		w := NewWriter(0)
		w.WriteString(v)

		r := NewReader(w.Bytes())
		got, err := r.ReadString()
		if err != nil {
			t.Fatalf("ReadString(%q) failed: %v", v, err)
		}
		if got != v {
			t.Errorf("round trip mismatch: got %q, want %q", got, v)
		}
		if r.Remaining() != 0 {
			t.Errorf("expected no remaining bytes, got %d", r.Remaining())
		}
	}
}

// TestBoolRoundTrip tests boolean write/read
func TestBoolRoundTrip(t *testing.T) {
	for _, v := range []bool{true, false} {
		w := NewWriter(1)
		w.WriteBool(v)

		got, err := NewReader(w.Bytes()).ReadBool()
		if err != nil {
			t.Fatalf("ReadBool failed: %v", err)
		}
		if got != v {
			t.Errorf("round trip mismatch: got %t, want %t", got, v)
		}
	}
}

// TestOptionalStringRoundTrip tests that absence and emptiness stay distinct
func TestOptionalStringRoundTrip(t *testing.T) {
	empty := ""
	value := "some-value"

	tests := []struct {
		name string
		in   *string
	}{
		{"absent", nil},
		{"empty", &empty},
		{"present", &value},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter(0)
			w.WriteOptionalString(tt.in)

			got, err := NewReader(w.Bytes()).ReadOptionalString()
			if err != nil {
				t.Fatalf("ReadOptionalString failed: %v", err)
			}
			if (got == nil) != (tt.in == nil) {
				t.Fatalf("presence mismatch: got %v, want %v", got, tt.in)
			}
			if got != nil && *got != *tt.in {
				t.Errorf("value mismatch: got %q, want %q", *got, *tt.in)
			}
		})
	}
}

// TestUint64RoundTrip tests 8-byte integer write/read
func TestUint64RoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 1<<32 - 1, 1<<64 - 1} {
		w := NewWriter(8)
		w.WriteUint64(v)

		got, err := NewReader(w.Bytes()).ReadUint64()
		if err != nil {
			t.Fatalf("ReadUint64 failed: %v", err)
		}
		if got != v {
			t.Errorf("round trip mismatch: got %d, want %d", got, v)
		}
	}
}

// TestTruncatedInput tests that every read fails with ErrMalformed on short input
func TestTruncatedInput(t *testing.T) {
	w := NewWriter(0)
	w.WriteString("payload")
	full := w.Bytes()

	tests := []struct {
		name string
		read func(r *Reader) error
		data []byte
	}{
		{"string header", func(r *Reader) error { _, err := r.ReadString(); return err }, full[:2]},
		{"string data", func(r *Reader) error { _, err := r.ReadString(); return err }, full[:6]},
		{"bool", func(r *Reader) error { _, err := r.ReadBool(); return err }, nil},
		{"uint64", func(r *Reader) error { _, err := r.ReadUint64(); return err }, []byte{1, 2, 3}},
		{"optional string", func(r *Reader) error { _, err := r.ReadOptionalString(); return err }, []byte{1}},
		{"count", func(r *Reader) error { _, err := r.ReadCount(); return err }, []byte{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.read(NewReader(tt.data))
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

// TestInconsistentLengthPrefix tests that a length prefix pointing past the
// end of the buffer is rejected
func TestInconsistentLengthPrefix(t *testing.T) {
	// prefix says 100 bytes, only 3 follow
	data := []byte{0, 0, 0, 100, 'a', 'b', 'c'}
	if _, err := NewReader(data).ReadString(); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

// TestExpectEOF tests trailing byte detection
func TestExpectEOF(t *testing.T) {
	r := NewReader([]byte{1})
	if err := r.ExpectEOF(); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed for trailing bytes, got %v", err)
	}
	if _, err := r.ReadBool(); err != nil {
		t.Fatalf("ReadBool failed: %v", err)
	}
	if err := r.ExpectEOF(); err != nil {
		t.Errorf("expected clean EOF, got %v", err)
	}
}
