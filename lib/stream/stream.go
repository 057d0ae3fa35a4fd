package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrMalformed is the sentinel for all binary decode failures (truncated
// input, length prefix pointing past the end of the buffer). Use errors.Is to
// test for it; the wrapped message names the field that failed.
var ErrMalformed = errors.New("malformed stream")

// --------------------------------------------------------------------------
// Writer
// --------------------------------------------------------------------------

// Writer accumulates an ordered binary encoding in memory.
// The zero value is ready to use.
type Writer struct {
	buf []byte
}

// NewWriter creates a Writer with capacity for sizeHint bytes.
func NewWriter(sizeHint int) *Writer {
	return &Writer{buf: make([]byte, 0, sizeHint)}
}

// WriteString writes a length-prefixed string (4 bytes big endian + data).
func (w *Writer) WriteString(s string) {
	w.WriteCount(len(s))
	w.buf = append(w.buf, s...)
}

// WriteBool writes a boolean as a single byte.
func (w *Writer) WriteBool(b bool) {
	if b {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

// WriteOptionalString writes a presence byte followed by the string if s is
// non-nil. A nil pointer and an empty string are distinct on the wire.
func (w *Writer) WriteOptionalString(s *string) {
	if s == nil {
		w.buf = append(w.buf, 0)
		return
	}
	w.buf = append(w.buf, 1)
	w.WriteString(*s)
}

// WriteCount writes a sequence count (4 bytes, big endian).
func (w *Writer) WriteCount(n int) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(n))
	w.buf = append(w.buf, tmp[:]...)
}

// WriteByte writes a single raw byte. It never fails; the error return only
// satisfies io.ByteWriter.
func (w *Writer) WriteByte(b byte) error {
	w.buf = append(w.buf, b)
	return nil
}

// WriteUint64 writes an unsigned 64-bit integer (8 bytes, big endian).
func (w *Writer) WriteUint64(v uint64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// WriteBytes writes a length-prefixed byte slice.
func (w *Writer) WriteBytes(b []byte) {
	w.WriteCount(len(b))
	w.buf = append(w.buf, b...)
}

// Bytes returns the accumulated encoding. The returned slice aliases the
// Writer's buffer; the caller must not keep writing afterwards.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// --------------------------------------------------------------------------
// Reader
// --------------------------------------------------------------------------

// Reader decodes values from a byte slice in the same fixed order they were
// written. It does not copy or retain the slice beyond the read calls.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// ReadString reads a length-prefixed string.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadCount()
	if err != nil {
		return "", err
	}
	if r.pos+n > len(r.data) {
		return "", fmt.Errorf("%w: string data truncated (need %d bytes, have %d)", ErrMalformed, n, len(r.data)-r.pos)
	}
	s := string(r.data[r.pos : r.pos+n])
	r.pos += n
	return s, nil
}

// ReadBool reads a single-byte boolean.
func (r *Reader) ReadBool() (bool, error) {
	if r.pos+1 > len(r.data) {
		return false, fmt.Errorf("%w: data too short for boolean", ErrMalformed)
	}
	b := r.data[r.pos] != 0
	r.pos++
	return b, nil
}

// ReadOptionalString reads a presence byte and, if set, a string.
// Absence is returned as a nil pointer, never as an empty string.
func (r *Reader) ReadOptionalString() (*string, error) {
	present, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	s, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ReadCount reads a sequence count and validates it against the remaining
// bytes, so a corrupt prefix fails immediately instead of on a later read.
func (r *Reader) ReadCount() (int, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("%w: data too short for length prefix", ErrMalformed)
	}
	n := int(binary.BigEndian.Uint32(r.data[r.pos : r.pos+4]))
	r.pos += 4
	if n < 0 || n > len(r.data)-r.pos {
		return 0, fmt.Errorf("%w: length prefix %d exceeds remaining %d bytes", ErrMalformed, n, len(r.data)-r.pos)
	}
	return n, nil
}

// ReadByte reads a single raw byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos+1 > len(r.data) {
		return 0, fmt.Errorf("%w: data too short for byte", ErrMalformed)
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadUint64 reads an unsigned 64-bit integer.
func (r *Reader) ReadUint64() (uint64, error) {
	if r.pos+8 > len(r.data) {
		return 0, fmt.Errorf("%w: data too short for uint64", ErrMalformed)
	}
	v := binary.BigEndian.Uint64(r.data[r.pos : r.pos+8])
	r.pos += 8
	return v, nil
}

// ReadBytes reads a length-prefixed byte slice. The result is a copy.
func (r *Reader) ReadBytes() ([]byte, error) {
	n, err := r.ReadCount()
	if err != nil {
		return nil, err
	}
	b := make([]byte, n)
	copy(b, r.data[r.pos:r.pos+n])
	r.pos += n
	return b, nil
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// ExpectEOF fails if any bytes are left unread. Codecs call this at the end
// of a decode so that trailing garbage is treated as corruption.
func (r *Reader) ExpectEOF() error {
	if r.pos != len(r.data) {
		return fmt.Errorf("%w: %d trailing bytes after value", ErrMalformed, len(r.data)-r.pos)
	}
	return nil
}
