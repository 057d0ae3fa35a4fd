// Package stream implements the ordered byte-stream discipline used for all
// internal binary encodings in searchmeta.
//
// The format is deliberately simple and fixed:
//   - strings are length-prefixed (4 bytes, big endian) followed by raw bytes
//   - booleans are a single byte (0 or 1)
//   - optional strings are a presence byte followed, if present, by a string
//   - sequences are a count prefix (4 bytes, big endian) followed by the
//     elements, each encoded by its own codec
//
// A Writer appends to an in-memory buffer; a Reader walks a byte slice with an
// explicit position. Decoding is all-or-nothing: any truncated or inconsistent
// input fails with an error wrapping ErrMalformed and no partial value is
// produced by the callers in lib/engine.
package stream
