package engine

import (
	"github.com/tbergmann/searchmeta/lib/stream"
)

// Binary wire order (fixed, decode mirrors it exactly):
//  1. name                 length-prefixed string
//  2. indices              count prefix, then each IndexRef
//  3. hidden               1 byte
//  4. system               1 byte
//  5. relevanceSettingsID  optional string (presence byte + string)
//  6. analyticsCollection  optional string (presence byte + string)

// encodedSize returns the exact number of bytes EncodeBinary will produce,
// so the writer buffer is allocated once.
func (e *SearchEngine) encodedSize() int {
	size := 4 + len(e.name) // name
	size += 4               // indices count
	for _, ref := range e.indices {
		size += 4 + len(ref.name) + 4 + len(ref.uuid)
	}
	size += 1 + 1 // hidden, system
	size += 1     // relevanceSettingsID presence
	if e.relevanceSettingsID != nil {
		size += 4 + len(*e.relevanceSettingsID)
	}
	size += 1 // analyticsCollection presence
	if e.analyticsCollection != nil {
		size += 4 + len(*e.analyticsCollection)
	}
	return size
}

// EncodeBinary encodes the engine into a standalone byte slice.
func (e *SearchEngine) EncodeBinary() []byte {
	w := stream.NewWriter(e.encodedSize())
	e.EncodeTo(w)
	return w.Bytes()
}

// EncodeTo appends the engine's binary encoding to w. Used directly when an
// engine is embedded in a larger stream (registry snapshots, diff payloads).
func (e *SearchEngine) EncodeTo(w *stream.Writer) {
	w.WriteString(e.name)
	w.WriteCount(len(e.indices))
	for _, ref := range e.indices {
		ref.EncodeTo(w)
	}
	w.WriteBool(e.hidden)
	w.WriteBool(e.system)
	w.WriteOptionalString(e.relevanceSettingsID)
	w.WriteOptionalString(e.analyticsCollection)
}

// DecodeBinary decodes a standalone engine encoding. The input must contain
// exactly one value; trailing bytes are treated as corruption.
func DecodeBinary(data []byte) (*SearchEngine, error) {
	r := stream.NewReader(data)
	e, err := ReadFrom(r)
	if err != nil {
		return nil, err
	}
	if err := r.ExpectEOF(); err != nil {
		return nil, err
	}
	return e, nil
}

// ReadFrom decodes one engine from r, leaving r positioned after it.
// Any truncation or inconsistent length prefix fails with an error wrapping
// stream.ErrMalformed; no partial value is returned.
func ReadFrom(r *stream.Reader) (*SearchEngine, error) {
	name, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	count, err := r.ReadCount()
	if err != nil {
		return nil, err
	}
	indices := make([]IndexRef, 0, count)
	for i := 0; i < count; i++ {
		ref, err := ReadIndexRefFrom(r)
		if err != nil {
			return nil, err
		}
		indices = append(indices, ref)
	}
	hidden, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	system, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	relevance, err := r.ReadOptionalString()
	if err != nil {
		return nil, err
	}
	analytics, err := r.ReadOptionalString()
	if err != nil {
		return nil, err
	}
	return &SearchEngine{
		name:                name,
		indices:             indices,
		hidden:              hidden,
		system:              system,
		relevanceSettingsID: relevance,
		analyticsCollection: analytics,
	}, nil
}

// --------------------------------------------------------------------------
// IndexRef binary codec
// --------------------------------------------------------------------------

// EncodeTo appends the ref's binary encoding (name, then uuid) to w.
func (ref IndexRef) EncodeTo(w *stream.Writer) {
	w.WriteString(ref.name)
	w.WriteString(ref.uuid)
}

// ReadIndexRefFrom decodes one IndexRef from r.
func ReadIndexRefFrom(r *stream.Reader) (IndexRef, error) {
	name, err := r.ReadString()
	if err != nil {
		return IndexRef{}, err
	}
	uuid, err := r.ReadString()
	if err != nil {
		return IndexRef{}, err
	}
	return IndexRef{name: name, uuid: uuid}, nil
}
