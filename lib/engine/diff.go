package engine

import (
	"github.com/tbergmann/searchmeta/lib/stream"
)

// Changed-field bits, one per field in wire order. The payloads of changed
// fields follow the mask in this same order.
const (
	diffName byte = 1 << iota
	diffIndices
	diffHidden
	diffSystem
	diffRelevanceSettingsID
	diffAnalyticsCollection
)

// Diff is a field-granular delta between two SearchEngine values. It stores
// the new value for every changed field and nothing for unchanged ones. The
// indices sequence is diffed at whole-list granularity: it is either left
// untouched or replaced entirely.
//
// A Diff carries the hash of the value it was computed against; Apply refuses
// a different base with DiffMismatchError instead of silently producing a
// corrupt engine.
type Diff struct {
	baseHash uint64
	changed  byte

	// new values, valid only when the corresponding bit is set
	name                string
	indices             []IndexRef
	hidden              bool
	system              bool
	relevanceSettingsID *string
	analyticsCollection *string
}

// ComputeDiff returns the delta that turns old into updated. It is pure and
// deterministic: the same pair of values always yields a bit-identical
// binary encoding.
func ComputeDiff(old, updated *SearchEngine) *Diff {
	d := &Diff{baseHash: old.Hash()}

	if old.name != updated.name {
		d.changed |= diffName
		d.name = updated.name
	}
	if !indicesEqual(old.indices, updated.indices) {
		d.changed |= diffIndices
		d.indices = copyIndices(updated.indices)
	}
	if old.hidden != updated.hidden {
		d.changed |= diffHidden
		d.hidden = updated.hidden
	}
	if old.system != updated.system {
		d.changed |= diffSystem
		d.system = updated.system
	}
	if !optionalEqual(old.relevanceSettingsID, updated.relevanceSettingsID) {
		d.changed |= diffRelevanceSettingsID
		d.relevanceSettingsID = copyOptional(updated.relevanceSettingsID)
	}
	if !optionalEqual(old.analyticsCollection, updated.analyticsCollection) {
		d.changed |= diffAnalyticsCollection
		d.analyticsCollection = copyOptional(updated.analyticsCollection)
	}
	return d
}

// Unchanged reports whether the diff carries no field changes. Applying an
// unchanged diff to its base returns the base value as-is.
func (d *Diff) Unchanged() bool {
	return d.changed == 0
}

// BaseHash returns the hash of the value the diff was computed against.
func (d *Diff) BaseHash() uint64 {
	return d.baseHash
}

// ChangedFields returns the document field names of all changed fields, in
// wire order.
func (d *Diff) ChangedFields() []string {
	var fields []string
	for _, f := range []struct {
		bit  byte
		name string
	}{
		{diffName, FieldName},
		{diffIndices, FieldIndices},
		{diffHidden, FieldHidden},
		{diffSystem, FieldSystem},
		{diffRelevanceSettingsID, FieldRelevanceSettingsID},
		{diffAnalyticsCollection, FieldAnalyticsCollection},
	} {
		if d.changed&f.bit != 0 {
			fields = append(fields, f.name)
		}
	}
	return fields
}

// Apply materializes the new value from old. It fails with DiffMismatchError
// when old is not the value the diff was computed against.
func (d *Diff) Apply(old *SearchEngine) (*SearchEngine, error) {
	if h := old.Hash(); h != d.baseHash {
		return nil, &DiffMismatchError{Expected: d.baseHash, Actual: h}
	}

	out := &SearchEngine{
		name:                old.name,
		indices:             old.indices,
		hidden:              old.hidden,
		system:              old.system,
		relevanceSettingsID: old.relevanceSettingsID,
		analyticsCollection: old.analyticsCollection,
	}
	if d.changed&diffName != 0 {
		out.name = d.name
	}
	if d.changed&diffIndices != 0 {
		out.indices = copyIndices(d.indices)
	}
	if d.changed&diffHidden != 0 {
		out.hidden = d.hidden
	}
	if d.changed&diffSystem != 0 {
		out.system = d.system
	}
	if d.changed&diffRelevanceSettingsID != 0 {
		out.relevanceSettingsID = copyOptional(d.relevanceSettingsID)
	}
	if d.changed&diffAnalyticsCollection != 0 {
		out.analyticsCollection = copyOptional(d.analyticsCollection)
	}
	return out, nil
}

// --------------------------------------------------------------------------
// Binary codec
// --------------------------------------------------------------------------

// Wire order: base hash (8 bytes), changed mask (1 byte), then the payload of
// every changed field in field order, each encoded exactly as in the full
// value encoding.

// EncodeBinary encodes the diff using the same stream discipline as full
// values, so diffs can be persisted or transmitted identically.
func (d *Diff) EncodeBinary() []byte {
	w := stream.NewWriter(16)
	w.WriteUint64(d.baseHash)
	w.WriteByte(d.changed)
	if d.changed&diffName != 0 {
		w.WriteString(d.name)
	}
	if d.changed&diffIndices != 0 {
		w.WriteCount(len(d.indices))
		for _, ref := range d.indices {
			ref.EncodeTo(w)
		}
	}
	if d.changed&diffHidden != 0 {
		w.WriteBool(d.hidden)
	}
	if d.changed&diffSystem != 0 {
		w.WriteBool(d.system)
	}
	if d.changed&diffRelevanceSettingsID != 0 {
		w.WriteOptionalString(d.relevanceSettingsID)
	}
	if d.changed&diffAnalyticsCollection != 0 {
		w.WriteOptionalString(d.analyticsCollection)
	}
	return w.Bytes()
}

// DecodeDiff decodes a diff produced by EncodeBinary. Truncated or
// inconsistent input fails with an error wrapping stream.ErrMalformed.
func DecodeDiff(data []byte) (*Diff, error) {
	r := stream.NewReader(data)

	baseHash, err := r.ReadUint64()
	if err != nil {
		return nil, err
	}
	changed, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	d := &Diff{baseHash: baseHash, changed: changed}

	if changed&diffName != 0 {
		if d.name, err = r.ReadString(); err != nil {
			return nil, err
		}
	}
	if changed&diffIndices != 0 {
		count, err := r.ReadCount()
		if err != nil {
			return nil, err
		}
		d.indices = make([]IndexRef, 0, count)
		for i := 0; i < count; i++ {
			ref, err := ReadIndexRefFrom(r)
			if err != nil {
				return nil, err
			}
			d.indices = append(d.indices, ref)
		}
	}
	if changed&diffHidden != 0 {
		if d.hidden, err = r.ReadBool(); err != nil {
			return nil, err
		}
	}
	if changed&diffSystem != 0 {
		if d.system, err = r.ReadBool(); err != nil {
			return nil, err
		}
	}
	if changed&diffRelevanceSettingsID != 0 {
		if d.relevanceSettingsID, err = r.ReadOptionalString(); err != nil {
			return nil, err
		}
	}
	if changed&diffAnalyticsCollection != 0 {
		if d.analyticsCollection, err = r.ReadOptionalString(); err != nil {
			return nil, err
		}
	}
	if err := r.ExpectEOF(); err != nil {
		return nil, err
	}
	return d, nil
}

func indicesEqual(a, b []IndexRef) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
