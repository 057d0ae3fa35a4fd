package engine

import (
	"hash/fnv"
	"strings"
)

// --------------------------------------------------------------------------
// IndexRef
// --------------------------------------------------------------------------

// IndexRef identifies a concrete index backing a search engine: a name plus
// the UUID the index was created with. It is a plain comparable value.
type IndexRef struct {
	name string
	uuid string
}

// NewIndexRef creates an IndexRef from an index name and UUID.
func NewIndexRef(name, uuid string) IndexRef {
	return IndexRef{name: name, uuid: uuid}
}

// Name returns the index name.
func (ref IndexRef) Name() string { return ref.name }

// UUID returns the index UUID.
func (ref IndexRef) UUID() string { return ref.uuid }

// --------------------------------------------------------------------------
// SearchEngine
// --------------------------------------------------------------------------

// SearchEngine is an immutable, named search-engine configuration.
//
// The constructor stores all six fields verbatim: absent optional strings stay
// absent (nil), they are never coerced to "". The only place a default is
// materialized is document parsing, where omitted hidden/system become false.
type SearchEngine struct {
	name                string
	indices             []IndexRef
	hidden              bool
	system              bool
	relevanceSettingsID *string
	analyticsCollection *string
}

// NewSearchEngine constructs a SearchEngine from its six fields.
// The indices slice and the pointed-to optional strings are copied so that
// the new value cannot be mutated through the caller's references.
func NewSearchEngine(name string, indices []IndexRef, hidden, system bool, relevanceSettingsID, analyticsCollection *string) *SearchEngine {
	return &SearchEngine{
		name:                name,
		indices:             copyIndices(indices),
		hidden:              hidden,
		system:              system,
		relevanceSettingsID: copyOptional(relevanceSettingsID),
		analyticsCollection: copyOptional(analyticsCollection),
	}
}

// Name returns the engine name, unique within its namespace.
func (e *SearchEngine) Name() string { return e.name }

// Indices returns the backing indices in their original order.
// The returned slice is a copy; mutating it does not affect the value.
func (e *SearchEngine) Indices() []IndexRef { return copyIndices(e.indices) }

// IsHidden reports whether the engine is hidden from listings.
func (e *SearchEngine) IsHidden() bool { return e.hidden }

// IsSystem reports whether the engine is system-owned.
func (e *SearchEngine) IsSystem() bool { return e.system }

// RelevanceSettingsID returns the id of the custom relevance settings, or nil
// if the engine uses none.
func (e *SearchEngine) RelevanceSettingsID() *string { return copyOptional(e.relevanceSettingsID) }

// AnalyticsCollection returns the analytics collection name, or nil if unset.
func (e *SearchEngine) AnalyticsCollection() *string { return copyOptional(e.analyticsCollection) }

// ShouldRecordAnalytics reports whether queries against this engine should be
// recorded: true iff an analytics collection is set and non-blank.
func (e *SearchEngine) ShouldRecordAnalytics() bool {
	return e.analyticsCollection != nil && strings.TrimSpace(*e.analyticsCollection) != ""
}

// Equal reports full field-tuple equality: order-sensitive for indices and
// presence-sensitive for the optional strings (absent != "").
func (e *SearchEngine) Equal(other *SearchEngine) bool {
	if e == other {
		return true
	}
	if e == nil || other == nil {
		return false
	}
	if e.name != other.name || e.hidden != other.hidden || e.system != other.system {
		return false
	}
	if len(e.indices) != len(other.indices) {
		return false
	}
	for i := range e.indices {
		if e.indices[i] != other.indices[i] {
			return false
		}
	}
	return optionalEqual(e.relevanceSettingsID, other.relevanceSettingsID) &&
		optionalEqual(e.analyticsCollection, other.analyticsCollection)
}

// Hash returns a 64-bit hash of the full field tuple, computed as FNV-1a over
// the binary encoding. Equal values hash equal because the encoding is a
// deterministic function of the field tuple.
func (e *SearchEngine) Hash() uint64 {
	h := fnv.New64a()
	h.Write(e.EncodeBinary())
	return h.Sum64()
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func copyIndices(indices []IndexRef) []IndexRef {
	if indices == nil {
		return nil
	}
	out := make([]IndexRef, len(indices))
	copy(out, indices)
	return out
}

func copyOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func optionalEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
