package engine

import (
	"testing"
)

func strPtr(s string) *string { return &s }

// testEngines creates a set of engines covering the field combinations
func testEngines() map[string]*SearchEngine {
	return map[string]*SearchEngine{
		"minimal": NewSearchEngine("eng-min", nil, false, false, nil, nil),
		"single-index": NewSearchEngine("eng1",
			[]IndexRef{NewIndexRef("idx-a", "uuid-a")},
			false, false, nil, strPtr("coll1")),
		"multi-index": NewSearchEngine("eng-multi",
			[]IndexRef{
				NewIndexRef("idx-a", "uuid-a"),
				NewIndexRef("idx-b", "uuid-b"),
				NewIndexRef("idx-c", "uuid-c"),
			},
			true, true, strPtr("rel-1"), strPtr("analytics")),
		"empty-optionals": NewSearchEngine("eng-empty",
			[]IndexRef{NewIndexRef("idx", "uuid")},
			false, true, strPtr(""), strPtr("")),
	}
}

// TestEqual tests full field-tuple equality
func TestEqual(t *testing.T) {
	base := NewSearchEngine("eng",
		[]IndexRef{NewIndexRef("a", "u1"), NewIndexRef("b", "u2")},
		false, false, strPtr("rel"), nil)

	same := NewSearchEngine("eng",
		[]IndexRef{NewIndexRef("a", "u1"), NewIndexRef("b", "u2")},
		false, false, strPtr("rel"), nil)

	if !base.Equal(same) {
		t.Error("structurally identical engines must compare equal")
	}
	if base.Hash() != same.Hash() {
		t.Error("equal engines must hash equal")
	}

	variants := map[string]*SearchEngine{
		"name": NewSearchEngine("other",
			[]IndexRef{NewIndexRef("a", "u1"), NewIndexRef("b", "u2")},
			false, false, strPtr("rel"), nil),
		"index order": NewSearchEngine("eng",
			[]IndexRef{NewIndexRef("b", "u2"), NewIndexRef("a", "u1")},
			false, false, strPtr("rel"), nil),
		"hidden": NewSearchEngine("eng",
			[]IndexRef{NewIndexRef("a", "u1"), NewIndexRef("b", "u2")},
			true, false, strPtr("rel"), nil),
		"system": NewSearchEngine("eng",
			[]IndexRef{NewIndexRef("a", "u1"), NewIndexRef("b", "u2")},
			false, true, strPtr("rel"), nil),
		"optional absent vs empty": NewSearchEngine("eng",
			[]IndexRef{NewIndexRef("a", "u1"), NewIndexRef("b", "u2")},
			false, false, strPtr(""), nil),
		"optional set": NewSearchEngine("eng",
			[]IndexRef{NewIndexRef("a", "u1"), NewIndexRef("b", "u2")},
			false, false, strPtr("rel"), strPtr("coll")),
	}

	for name, v := range variants {
		t.Run(name, func(t *testing.T) {
			if base.Equal(v) {
				t.Errorf("engines differing in %s must not compare equal", name)
			}
		})
	}
}

// TestImmutability tests that neither constructor arguments nor accessor
// results alias the stored fields
func TestImmutability(t *testing.T) {
	indices := []IndexRef{NewIndexRef("idx", "uuid")}
	relevance := "rel-1"
	e := NewSearchEngine("eng", indices, false, false, &relevance, nil)

	// mutate the inputs after construction
	indices[0] = NewIndexRef("changed", "changed")
	relevance = "changed"

	if e.Indices()[0] != NewIndexRef("idx", "uuid") {
		t.Error("constructor must copy the indices slice")
	}
	if *e.RelevanceSettingsID() != "rel-1" {
		t.Error("constructor must copy the optional string")
	}

	// mutate the accessor results
	e.Indices()[0] = NewIndexRef("changed", "changed")
	*e.RelevanceSettingsID() = "changed"

	if e.Indices()[0] != NewIndexRef("idx", "uuid") {
		t.Error("Indices must return a copy")
	}
	if *e.RelevanceSettingsID() != "rel-1" {
		t.Error("RelevanceSettingsID must return a copy")
	}
}

// TestShouldRecordAnalytics tests the derived analytics predicate
func TestShouldRecordAnalytics(t *testing.T) {
	tests := []struct {
		name      string
		analytics *string
		want      bool
	}{
		{"absent", nil, false},
		{"empty", strPtr(""), false},
		{"blank", strPtr("   \t"), false},
		{"set", strPtr("coll1"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewSearchEngine("eng", nil, false, false, nil, tt.analytics)
			if got := e.ShouldRecordAnalytics(); got != tt.want {
				t.Errorf("ShouldRecordAnalytics() = %t, want %t", got, tt.want)
			}
		})
	}
}
