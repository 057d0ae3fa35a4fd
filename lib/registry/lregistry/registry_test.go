package lregistry

import (
	"reflect"
	"testing"

	"github.com/tbergmann/searchmeta/lib/engine"
)

func strPtr(s string) *string { return &s }

// TestPutGetDelete tests the basic registry lifecycle
func TestPutGetDelete(t *testing.T) {
	r := NewLocalRegistry()

	e := engine.NewSearchEngine("eng1",
		[]engine.IndexRef{engine.NewIndexRef("idx-a", "uuid-a")},
		false, false, nil, strPtr("coll1"))

	if err := r.Put(e); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, found, err := r.Get("eng1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("engine not found after Put")
	}
	if !got.Equal(e) {
		t.Errorf("Get returned different value:\n got  %+v\n want %+v", got, e)
	}

	if err := r.Delete("eng1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found, _ := r.Get("eng1"); found {
		t.Error("engine still found after Delete")
	}
}

// TestPutReplaces tests that Put overwrites the entry for the same name
func TestPutReplaces(t *testing.T) {
	r := NewLocalRegistry()

	v1 := engine.NewSearchEngine("eng", nil, false, false, nil, nil)
	v2 := engine.NewSearchEngine("eng", nil, true, false, strPtr("rel"), nil)

	if err := r.Put(v1); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := r.Put(v2); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, _, err := r.Get("eng")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.Equal(v2) {
		t.Error("Put must replace the stored value")
	}
}

// TestGetAbsent tests lookup of a missing name
func TestGetAbsent(t *testing.T) {
	r := NewLocalRegistry()

	e, found, err := r.Get("nope")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found || e != nil {
		t.Error("Get of an absent name must return not-found")
	}

	// deleting an absent name is not an error
	if err := r.Delete("nope"); err != nil {
		t.Errorf("Delete of absent name failed: %v", err)
	}
}

// TestNames tests the sorted name listing
func TestNames(t *testing.T) {
	r := NewLocalRegistry()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := r.Put(engine.NewSearchEngine(name, nil, false, false, nil, nil)); err != nil {
			t.Fatalf("Put(%q) failed: %v", name, err)
		}
	}

	names, err := r.Names()
	if err != nil {
		t.Fatalf("Names failed: %v", err)
	}
	if want := []string{"alpha", "mid", "zeta"}; !reflect.DeepEqual(names, want) {
		t.Errorf("Names() = %v, want %v", names, want)
	}
}

// TestPutNil tests the nil guard
func TestPutNil(t *testing.T) {
	r := NewLocalRegistry()
	if err := r.Put(nil); err == nil {
		t.Error("Put(nil) must fail")
	}
}
