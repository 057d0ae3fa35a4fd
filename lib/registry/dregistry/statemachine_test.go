package dregistry

import (
	"bytes"
	"reflect"
	"testing"

	sm "github.com/lni/dragonboat/v4/statemachine"
	"github.com/tbergmann/searchmeta/lib/engine"
	"github.com/tbergmann/searchmeta/lib/registry"
	"github.com/tbergmann/searchmeta/lib/registry/dregistry/internal"
)

func strPtr(s string) *string { return &s }

func newTestMachine() *RegistryStateMachine {
	return CreateStateMachineFactory()(1, 1).(*RegistryStateMachine)
}

// update runs a single command through the state machine and returns its result
func update(t *testing.T, fsm *RegistryStateMachine, cmd internal.Command) sm.Result {
	t.Helper()
	entries, err := fsm.Update([]sm.Entry{{Cmd: cmd.Serialize()}})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	return entries[0].Result
}

func lookupEngine(t *testing.T, fsm *RegistryStateMachine, name string) (*engine.SearchEngine, bool) {
	t.Helper()
	res, err := fsm.Lookup(internal.Query{Type: internal.QueryTGet, Name: name})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	qr := res.(internal.QueryResult)
	if !qr.Ok {
		return nil, false
	}
	e, err := engine.DecodeBinary(qr.Value)
	if err != nil {
		t.Fatalf("stored engine failed to decode: %v", err)
	}
	return e, true
}

// TestPutFullAndLookup tests storing and reading a full engine encoding
func TestPutFullAndLookup(t *testing.T) {
	fsm := newTestMachine()

	e := engine.NewSearchEngine("eng1",
		[]engine.IndexRef{engine.NewIndexRef("idx-a", "uuid-a")},
		false, false, nil, strPtr("coll1"))

	res := update(t, fsm, internal.Command{
		Type:    internal.CommandTPutFull,
		Name:    e.Name(),
		Payload: e.EncodeBinary(),
	})
	if res.Value != uint64(registry.RetCSuccess) {
		t.Fatalf("putFull failed: %s", res.Data)
	}

	got, found := lookupEngine(t, fsm, "eng1")
	if !found {
		t.Fatal("engine not found after putFull")
	}
	if !got.Equal(e) {
		t.Errorf("lookup mismatch:\n got  %+v\n want %+v", got, e)
	}
}

// TestPutDiffAppliesToStoredValue tests the incremental update path: only the
// diff travels through the log, the state machine materializes the new value
func TestPutDiffAppliesToStoredValue(t *testing.T) {
	fsm := newTestMachine()

	v1 := engine.NewSearchEngine("eng",
		[]engine.IndexRef{engine.NewIndexRef("idx-a", "uuid-a")},
		false, false, nil, nil)
	v2 := engine.NewSearchEngine("eng",
		[]engine.IndexRef{engine.NewIndexRef("idx-a", "uuid-a")},
		true, false, nil, strPtr("coll"))

	update(t, fsm, internal.Command{Type: internal.CommandTPutFull, Name: "eng", Payload: v1.EncodeBinary()})

	res := update(t, fsm, internal.Command{
		Type:    internal.CommandTPutDiff,
		Name:    "eng",
		Payload: engine.ComputeDiff(v1, v2).EncodeBinary(),
	})
	if res.Value != uint64(registry.RetCSuccess) {
		t.Fatalf("putDiff failed: %s", res.Data)
	}

	got, found := lookupEngine(t, fsm, "eng")
	if !found {
		t.Fatal("engine not found after putDiff")
	}
	if !got.Equal(v2) {
		t.Errorf("diff application mismatch:\n got  %+v\n want %+v", got, v2)
	}
}

// TestPutDiffStaleBase tests that a diff against a stale base is rejected
// with RetCDiffMismatch and leaves the stored value untouched
func TestPutDiffStaleBase(t *testing.T) {
	fsm := newTestMachine()

	stored := engine.NewSearchEngine("eng", nil, true, true, nil, nil)
	stale := engine.NewSearchEngine("eng", nil, false, false, nil, nil)
	updated := engine.NewSearchEngine("eng", nil, true, false, nil, nil)

	update(t, fsm, internal.Command{Type: internal.CommandTPutFull, Name: "eng", Payload: stored.EncodeBinary()})

	res := update(t, fsm, internal.Command{
		Type:    internal.CommandTPutDiff,
		Name:    "eng",
		Payload: engine.ComputeDiff(stale, updated).EncodeBinary(),
	})
	if res.Value != uint64(registry.RetCDiffMismatch) {
		t.Fatalf("expected RetCDiffMismatch, got %d (%s)", res.Value, res.Data)
	}

	got, _ := lookupEngine(t, fsm, "eng")
	if !got.Equal(stored) {
		t.Error("rejected diff must not modify the stored value")
	}
}

// TestPutDiffWithoutBase tests that a diff for an unknown engine is rejected
func TestPutDiffWithoutBase(t *testing.T) {
	fsm := newTestMachine()

	v1 := engine.NewSearchEngine("eng", nil, false, false, nil, nil)
	v2 := engine.NewSearchEngine("eng", nil, true, false, nil, nil)

	res := update(t, fsm, internal.Command{
		Type:    internal.CommandTPutDiff,
		Name:    "eng",
		Payload: engine.ComputeDiff(v1, v2).EncodeBinary(),
	})
	if res.Value != uint64(registry.RetCDiffMismatch) {
		t.Errorf("expected RetCDiffMismatch, got %d (%s)", res.Value, res.Data)
	}
}

// TestPutFullRejectsMalformedPayload tests payload validation
func TestPutFullRejectsMalformedPayload(t *testing.T) {
	fsm := newTestMachine()

	res := update(t, fsm, internal.Command{
		Type:    internal.CommandTPutFull,
		Name:    "eng",
		Payload: []byte{1, 2, 3},
	})
	if res.Value != uint64(registry.RetCMalformedValue) {
		t.Errorf("expected RetCMalformedValue, got %d (%s)", res.Value, res.Data)
	}
	if _, found := lookupEngine(t, fsm, "eng"); found {
		t.Error("malformed payload must not be stored")
	}
}

// TestDeleteAndNames tests deletion and the name listing query
func TestDeleteAndNames(t *testing.T) {
	fsm := newTestMachine()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		e := engine.NewSearchEngine(name, nil, false, false, nil, nil)
		update(t, fsm, internal.Command{Type: internal.CommandTPutFull, Name: name, Payload: e.EncodeBinary()})
	}
	update(t, fsm, internal.Command{Type: internal.CommandTDelete, Name: "mid"})

	res, err := fsm.Lookup(internal.Query{Type: internal.QueryTNames})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got, want := res.([]string), []string{"alpha", "zeta"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names = %v, want %v", got, want)
	}
}

// TestSnapshotRoundTrip tests that save + recover reproduces the full state
func TestSnapshotRoundTrip(t *testing.T) {
	fsm := newTestMachine()

	engines := []*engine.SearchEngine{
		engine.NewSearchEngine("eng1", []engine.IndexRef{engine.NewIndexRef("a", "u1")}, false, false, nil, strPtr("coll")),
		engine.NewSearchEngine("eng2", nil, true, true, strPtr("rel"), nil),
	}
	for _, e := range engines {
		update(t, fsm, internal.Command{Type: internal.CommandTPutFull, Name: e.Name(), Payload: e.EncodeBinary()})
	}

	var buf bytes.Buffer
	if err := fsm.SaveSnapshot(nil, &buf, nil, nil); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	restored := newTestMachine()
	if err := restored.RecoverFromSnapshot(&buf, nil, nil); err != nil {
		t.Fatalf("RecoverFromSnapshot failed: %v", err)
	}

	for _, e := range engines {
		got, found := lookupEngine(t, restored, e.Name())
		if !found {
			t.Fatalf("engine %q missing after recovery", e.Name())
		}
		if !got.Equal(e) {
			t.Errorf("engine %q differs after recovery", e.Name())
		}
	}
}

// TestUpdateRejectsGarbageCommands tests the command deserialization guard
func TestUpdateRejectsGarbageCommands(t *testing.T) {
	fsm := newTestMachine()

	entries, err := fsm.Update([]sm.Entry{{Cmd: []byte{0xde, 0xad}}, {Cmd: nil}})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if entries[0].Result.Value != uint64(registry.RetCInternalError) {
		t.Errorf("garbage command: expected RetCInternalError, got %d", entries[0].Result.Value)
	}
	if entries[1].Result.Value != uint64(registry.RetCInvalidOperation) {
		t.Errorf("empty command: expected RetCInvalidOperation, got %d", entries[1].Result.Value)
	}
}
