package dregistry

import (
	"fmt"
	"io"
	"sort"

	sm "github.com/lni/dragonboat/v4/statemachine"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/tbergmann/searchmeta/lib/engine"
	"github.com/tbergmann/searchmeta/lib/registry"
	"github.com/tbergmann/searchmeta/lib/registry/dregistry/internal"
	"github.com/tbergmann/searchmeta/lib/stream"
)

// --------------------------------------------------------------------------
// State Machine Implementation
// --------------------------------------------------------------------------

// RegistryStateMachine is the Raft state machine holding the replicated
// engine registry. The state is a map of engine name to binary encoding;
// log entries carry full encodings, field diffs, or deletions.
type RegistryStateMachine struct {
	replicaID uint64
	shardID   uint64
	engines   *xsync.MapOf[string, []byte]
}

// CreateStateMachineFactory returns the factory dragonboat uses to create the
// state machine for a node host.
func CreateStateMachineFactory() func(shardID uint64, replicaID uint64) sm.IConcurrentStateMachine {
	return func(shardID uint64, replicaID uint64) sm.IConcurrentStateMachine {
		return &RegistryStateMachine{
			replicaID: replicaID,
			shardID:   shardID,
			engines:   xsync.NewMapOf[string, []byte](),
		}
	}
}

// Lookup handles read-only queries against the registry state.
func (fsm *RegistryStateMachine) Lookup(itf interface{}) (interface{}, error) {
	q, ok := itf.(internal.Query)
	if !ok {
		return nil, registry.NewError(registry.RetCInternalError, fmt.Sprintf("invalid query type: %T", itf))
	}

	switch q.Type {
	case internal.QueryTGet:
		data, ok := fsm.engines.Load(q.Name)
		return internal.QueryResult{Value: data, Ok: ok}, nil
	case internal.QueryTNames:
		names := make([]string, 0)
		fsm.engines.Range(func(name string, _ []byte) bool {
			names = append(names, name)
			return true
		})
		sort.Strings(names)
		return names, nil
	default:
		return nil, registry.NewError(registry.RetCInvalidOperation, fmt.Sprintf("unknown query operation: %d", q.Type))
	}
}

// Update applies write commands to the registry state. Every replica applies
// the same log, so a diff entry deterministically reproduces the same new
// value everywhere without shipping unchanged fields.
func (fsm *RegistryStateMachine) Update(entries []sm.Entry) ([]sm.Entry, error) {
	for idx, e := range entries {
		if len(e.Cmd) == 0 {
			entries[idx].Result = sm.Result{Value: uint64(registry.RetCInvalidOperation), Data: []byte("empty command ignored")}
			continue
		}

		cmd := internal.Command{}
		if err := cmd.Deserialize(e.Cmd); err != nil {
			entries[idx].Result = sm.Result{Value: uint64(registry.RetCInternalError), Data: []byte(fmt.Sprintf("failed to deserialize command: %v", err))}
			continue
		}

		entries[idx].Result = fsm.apply(&cmd)
	}
	return entries, nil
}

// apply executes a single command and returns its result.
func (fsm *RegistryStateMachine) apply(cmd *internal.Command) sm.Result {
	switch cmd.Type {
	case internal.CommandTPutFull:
		// validate before storing so the registry never holds undecodable bytes
		if _, err := engine.DecodeBinary(cmd.Payload); err != nil {
			return sm.Result{
				Value: uint64(registry.RetCMalformedValue),
				Data:  []byte(fmt.Sprintf("putFull %q: %v", cmd.Name, err)),
			}
		}
		fsm.engines.Store(cmd.Name, cmd.Payload)
		return sm.Result{
			Value: uint64(registry.RetCSuccess),
			Data:  []byte(fmt.Sprintf("putFull: engine=%s", cmd.Name)),
		}

	case internal.CommandTPutDiff:
		stored, ok := fsm.engines.Load(cmd.Name)
		if !ok {
			return sm.Result{
				Value: uint64(registry.RetCDiffMismatch),
				Data:  []byte(fmt.Sprintf("putDiff %q: no base value", cmd.Name)),
			}
		}
		base, err := engine.DecodeBinary(stored)
		if err != nil {
			return sm.Result{
				Value: uint64(registry.RetCMalformedValue),
				Data:  []byte(fmt.Sprintf("putDiff %q: stored base undecodable: %v", cmd.Name, err)),
			}
		}
		diff, err := engine.DecodeDiff(cmd.Payload)
		if err != nil {
			return sm.Result{
				Value: uint64(registry.RetCMalformedValue),
				Data:  []byte(fmt.Sprintf("putDiff %q: %v", cmd.Name, err)),
			}
		}
		updated, err := diff.Apply(base)
		if err != nil {
			// stale base on the proposer; it will retry with a full value
			return sm.Result{
				Value: uint64(registry.RetCDiffMismatch),
				Data:  []byte(fmt.Sprintf("putDiff %q: %v", cmd.Name, err)),
			}
		}
		fsm.engines.Store(cmd.Name, updated.EncodeBinary())
		return sm.Result{
			Value: uint64(registry.RetCSuccess),
			Data:  []byte(fmt.Sprintf("putDiff: engine=%s", cmd.Name)),
		}

	case internal.CommandTDelete:
		fsm.engines.Delete(cmd.Name)
		return sm.Result{
			Value: uint64(registry.RetCSuccess),
			Data:  []byte(fmt.Sprintf("deleted engine=%s", cmd.Name)),
		}

	default:
		return sm.Result{
			Value: uint64(registry.RetCInvalidOperation),
			Data:  []byte(fmt.Sprintf("unknown command operation: %s", cmd.Type)),
		}
	}
}

// PrepareSnapshot is not used; the engine map supports fuzzy snapshotting.
func (fsm *RegistryStateMachine) PrepareSnapshot() (interface{}, error) {
	return nil, nil
}

// SaveSnapshot writes the full registry state to the writer using the shared
// stream discipline: an entry count followed by (name, encoding) pairs.
func (fsm *RegistryStateMachine) SaveSnapshot(_ interface{}, writer io.Writer, _ sm.ISnapshotFileCollection, _ <-chan struct{}) error {
	type entry struct {
		name string
		data []byte
	}
	entries := make([]entry, 0)
	fsm.engines.Range(func(name string, data []byte) bool {
		entries = append(entries, entry{name: name, data: data})
		return true
	})
	// deterministic snapshot layout
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })

	w := stream.NewWriter(0)
	w.WriteCount(len(entries))
	for _, e := range entries {
		w.WriteString(e.name)
		w.WriteBytes(e.data)
	}
	_, err := writer.Write(w.Bytes())
	return err
}

// RecoverFromSnapshot rebuilds the registry state from a snapshot stream.
func (fsm *RegistryStateMachine) RecoverFromSnapshot(reader io.Reader, _ []sm.SnapshotFile, _ <-chan struct{}) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	r := stream.NewReader(data)
	count, err := r.ReadCount()
	if err != nil {
		return err
	}
	fsm.engines.Clear()
	for i := 0; i < count; i++ {
		name, err := r.ReadString()
		if err != nil {
			return err
		}
		encoded, err := r.ReadBytes()
		if err != nil {
			return err
		}
		fsm.engines.Store(name, encoded)
	}
	return nil
}

// Close performs any necessary cleanup.
func (fsm *RegistryStateMachine) Close() error {
	return nil
}
