package dregistry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lni/dragonboat/v4"
	"github.com/lni/dragonboat/v4/client"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/tbergmann/searchmeta/lib/engine"
	"github.com/tbergmann/searchmeta/lib/registry"
	"github.com/tbergmann/searchmeta/lib/registry/dregistry/internal"
)

var (
	retries = 5
	log     = logger.GetLogger("registry")
)

// registryImpl is the node-local handle on the replicated registry. It
// encapsulates a dragonboat NodeHost which is used to communicate with the
// state machine.
type registryImpl struct {
	nh      *dragonboat.NodeHost
	shardID uint64
	cs      *client.Session
	timeout time.Duration
}

// NewDistributedRegistry creates a registry handle which uses Raft consensus
// to keep the engine metadata consistent across all nodes of the cluster.
func NewDistributedRegistry(nh *dragonboat.NodeHost, shardID uint64, timeout time.Duration) registry.IRegistry {
	return &registryImpl{
		nh:      nh,
		shardID: shardID,
		cs:      nh.GetNoOPSession(shardID),
		timeout: timeout,
	}
}

// --------------------------------------------------------------------------
// Internal write and read operations (used by interface methods)
// --------------------------------------------------------------------------

// write serializes a Command and sends it via SyncPropose.
// It returns a *registry.Error on failure, or nil on success.
func (r *registryImpl) write(cmd internal.Command) error {
	for i := 0; i < retries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		res, err := r.nh.SyncPropose(ctx, r.cs, cmd.Serialize())
		cancel()

		if errors.Is(err, dragonboat.ErrSystemBusy) {
			log.Infof("SyncPropose: system busy, retrying (%d/%d)...", i+1, retries)
			time.Sleep(r.timeout / 10)
			continue
		}
		if err != nil {
			return registry.NewError(registry.RetCInternalError, err.Error())
		}
		if res.Value != uint64(registry.RetCSuccess) {
			return registry.NewError(registry.RetCode(res.Value), string(res.Data))
		}
		return nil
	}
	return registry.NewError(registry.RetCInternalError, "timeout")
}

// read queries the state machine and converts the response into the expected
// type R. It retries on system-busy errors like write does.
func read[R any](r *registryImpl, q internal.Query) (R, error) {
	var zero R
	for i := 0; i < retries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		res, err := r.nh.SyncRead(ctx, r.shardID, q)
		cancel()

		if errors.Is(err, dragonboat.ErrSystemBusy) {
			log.Infof("SyncRead: system busy, retrying (%d/%d)...", i+1, retries)
			time.Sleep(r.timeout / 10)
			continue
		}
		if err != nil {
			return zero, registry.NewError(registry.RetCInternalError, err.Error())
		}

		typed, ok := res.(R)
		if !ok {
			return zero, registry.NewError(registry.RetCInternalError, fmt.Sprintf("unexpected query result type: %T", res))
		}
		return typed, nil
	}
	return zero, registry.NewError(registry.RetCInternalError, "timeout")
}

// --------------------------------------------------------------------------
// Interface Methods (docu see registry/interface.go)
// --------------------------------------------------------------------------

// Put replaces the stored engine. If a base value exists on this node, only
// the field diff is proposed; a stale base is detected by the state machine
// and answered by re-proposing the full encoding.
func (r *registryImpl) Put(e *engine.SearchEngine) error {
	if e == nil {
		return registry.NewError(registry.RetCInvalidOperation, "cannot store a nil engine")
	}

	base, found, err := r.Get(e.Name())
	if err != nil {
		return err
	}
	if found {
		diff := engine.ComputeDiff(base, e)
		if diff.Unchanged() {
			return nil
		}
		err := r.write(internal.Command{
			Type:    internal.CommandTPutDiff,
			Name:    e.Name(),
			Payload: diff.EncodeBinary(),
		})
		var regErr *registry.Error
		if err == nil {
			return nil
		}
		if !errors.As(err, &regErr) || regErr.Code != registry.RetCDiffMismatch {
			return err
		}
		log.Warningf("put %q: diff rejected against stale base, falling back to full value", e.Name())
	}

	return r.write(internal.Command{
		Type:    internal.CommandTPutFull,
		Name:    e.Name(),
		Payload: e.EncodeBinary(),
	})
}

func (r *registryImpl) Get(name string) (*engine.SearchEngine, bool, error) {
	res, err := read[internal.QueryResult](r, internal.Query{Type: internal.QueryTGet, Name: name})
	if err != nil {
		return nil, false, err
	}
	if !res.Ok {
		return nil, false, nil
	}
	e, decodeErr := engine.DecodeBinary(res.Value)
	if decodeErr != nil {
		return nil, false, registry.NewError(registry.RetCMalformedValue, fmt.Sprintf("stored engine %q failed to decode: %v", name, decodeErr))
	}
	return e, true, nil
}

func (r *registryImpl) Delete(name string) error {
	return r.write(internal.Command{Type: internal.CommandTDelete, Name: name})
}

func (r *registryImpl) Names() ([]string, error) {
	return read[[]string](r, internal.Query{Type: internal.QueryTNames})
}
