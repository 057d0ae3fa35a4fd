package lregistry

import (
	"fmt"
	"sort"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/tbergmann/searchmeta/lib/engine"
	"github.com/tbergmann/searchmeta/lib/registry"
)

type registryImpl struct {
	engines *xsync.MapOf[string, []byte]
}

// NewLocalRegistry creates a new local registry instance.
// This implementation is not distributed and only works on a single node.
func NewLocalRegistry() registry.IRegistry {
	return &registryImpl{
		engines: xsync.NewMapOf[string, []byte](),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see registry/interface.go)
// --------------------------------------------------------------------------

func (r *registryImpl) Put(e *engine.SearchEngine) error {
	if e == nil {
		return registry.NewError(registry.RetCInvalidOperation, "cannot store a nil engine")
	}
	r.engines.Store(e.Name(), e.EncodeBinary())
	return nil
}

func (r *registryImpl) Get(name string) (*engine.SearchEngine, bool, error) {
	data, ok := r.engines.Load(name)
	if !ok {
		return nil, false, nil
	}
	e, err := engine.DecodeBinary(data)
	if err != nil {
		return nil, false, registry.NewError(registry.RetCMalformedValue, fmt.Sprintf("stored engine %q failed to decode: %v", name, err))
	}
	return e, true, nil
}

func (r *registryImpl) Delete(name string) error {
	r.engines.Delete(name)
	return nil
}

func (r *registryImpl) Names() ([]string, error) {
	names := make([]string, 0)
	r.engines.Range(func(name string, _ []byte) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names, nil
}
