// Package registry defines the interface for storing named search-engine
// configurations, keyed by engine name.
//
// Two implementations exist:
//   - lregistry: single-node, in-process, backed by a concurrent map
//   - dregistry: replicated across a cluster via Raft consensus, shipping
//     field diffs instead of full values when an engine is updated
//
// Both store engines in their binary encoding (lib/engine), so a registry
// entry is exactly the unit that cluster-state propagation transfers.
package registry
