// Package engine defines SearchEngine, the immutable metadata record that
// names a search engine and the indices backing it, together with its two
// serialization paths and its diff protocol.
//
// A SearchEngine survives two independent formats:
//   - a compact binary encoding with fixed field order (lib/stream discipline)
//     used for cluster-state propagation and registry storage, and
//   - a JSON document with named fields used on the external API surface.
//
// Both round-trip exactly: decode(encode(v)) and parse(emit(v)) reproduce a
// value equal to v, including the order of indices and the
// present/absent distinction of the optional string fields.
//
// For incremental cluster-state transfer, ComputeDiff produces a field-granular
// delta between two values that can itself be binary encoded and later applied
// to the old value to materialize the new one without shipping unchanged
// fields.
//
// Values are never mutated after construction, so they may be shared freely
// across goroutines. No codec in this package holds state.
package engine
