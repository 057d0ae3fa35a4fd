// Package dregistry provides the replicated registry implementation on top
// of Raft consensus (dragonboat).
//
// Writes travel through the Raft log as binary commands. When an engine is
// replaced, the proposer computes a field diff against the value it last
// read and proposes only the diff; every replica applies it to its stored
// copy, so unchanged fields never cross the wire. If the proposer's base was
// stale the state machine rejects the diff and the proposer retries with the
// full encoding. New engines and deletions always ship as full commands.
package dregistry
