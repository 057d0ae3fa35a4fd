package registry

import (
	"fmt"

	"github.com/tbergmann/searchmeta/lib/engine"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IRegistry is the generic interface for a store of named search-engine
// configurations. Write operations return only an error (nil on success),
// read operations return the requested data along with an error.
//
// Engines are immutable values: Put replaces the entry for the engine's name
// as a whole, there is no partial update at this interface. How the
// replacement travels (full value or diff) is an implementation concern.
type IRegistry interface {
	// Put inserts or replaces the engine stored under its name.
	Put(e *engine.SearchEngine) (err error)
	// Get returns the engine stored under name. The boolean return value
	// indicates whether an entry was found.
	Get(name string) (e *engine.SearchEngine, found bool, err error)
	// Delete removes the engine stored under name. Deleting an absent name
	// is not an error.
	Delete(name string) (err error)
	// Names returns the names of all stored engines in lexical order.
	Names() (names []string, err error)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is the error type returned by registry implementations. It wraps a
// return code (also used as the state-machine result value in dregistry) and
// a message.
type Error struct {
	Code RetCode
	Msg  string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("RegistryError (code %s): %s", e.Code, e.Msg)
}

// NewError creates a new registry Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess          RetCode = iota // Command executed successfully.
	RetCInternalError                   // Command failed due to an internal error.
	RetCInvalidOperation                // Unknown or malformed command.
	RetCMalformedValue                  // Stored or proposed bytes failed to decode.
	RetCDiffMismatch                    // A diff was proposed against a stale base value.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCInvalidOperation:
		return "InvalidOperation"
	case RetCMalformedValue:
		return "MalformedValue"
	case RetCDiffMismatch:
		return "DiffMismatch"
	default:
		return "Unknown"
	}
}
