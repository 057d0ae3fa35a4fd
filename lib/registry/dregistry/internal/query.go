package internal

// QueryType defines the possible read-only queries for the state machine.
type QueryType uint8

const (
	QueryTGet   QueryType = iota // Retrieve an engine's binary encoding by name.
	QueryTNames                  // Retrieve the names of all stored engines.
)

func (q QueryType) String() string {
	switch q {
	case QueryTGet:
		return "Get"
	case QueryTNames:
		return "Names"
	default:
		return "Unknown"
	}
}

// Query defines the structure for lookup requests (read-only) sent via
// SyncRead or StaleRead.
type Query struct {
	Type QueryType // The type of query to perform.
	Name string    // The engine name (empty for QueryTNames).
}

// QueryResult is the result of a QueryTGet operation; QueryTNames returns a
// plain []string.
type QueryResult struct {
	Ok    bool
	Value []byte
}
