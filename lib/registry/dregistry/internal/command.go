package internal

import (
	"fmt"

	"github.com/tbergmann/searchmeta/lib/stream"
)

// CommandType defines the possible write operations for the state machine.
type CommandType uint8

const (
	CommandTPutFull CommandType = iota // Insert or replace an engine with a full binary encoding.
	CommandTPutDiff                    // Replace an engine by applying a field diff to the stored value.
	CommandTDelete                     // Remove an engine.
)

func (ct CommandType) String() string {
	switch ct {
	case CommandTPutFull:
		return "PutFull"
	case CommandTPutDiff:
		return "PutDiff"
	case CommandTDelete:
		return "Delete"
	default:
		return fmt.Sprintf("Unknown(%d)", ct)
	}
}

// Command represents a single entry in the Raft log. Payload carries the
// engine's binary encoding for PutFull, the diff encoding for PutDiff, and
// nothing for Delete.
type Command struct {
	Type    CommandType
	Name    string
	Payload []byte
}

// Serialize encodes the command with the shared stream discipline:
// 1 byte for the operation type, a length-prefixed name, and a
// length-prefixed payload.
func (command *Command) Serialize() []byte {
	w := stream.NewWriter(1 + 4 + len(command.Name) + 4 + len(command.Payload))
	w.WriteByte(byte(command.Type))
	w.WriteString(command.Name)
	w.WriteBytes(command.Payload)
	return w.Bytes()
}

// Deserialize extracts all Command fields from a byte slice.
func (command *Command) Deserialize(data []byte) error {
	r := stream.NewReader(data)

	t, err := r.ReadByte()
	if err != nil {
		return err
	}
	name, err := r.ReadString()
	if err != nil {
		return err
	}
	payload, err := r.ReadBytes()
	if err != nil {
		return err
	}
	if err := r.ExpectEOF(); err != nil {
		return err
	}

	command.Type = CommandType(t)
	command.Name = name
	command.Payload = payload
	return nil
}
