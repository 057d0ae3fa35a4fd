package common

import (
	"encoding/json"
	"fmt"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests and responses.
// Which fields are used depends on the type of message.
//
// Engine configurations cross the RPC boundary in their JSON document form;
// the compact binary encoding stays internal to the cluster.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type"`

	// General fields
	Name     string `json:"name,omitempty"`     // Engine name. Used for: Get, Delete requests
	Document []byte `json:"document,omitempty"` // Engine JSON document. Used for: Put (request), Get (response)

	// Response only fields
	Names []string `json:"names,omitempty"` // Used for: List responses
	Ok    bool     `json:"ok,omitempty"`    // Used for: Get responses (found)
	Err   string   `json:"err,omitempty"`   // Empty if no error, otherwise contains the error message
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewPutRequest creates a new Put request carrying an engine document
func NewPutRequest(document []byte) *Message {
	return &Message{
		MsgType:  MsgTEnginePut,
		Document: document,
	}
}

// NewPutResponse creates a new Put response
func NewPutResponse(err error) *Message {
	msg := &Message{MsgType: MsgTEnginePut}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewGetRequest creates a new Get request
func NewGetRequest(name string) *Message {
	return &Message{
		MsgType: MsgTEngineGet,
		Name:    name,
	}
}

// NewGetResponse creates a new Get response
func NewGetResponse(document []byte, ok bool, err error) *Message {
	msg := &Message{
		MsgType:  MsgTEngineGet,
		Ok:       ok,
		Document: document,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewDeleteRequest creates a new Delete request
func NewDeleteRequest(name string) *Message {
	return &Message{
		MsgType: MsgTEngineDelete,
		Name:    name,
	}
}

// NewDeleteResponse creates a new Delete response
func NewDeleteResponse(err error) *Message {
	msg := &Message{MsgType: MsgTEngineDelete}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewListRequest creates a new List request
func NewListRequest() *Message {
	return &Message{MsgType: MsgTEngineList}
}

// NewListResponse creates a new List response
func NewListResponse(names []string, err error) *Message {
	msg := &Message{
		MsgType: MsgTEngineList,
		Names:   names,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewErrorResponse creates a new Error response
func NewErrorResponse(err string) *Message {
	return &Message{
		MsgType: MsgTError,
		Err:     err,
	}
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message used in RPC communication.
type MessageType uint8

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	switch t {
	case MsgTEnginePut:
		return "put"
	case MsgTEngineGet:
		return "get"
	case MsgTEngineDelete:
		return "delete"
	case MsgTEngineList:
		return "list"
	case MsgTError:
		return "error"
	case MsgTSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	switch s {
	case "put":
		*t = MsgTEnginePut
	case "get":
		*t = MsgTEngineGet
	case "delete":
		*t = MsgTEngineDelete
	case "list":
		*t = MsgTEngineList
	case "error":
		*t = MsgTError
	case "success":
		*t = MsgTSuccess
	default:
		return fmt.Errorf("unknown message type: %s", s)
	}
	return nil
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

const (
	// General message types

	MsgTUnknown MessageType = iota
	MsgTSuccess             // Indicates a successful operation
	MsgTError               // Indicates an error occurred

	// Engine registry operations

	MsgTEnginePut    // Store or replace an engine configuration
	MsgTEngineGet    // Fetch an engine configuration by name
	MsgTEngineDelete // Remove an engine configuration
	MsgTEngineList   // List all engine names
)
