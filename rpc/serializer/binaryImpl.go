package serializer

import (
	"encoding/binary"
	"fmt"

	"github.com/tbergmann/searchmeta/rpc/common"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and efficiency
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using a custom binary format
type binarySerializerImpl struct {
}

// Bit flags to indicate which optional fields are present
const (
	hasName     byte = 1 << 0
	hasDocument byte = 1 << 1
	hasNames    byte = 1 << 2
	hasOk       byte = 1 << 3
	hasErr      byte = 1 << 4
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	// Calculate total size needed
	totalSize := b.sizeBytes(msg)
	result := make([]byte, totalSize)

	// Write message type
	result[0] = byte(msg.MsgType)

	// Initialize flags byte
	var flags byte = 0

	// Set position for writing
	pos := 2 // Start after MsgType and flags

	// Handle Name
	if msg.Name != "" {
		flags |= hasName
		nameBytes := []byte(msg.Name)
		nameLen := len(nameBytes)

		// Write name length
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(nameLen))
		pos += 4

		// Write name data
		copy(result[pos:pos+nameLen], nameBytes)
		pos += nameLen
	}

	// Handle Document
	if msg.Document != nil {
		flags |= hasDocument
		docLen := len(msg.Document)

		// Write document length
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(docLen))
		pos += 4

		// Write document data
		if docLen > 0 {
			copy(result[pos:pos+docLen], msg.Document)
			pos += docLen
		}
	}

	// Handle Names
	if msg.Names != nil {
		flags |= hasNames

		// Write element count
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(msg.Names)))
		pos += 4

		// Write each name length-prefixed
		for _, name := range msg.Names {
			nameLen := len(name)
			binary.BigEndian.PutUint32(result[pos:pos+4], uint32(nameLen))
			pos += 4
			copy(result[pos:pos+nameLen], name)
			pos += nameLen
		}
	}

	// Handle Ok
	if msg.Ok {
		flags |= hasOk
		result[pos] = 1
		pos += 1
	}

	// Handle Err
	if msg.Err != "" {
		flags |= hasErr
		errBytes := []byte(msg.Err)
		errLen := len(errBytes)

		// Write error length
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(errLen))
		pos += 4

		// Write error data
		copy(result[pos:pos+errLen], errBytes)
		pos += errLen
	}

	// Set flags byte after knowing which fields are present
	result[1] = flags

	return result, nil
}

func (b binarySerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	// Check minimum size (MsgType + flags)
	if len(data) < 2 {
		return fmt.Errorf("data too short for message header")
	}

	// Read message type
	msg.MsgType = common.MessageType(data[0])

	// Read flags
	flags := data[1]

	// Initialize read position
	pos := 2

	// Read Name if present
	if flags&hasName != 0 {
		if pos+4 > len(data) {
			return fmt.Errorf("data too short for name length")
		}

		// Read name length
		nameLen := binary.BigEndian.Uint32(data[pos : pos+4])
		pos += 4

		if pos+int(nameLen) > len(data) {
			return fmt.Errorf("data too short for name data")
		}

		// Read name data
		msg.Name = string(data[pos : pos+int(nameLen)])
		pos += int(nameLen)
	} else {
		msg.Name = ""
	}

	// Read Document if present
	if flags&hasDocument != 0 {
		if pos+4 > len(data) {
			return fmt.Errorf("data too short for document length")
		}

		// Read document length
		docLen := binary.BigEndian.Uint32(data[pos : pos+4])
		pos += 4

		if pos+int(docLen) > len(data) {
			return fmt.Errorf("data too short for document data")
		}

		// Read document data - create an empty slice (not nil) if length is 0
		// Allocate only if needed
		if msg.Document == nil || cap(msg.Document) < int(docLen) {
			msg.Document = make([]byte, docLen)
		} else {
			msg.Document = msg.Document[:docLen]
		}

		if docLen > 0 {
			copy(msg.Document, data[pos:pos+int(docLen)])
		}
		pos += int(docLen)
	} else {
		msg.Document = nil
	}

	// Read Names if present
	if flags&hasNames != 0 {
		if pos+4 > len(data) {
			return fmt.Errorf("data too short for names count")
		}

		// Read element count
		count := binary.BigEndian.Uint32(data[pos : pos+4])
		pos += 4

		// Sanity check: every element needs at least its length prefix
		if int(count) > (len(data)-pos)/4 {
			return fmt.Errorf("data too short for %d names", count)
		}

		msg.Names = make([]string, count)
		for i := range msg.Names {
			if pos+4 > len(data) {
				return fmt.Errorf("data too short for name length at index %d", i)
			}
			nameLen := binary.BigEndian.Uint32(data[pos : pos+4])
			pos += 4

			if pos+int(nameLen) > len(data) {
				return fmt.Errorf("data too short for name data at index %d", i)
			}
			msg.Names[i] = string(data[pos : pos+int(nameLen)])
			pos += int(nameLen)
		}
	} else {
		msg.Names = nil
	}

	// Read Ok if present
	if flags&hasOk != 0 {
		if pos+1 > len(data) {
			return fmt.Errorf("data too short for Ok flag")
		}

		msg.Ok = data[pos] != 0
		pos += 1
	} else {
		msg.Ok = false
	}

	// Read Err if present
	if flags&hasErr != 0 {
		if pos+4 > len(data) {
			return fmt.Errorf("data too short for error length")
		}

		// Read error length
		errLen := binary.BigEndian.Uint32(data[pos : pos+4])
		pos += 4

		if pos+int(errLen) > len(data) {
			return fmt.Errorf("data too short for error data")
		}

		// Read error data
		msg.Err = string(data[pos : pos+int(errLen)])
		pos += int(errLen)
	} else {
		msg.Err = ""
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// sizeBytes calculates the total size needed for serialization
func (b binarySerializerImpl) sizeBytes(msg common.Message) int {
	// 1 byte for MsgType + 1 byte for flags
	size := 2

	// Add sizes for fields that require length encoding
	if msg.Name != "" {
		size += 4 + len(msg.Name) // 4 bytes for length + name string
	}
	if msg.Document != nil {
		size += 4 + len(msg.Document) // 4 bytes for length + document bytes
	}
	if msg.Names != nil {
		size += 4 // 4 bytes for element count
		for _, name := range msg.Names {
			size += 4 + len(name) // 4 bytes for length + name string
		}
	}
	if msg.Ok {
		size += 1 // 1 byte for boolean
	}
	if msg.Err != "" {
		size += 4 + len(msg.Err) // 4 bytes for length + error string
	}

	return size
}
