package engine

import (
	"bytes"
	"encoding/json"
)

// Document field names. The slice below is the full schema: parsing rejects
// any field outside it, emission always writes all of them in this order.
const (
	FieldName                = "name"
	FieldIndices             = "index"
	FieldHidden              = "hidden"
	FieldSystem              = "system"
	FieldRelevanceSettingsID = "relevance_settings_id"
	FieldAnalyticsCollection = "analytics_collection"
)

var documentFields = []string{
	FieldName,
	FieldIndices,
	FieldHidden,
	FieldSystem,
	FieldRelevanceSettingsID,
	FieldAnalyticsCollection,
}

// IndexRef document field names, matching the index reference documents of
// the cluster APIs.
const (
	FieldIndexName = "index_name"
	FieldIndexUUID = "index_uuid"
)

// engineDocument is the emission shape. Field order is the declared order, so
// emitted documents are byte-stable for external diffing and audit logs.
// Optional strings are emitted as null when absent; hidden/system are always
// written explicitly.
type engineDocument struct {
	Name                string             `json:"name"`
	Indices             []indexRefDocument `json:"index"`
	Hidden              bool               `json:"hidden"`
	System              bool               `json:"system"`
	RelevanceSettingsID *string            `json:"relevance_settings_id"`
	AnalyticsCollection *string            `json:"analytics_collection"`
}

type indexRefDocument struct {
	IndexName string `json:"index_name"`
	IndexUUID string `json:"index_uuid"`
}

// EmitJSON encodes the engine as a JSON document with all six named fields.
func (e *SearchEngine) EmitJSON() ([]byte, error) {
	doc := engineDocument{
		Name:                e.name,
		Indices:             make([]indexRefDocument, 0, len(e.indices)),
		Hidden:              e.hidden,
		System:              e.system,
		RelevanceSettingsID: e.relevanceSettingsID,
		AnalyticsCollection: e.analyticsCollection,
	}
	for _, ref := range e.indices {
		doc.Indices = append(doc.Indices, indexRefDocument{IndexName: ref.name, IndexUUID: ref.uuid})
	}
	return json.Marshal(doc)
}

// ParseJSON parses a JSON document into a SearchEngine.
//
// name and index are mandatory (MissingFieldError). hidden and system default
// to false when omitted. The optional strings stay absent when omitted or
// null; an explicit "" is preserved as an empty string. Fields outside the
// schema are rejected with a ParseError: the registry is the authority on the
// document shape and silently dropping unknown fields would hide client bugs.
func ParseJSON(data []byte) (*SearchEngine, error) {
	fields, err := decodeObject(data, "search_engine", documentFields)
	if err != nil {
		return nil, err
	}

	name, err := requiredString(fields, FieldName)
	if err != nil {
		return nil, err
	}
	indices, err := requiredIndexList(fields, FieldIndices)
	if err != nil {
		return nil, err
	}
	hidden, err := optionalBool(fields, FieldHidden)
	if err != nil {
		return nil, err
	}
	system, err := optionalBool(fields, FieldSystem)
	if err != nil {
		return nil, err
	}
	relevance, err := optionalString(fields, FieldRelevanceSettingsID)
	if err != nil {
		return nil, err
	}
	analytics, err := optionalString(fields, FieldAnalyticsCollection)
	if err != nil {
		return nil, err
	}

	return &SearchEngine{
		name:                name,
		indices:             indices,
		hidden:              hidden,
		system:              system,
		relevanceSettingsID: relevance,
		analyticsCollection: analytics,
	}, nil
}

// ParseIndexRefJSON parses a single index reference document.
func ParseIndexRefJSON(data []byte) (IndexRef, error) {
	fields, err := decodeObject(data, "index", []string{FieldIndexName, FieldIndexUUID})
	if err != nil {
		return IndexRef{}, err
	}
	name, err := requiredString(fields, FieldIndexName)
	if err != nil {
		return IndexRef{}, err
	}
	uuid, err := requiredString(fields, FieldIndexUUID)
	if err != nil {
		return IndexRef{}, err
	}
	return IndexRef{name: name, uuid: uuid}, nil
}

// EmitJSON encodes the ref as its two-field document.
func (ref IndexRef) EmitJSON() ([]byte, error) {
	return json.Marshal(indexRefDocument{IndexName: ref.name, IndexUUID: ref.uuid})
}

// --------------------------------------------------------------------------
// Schema helpers
// --------------------------------------------------------------------------

// decodeObject splits a JSON object into its raw fields and enforces the
// schema: every key in the document must appear in allowed.
func decodeObject(data []byte, what string, allowed []string) (map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil {
		return nil, &ParseError{Field: what, Msg: err.Error()}
	}
	for key := range fields {
		known := false
		for _, f := range allowed {
			if key == f {
				known = true
				break
			}
		}
		if !known {
			return nil, &ParseError{Field: key, Msg: "unknown field"}
		}
	}
	return fields, nil
}

func requiredString(fields map[string]json.RawMessage, name string) (string, error) {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return "", &MissingFieldError{Field: name}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", &ParseError{Field: name, Msg: "expected a string"}
	}
	return s, nil
}

func optionalString(fields map[string]json.RawMessage, name string) (*string, error) {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, &ParseError{Field: name, Msg: "expected a string"}
	}
	return &s, nil
}

func optionalBool(fields map[string]json.RawMessage, name string) (bool, error) {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return false, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, &ParseError{Field: name, Msg: "expected a boolean"}
	}
	return b, nil
}

func requiredIndexList(fields map[string]json.RawMessage, name string) ([]IndexRef, error) {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return nil, &MissingFieldError{Field: name}
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, &ParseError{Field: name, Msg: "expected an array of index references"}
	}
	indices := make([]IndexRef, 0, len(elements))
	for _, element := range elements {
		ref, err := ParseIndexRefJSON(element)
		if err != nil {
			return nil, err
		}
		indices = append(indices, ref)
	}
	return indices, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
