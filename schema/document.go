package schema

import (
	json "github.com/goccy/go-json"
)

// Terminology is the x-terminology annotation attached to properties bound
// to a controlled vocabulary. System is the code-system URI; Binding is the
// binding strength ("required", "extensible", "preferred", "example").
type Terminology struct {
	System  string `json:"system"`
	Binding string `json:"binding,omitempty"`
}

// Definition is a single schema definition (or property sub-definition).
//
// Enum order is significant: validation messages quote allowed values in the
// declared order. Required order is significant for the same reason.
type Definition struct {
	Type        string                 `json:"type,omitempty"`
	Description string                 `json:"description,omitempty"`
	Properties  map[string]*Definition `json:"properties,omitempty"`
	Required    []string               `json:"required,omitempty"`
	Enum        []string               `json:"enum,omitempty"`
	Ref         string                 `json:"$ref,omitempty"`
	Const       any                    `json:"const,omitempty"`
	Default     any                    `json:"default,omitempty"`
	Items       *Definition            `json:"items,omitempty"`
	Format      string                 `json:"format,omitempty"`
	Terminology *Terminology           `json:"x-terminology,omitempty"`
}

// Document is a schema document: a definitions block plus a root $ref
// pointing into it.
type Document struct {
	Schema      string                 `json:"$schema,omitempty"`
	ID          string                 `json:"$id,omitempty"`
	Ref         string                 `json:"$ref,omitempty"`
	Definitions map[string]*Definition `json:"definitions"`
}

// ParseDocument parses a schema document from JSON bytes.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
