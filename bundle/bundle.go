// Package bundle implements the Bundle container: the model, a pure
// reducer over its mutation actions, a persisting Store wrapper, derived
// views, the JSON import gate, and bundle-level validation.
package bundle

import (
	json "github.com/goccy/go-json"
)

// Resource is a schema-shaped tree with at least a resourceType
// discriminator and usually an id.
type Resource = map[string]any

// Search, Request and Response are the optional per-entry transaction
// records a Bundle may carry when it round-trips through a server.
type Search struct {
	Mode  string   `json:"mode,omitempty"`
	Score *float64 `json:"score,omitempty"`
}

type Request struct {
	Method          string `json:"method"`
	URL             string `json:"url"`
	IfNoneMatch     string `json:"ifNoneMatch,omitempty"`
	IfModifiedSince string `json:"ifModifiedSince,omitempty"`
	IfMatch         string `json:"ifMatch,omitempty"`
	IfNoneExist     string `json:"ifNoneExist,omitempty"`
}

type Response struct {
	Status       string `json:"status"`
	Location     string `json:"location,omitempty"`
	ETag         string `json:"etag,omitempty"`
	LastModified string `json:"lastModified,omitempty"`
}

// Entry owns one resource and its stable fullUrl ("ResourceType/id").
type Entry struct {
	FullURL  string    `json:"fullUrl,omitempty"`
	Resource Resource  `json:"resource"`
	Search   *Search   `json:"search,omitempty"`
	Request  *Request  `json:"request,omitempty"`
	Response *Response `json:"response,omitempty"`
}

// Link relates a Bundle to other server artifacts.
type Link struct {
	Relation string `json:"relation"`
	URL      string `json:"url"`
}

// Types is the fixed enumeration of Bundle kinds.
var Types = []string{
	"document", "message", "transaction", "transaction-response",
	"batch", "batch-response", "searchset", "history", "collection",
}

// IsValidType reports whether t is a member of Types.
func IsValidType(t string) bool {
	for _, known := range Types {
		if known == t {
			return true
		}
	}
	return false
}

// Bundle is the container for the working set of resources.
type Bundle struct {
	ResourceType string  `json:"resourceType"`
	ID           string  `json:"id,omitempty"`
	Type         string  `json:"type"`
	Timestamp    string  `json:"timestamp,omitempty"`
	Total        *int    `json:"total,omitempty"`
	Link         []Link  `json:"link,omitempty"`
	Entry        []Entry `json:"entry"`
}

// Empty returns the canonical empty Bundle: a collection with no entries.
// Entry is non-nil so the container serializes with an entry array.
func Empty() Bundle {
	return Bundle{
		ResourceType: "Bundle",
		Type:         "collection",
		Entry:        []Entry{},
	}
}

// AsMap converts the Bundle to a generic mapping, the shape the validator
// and the signing pipeline consume.
func (b Bundle) AsMap() (map[string]any, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
