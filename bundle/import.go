package bundle

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Parse is the import gate for user-supplied Bundle JSON. It accepts only
// a JSON object with resourceType "Bundle" and an entry array; any
// violation is rejected with a message naming it, and the caller's state is
// left untouched.
func Parse(data []byte) (Bundle, error) {
	var probe map[string]any
	if err := json.Unmarshal(data, &probe); err != nil {
		return Bundle{}, fmt.Errorf("bundle: not a JSON object: %w", err)
	}

	rt, _ := probe["resourceType"].(string)
	if rt != "Bundle" {
		return Bundle{}, fmt.Errorf("bundle: resourceType must be %q, got %q", "Bundle", rt)
	}

	entry, present := probe["entry"]
	if !present {
		return Bundle{}, fmt.Errorf("bundle: missing %q array", "entry")
	}
	if _, ok := entry.([]any); !ok {
		return Bundle{}, fmt.Errorf("bundle: %q must be an array", "entry")
	}

	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return Bundle{}, fmt.Errorf("bundle: malformed bundle: %w", err)
	}
	if b.Entry == nil {
		b.Entry = []Entry{}
	}
	return b, nil
}
