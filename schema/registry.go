package schema

import (
	"embed"
	"fmt"
	"sort"

	json "github.com/goccy/go-json"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Registry holds the pre-built BIND schema documents, split into resource
// schemas (things a Bundle entry can carry) and supporting composite types.
type Registry struct {
	docs       map[string]*Document
	resources  []string
	supporting []string
}

type manifest struct {
	Resources  []string `json:"resources"`
	Supporting []string `json:"supporting"`
}

// LoadRegistry parses the embedded schema documents. The embedded set is
// fixed at build time, so failure here means a broken build, not bad input.
func LoadRegistry() (*Registry, error) {
	raw, err := schemaFS.ReadFile("schemas/manifest.json")
	if err != nil {
		return nil, fmt.Errorf("schema: reading manifest: %w", err)
	}
	var m manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("schema: parsing manifest: %w", err)
	}

	r := &Registry{
		docs:       make(map[string]*Document, len(m.Resources)),
		resources:  append([]string(nil), m.Resources...),
		supporting: append([]string(nil), m.Supporting...),
	}
	sort.Strings(r.resources)
	sort.Strings(r.supporting)

	for _, name := range r.resources {
		data, err := schemaFS.ReadFile("schemas/" + name + ".json")
		if err != nil {
			return nil, fmt.Errorf("schema: reading %s: %w", name, err)
		}
		doc, err := ParseDocument(data)
		if err != nil {
			return nil, fmt.Errorf("schema: parsing %s: %w", name, err)
		}
		r.docs[name] = doc
	}
	return r, nil
}

// MustLoadRegistry is LoadRegistry for callers that treat a corrupt embedded
// schema set as a programming error.
func MustLoadRegistry() *Registry {
	r, err := LoadRegistry()
	if err != nil {
		panic(err)
	}
	return r
}

// Schema returns the schema document for a resource type name.
func (r *Registry) Schema(name string) (*Document, bool) {
	doc, ok := r.docs[name]
	return doc, ok
}

// IsResource reports whether name is a known resource type.
func (r *Registry) IsResource(name string) bool {
	_, ok := r.docs[name]
	return ok
}

// ResourceNames returns the resource type names, sorted.
func (r *Registry) ResourceNames() []string {
	return append([]string(nil), r.resources...)
}

// SupportingNames returns the supporting composite type names, sorted.
func (r *Registry) SupportingNames() []string {
	return append([]string(nil), r.supporting...)
}
