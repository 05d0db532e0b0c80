package schema

import "strings"

// refPrefix is the only $ref form this engine accepts: a pointer into the
// same document's definitions block. Anything else resolves to not-found,
// which callers treat as "render generically", not as an error.
const refPrefix = "#/definitions/"

// Resolved is a successfully resolved reference.
type Resolved struct {
	Name       string
	Definition *Definition
}

// ResolveRef resolves a $ref string against doc's definitions block.
// The second return is false for refs of any other form, for refs naming a
// missing definition, and for documents without a definitions block.
func ResolveRef(ref string, doc *Document) (Resolved, bool) {
	if doc == nil || !strings.HasPrefix(ref, refPrefix) {
		return Resolved{}, false
	}
	name := strings.TrimPrefix(ref, refPrefix)
	def, ok := doc.Definitions[name]
	if !ok || def == nil {
		return Resolved{}, false
	}
	return Resolved{Name: name, Definition: def}, true
}

// ResolveRoot resolves the document's own top-level $ref.
func ResolveRoot(doc *Document) (Resolved, bool) {
	if doc == nil || doc.Ref == "" {
		return Resolved{}, false
	}
	return ResolveRef(doc.Ref, doc)
}

// RefName extracts the definition name from a local $ref, or "" when the
// ref is not a local definitions pointer.
func RefName(ref string) string {
	if !strings.HasPrefix(ref, refPrefix) {
		return ""
	}
	return strings.TrimPrefix(ref, refPrefix)
}
