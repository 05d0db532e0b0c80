package schema

// maxDepth bounds recursion through $ref chains and nested objects. A cyclic
// schema yields an empty object at the cutoff instead of unbounded descent.
const maxDepth = 10

// InitialValues builds a fully-shaped empty value tree for a definition.
//
// Per-property policy, in priority order:
//  1. declared default, verbatim
//  2. declared const, verbatim
//  3. $ref: recurse into the resolved definition, or {} when unresolvable
//  4. declared type: string -> "", number/integer -> absent, boolean ->
//     false, array -> [], object -> recurse, anything else -> absent
//
// "Absent" means the key is not set at all: an unentered number is not zero.
// The result depends only on def and doc; the function never fails.
func InitialValues(def *Definition, doc *Document) map[string]any {
	return initialValues(def, doc, 0)
}

func initialValues(def *Definition, doc *Document, depth int) map[string]any {
	values := map[string]any{}
	if def == nil || depth > maxDepth {
		return values
	}

	for name, prop := range def.Properties {
		if prop == nil {
			continue
		}
		if prop.Default != nil {
			values[name] = prop.Default
			continue
		}
		if prop.Const != nil {
			values[name] = prop.Const
			continue
		}
		if prop.Ref != "" {
			if resolved, ok := ResolveRef(prop.Ref, doc); ok {
				values[name] = initialValues(resolved.Definition, doc, depth+1)
			} else {
				values[name] = map[string]any{}
			}
			continue
		}
		switch prop.Type {
		case "string":
			values[name] = ""
		case "boolean":
			values[name] = false
		case "array":
			values[name] = []any{}
		case "object":
			values[name] = initialValues(prop, doc, depth+1)
		}
	}
	return values
}
