package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Warning is a single advisory validation finding. Warnings never block
// signing or submission; they are collected and displayed.
type Warning struct {
	Path    string
	Message string
}

// enumHintLimit caps how many allowed values a message quotes before
// trailing off with an ellipsis.
const enumHintLimit = 4

func enumHint(allowed []string) string {
	if len(allowed) <= enumHintLimit {
		return strings.Join(allowed, ", ")
	}
	return strings.Join(allowed[:enumHintLimit], ", ") + ", ..."
}

// ValidateResource checks a resource against its schema document: one
// warning per required field that is absent, nil, or the empty string
// (resourceType is the discriminator and is checked by the bundle
// validator), plus one warning per present field whose value is outside a
// declared enum. Comparison is a case-sensitive exact match.
//
// basePath prefixes every warning path, e.g. "entry[2].resource".
func ValidateResource(resource map[string]any, doc *Document, basePath string) []Warning {
	var warnings []Warning

	root, ok := ResolveRoot(doc)
	if !ok {
		return warnings
	}
	def := root.Definition

	for _, field := range def.Required {
		if field == "resourceType" {
			continue
		}
		value, present := resource[field]
		if present && value != nil && value != "" {
			continue
		}
		hint := ""
		if prop, ok := def.Properties[field]; ok && prop != nil && len(prop.Enum) > 0 {
			hint = fmt.Sprintf(" (one of: %s)", enumHint(prop.Enum))
		}
		warnings = append(warnings, Warning{
			Path:    joinPath(basePath, field),
			Message: fmt.Sprintf("missing required field %q%s", field, hint),
		})
	}

	// Enum membership for fields that are present. Property iteration is
	// sorted so warning order is stable across runs.
	names := make([]string, 0, len(def.Properties))
	for name := range def.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		prop := def.Properties[name]
		if prop == nil || len(prop.Enum) == 0 {
			continue
		}
		value, present := resource[name]
		if !present || value == nil {
			continue
		}
		s, isString := value.(string)
		if isString && contains(prop.Enum, s) {
			continue
		}
		warnings = append(warnings, Warning{
			Path:    joinPath(basePath, name),
			Message: fmt.Sprintf("invalid value %q for %q (expected: %s)", fmt.Sprint(value), name, enumHint(prop.Enum)),
		})
	}

	return warnings
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func joinPath(base, field string) string {
	if base == "" {
		return field
	}
	return base + "." + field
}
