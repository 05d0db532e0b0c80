package bundle

import (
	"fmt"

	"bindx.dev/bindx/schema"
)

// Validate checks a bundle-shaped mapping before signing. Findings are
// advisory warnings: signing proceeds regardless.
//
// Structural failures of the entry array itself (missing, not an array,
// empty) are terminal: per-entry checks run only when the array is sound.
func Validate(raw map[string]any, reg *schema.Registry) []schema.Warning {
	var warnings []schema.Warning

	if rt, _ := raw["resourceType"].(string); rt != "Bundle" {
		warnings = append(warnings, schema.Warning{
			Path:    "resourceType",
			Message: fmt.Sprintf("expected %q, got %q", "Bundle", fmt.Sprint(raw["resourceType"])),
		})
	}

	bundleType, _ := raw["type"].(string)
	if bundleType == "" {
		warnings = append(warnings, schema.Warning{
			Path:    "type",
			Message: fmt.Sprintf("missing required field %q", "type"),
		})
	} else if !IsValidType(bundleType) {
		warnings = append(warnings, schema.Warning{
			Path:    "type",
			Message: fmt.Sprintf("unknown bundle type %q", bundleType),
		})
	}

	entryValue, present := raw["entry"]
	if !present || entryValue == nil {
		return append(warnings, schema.Warning{Path: "entry", Message: `missing "entry" array`})
	}
	entries, ok := entryValue.([]any)
	if !ok {
		return append(warnings, schema.Warning{Path: "entry", Message: `"entry" must be an array`})
	}
	if len(entries) == 0 {
		return append(warnings, schema.Warning{Path: "entry", Message: "bundle has no entries"})
	}

	for i, item := range entries {
		path := fmt.Sprintf("entry[%d]", i)

		entry, ok := item.(map[string]any)
		if !ok {
			warnings = append(warnings, schema.Warning{Path: path, Message: "invalid entry (not an object)"})
			continue
		}
		resource, ok := entry["resource"].(map[string]any)
		if !ok {
			warnings = append(warnings, schema.Warning{Path: path + ".resource", Message: "missing resource"})
			continue
		}
		rt, _ := resource["resourceType"].(string)
		if rt == "" {
			warnings = append(warnings, schema.Warning{Path: path + ".resource", Message: "missing resourceType"})
			continue
		}
		if !reg.IsResource(rt) {
			warnings = append(warnings, schema.Warning{
				Path:    path + ".resource",
				Message: fmt.Sprintf("unknown resourceType %q", rt),
			})
			continue
		}
		if doc, ok := reg.Schema(rt); ok {
			warnings = append(warnings, schema.ValidateResource(resource, doc, path+".resource")...)
		}
	}
	return warnings
}
