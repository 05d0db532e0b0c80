package bundle

// Reference is a {reference, display} descriptor for pointing one resource
// at another.
type Reference struct {
	Reference string `json:"reference"`
	Display   string `json:"display"`
}

// Ref builds a Reference for a resource: "{resourceType}/{id|unknown}" with
// a best-effort human label.
func Ref(resource Resource) Reference {
	rt := resourceType(resource)
	id, _ := resource["id"].(string)
	if id == "" {
		id = "unknown"
	}
	return Reference{
		Reference: rt + "/" + id,
		Display:   Display(resource),
	}
}

// Display derives a human label for a resource: a string name, the text of
// an object-shaped name, a display field, then the reference string itself.
func Display(resource Resource) string {
	switch name := resource["name"].(type) {
	case string:
		if name != "" {
			return name
		}
	case map[string]any:
		if text, ok := name["text"].(string); ok && text != "" {
			return text
		}
	}
	if display, ok := resource["display"].(string); ok && display != "" {
		return display
	}

	rt, _ := resource["resourceType"].(string)
	if rt == "" {
		rt = "Resource"
	}
	id, _ := resource["id"].(string)
	if id == "" {
		id = "?"
	}
	return rt + "/" + id
}

// EntryFullURL returns an entry's fullUrl, deriving one from the resource
// when the entry carries none.
func EntryFullURL(e Entry) string {
	if e.FullURL != "" {
		return e.FullURL
	}
	if e.Resource != nil {
		return Ref(e.Resource).Reference
	}
	return "unknown"
}

// Summary counts entries per resource type for display.
func Summary(b Bundle) map[string]int {
	counts := map[string]int{}
	for _, entry := range b.Entry {
		if entry.Resource == nil {
			continue
		}
		rt, _ := entry.Resource["resourceType"].(string)
		if rt == "" {
			rt = "Unknown"
		}
		counts[rt]++
	}
	return counts
}

// ResourcesByType returns the entries whose resource carries the given
// resourceType, in bundle order.
func ResourcesByType(b Bundle, resourceType string) []Entry {
	var out []Entry
	for _, entry := range b.Entry {
		if entry.Resource == nil {
			continue
		}
		if rt, _ := entry.Resource["resourceType"].(string); rt == resourceType {
			out = append(out, entry)
		}
	}
	return out
}
