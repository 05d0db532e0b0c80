package bundle

import (
	"github.com/google/uuid"
)

// Action is a Bundle state transition. The set is closed: Add, Update,
// Remove, Import, Clear.
type Action interface {
	isAction()
}

// Add appends a new entry for Resource, minting an id when it has none.
type Add struct {
	Resource Resource
}

// Update replaces the resource at Index and recomputes its fullUrl.
// Out-of-bounds indices are ignored: the reducer is a trusted-caller state
// machine, not a validating boundary.
type Update struct {
	Index    int
	Resource Resource
}

// Remove drops the entry at Index, preserving the order of the rest.
// Out-of-bounds indices are ignored.
type Remove struct {
	Index int
}

// Import replaces the whole Bundle. The caller validates before
// dispatching; the reducer performs no checks of its own.
type Import struct {
	Bundle Bundle
}

// Clear resets to the canonical empty Bundle.
type Clear struct{}

func (Add) isAction()    {}
func (Update) isAction() {}
func (Remove) isAction() {}
func (Import) isAction() {}
func (Clear) isAction()  {}

// Apply is the pure reducer: it returns the next state for an action and
// never fails. The input state is not mutated; entry slices and touched
// resources are copied.
func Apply(state Bundle, action Action) Bundle {
	switch a := action.(type) {
	case Add:
		resource := cloneResource(a.Resource)
		if _, ok := resource["id"].(string); !ok || resource["id"] == "" {
			resource["id"] = NewID(resourceType(resource))
		}
		next := state
		next.Entry = append(append([]Entry{}, state.Entry...), Entry{
			FullURL:  FullURL(resource),
			Resource: resource,
		})
		return next

	case Update:
		if a.Index < 0 || a.Index >= len(state.Entry) {
			return state
		}
		resource := cloneResource(a.Resource)
		next := state
		next.Entry = append([]Entry{}, state.Entry...)
		next.Entry[a.Index] = Entry{FullURL: FullURL(resource), Resource: resource}
		return next

	case Remove:
		if a.Index < 0 || a.Index >= len(state.Entry) {
			return state
		}
		next := state
		next.Entry = make([]Entry, 0, len(state.Entry)-1)
		next.Entry = append(next.Entry, state.Entry[:a.Index]...)
		next.Entry = append(next.Entry, state.Entry[a.Index+1:]...)
		return next

	case Import:
		imported := a.Bundle
		if imported.Entry == nil {
			imported.Entry = []Entry{}
		}
		return imported

	case Clear:
		return Empty()

	default:
		return state
	}
}

// NewID mints a fresh resource id. A UUID rather than a clock token: rapid
// successive adds must not collide regardless of timer resolution.
func NewID(resourceType string) string {
	return resourceType + "-" + uuid.NewString()
}

// FullURL derives the stable entry identifier for a resource.
func FullURL(resource Resource) string {
	rt := resourceType(resource)
	id, _ := resource["id"].(string)
	if id == "" {
		id = NewID(rt)
	}
	return rt + "/" + id
}

func resourceType(resource Resource) string {
	if rt, ok := resource["resourceType"].(string); ok && rt != "" {
		return rt
	}
	return "Resource"
}

func cloneResource(resource Resource) Resource {
	out := make(Resource, len(resource)+1)
	for k, v := range resource {
		out[k] = v
	}
	return out
}
