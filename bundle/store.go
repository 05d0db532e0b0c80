package bundle

import (
	"fmt"
	"sync"

	json "github.com/goccy/go-json"

	"bindx.dev/bindx/storage"
)

// Store owns the working Bundle and persists it after every mutation.
//
// The persisted snapshot is restored on Open when it passes the import
// gate's shape check; anything else falls back to the empty Bundle
// silently. Storage failures on save are reported but never change state.
type Store struct {
	slots storage.Slots

	mu     sync.Mutex
	bundle Bundle
}

// Open loads the persisted Bundle snapshot, or starts empty.
func Open(slots storage.Slots) *Store {
	s := &Store{slots: slots, bundle: Empty()}
	raw, err := slots.Load(storage.SlotBundle)
	if err != nil {
		return s
	}
	restored, err := Parse(raw)
	if err != nil {
		return s
	}
	s.bundle = restored
	return s
}

// Current returns a snapshot of the Bundle. The entry slice is copied so
// callers cannot mutate the store's state behind its back.
func (s *Store) Current() Bundle {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.bundle
	snapshot.Entry = append([]Entry{}, s.bundle.Entry...)
	return snapshot
}

// Dispatch applies an action and persists the result. The returned Bundle
// is the new state; the error, when non-nil, is a persistence failure (the
// in-memory transition has still happened).
func (s *Store) Dispatch(action Action) (Bundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bundle = Apply(s.bundle, action)

	raw, err := json.Marshal(s.bundle)
	if err != nil {
		return s.bundle, fmt.Errorf("bundle: encoding snapshot: %w", err)
	}
	if err := s.slots.Save(storage.SlotBundle, raw); err != nil {
		return s.bundle, fmt.Errorf("bundle: persisting snapshot: %w", err)
	}
	return s.bundle, nil
}
