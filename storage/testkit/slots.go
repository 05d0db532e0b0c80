// Package testkit provides a conformance suite and an in-memory store for
// the Slots interface.
package testkit

import (
	"bytes"
	"sync"
	"testing"

	"bindx.dev/bindx/storage"
)

// Memory is an in-memory Slots implementation for tests.
type Memory struct {
	mu    sync.Mutex
	slots map[string][]byte
	// FailSaves makes every Save return an error, for exercising the
	// persistence-failure paths.
	FailSaves error
}

func NewMemory() *Memory {
	return &Memory{slots: map[string][]byte{}}
}

func (m *Memory) Load(name string) ([]byte, error) {
	if err := storage.CheckSlotName(name); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.slots[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

func (m *Memory) Save(name string, data []byte) error {
	if err := storage.CheckSlotName(name); err != nil {
		return err
	}
	if m.FailSaves != nil {
		return m.FailSaves
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[name] = append([]byte(nil), data...)
	return nil
}

func (m *Memory) Delete(name string) error {
	if err := storage.CheckSlotName(name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, name)
	return nil
}

// NewSlots constructs a fresh, empty Slots instance for a test.
// The returned store MUST be isolated from other tests.
type NewSlots func(t *testing.T) storage.Slots

// RunSlotsConformance exercises the Slots contract against any
// implementation.
func RunSlotsConformance(t *testing.T, newSlots NewSlots) {
	t.Helper()

	t.Run("LoadAbsent", func(t *testing.T) {
		s := newSlots(t)
		if _, err := s.Load("bundle"); !storage.IsNotFound(err) {
			t.Fatalf("Load of absent slot: got %v, want ErrNotFound", err)
		}
	})

	t.Run("SaveLoadRoundTrip", func(t *testing.T) {
		s := newSlots(t)
		want := []byte(`{"resourceType":"Bundle","type":"collection","entry":[]}`)
		if err := s.Save("bundle", want); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		got, err := s.Load("bundle")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("Load bytes mismatch: got %s", got)
		}
	})

	t.Run("SaveReplaces", func(t *testing.T) {
		s := newSlots(t)
		if err := s.Save("issuer", []byte(`"first"`)); err != nil {
			t.Fatalf("Save(1) failed: %v", err)
		}
		if err := s.Save("issuer", []byte(`"second"`)); err != nil {
			t.Fatalf("Save(2) failed: %v", err)
		}
		got, err := s.Load("issuer")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if string(got) != `"second"` {
			t.Fatalf("last write should win, got %s", got)
		}
	})

	t.Run("DeleteIdempotent", func(t *testing.T) {
		s := newSlots(t)
		if err := s.Save("keys", []byte(`{}`)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if err := s.Delete("keys"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if err := s.Delete("keys"); err != nil {
			t.Fatalf("Delete of absent slot failed: %v", err)
		}
		if _, err := s.Load("keys"); !storage.IsNotFound(err) {
			t.Fatalf("Load after Delete: got %v, want ErrNotFound", err)
		}
	})

	t.Run("RejectsBadNames", func(t *testing.T) {
		s := newSlots(t)
		for _, name := range []string{"", "a/b", "..", "a b"} {
			if err := s.Save(name, []byte(`{}`)); err == nil {
				t.Errorf("Save(%q) accepted, want name error", name)
			}
		}
	})
}
