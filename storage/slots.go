// Package storage defines local persistence for the builder: named JSON
// slots holding the working Bundle, the key-pair record, and the issuer
// identity.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Slots is a minimal named-slot store.
//
// Contract:
// - Load MUST return ErrNotFound when the slot is absent.
// - Save MUST replace the slot's previous contents (last write wins).
// - Delete MUST succeed when the slot is absent.
// - Slot names are restricted to [A-Za-z0-9_-]; see CheckSlotName.
type Slots interface {
	Load(name string) ([]byte, error)
	Save(name string, data []byte) error
	Delete(name string) error
}

// Well-known slot names used by the builder.
const (
	SlotBundle = "bundle"
	SlotKeys   = "keys"
	SlotIssuer = "issuer"
)

// CheckSlotName validates a slot name. Names map onto filenames, so the
// character set is restricted.
func CheckSlotName(name string) error {
	if name == "" {
		return fmt.Errorf("storage: slot name cannot be empty")
	}
	for _, char := range name {
		if (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '-' || char == '_' {
			continue
		}
		return fmt.Errorf("storage: invalid character %q in slot name", char)
	}
	return nil
}

// DefaultHome returns the default state directory, ~/.bindx.
func DefaultHome() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".bindx"), nil
}
