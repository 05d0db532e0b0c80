package keys

import (
	"fmt"

	json "github.com/goccy/go-json"

	"bindx.dev/bindx/storage"
)

// SavePair persists the key-pair record.
func SavePair(slots storage.Slots, pair *Pair) error {
	raw, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("keys: encoding pair: %w", err)
	}
	return slots.Save(storage.SlotKeys, raw)
}

// LoadPair restores the persisted key-pair record. A missing slot, a
// malformed record, or a record failing the minimal shape check (both
// halves and a kid) all report ok=false; stored garbage is never trusted.
func LoadPair(slots storage.Slots) (*Pair, bool) {
	raw, err := slots.Load(storage.SlotKeys)
	if err != nil {
		return nil, false
	}
	var pair Pair
	if err := json.Unmarshal(raw, &pair); err != nil {
		return nil, false
	}
	if pair.KID == "" || pair.PrivateKey.Key == nil || pair.PublicKey.Key == nil {
		return nil, false
	}
	return &pair, true
}

// SaveIssuer persists the issuer identity string.
func SaveIssuer(slots storage.Slots, issuer string) error {
	raw, err := json.Marshal(issuer)
	if err != nil {
		return fmt.Errorf("keys: encoding issuer: %w", err)
	}
	return slots.Save(storage.SlotIssuer, raw)
}

// LoadIssuer restores the persisted issuer string, or "" when absent or
// unreadable.
func LoadIssuer(slots storage.Slots) string {
	raw, err := slots.Load(storage.SlotIssuer)
	if err != nil {
		return ""
	}
	var issuer string
	if err := json.Unmarshal(raw, &issuer); err != nil {
		return ""
	}
	return issuer
}
