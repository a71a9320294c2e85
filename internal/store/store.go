package store

import (
	"encoding/json"
	"fmt"
)

// Well-known keys that never belong to a lecture or question.
const (
	KeySubscriptions = "_subscriptions"
	KeyClientID      = "client_id"
)

// Store is the flat document store backing the replica. Implementations
// must be safe for concurrent use.
type Store interface {
	// Get returns the raw document under key. The second return is
	// false when the key is absent.
	Get(key string) (json.RawMessage, bool, error)

	// Set writes the raw document under key, replacing any previous
	// value.
	Set(key string, value json.RawMessage) error

	// Remove deletes the document under key. Removing an absent key is
	// not an error.
	Remove(key string) error

	// ListKeys returns every key in the store, in no particular order.
	ListKeys() ([]string, error)

	Close() error
}

// GetJSON reads and unmarshals the document under key into out.
// Returns false without touching out when the key is absent.
func GetJSON(s Store, key string, out any) (bool, error) {
	raw, ok, err := s.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("unmarshal %q: %w", key, err)
	}
	return true, nil
}

// SetJSON marshals v and stores it under key.
func SetJSON(s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	return s.Set(key, raw)
}
