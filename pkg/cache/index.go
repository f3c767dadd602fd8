package cache

import (
	"encoding/json"
	"fmt"
)

// IndexEntry is the member set stored under an index key: the group of
// cache keys that are invalidated together. Every key ever registered
// under the index must be deleted when the index is invalidated, even
// if it was never populated.
type IndexEntry struct {
	// Members holds the registered keys in registration order.
	Members []string `json:"members"`
}

// Add appends key to the member set if not already present, preserving
// registration order. Returns true if the set changed.
func (e *IndexEntry) Add(key string) bool {
	for _, member := range e.Members {
		if member == key {
			return false
		}
	}
	e.Members = append(e.Members, key)
	return true
}

func (e *IndexEntry) encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal index entry: %w", err)
	}
	return data, nil
}

func decodeIndex(data []byte) (*IndexEntry, error) {
	var entry IndexEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	return &entry, nil
}
