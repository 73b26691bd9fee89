package store

import (
	"encoding/json"
	"fmt"

	"github.com/weftlabs/weft/internal/event"
)

// marshalSentinel serializes a sentinel annotation, or "" for nil.
func marshalSentinel(s *event.Sentinel) (string, error) {
	if s == nil {
		return "", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal sentinel: %w", err)
	}
	return string(b), nil
}

// unmarshalSentinel deserializes a sentinel annotation; "" means nil.
func unmarshalSentinel(raw string) (*event.Sentinel, error) {
	if raw == "" {
		return nil, nil
	}
	var s event.Sentinel
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("unmarshal sentinel: %w", err)
	}
	return &s, nil
}

// marshalEncryption serializes an encryption marker, or "" for nil.
func marshalEncryption(e *event.EncryptionInfo) (string, error) {
	if e == nil {
		return "", nil
	}
	b, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("marshal encryption info: %w", err)
	}
	return string(b), nil
}

// unmarshalEncryption deserializes an encryption marker; "" means nil.
func unmarshalEncryption(raw string) (*event.EncryptionInfo, error) {
	if raw == "" {
		return nil, nil
	}
	var e event.EncryptionInfo
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return nil, fmt.Errorf("unmarshal encryption info: %w", err)
	}
	return &e, nil
}
