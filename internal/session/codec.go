package session

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrDecode means a stored principal could not be reconstructed.
// The access gate must treat it exactly like an anonymous request.
var ErrDecode = errors.New("session: decode failed")

// Encode serializes a session principal for storage.
func Encode(s Session) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("session: failed to marshal: %w", err)
	}
	return data, nil
}

// Decode is the exact inverse of Encode. A blob that does not decode to a
// structurally valid principal (session and user IDs present) fails with
// ErrDecode.
func Decode(data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if s.SessionID == "" || s.UserID == "" {
		return nil, fmt.Errorf("%w: missing principal fields", ErrDecode)
	}

	return &s, nil
}
