package event

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidID reports event id material of the wrong shape.
var ErrInvalidID = errors.New("invalid event id")

// ID is the 32-byte SHA-256 digest of an event's canonical serialization.
type ID [32]byte

// Hex returns the lowercase hex form used on the wire.
func (id ID) Hex() string {
	return hex.EncodeToString(id[:])
}

func (id ID) String() string {
	return id.Hex()
}

// ParseID decodes a 64-character lowercase hex event id.
func ParseID(s string) (ID, error) {
	var id ID
	if len(s) != 64 {
		return ID{}, fmt.Errorf("%w: expected 64 hex characters, got %d", ErrInvalidID, len(s))
	}
	if strings.ToLower(s) != s {
		return ID{}, fmt.Errorf("%w: hex must be lowercase", ErrInvalidID)
	}
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return ID{}, fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	return id, nil
}

// IDFromBytes copies a raw 32-byte id.
func IDFromBytes(b []byte) (ID, error) {
	var id ID
	if len(b) != len(id) {
		return ID{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidID, len(id), len(b))
	}
	copy(id[:], b)
	return id, nil
}
