package domain

import (
	"encoding/hex"
	"fmt"
)

// IdentitySize is the byte length of every identity value.
const IdentitySize = 32

// Identity is a 32-byte identifier for accounts and records. The zero
// value means "unset".
type Identity [IdentitySize]byte

// IsZero reports whether the identity is unset.
func (id Identity) IsZero() bool {
	return id == Identity{}
}

// String returns the lowercase hex encoding of the identity.
func (id Identity) String() string {
	return hex.EncodeToString(id[:])
}

// ParseIdentity decodes a 64-character hex string into an Identity.
func ParseIdentity(value string) (Identity, error) {
	decoded, err := hex.DecodeString(value)
	if err != nil {
		return Identity{}, fmt.Errorf("parse identity: %w", err)
	}
	if len(decoded) != IdentitySize {
		return Identity{}, fmt.Errorf("parse identity: expected %d bytes, got %d", IdentitySize, len(decoded))
	}
	var id Identity
	copy(id[:], decoded)
	return id, nil
}

// IdentityFromBytes copies a 32-byte slice into an Identity.
func IdentityFromBytes(value []byte) (Identity, error) {
	if len(value) != IdentitySize {
		return Identity{}, fmt.Errorf("identity must be %d bytes, got %d", IdentitySize, len(value))
	}
	var id Identity
	copy(id[:], value)
	return id, nil
}
