package id

import (
	"crypto/sha256"
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewID generates a URL-safe identifier using UUIDv4 bytes encoded as base32.
// The identifier is 26 characters long, lowercase, and contains no padding.
func NewID() (string, error) {
	raw, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}

	encoded := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(raw[:])
	return strings.ToLower(encoded), nil
}

// NewIdentity generates a 32-byte identifier by hashing UUIDv4 bytes.
func NewIdentity() ([32]byte, error) {
	raw, err := uuid.NewRandom()
	if err != nil {
		return [32]byte{}, fmt.Errorf("generate uuid: %w", err)
	}
	return sha256.Sum256(raw[:]), nil
}
