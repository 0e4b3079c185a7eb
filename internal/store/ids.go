package store

import "github.com/google/uuid"

// IDGenerator produces ids for newly created records.
// Implementations must never return the same id twice for one store.
type IDGenerator interface {
	Generate() string
}

// UUIDGenerator generates random (version 4) UUIDs.
//
// Format: "550e8400-e29b-41d4-a716-446655440000" (36 characters)
//
// Thread-safety: UUIDGenerator is stateless and safe for concurrent use.
type UUIDGenerator struct{}

// Generate returns a new hyphenated UUIDv4.
func (UUIDGenerator) Generate() string {
	return uuid.NewString()
}
