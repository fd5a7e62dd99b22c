// Package uuid generates the time-ordered identifiers used for request IDs and
// activity records. It wraps github.com/google/uuid with version 7 as the default.
package uuid

import (
	"encoding/binary"
	"time"

	"github.com/google/uuid"
)

// UUID represents a UUID, aliased from github.com/google/uuid.UUID
type UUID = uuid.UUID

// Nil is the zero UUID value.
var Nil = uuid.Nil

// UUID7 generates a new UUIDv7. Returns Nil if the random source fails.
func UUID7() UUID {
	uuidv7, _ := uuid.NewV7()
	return uuidv7
}

// NewRandom returns a new UUIDv7 and any error encountered during generation.
func NewRandom() (UUID, error) {
	return uuid.NewV7()
}

// Parse parses a UUID string into a UUID value.
func Parse(s string) (UUID, error) {
	return uuid.Parse(s)
}

// GetTimestampFromUUID extracts the millisecond timestamp from the top 48 bits of a UUIDv7.
func GetTimestampFromUUID(u UUID) time.Time {
	tsMillis := binary.BigEndian.Uint64(u[0:8]) >> 16
	return time.UnixMilli(int64(tsMillis))
}
