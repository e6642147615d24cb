package util

import (
	"github.com/google/uuid"
	"github.com/mr-tron/base58"
)

// NewUUID returns a base58 encoded UUID. Used as the correlation ID minted
// for requests that arrive without one.
func NewUUID() string {
	id := uuid.New()
	return base58.Encode(id[:])
}
