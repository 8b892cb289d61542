// Package state is the gateway to the ledger's key-value address space.
// Backends only move bytes; all record semantics live above them.
package state

import "context"

// Store is the read/write contract the transition pipeline runs against.
type Store interface {
	// Get returns the raw record bytes at address, or (nil, nil) when the
	// address has never been written. Absence is data, not an error.
	Get(ctx context.Context, address string) ([]byte, error)

	// Set writes the record bytes at address and reports the addresses
	// actually written. Callers treat an empty result as a failed write.
	Set(ctx context.Context, address string, data []byte) ([]string, error)

	Close() error
}
