// Package address derives state addresses for purchase entries. An address
// is 70 hex characters: a 6-character namespace prefix hashed from the
// family name, followed by the last 64 hex characters of the SHA-512 digest
// of the purchase id.
package address

import (
	"crypto/sha512"
	"encoding/hex"
)

const (
	prefixLen = 6
	suffixLen = 64
)

type Deriver struct {
	prefix string
}

// NewDeriver precomputes the namespace prefix for the given family name.
func NewDeriver(familyName string) *Deriver {
	return &Deriver{prefix: hexDigest(familyName)[:prefixLen]}
}

// Prefix returns the namespace prefix the ledger routes on.
func (d *Deriver) Prefix() string {
	return d.prefix
}

// Derive computes the state address for a purchase id. Deterministic and
// total; collision resistance comes from the underlying digest.
func (d *Deriver) Derive(purchaseID string) string {
	digest := hexDigest(purchaseID)
	return d.prefix + digest[len(digest)-suffixLen:]
}

func hexDigest(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}
