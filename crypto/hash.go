// Package crypto provides the hashing and signature primitives RillCoin's
// consensus rules are built on: BLAKE3 for txid/merkle/pubkey-hash
// derivation, double-SHA-256 for block header hashing, and Ed25519 for
// transaction signing.
package crypto

import (
	"crypto/sha256"

	"lukechampine.com/blake3"
)

// Blake3_256 returns the 32-byte BLAKE3 digest of data.
func Blake3_256(data []byte) [32]byte {
	return blake3.Sum256(data)
}

// DoubleSHA256 returns SHA-256(SHA-256(data)).
func DoubleSHA256(data []byte) [32]byte {
	first := sha256.Sum256(data)
	return sha256.Sum256(first[:])
}
