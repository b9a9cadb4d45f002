package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash computes the SHA-256 content hash of data as a 64-character hex
// string. Used both for cache keys and for the layout memoization key of a
// serialized graph snapshot.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
