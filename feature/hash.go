package feature

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentHash identifies an image by its raw bytes, independent of any
// caller-assigned id. It is the cache key for FeatureSets.
type ContentHash [sha256.Size]byte

// HashBytes returns the content hash of raw image bytes.
func HashBytes(data []byte) ContentHash {
	return sha256.Sum256(data)
}

// String returns the full hex form of the hash.
func (h ContentHash) String() string {
	return hex.EncodeToString(h[:])
}

// Short returns the first 12 hex characters, for logs.
func (h ContentHash) Short() string {
	return hex.EncodeToString(h[:6])
}
