package docstore

import (
	"crypto/sha256"
	"encoding/hex"
)

// contentHashLength is the number of hex characters kept from the digest.
// The hash is a deduplication heuristic, not a security boundary.
const contentHashLength = 16

// ContentHash returns a stable fingerprint of content, used to avoid
// computing the same embedding twice for identical text.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])[:contentHashLength]
}
