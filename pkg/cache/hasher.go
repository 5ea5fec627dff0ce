package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// PathKey builds the cache key for a source/sink pair's shortest-path result.
func PathKey(sourceCode, sinkCode int32) string {
	return fmt.Sprintf("path:%d:%d", sourceCode, sinkCode)
}

// QuickHash hashes arbitrary data with the full SHA-256 digest.
func QuickHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ShortHash hashes arbitrary data, truncated to 16 hex characters.
func ShortHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}
