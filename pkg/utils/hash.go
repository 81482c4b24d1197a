package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// PayloadHash identifies a raster payload (e.g. a signature image) by its
// raw bytes, so re-adding the same image yields the same hash.
func PayloadHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
