package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// StorageNamespace returns a filesystem-safe namespace for an invitation code.
// Hashing keeps raw codes out of storage paths and object keys.
func StorageNamespace(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:16])
}
