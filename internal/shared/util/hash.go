package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashStudentKey returns a filesystem-safe identifier for a student ID.
// Draft files are named by this hash so arbitrary roster identifiers cannot
// escape the draft directory.
func HashStudentKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
