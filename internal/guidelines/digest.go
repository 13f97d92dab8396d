// SPDX-License-Identifier: MPL-2.0

package guidelines

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ComputeDigest returns the lowercase hex-encoded SHA256 digest of data.
// The same function produces the digests placed into catalogs at build time
// and verifies fetched bytes at install time.
func ComputeDigest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// verifyBytes compares the SHA256 digest of data with expected
// (case-insensitive). Returns nil on match, or an *IntegrityError wrapping
// ErrIntegrityMismatch identifying the pack and artifact on mismatch.
func verifyBytes(data []byte, expected, packID, artifact string) error {
	got := ComputeDigest(data)
	if !strings.EqualFold(got, expected) {
		return &IntegrityError{
			PackID:   packID,
			Artifact: artifact,
			Expected: strings.ToLower(expected),
			Got:      got,
		}
	}
	return nil
}

// isValidHexDigest checks if s is a valid 64-character hex-encoded SHA256 digest.
func isValidHexDigest(s string) bool {
	if len(s) != 64 {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}
