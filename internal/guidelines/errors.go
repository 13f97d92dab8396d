// SPDX-License-Identifier: MPL-2.0

package guidelines

import (
	"errors"
	"fmt"
)

var (
	// ErrInsecureTransport indicates a fetch was requested for a non-HTTPS URL.
	// The request is rejected before any network I/O takes place.
	ErrInsecureTransport = errors.New("insecure transport: HTTPS required")

	// ErrCatalogInvalid indicates the fetched catalog document is malformed or
	// missing required fields. The whole catalog is rejected; there is no
	// per-entry recovery.
	ErrCatalogInvalid = errors.New("invalid catalog")

	// ErrIntegrityMismatch indicates a fetched artifact's SHA256 digest does
	// not match the value declared in the catalog.
	ErrIntegrityMismatch = errors.New("integrity mismatch")
)

type (
	// IntegrityError reports a digest mismatch for a specific pack artifact.
	// It wraps ErrIntegrityMismatch so callers can use errors.Is for classification.
	IntegrityError struct {
		PackID   string // Pack whose install was aborted
		Artifact string // "manifest" or "rules"
		Expected string // Lowercase hex digest declared by the catalog
		Got      string // Lowercase hex digest of the fetched bytes
	}

	// CatalogEntryError reports a missing required field on a catalog entry.
	// It wraps ErrCatalogInvalid so callers can use errors.Is for classification.
	CatalogEntryError struct {
		Index int    // Position of the entry in the catalog's packs array
		Field string // Name of the missing or invalid field
	}
)

// Error returns a human-readable description of the digest mismatch,
// showing both expected and actual values for debugging.
func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity check failed for pack %q (%s)\nExpected: %s\nGot:      %s",
		e.PackID, e.Artifact, e.Expected, e.Got)
}

// Unwrap returns ErrIntegrityMismatch so callers can use errors.Is.
func (e *IntegrityError) Unwrap() error { return ErrIntegrityMismatch }

// Error returns a human-readable description of the malformed catalog entry.
func (e *CatalogEntryError) Error() string {
	return fmt.Sprintf("catalog entry %d: missing or invalid field %q", e.Index, e.Field)
}

// Unwrap returns ErrCatalogInvalid so callers can use errors.Is.
func (e *CatalogEntryError) Unwrap() error { return ErrCatalogInvalid }
