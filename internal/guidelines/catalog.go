// SPDX-License-Identifier: MPL-2.0

package guidelines

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

type (
	// PackDescriptor describes one pack as listed in the remote catalog.
	// Digest fields are normalized to lowercase during parsing.
	PackDescriptor struct {
		ID             string // Stable identifier, also the local directory name
		Title          string // Human-readable display name (defaults to ID)
		Version        string // Loosely-formatted version string (defaults to "0.0.0")
		ManifestURL    string // HTTPS location of the manifest artifact
		RulesURL       string // HTTPS location of the rules artifact
		SHA256Manifest string // Lowercase hex digest the manifest bytes must match
		SHA256Rules    string // Lowercase hex digest the rules bytes must match
	}

	// Catalog is the remote listing of available packs.
	Catalog struct {
		SchemaVersion int              // Catalog document schema version (currently 1)
		UpdatedUTC    string           // ISO-8601 UTC timestamp, second precision, "Z" suffix
		Packs         []PackDescriptor // Catalog order is preserved
	}

	// catalogDoc is the JSON wire format of the catalog document.
	catalogDoc struct {
		SchemaVersion int            `json:"schema_version"`
		UpdatedUTC    string         `json:"updated_utc"`
		Packs         []catalogEntry `json:"packs"`
	}

	// catalogEntry is the JSON wire format of a single pack entry.
	catalogEntry struct {
		ID             string `json:"id"`
		Title          string `json:"title"`
		Version        string `json:"version"`
		ManifestURL    string `json:"manifest_url"`
		RulesURL       string `json:"rules_url"`
		SHA256Manifest string `json:"sha256_manifest"`
		SHA256Rules    string `json:"sha256_rules"`
	}
)

// FetchCatalog retrieves and parses the catalog document at indexURL.
// A malformed catalog is treated as wholly untrustworthy: any entry missing
// a required field (id, manifest_url, rules_url, or either digest) fails the
// whole operation with an error wrapping ErrCatalogInvalid. Optional fields
// fall back to defaults (title to id, version to "0.0.0").
func (f *Fetcher) FetchCatalog(ctx context.Context, indexURL string) (*Catalog, error) {
	raw, err := f.FetchBytes(ctx, indexURL)
	if err != nil {
		return nil, fmt.Errorf("fetching catalog: %w", err)
	}

	catalog, err := parseCatalog(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	return catalog, nil
}

// parseCatalog decodes and validates a catalog document.
func parseCatalog(raw []byte) (*Catalog, error) {
	var doc catalogDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: decoding document: %w", ErrCatalogInvalid, err)
	}

	packs := make([]PackDescriptor, 0, len(doc.Packs))
	for i, entry := range doc.Packs {
		desc, err := toDescriptor(i, entry)
		if err != nil {
			return nil, err
		}
		packs = append(packs, desc)
	}

	return &Catalog{
		SchemaVersion: doc.SchemaVersion,
		UpdatedUTC:    doc.UpdatedUTC,
		Packs:         packs,
	}, nil
}

// toDescriptor converts a wire entry to an exported PackDescriptor, applying
// defaults for optional fields and validating required ones.
func toDescriptor(index int, entry catalogEntry) (PackDescriptor, error) {
	switch {
	case entry.ID == "":
		return PackDescriptor{}, &CatalogEntryError{Index: index, Field: "id"}
	case entry.ManifestURL == "":
		return PackDescriptor{}, &CatalogEntryError{Index: index, Field: "manifest_url"}
	case entry.RulesURL == "":
		return PackDescriptor{}, &CatalogEntryError{Index: index, Field: "rules_url"}
	case !isValidHexDigest(entry.SHA256Manifest):
		return PackDescriptor{}, &CatalogEntryError{Index: index, Field: "sha256_manifest"}
	case !isValidHexDigest(entry.SHA256Rules):
		return PackDescriptor{}, &CatalogEntryError{Index: index, Field: "sha256_rules"}
	}

	title := entry.Title
	if title == "" {
		title = entry.ID
	}
	version := entry.Version
	if version == "" {
		version = "0.0.0"
	}

	return PackDescriptor{
		ID:             entry.ID,
		Title:          title,
		Version:        version,
		ManifestURL:    entry.ManifestURL,
		RulesURL:       entry.RulesURL,
		SHA256Manifest: strings.ToLower(entry.SHA256Manifest),
		SHA256Rules:    strings.ToLower(entry.SHA256Rules),
	}, nil
}
