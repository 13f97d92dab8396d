// SPDX-License-Identifier: MPL-2.0

// Package indexer builds the remote catalog document from a directory of
// guideline packs. It is build-time tooling: the runtime update pipeline in
// internal/guidelines only ever consumes the index this package produces.
package indexer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"continuum-cli/internal/guidelines"
)

// IndexFileName is the catalog document written at the docs root.
const IndexFileName = "index.json"

// indexEntry is the JSON wire format of one pack entry in the generated
// index, matching what guidelines.FetchCatalog expects on the consuming side.
type indexEntry struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Version        string `json:"version"`
	ManifestURL    string `json:"manifest_url"`
	RulesURL       string `json:"rules_url"`
	SHA256Manifest string `json:"sha256_manifest"`
	SHA256Rules    string `json:"sha256_rules"`
}

// indexDoc is the JSON wire format of the generated index document.
type indexDoc struct {
	SchemaVersion int          `json:"schema_version"`
	UpdatedUTC    string       `json:"updated_utc"`
	Packs         []indexEntry `json:"packs"`
}

// buildManifest is the subset of a pack manifest read while indexing.
type buildManifest struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Version string `json:"version"`
}

// Build scans packsDir for pack subdirectories, computes artifact digests,
// and assembles a catalog. Each pack directory must contain manifest.json
// and rules.json; directories missing either artifact are skipped with a
// warning. Artifact URLs are formed as
// baseURL/packs/<dir>/{manifest.json,rules.json}. Directories are indexed
// in sorted order so repeated builds over identical input are byte-stable
// apart from the timestamp.
func Build(packsDir, baseURL string) (*guidelines.Catalog, error) {
	entries, err := os.ReadDir(packsDir)
	if err != nil {
		return nil, fmt.Errorf("reading packs directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var packs []guidelines.PackDescriptor
	for _, name := range names {
		desc, ok, err := buildPack(packsDir, baseURL, name)
		if err != nil {
			return nil, err
		}
		if !ok {
			slog.Warn("skipping pack directory without both artifacts", "pack", name)
			continue
		}
		packs = append(packs, desc)
	}

	return &guidelines.Catalog{
		SchemaVersion: 1,
		UpdatedUTC:    time.Now().UTC().Truncate(time.Second).Format(time.RFC3339),
		Packs:         packs,
	}, nil
}

// buildPack assembles the descriptor for a single pack directory. The second
// return value is false when the directory is missing either artifact.
func buildPack(packsDir, baseURL, name string) (guidelines.PackDescriptor, bool, error) {
	dir := filepath.Join(packsDir, name)

	manifestBytes, err := os.ReadFile(filepath.Join(dir, guidelines.ManifestFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return guidelines.PackDescriptor{}, false, nil
		}
		return guidelines.PackDescriptor{}, false, fmt.Errorf("reading manifest for %s: %w", name, err)
	}
	rulesBytes, err := os.ReadFile(filepath.Join(dir, guidelines.RulesFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return guidelines.PackDescriptor{}, false, nil
		}
		return guidelines.PackDescriptor{}, false, fmt.Errorf("reading rules for %s: %w", name, err)
	}

	var m buildManifest
	if err := json.Unmarshal(manifestBytes, &m); err != nil {
		return guidelines.PackDescriptor{}, false, fmt.Errorf("decoding manifest for %s: %w", name, err)
	}

	id := m.ID
	if id == "" {
		id = name
	}
	title := m.Title
	if title == "" {
		title = id
	}
	version := m.Version
	if version == "" {
		version = "0.0.0"
	}

	return guidelines.PackDescriptor{
		ID:             id,
		Title:          title,
		Version:        version,
		ManifestURL:    fmt.Sprintf("%s/packs/%s/%s", baseURL, name, guidelines.ManifestFileName),
		RulesURL:       fmt.Sprintf("%s/packs/%s/%s", baseURL, name, guidelines.RulesFileName),
		SHA256Manifest: guidelines.ComputeDigest(manifestBytes),
		SHA256Rules:    guidelines.ComputeDigest(rulesBytes),
	}, true, nil
}

// WriteIndex writes the catalog as a two-space-indented JSON document at
// path. The write goes through a temp file and rename so a crash cannot
// leave a truncated index behind.
func WriteIndex(path string, catalog *guidelines.Catalog) error {
	doc := indexDoc{
		SchemaVersion: catalog.SchemaVersion,
		UpdatedUTC:    catalog.UpdatedUTC,
		Packs:         make([]indexEntry, 0, len(catalog.Packs)),
	}
	for _, p := range catalog.Packs {
		doc.Packs = append(doc.Packs, indexEntry{
			ID:             p.ID,
			Title:          p.Title,
			Version:        p.Version,
			ManifestURL:    p.ManifestURL,
			RulesURL:       p.RulesURL,
			SHA256Manifest: p.SHA256Manifest,
			SHA256Rules:    p.SHA256Rules,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), IndexFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp index: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing temp index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing temp index: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing index: %w", err)
	}

	return nil
}
