// SPDX-License-Identifier: MPL-2.0

package guidelines

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ManifestFileName is the per-pack metadata document.
	ManifestFileName = "manifest.json"
	// RulesFileName is the per-pack rules document.
	RulesFileName = "rules.json"

	// builtinPacksDirName is the subdirectory of a builtin source that holds
	// one directory per bundled pack.
	builtinPacksDirName = "packs"
)

type (
	// Rule is a single entry of a pack's rules document. The shape is opaque
	// to this package; packs are stored and served as raw data.
	Rule map[string]any

	// packManifest is the subset of a pack manifest consumed locally. The
	// manifest is free-form; only version is read for update planning and
	// title/description for display.
	packManifest struct {
		Version     string `json:"version"`
		Title       string `json:"title"`
		Description string `json:"description"`
	}

	// Store owns the local installed-pack directory layout: one directory
	// per pack id under the root, each holding manifest.json and rules.json.
	// The Installer is the only writer; reads reconstruct state from disk on
	// every call.
	Store struct {
		root string
	}
)

// NewStore creates a Store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store root: %w", err)
	}
	return &Store{root: dir}, nil
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

// PackDir returns the directory a pack's artifacts live in.
func (s *Store) PackDir(id string) string {
	return filepath.Join(s.root, id)
}

// ListInstalled scans the store root and returns a mapping of pack id to
// installed version. Enumeration is best-effort: a subdirectory without a
// manifest is not a pack and is skipped; a subdirectory whose manifest fails
// to parse is skipped with a warning. Neither case aborts enumeration of
// sibling packs. A manifest without a version field reports "0.0.0".
func (s *Store) ListInstalled() map[string]string {
	installed := map[string]string{}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		slog.Warn("failed to read guidelines store", "dir", s.root, "error", err)
		return installed
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(s.root, entry.Name(), ManifestFileName))
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				slog.Warn("skipping unreadable pack manifest", "pack", entry.Name(), "error", err)
			}
			continue
		}

		var m packManifest
		if err := json.Unmarshal(raw, &m); err != nil {
			slog.Warn("skipping pack with corrupt manifest", "pack", entry.Name(), "error", err)
			continue
		}

		version := m.Version
		if version == "" {
			version = "0.0.0"
		}
		installed[entry.Name()] = version
	}

	return installed
}

// ReadRules returns the ordered rules of an installed pack. A pack that is
// not installed, or whose rules document is absent, yields an empty slice
// rather than an error so callers may query defensively.
func (s *Store) ReadRules(id string) ([]Rule, error) {
	raw, err := os.ReadFile(filepath.Join(s.PackDir(id), RulesFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Rule{}, nil
		}
		return nil, fmt.Errorf("reading rules for %s: %w", id, err)
	}

	var rules []Rule
	if err := json.Unmarshal(raw, &rules); err != nil {
		return nil, fmt.Errorf("decoding rules for %s: %w", id, err)
	}

	return rules, nil
}

// ReadManifest returns the raw manifest document of an installed pack.
func (s *Store) ReadManifest(id string) ([]byte, error) {
	raw, err := os.ReadFile(filepath.Join(s.PackDir(id), ManifestFileName))
	if err != nil {
		return nil, fmt.Errorf("reading manifest for %s: %w", id, err)
	}
	return raw, nil
}

// SeedBuiltins copies bundled packs from a trusted builtin source into the
// store. The source layout is builtinDir/packs/<id>/{manifest.json,rules.json}.
// Packs already present in the store are never overwritten, even when the
// builtin version is newer: seeding is a floor, not an update mechanism. The
// builtin source is trusted by construction, so no digest verification is
// performed. A missing or malformed builtin source is a no-op.
func (s *Store) SeedBuiltins(builtinDir string) error {
	packsDir := filepath.Join(builtinDir, builtinPacksDirName)
	entries, err := os.ReadDir(packsDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading builtin packs: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		dest := s.PackDir(entry.Name())
		if _, err := os.Stat(dest); err == nil {
			continue
		}

		if err := os.MkdirAll(dest, 0o755); err != nil {
			return fmt.Errorf("creating pack dir %s: %w", entry.Name(), err)
		}

		for _, name := range []string{ManifestFileName, RulesFileName} {
			src := filepath.Join(packsDir, entry.Name(), name)
			data, err := os.ReadFile(src)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					continue
				}
				return fmt.Errorf("reading builtin %s for %s: %w", name, entry.Name(), err)
			}
			if err := os.WriteFile(filepath.Join(dest, name), data, 0o644); err != nil {
				return fmt.Errorf("seeding %s for %s: %w", name, entry.Name(), err)
			}
		}
	}

	return nil
}
