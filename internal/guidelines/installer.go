// SPDX-License-Identifier: MPL-2.0

package guidelines

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

type (
	// Installer downloads pack artifacts, verifies them against the catalog's
	// declared digests, and materializes them in the local store. It assumes
	// single-writer access to the store; callers running concurrent installs
	// must serialize per pack id externally.
	Installer struct {
		fetcher *Fetcher
		store   *Store
	}

	// InstallerOption configures an Installer during construction.
	InstallerOption func(*Installer)
)

// WithFetcher overrides the default Fetcher used by the Installer.
func WithFetcher(f *Fetcher) InstallerOption {
	return func(i *Installer) {
		i.fetcher = f
	}
}

// NewInstaller creates an Installer writing to store. If no WithFetcher
// option is provided, a default Fetcher is created.
func NewInstaller(store *Store, opts ...InstallerOption) *Installer {
	inst := &Installer{store: store}
	for _, opt := range opts {
		opt(inst)
	}
	if inst.fetcher == nil {
		inst.fetcher = NewFetcher()
	}
	return inst
}

// CheckUpdates fetches the catalog at indexURL and diffs it against the
// store, returning the packs that are missing locally or newer remotely in
// catalog order.
func (i *Installer) CheckUpdates(ctx context.Context, indexURL string) ([]PendingUpdate, error) {
	catalog, err := i.fetcher.FetchCatalog(ctx, indexURL)
	if err != nil {
		return nil, err
	}
	return PlanUpdates(catalog.Packs, i.store.ListInstalled()), nil
}

// Install fetches both artifacts of pack, verifies each against its declared
// digest, and only then writes them into the store. Each step is a hard gate
// on the next: a fetch failure or digest mismatch aborts the install with no
// filesystem mutation, leaving any previous installation intact. A digest
// mismatch is reported as an *IntegrityError naming the pack and artifact.
//
// Writes go through a temp file in the destination directory followed by an
// atomic rename per artifact, so a crash mid-install leaves either the old
// artifacts or a new set detectable by the next enumeration. No retries are
// attempted; the caller decides whether to retry the whole call.
func (i *Installer) Install(ctx context.Context, pack PackDescriptor) error {
	manifestBytes, err := i.fetcher.FetchBytes(ctx, pack.ManifestURL)
	if err != nil {
		return fmt.Errorf("fetching manifest for %s: %w", pack.ID, err)
	}
	rulesBytes, err := i.fetcher.FetchBytes(ctx, pack.RulesURL)
	if err != nil {
		return fmt.Errorf("fetching rules for %s: %w", pack.ID, err)
	}

	if err := verifyBytes(manifestBytes, pack.SHA256Manifest, pack.ID, "manifest"); err != nil {
		return err
	}
	if err := verifyBytes(rulesBytes, pack.SHA256Rules, pack.ID, "rules"); err != nil {
		return err
	}

	dest := i.store.PackDir(pack.ID)
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("creating pack dir for %s: %w", pack.ID, err)
	}

	// Rules first, manifest last: enumeration keys off the manifest, so an
	// interrupted install is invisible to ListInstalled rather than a pack
	// with missing rules.
	if err := writeFileAtomic(filepath.Join(dest, RulesFileName), rulesBytes); err != nil {
		return fmt.Errorf("writing rules for %s: %w", pack.ID, err)
	}
	if err := writeFileAtomic(filepath.Join(dest, ManifestFileName), manifestBytes); err != nil {
		return fmt.Errorf("writing manifest for %s: %w", pack.ID, err)
	}

	return nil
}

// writeFileAtomic writes data to path via a temp file in the same directory
// and an os.Rename, which is atomic on the same filesystem.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("setting file permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	renamed = true

	return nil
}
