// SPDX-License-Identifier: MPL-2.0

package guidelines

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// packServer serves manifest and rules payloads for a single pack over TLS
// and returns a descriptor whose URLs and digests match the served bytes.
func packServer(t *testing.T, id string, manifest, rules []byte) (*httptest.Server, PackDescriptor) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/manifest.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(manifest)
	})
	mux.HandleFunc("/rules.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(rules)
	})

	srv := httptest.NewTLSServer(mux)
	t.Cleanup(srv.Close)

	return srv, PackDescriptor{
		ID:             id,
		Title:          id,
		Version:        "1.0.0",
		ManifestURL:    srv.URL + "/manifest.json",
		RulesURL:       srv.URL + "/rules.json",
		SHA256Manifest: ComputeDigest(manifest),
		SHA256Rules:    ComputeDigest(rules),
	}
}

func TestInstall_WritesBothArtifacts(t *testing.T) {
	t.Parallel()

	manifest := []byte(`{"id": "core", "version": "1.0.0"}`)
	rules := []byte(`[{"id": "r1"}]`)
	srv, desc := packServer(t, "core", manifest, rules)

	root := t.TempDir()
	store, err := NewStore(root)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	inst := NewInstaller(store, WithFetcher(NewFetcher(WithHTTPClient(srv.Client()))))

	if err := inst.Install(context.Background(), desc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	gotManifest, err := os.ReadFile(filepath.Join(root, "core", ManifestFileName))
	if err != nil {
		t.Fatalf("reading installed manifest: %v", err)
	}
	if string(gotManifest) != string(manifest) {
		t.Errorf("installed manifest = %q, want %q", gotManifest, manifest)
	}

	if got := store.ListInstalled()["core"]; got != "1.0.0" {
		t.Errorf("installed version = %q, want %q", got, "1.0.0")
	}

	rulesList, err := store.ReadRules("core")
	if err != nil {
		t.Fatalf("reading rules: %v", err)
	}
	if len(rulesList) != 1 || rulesList[0]["id"] != "r1" {
		t.Errorf("unexpected rules: %v", rulesList)
	}
}

func TestInstall_TamperedRulesLeavesStoreUntouched(t *testing.T) {
	t.Parallel()

	manifest := []byte(`{"id": "core", "version": "1.0.0"}`)
	rules := []byte(`[{"id": "r1"}]`)
	srv, desc := packServer(t, "core", manifest, rules)
	// Declared rules digest no longer matches the served bytes.
	desc.SHA256Rules = ComputeDigest([]byte("something else"))

	root := t.TempDir()
	store, err := NewStore(root)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	inst := NewInstaller(store, WithFetcher(NewFetcher(WithHTTPClient(srv.Client()))))

	err = inst.Install(context.Background(), desc)
	if !errors.Is(err, ErrIntegrityMismatch) {
		t.Fatalf("expected ErrIntegrityMismatch, got %v", err)
	}

	var ie *IntegrityError
	if !errors.As(err, &ie) {
		t.Fatalf("error should be *IntegrityError, got %T", err)
	}
	if ie.PackID != "core" || ie.Artifact != "rules" {
		t.Errorf("error identifies %q/%q, want core/rules", ie.PackID, ie.Artifact)
	}

	// No partial write: the destination directory must not exist.
	if _, statErr := os.Stat(filepath.Join(root, "core")); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("destination directory should be absent after failed install, stat err = %v", statErr)
	}
}

func TestInstall_TamperedManifestKeepsPreviousInstall(t *testing.T) {
	t.Parallel()

	manifest := []byte(`{"id": "core", "version": "2.0.0"}`)
	rules := []byte(`[]`)
	srv, desc := packServer(t, "core", manifest, rules)
	desc.SHA256Manifest = ComputeDigest([]byte("tampered"))

	root := t.TempDir()
	store, err := NewStore(root)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	writePack(t, root, "core", `{"version": "1.0.0"}`, `[{"id": "old"}]`)

	inst := NewInstaller(store, WithFetcher(NewFetcher(WithHTTPClient(srv.Client()))))

	if err := inst.Install(context.Background(), desc); !errors.Is(err, ErrIntegrityMismatch) {
		t.Fatalf("expected ErrIntegrityMismatch, got %v", err)
	}

	// Previous installation is intact.
	if got := store.ListInstalled()["core"]; got != "1.0.0" {
		t.Errorf("installed version = %q, want untouched %q", got, "1.0.0")
	}
	rulesList, err := store.ReadRules("core")
	if err != nil {
		t.Fatalf("reading rules: %v", err)
	}
	if len(rulesList) != 1 || rulesList[0]["id"] != "old" {
		t.Errorf("previous rules should be untouched, got %v", rulesList)
	}
}

func TestInstall_FetchFailureNoMutation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	t.Cleanup(srv.Close)

	root := t.TempDir()
	store, err := NewStore(root)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	inst := NewInstaller(store, WithFetcher(NewFetcher(WithHTTPClient(srv.Client()))))

	desc := PackDescriptor{
		ID:             "core",
		Version:        "1.0.0",
		ManifestURL:    srv.URL + "/manifest.json",
		RulesURL:       srv.URL + "/rules.json",
		SHA256Manifest: ComputeDigest([]byte("x")),
		SHA256Rules:    ComputeDigest([]byte("y")),
	}

	if err := inst.Install(context.Background(), desc); err == nil {
		t.Fatal("expected error for failed fetch")
	}
	if _, statErr := os.Stat(filepath.Join(root, "core")); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("destination directory should be absent after failed fetch, stat err = %v", statErr)
	}
}

func TestInstall_RejectsNonHTTPSArtifactURL(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	inst := NewInstaller(store, WithFetcher(NewFetcher(
		WithHTTPClient(&http.Client{Transport: &failingTransport{t: t}}))))

	desc := PackDescriptor{
		ID:             "core",
		ManifestURL:    "http://example.com/manifest.json",
		RulesURL:       "http://example.com/rules.json",
		SHA256Manifest: ComputeDigest([]byte("x")),
		SHA256Rules:    ComputeDigest([]byte("y")),
	}

	if err := inst.Install(context.Background(), desc); !errors.Is(err, ErrInsecureTransport) {
		t.Errorf("expected ErrInsecureTransport, got %v", err)
	}
}

func TestCheckUpdates_EndToEnd(t *testing.T) {
	t.Parallel()

	manifest := []byte(`{"id": "fresh", "version": "1.0.0"}`)
	rules := []byte(`[]`)
	_, desc := packServer(t, "fresh", manifest, rules)

	mux := http.NewServeMux()
	catalogSrv := httptest.NewTLSServer(mux)
	t.Cleanup(catalogSrv.Close)
	mux.HandleFunc("/index.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"schema_version": 1,
			"updated_utc": "2026-08-01T12:00:00Z",
			"packs": [
				{"id": "fresh", "version": "1.0.0",
				 "manifest_url": "` + desc.ManifestURL + `",
				 "rules_url": "` + desc.RulesURL + `",
				 "sha256_manifest": "` + desc.SHA256Manifest + `",
				 "sha256_rules": "` + desc.SHA256Rules + `"},
				{"id": "stale", "version": "1.0.0",
				 "manifest_url": "https://example.com/m.json",
				 "rules_url": "https://example.com/r.json",
				 "sha256_manifest": "` + desc.SHA256Manifest + `",
				 "sha256_rules": "` + desc.SHA256Rules + `"}
			]
		}`))
	})

	root := t.TempDir()
	store, err := NewStore(root)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	writePack(t, root, "stale", `{"version": "1.0.0"}`, `[]`)

	inst := NewInstaller(store, WithFetcher(NewFetcher(WithHTTPClient(catalogSrv.Client()))))

	updates, err := inst.CheckUpdates(context.Background(), catalogSrv.URL+"/index.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updates) != 1 || updates[0].Pack.ID != "fresh" {
		t.Fatalf("expected one pending update for fresh, got %+v", updates)
	}

	// The artifact server and the catalog server share the test CA, so one
	// client works for both.
	if err := inst.Install(context.Background(), updates[0].Pack); err != nil {
		t.Fatalf("installing pending update: %v", err)
	}
	if got := store.ListInstalled()["fresh"]; got != "1.0.0" {
		t.Errorf("installed version = %q, want %q", got, "1.0.0")
	}
}
