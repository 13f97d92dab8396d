// SPDX-License-Identifier: MPL-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.IndexURL != DefaultIndexURL {
		t.Errorf("IndexURL = %q, want default", cfg.IndexURL)
	}
	if !strings.HasSuffix(cfg.StoreRoot, filepath.Join(AppName, "guidelines")) {
		t.Errorf("StoreRoot = %q, want .../%s/guidelines suffix", cfg.StoreRoot, AppName)
	}
	if cfg.TimeoutSeconds != 15 {
		t.Errorf("TimeoutSeconds = %d, want 15", cfg.TimeoutSeconds)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "index_url: https://example.com/index.json\nstore_root: /tmp/gl\ntimeout_seconds: 5\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.IndexURL != "https://example.com/index.json" {
		t.Errorf("IndexURL = %q", cfg.IndexURL)
	}
	if cfg.StoreRoot != "/tmp/gl" {
		t.Errorf("StoreRoot = %q", cfg.StoreRoot)
	}
	if cfg.Timeout().Seconds() != 5 {
		t.Errorf("Timeout = %v, want 5s", cfg.Timeout())
	}
}

func TestLoad_MissingExplicitConfigFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("explicitly named missing config file should fail")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CONTINUUM_INDEX_URL", "https://env.example.com/index.json")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.IndexURL != "https://env.example.com/index.json" {
		t.Errorf("IndexURL = %q, want env override", cfg.IndexURL)
	}
}

func TestLoad_NonPositiveTimeoutFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("timeout_seconds: 0\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TimeoutSeconds != 15 {
		t.Errorf("TimeoutSeconds = %d, want fallback 15", cfg.TimeoutSeconds)
	}
}

func TestDataDirOverride(t *testing.T) {
	old := dataDirOverride
	dataDirOverride = "/custom/data"
	t.Cleanup(func() { dataDirOverride = old })

	dir, err := DataDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != "/custom/data" {
		t.Errorf("DataDir = %q, want override", dir)
	}

	storeRoot, err := DefaultStoreRoot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if storeRoot != filepath.Join("/custom/data", "guidelines") {
		t.Errorf("DefaultStoreRoot = %q", storeRoot)
	}
}
