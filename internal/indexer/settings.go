// SPDX-License-Identifier: MPL-2.0

package indexer

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings holds the build configuration for a catalog, typically kept in an
// indexer.yaml next to the packs directory so CI builds are reproducible
// without flag plumbing.
type Settings struct {
	// BaseURL is the public prefix under which the packs directory is
	// served, e.g. "https://raw.githubusercontent.com/org/repo/main/docs".
	BaseURL string `yaml:"base_url"`
	// Output is the path the index document is written to. Defaults to
	// index.json next to the packs directory.
	Output string `yaml:"output"`
}

// LoadSettings reads a yaml settings file. A missing file is not an error:
// it returns zero Settings so flag and default resolution can take over.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("reading settings %q: %w", path, err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parsing settings %q: %w", path, err)
	}

	s.BaseURL = strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")
	return s, nil
}
