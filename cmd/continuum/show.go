// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"continuum-cli/internal/guidelines"
)

// shownManifest is the subset of a pack manifest rendered by `show`. The
// manifest is free-form; unknown fields are ignored.
type shownManifest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// newShowCommand creates the `continuum show` command, which prints a pack's
// manifest summary and, optionally, its rules.
func newShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <pack-id>",
		Short: "Show an installed pack's manifest and rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			withRules, _ := cmd.Flags().GetBool("rules")

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			store, err := guidelines.NewStore(cfg.StoreRoot)
			if err != nil {
				return fmt.Errorf("opening guidelines store: %w", err)
			}

			return runShow(cmd.OutOrStdout(), store, args[0], withRules)
		},
	}

	cmd.Flags().Bool("rules", false, "Also print the pack's rules")

	return cmd
}

// runShow prints a pack summary. The pack does not have to be installed: an
// absent pack reports zero rules, matching the store's defensive read
// semantics.
func runShow(out io.Writer, store *guidelines.Store, id string, withRules bool) error {
	rules, err := store.ReadRules(id)
	if err != nil {
		return fmt.Errorf("reading rules: %w", err)
	}

	var m shownManifest
	if raw, err := store.ReadManifest(id); err == nil {
		// Manifest parse failures fall back to an empty summary; the raw
		// pack data may still be useful via --rules.
		_ = json.Unmarshal(raw, &m)
	}

	title := m.Title
	if title == "" {
		title = id
	}
	version := m.Version
	if version == "" {
		version = "0.0.0"
	}

	fmt.Fprintln(out, TitleStyle.Render(title))
	fmt.Fprintf(out, "%s %s\n", PackIDStyle.Render(id), version)
	fmt.Fprintf(out, "%d rule(s)\n", len(rules))

	if m.Description != "" {
		rendered, err := glamour.Render(m.Description, "auto")
		if err != nil {
			// Unrenderable markdown falls back to the raw text.
			rendered = m.Description + "\n"
		}
		fmt.Fprint(out, rendered)
	}

	if withRules {
		for i, rule := range rules {
			raw, err := json.MarshalIndent(rule, "  ", "  ")
			if err != nil {
				return fmt.Errorf("encoding rule %d: %w", i, err)
			}
			fmt.Fprintf(out, "  %s\n", raw)
		}
	}

	return nil
}
