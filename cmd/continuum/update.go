// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"continuum-cli/internal/guidelines"
)

// updateParams bundles the dependencies and flags for the update command,
// enabling the core logic in runUpdate to be tested without a real Cobra
// command or live network calls.
type updateParams struct {
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	installer *guidelines.Installer
	indexURL  string
	packIDs   []string // Restrict to these pack ids (empty = all pending)
	check     bool     // --check mode: report availability without installing
	yes       bool     // --yes flag: skip confirmation prompt
}

// newUpdateCommand creates the `continuum update` command, which installs
// new and updated guideline packs from the remote catalog.
func newUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [pack-id...]",
		Short: "Install new and updated guideline packs from the catalog",
		Long: `Install new and updated guideline packs from the remote catalog.

The update command fetches the catalog over HTTPS, compares it against the
locally installed packs, and installs every pack that is missing or newer
remotely. Each artifact is verified against its published SHA256 digest
before anything is written; a pack that fails verification is never
installed. Packs are never downgraded.

With pack ids as arguments, only those packs are considered.`,
		Example: `  # Install everything that is new or updated
  continuum update

  # Show pending updates without installing
  continuum update --check

  # Update specific packs without the confirmation prompt
  continuum update core-style security --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			checkFlag, _ := cmd.Flags().GetBool("check")
			yesFlag, _ := cmd.Flags().GetBool("yes")

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			store, err := guidelines.NewStore(cfg.StoreRoot)
			if err != nil {
				return fmt.Errorf("opening guidelines store: %w", err)
			}

			fetcher := guidelines.NewFetcher(
				guidelines.WithTimeout(cfg.Timeout()),
				guidelines.WithUserAgent("Continuum/"+Version+" (Guidelines updater)"),
			)

			p := updateParams{
				stdin:     cmd.InOrStdin(),
				stdout:    cmd.OutOrStdout(),
				stderr:    cmd.ErrOrStderr(),
				installer: guidelines.NewInstaller(store, guidelines.WithFetcher(fetcher)),
				indexURL:  cfg.IndexURL,
				packIDs:   args,
				check:     checkFlag,
				yes:       yesFlag,
			}

			return runUpdate(cmd.Context(), p)
		},
	}

	cmd.Flags().Bool("check", false, "Check for pending updates without installing")
	cmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")

	return cmd
}

// runUpdate is the core update logic, separated from Cobra for testability.
// All user-facing output goes through p.stdout and p.stderr.
//
// Flow:
//  1. Fetch the catalog and plan pending updates against the store.
//  2. Filter to the requested pack ids, if any were named.
//  3. If --check, print the pending set and return.
//  4. Otherwise confirm (unless --yes) and install each pack in catalog
//     order, continuing past per-pack failures; exit non-zero if any failed.
func runUpdate(ctx context.Context, p updateParams) error {
	updates, err := p.installer.CheckUpdates(ctx, p.indexURL)
	if err != nil {
		return fmt.Errorf("checking for updates: %w", err)
	}

	if len(p.packIDs) > 0 {
		updates = slices.DeleteFunc(updates, func(u guidelines.PendingUpdate) bool {
			return !slices.Contains(p.packIDs, u.Pack.ID)
		})
	}

	if len(updates) == 0 {
		fmt.Fprintln(p.stdout, "All guideline packs are up to date.")
		return nil
	}

	fmt.Fprintf(p.stdout, "%d pending update(s):\n", len(updates))
	for _, u := range updates {
		if u.Install() {
			fmt.Fprintf(p.stdout, "  %s %s (new)\n", PackIDStyle.Render(u.Pack.ID), u.Pack.Version)
		} else {
			fmt.Fprintf(p.stdout, "  %s %s -> %s\n", PackIDStyle.Render(u.Pack.ID), u.InstalledVersion, u.Pack.Version)
		}
	}

	if p.check {
		fmt.Fprintln(p.stdout, "\nRun 'continuum update' to install.")
		return nil
	}

	if !p.yes {
		confirmed, err := confirm(p.stdin, p.stdout, fmt.Sprintf("Install %d pack(s)?", len(updates)))
		if err != nil {
			return fmt.Errorf("confirmation prompt: %w", err)
		}
		if !confirmed {
			return nil
		}
	}

	// Per-pack failures do not stop the remaining installs; the overall
	// command still fails if any pack could not be installed.
	var failed int
	for _, u := range updates {
		fmt.Fprintf(p.stdout, "Installing %s %s... ", PackIDStyle.Render(u.Pack.ID), u.Pack.Version)
		if err := p.installer.Install(ctx, u.Pack); err != nil {
			failed++
			fmt.Fprintln(p.stdout, ErrorStyle.Render("FAILED"))
			fmt.Fprintln(p.stderr, formatInstallError(err))
			continue
		}
		fmt.Fprintln(p.stdout, SuccessStyle.Render("OK"))
	}

	if failed > 0 {
		err := fmt.Errorf("%d of %d pack install(s) failed", failed, len(updates))
		fmt.Fprintln(p.stderr, ErrorStyle.Render("Error: ")+err.Error())
		return &ExitError{Code: 1, Err: err}
	}

	fmt.Fprintf(p.stdout, "\n%s %d pack(s) installed.\n", SuccessStyle.Render("Done."), len(updates))
	return nil
}

// confirm prints a y/N prompt and reads a single line of input. Anything
// other than an explicit yes declines.
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprintf(out, "\n%s [y/N] ", prompt)

	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// formatInstallError renders an install failure, calling out integrity
// violations explicitly since they are the security-critical case.
func formatInstallError(err error) string {
	var ie *guidelines.IntegrityError
	if errors.As(err, &ie) {
		return ErrorStyle.Render("Integrity violation: ") +
			fmt.Sprintf("pack %q (%s artifact) does not match its published digest; not installed", ie.PackID, ie.Artifact)
	}
	return ErrorStyle.Render("Error: ") + err.Error()
}
