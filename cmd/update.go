package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const repositorySlug = "s0up4200/veezi"

var checkOnly bool

// updateCmd replaces the running binary with the latest GitHub release
var updateCmd = &cobra.Command{
	Use:         "update",
	Short:       "Update veezi to the latest release",
	Annotations: map[string]string{skipSetup: ""},
	RunE:        runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().BoolVar(&checkOnly, "check", false, "only check whether an update is available")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	current, err := currentVersion()
	if err != nil {
		return err
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repositorySlug))
	if err != nil {
		return fmt.Errorf("failed to detect latest release: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s/%s", runtime.GOOS, runtime.GOARCH)
	}

	available, err := semver.ParseTolerant(latest.Version())
	if err != nil {
		return fmt.Errorf("latest release has an invalid version %q: %w", latest.Version(), err)
	}
	if available.LTE(current) {
		fmt.Printf("✓ veezi %s is the latest version\n", current)
		return nil
	}

	fmt.Printf("New version available: %s (current %s)\n", available, current)
	if checkOnly {
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	logger.Info().
		Str("version", available.String()).
		Str("asset", latest.AssetName).
		Msg("Downloading update")

	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	fmt.Fprintf(os.Stdout, "✓ Updated to %s\n", available)
	return nil
}
