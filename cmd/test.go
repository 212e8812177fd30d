package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/veezi/veezi"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to Veezi",
	Long:  `Test the connection to the Veezi API and display basic information about the site.`,
	RunE:  runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	fmt.Printf("Testing connection to Veezi at %s...\n", cfg.Veezi.URL)
	if err := client.TestConnection(ctx); err != nil {
		var terr *veezi.TransportError
		if errors.As(err, &terr) && terr.IsUnauthorized() {
			return fmt.Errorf("the API key was rejected: %w", err)
		}
		return err
	}
	fmt.Println("✓ Connection successful!")

	site, err := client.GetSite(ctx)
	if err != nil {
		return fmt.Errorf("failed to get site: %w", err)
	}
	films, err := client.ListActiveFilms(ctx)
	if err != nil {
		return fmt.Errorf("failed to get films: %w", err)
	}
	sessions, err := client.ListSessionsToday(ctx)
	if err != nil {
		return fmt.Errorf("failed to get sessions: %w", err)
	}

	fmt.Printf("\nVeezi Statistics:\n")
	fmt.Printf("- Site: %s (%s)\n", site.Name, site.TimeZoneIdentifier)
	fmt.Printf("- Screens: %d\n", len(site.Screens))
	fmt.Printf("- Active films: %d\n", films.Len())
	fmt.Printf("- Sessions today: %d\n", sessions.Len())
	fmt.Printf("- Response cache: %s\n", client.CachePolicy().Mode)

	if names := filters.ListFilters(); len(names) > 0 {
		fmt.Printf("\nFilter presets:\n")
		for _, name := range names {
			f, _ := filters.GetFilter(name)
			fmt.Printf("  • %s: %s\n", name, f.Expression())
		}
	}

	return nil
}
