package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var packageFilms bool

var siteCmd = &cobra.Command{
	Use:   "site",
	Short: "Show the site the API key belongs to",
	RunE: func(cmd *cobra.Command, args []string) error {
		site, err := client.GetSite(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get site: %w", err)
		}
		return newPrinter(os.Stdout, jsonOutput).site(site)
	},
}

var screensCmd = &cobra.Command{
	Use:   "screens",
	Short: "List the site's screens",
	RunE: func(cmd *cobra.Command, args []string) error {
		screens, err := client.ListScreens(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list screens: %w", err)
		}
		return newPrinter(os.Stdout, jsonOutput).screens(screens)
	},
}

var attributesCmd = &cobra.Command{
	Use:   "attributes",
	Short: "List session attributes",
	RunE: func(cmd *cobra.Command, args []string) error {
		attrs, err := client.ListAttributes(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list attributes: %w", err)
		}
		return newPrinter(os.Stdout, jsonOutput).attributes(attrs)
	},
}

var packagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "List film packages",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		packages, err := client.ListFilmPackages(ctx)
		if err != nil {
			return fmt.Errorf("failed to list film packages: %w", err)
		}

		p := newPrinter(os.Stdout, jsonOutput)
		if !packageFilms || jsonOutput {
			return p.packages(packages)
		}

		for i := range packages {
			fmt.Printf("\n%s (ID: %d)\n", packages[i].Title, packages[i].ID)
			films, err := client.PackageFilms(ctx, &packages[i])
			if err != nil {
				return fmt.Errorf("failed to resolve package %d: %w", packages[i].ID, err)
			}
			for _, f := range films {
				p.filmDetails(f)
			}
		}
		return nil
	},
}

func init() {
	packagesCmd.Flags().BoolVar(&packageFilms, "films", false, "resolve the films in each package")

	rootCmd.AddCommand(siteCmd)
	rootCmd.AddCommand(screensCmd)
	rootCmd.AddCommand(attributesCmd)
	rootCmd.AddCommand(packagesCmd)
}
