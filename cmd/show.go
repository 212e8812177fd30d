package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var webOnly bool

// sessionCmd shows one session with its film, screen, package and attributes
var sessionCmd = &cobra.Command{
	Use:   "session <id>",
	Short: "Show a session and everything it refers to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid session id %q", args[0])
		}

		ctx := cmd.Context()
		session, err := client.GetSession(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get session %d: %w", id, err)
		}

		p := newPrinter(os.Stdout, jsonOutput)
		if jsonOutput {
			return p.encode(session)
		}

		film, err := client.SessionFilm(ctx, session)
		if err != nil {
			return fmt.Errorf("failed to get film: %w", err)
		}
		screen, err := client.SessionScreen(ctx, session)
		if err != nil {
			return fmt.Errorf("failed to get screen: %w", err)
		}
		pkg, err := client.SessionFilmPackage(ctx, session)
		if err != nil {
			return fmt.Errorf("failed to get film package: %w", err)
		}
		attrs, err := client.SessionAttributes(ctx, session)
		if err != nil {
			return fmt.Errorf("failed to get attributes: %w", err)
		}

		fmt.Printf("Session %d: %s\n", session.ID, session.PreShowStartTime.Format("Mon 2 Jan 15:04"))
		fmt.Printf("- Screen: %s (%d of %d seats left)\n", screen.Name, session.SeatsAvailable, screen.SellableSeats())
		fmt.Printf("- Status: %s, sales close %s\n", session.Status, session.SalesCutOffTime.Format("15:04"))
		if pkg != nil {
			fmt.Printf("- Part of package: %s\n", pkg.Title)
		}
		if len(attrs) > 0 {
			names := make([]string, len(attrs))
			for i, a := range attrs {
				names[i] = a.Description
			}
			fmt.Printf("- Attributes: %s\n", strings.Join(names, ", "))
		}
		fmt.Println()
		p.filmDetails(*film)
		return nil
	},
}

// filmCmd shows one film and its sessions
var filmCmd = &cobra.Command{
	Use:   "film <id>",
	Short: "Show a film and its sessions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		film, err := client.GetFilm(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get film %s: %w", args[0], err)
		}

		list := client.FilmSessions
		if webOnly {
			list = client.FilmWebSessions
		}
		sessions, err := list(ctx, film.ID)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		p := newPrinter(os.Stdout, jsonOutput)
		if jsonOutput {
			return p.encode(map[string]any{"film": film, "sessions": sessions})
		}
		p.filmDetails(*film)
		fmt.Println()
		return p.sessions(sessions.SortByStartTime())
	},
}

func init() {
	filmCmd.Flags().BoolVar(&webOnly, "web", false, "only sessions sold online")

	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(filmCmd)
}
