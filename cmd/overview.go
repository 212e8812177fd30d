package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/veezi/veezi"
)

// filmSummary is one line of the daily overview
type filmSummary struct {
	FilmID         string   `json:"filmId"`
	Title          string   `json:"title"`
	Sessions       int      `json:"sessions"`
	SeatsAvailable int      `json:"seatsAvailable"`
	SeatsSold      int      `json:"seatsSold"`
	Occupancy      float64  `json:"occupancy"`
	Starts         []string `json:"starts"`
}

// overview summarises one day at the site
type overview struct {
	Site      string        `json:"site"`
	Date      string        `json:"date"`
	Films     []filmSummary `json:"films"`
	Sessions  int           `json:"sessions"`
	SoldOut   int           `json:"soldOut"`
	Occupancy float64       `json:"occupancy"`
}

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Summarise today's programme",
	RunE:  runOverview,
}

func init() {
	rootCmd.AddCommand(overviewCmd)
}

func runOverview(cmd *cobra.Command, args []string) error {
	var (
		site     *veezi.Site
		films    veezi.FilmList
		sessions veezi.SessionList
	)

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		var err error
		site, err = client.GetSite(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		films, err = client.ListFilms(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		sessions, err = client.ListSessions(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to load overview: %w", err)
	}

	ov := buildOverview(site, films, sessions, site.Now())
	if jsonOutput {
		return newPrinter(os.Stdout, true).encode(ov)
	}
	printOverview(os.Stdout, ov)
	return nil
}

// buildOverview summarises the sessions starting on now's date, film by film
// in order of first screening.
func buildOverview(site *veezi.Site, films veezi.FilmList, sessions veezi.SessionList, now time.Time) overview {
	today := sessions.FilterTodayAt(now).SortByStartTime()
	byID := films.ByID()

	ov := overview{
		Site:     site.Name,
		Date:     veezi.DateOf(now).String(),
		Films:    []filmSummary{},
		Sessions: today.Len(),
		SoldOut:  today.Where(func(s veezi.Session) bool { return s.TicketsSoldOut }).Len(),
	}
	ov.Occupancy, _ = today.AverageOccupancy()

	for _, g := range today.GroupByFilm() {
		group := veezi.SessionList(g.Items)
		title := group[0].Title
		if f, ok := byID[g.Key]; ok {
			title = f.Title
		}
		summary := filmSummary{
			FilmID:         g.Key,
			Title:          title,
			Sessions:       group.Len(),
			SeatsAvailable: group.TotalSeatsAvailable(),
			SeatsSold:      group.TotalSeatsSold(),
		}
		summary.Occupancy, _ = group.AverageOccupancy()
		for _, s := range group {
			summary.Starts = append(summary.Starts, s.PreShowStartTime.Format("15:04"))
		}
		ov.Films = append(ov.Films, summary)
	}
	return ov
}

func printOverview(w io.Writer, ov overview) {
	fmt.Fprintf(w, "%s, %s\n", ov.Site, ov.Date)
	fmt.Fprintln(w, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	if ov.Sessions == 0 {
		fmt.Fprintln(w, "No sessions today.")
		return
	}

	for _, f := range ov.Films {
		fmt.Fprintf(w, "• %s: %s, %d sold, %d left (%.0f%% full)\n",
			f.Title, plural(f.Sessions, "session"), f.SeatsSold, f.SeatsAvailable, f.Occupancy*100)
		fmt.Fprintf(w, "  %v\n", f.Starts)
	}
	fmt.Fprintf(w, "\n%s across %s, %d sold out, average occupancy %.0f%%\n",
		plural(ov.Sessions, "session"), plural(len(ov.Films), "film"), ov.SoldOut, ov.Occupancy*100)
}
