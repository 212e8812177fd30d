package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/veezi/filter"
	"github.com/s0up4200/veezi/veezi"
)

// sessionOptions holds the sessions command flags
type sessionOptions struct {
	web       bool
	today     bool
	open      bool
	available bool
	date      string
	film      string
	screen    int
	attribute string
	filter    string
	sortBy    string
	groupBy   string
}

var sessionOpts sessionOptions

// sessionsCmd represents the sessions command
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List sessions matching the filter criteria",
	Long: `List scheduled sessions. Flags narrow the list; --filter takes either a
preset name from the config file or an expression such as:

  screen:2 AND attribute:SUB
  openForSales() and SeatsAvailable > 20`,
	RunE: runSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)

	f := sessionsCmd.Flags()
	f.BoolVar(&sessionOpts.web, "web", false, "list web sessions only")
	f.BoolVar(&sessionOpts.today, "today", false, "only sessions starting today")
	f.BoolVar(&sessionOpts.open, "open", false, "only sessions open for sales")
	f.BoolVar(&sessionOpts.available, "available", false, "only sessions with seats left")
	f.StringVar(&sessionOpts.date, "date", "", "only sessions on this date (YYYY-MM-DD)")
	f.StringVar(&sessionOpts.film, "film", "", "only sessions of this film ID")
	f.IntVar(&sessionOpts.screen, "screen", 0, "only sessions on this screen ID")
	f.StringVar(&sessionOpts.attribute, "attribute", "", "only sessions carrying this attribute ID")
	f.StringVarP(&sessionOpts.filter, "filter", "f", "", "filter preset name or expression")
	f.StringVar(&sessionOpts.sortBy, "sort", "time", "sort by time, title or seats")
	f.StringVar(&sessionOpts.groupBy, "group", "", "group by date, film or screen")
}

func runSessions(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	list := client.ListSessions
	if sessionOpts.web {
		list = client.ListWebSessions
	}
	sessions, err := list(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	selected, err := selectSessions(ctx, filters, sessions, sessionOpts, time.Now())
	if err != nil {
		return err
	}
	selected, err = sortSessions(selected, sessionOpts.sortBy)
	if err != nil {
		return err
	}

	logger.Debug().
		Int("total", sessions.Len()).
		Int("matched", selected.Len()).
		Msg("Filtered sessions")

	p := newPrinter(os.Stdout, jsonOutput)
	if sessionOpts.groupBy == "" {
		return p.sessions(selected)
	}
	headings, groups, err := groupSessions(selected, sessionOpts.groupBy)
	if err != nil {
		return err
	}
	return p.groupedSessions(headings, groups)
}

// selectSessions applies the typed flags and then the expression filter
func selectSessions(ctx context.Context, m *filter.Manager, sessions veezi.SessionList, opts sessionOptions, now time.Time) (veezi.SessionList, error) {
	if opts.today {
		sessions = sessions.FilterTodayAt(now)
	}
	if opts.date != "" {
		date, err := veezi.ParseDate(opts.date)
		if err != nil {
			return nil, fmt.Errorf("invalid --date: %w", err)
		}
		sessions = sessions.FilterOnDate(date)
	}
	if opts.open {
		sessions = sessions.FilterOpenForSalesAt(now)
	}
	if opts.available {
		sessions = sessions.FilterHasAvailableSeats()
	}
	if opts.film != "" {
		sessions = sessions.FilterByFilm(opts.film)
	}
	if opts.screen != 0 {
		sessions = sessions.FilterByScreen(opts.screen)
	}
	if opts.attribute != "" {
		sessions = sessions.FilterContainingAttribute(opts.attribute)
	}

	if opts.filter == "" {
		return sessions, nil
	}
	compiled, err := m.Resolve(opts.filter)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return filter.NewConcurrentEvaluator().Sessions(ctx, compiled, sessions)
}

func sortSessions(sessions veezi.SessionList, by string) (veezi.SessionList, error) {
	switch by {
	case "", "time":
		return sessions.SortByStartTime(), nil
	case "title":
		return sessions.SortByTitle(), nil
	case "seats":
		return sessions.SortBySeatsAvailable(), nil
	default:
		return nil, fmt.Errorf("invalid --sort %q (must be time, title or seats)", by)
	}
}

func groupSessions(sessions veezi.SessionList, by string) ([]string, []veezi.SessionList, error) {
	var (
		headings []string
		groups   []veezi.SessionList
	)
	switch by {
	case "date":
		for _, g := range sessions.GroupByDate() {
			headings = append(headings, g.Key.String())
			groups = append(groups, g.Items)
		}
	case "film":
		for _, g := range sessions.GroupByFilm() {
			title := g.Key
			if len(g.Items) > 0 {
				title = fmt.Sprintf("%s [%s]", g.Items[0].Title, g.Key)
			}
			headings = append(headings, title)
			groups = append(groups, g.Items)
		}
	case "screen":
		for _, g := range sessions.GroupByScreen() {
			headings = append(headings, "Screen "+strconv.Itoa(g.Key))
			groups = append(groups, g.Items)
		}
	default:
		return nil, nil, fmt.Errorf("invalid --group %q (must be date, film or screen)", by)
	}
	return headings, groups, nil
}
