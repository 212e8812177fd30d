package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/s0up4200/veezi/filter"
	"github.com/s0up4200/veezi/veezi"
)

// filmOptions holds the films command flags
type filmOptions struct {
	active  bool
	threeD  bool
	genre   string
	rating  string
	match   string
	search  string
	filter  string
	sortBy  string
	details bool
}

var filmOpts filmOptions

// filmsCmd represents the films command
var filmsCmd = &cobra.Command{
	Use:   "films",
	Short: "List films matching the filter criteria",
	Long: `List the films known to the site. --search ranks titles by fuzzy match
score; --match keeps every title containing the characters in order.`,
	RunE: runFilms,
}

func init() {
	rootCmd.AddCommand(filmsCmd)

	f := filmsCmd.Flags()
	f.BoolVar(&filmOpts.active, "active", false, "only active films")
	f.BoolVar(&filmOpts.threeD, "3d", false, "only 3D films")
	f.StringVar(&filmOpts.genre, "genre", "", "only films of this genre")
	f.StringVar(&filmOpts.rating, "rating", "", "only films with this rating (NR for unrated)")
	f.StringVar(&filmOpts.match, "match", "", "fuzzy title filter")
	f.StringVarP(&filmOpts.search, "search", "s", "", "rank films by fuzzy title match")
	f.StringVarP(&filmOpts.filter, "filter", "f", "", "filter preset name or expression")
	f.StringVar(&filmOpts.sortBy, "sort", "title", "sort by title, sequence, opening or duration")
	f.BoolVar(&filmOpts.details, "details", false, "show credits and synopsis")
}

func runFilms(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	films, err := client.ListFilms(ctx)
	if err != nil {
		return fmt.Errorf("failed to list films: %w", err)
	}

	selected, err := selectFilms(ctx, filters, films, filmOpts)
	if err != nil {
		return err
	}

	p := newPrinter(os.Stdout, jsonOutput)
	if filmOpts.search != "" {
		return p.rankedFilms(selected.RankByTitle(filmOpts.search))
	}

	selected, err = sortFilms(selected, filmOpts.sortBy)
	if err != nil {
		return err
	}
	if filmOpts.details && !jsonOutput {
		for _, f := range selected {
			p.filmDetails(f)
		}
		return nil
	}
	return p.films(selected)
}

// selectFilms applies the typed flags and then the expression filter
func selectFilms(ctx context.Context, m *filter.Manager, films veezi.FilmList, opts filmOptions) (veezi.FilmList, error) {
	if opts.active {
		films = films.FilterActive()
	}
	if opts.threeD {
		films = films.Filter3D()
	}
	if opts.genre != "" {
		films = films.FilterByGenre(opts.genre)
	}
	if opts.rating != "" {
		films = films.FilterByRating(opts.rating)
	}
	if opts.match != "" {
		films = films.FilterTitleMatching(opts.match)
	}

	if opts.filter == "" {
		return films, nil
	}
	compiled, err := m.Resolve(opts.filter)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return filter.NewConcurrentEvaluator().Films(ctx, compiled, films)
}

func sortFilms(films veezi.FilmList, by string) (veezi.FilmList, error) {
	switch by {
	case "", "title":
		return films.SortByTitle(), nil
	case "sequence":
		return films.SortByDisplaySequence(), nil
	case "opening":
		return films.SortByOpeningDate(), nil
	case "duration":
		return films.SortByDuration(), nil
	default:
		return nil, fmt.Errorf("invalid --sort %q (must be title, sequence, opening or duration)", by)
	}
}
