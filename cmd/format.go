package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/s0up4200/veezi/veezi"
)

const ruleWidth = 85

// printer renders results either as aligned text or as indented JSON
type printer struct {
	w    io.Writer
	json bool
}

func newPrinter(w io.Writer, asJSON bool) *printer {
	return &printer{w: w, json: asJSON}
}

func (p *printer) encode(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) rule() {
	fmt.Fprintln(p.w, strings.Repeat("━", ruleWidth))
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func (p *printer) sessions(sessions veezi.SessionList) error {
	if p.json {
		return p.encode(sessions)
	}
	if sessions.Len() == 0 {
		fmt.Fprintln(p.w, "No sessions found matching the criteria.")
		return nil
	}

	fmt.Fprintf(p.w, "Found %s:\n\n", plural(sessions.Len(), "session"))
	p.rule()
	fmt.Fprintf(p.w, "%-7s %-16s %-36s %-7s %-8s %s\n", "ID", "START", "FILM", "SCREEN", "SEATS", "STATUS")
	p.rule()
	for _, s := range sessions {
		p.sessionRow(s)
	}
	return nil
}

func (p *printer) sessionRow(s veezi.Session) {
	status := string(s.Status)
	switch {
	case s.TicketsSoldOut:
		status += " [SOLD OUT]"
	case s.FewTicketsLeft:
		status += " [FEW LEFT]"
	}
	fmt.Fprintf(p.w, "%-7d %-16s %-36s %-7d %-8d %s\n",
		s.ID,
		s.PreShowStartTime.Format("2006-01-02 15:04"),
		truncate(s.Title, 36),
		s.ScreenID,
		s.SeatsAvailable,
		status,
	)
}

// groupedSessions prints sessions under one heading per group
func (p *printer) groupedSessions(headings []string, groups []veezi.SessionList) error {
	if p.json {
		out := make(map[string]veezi.SessionList, len(groups))
		for i, h := range headings {
			out[h] = groups[i]
		}
		return p.encode(out)
	}
	if len(groups) == 0 {
		fmt.Fprintln(p.w, "No sessions found matching the criteria.")
		return nil
	}

	for i, h := range headings {
		fmt.Fprintf(p.w, "\n%s (%s)\n", h, plural(groups[i].Len(), "session"))
		p.rule()
		for _, s := range groups[i] {
			p.sessionRow(s)
		}
	}
	return nil
}

func (p *printer) films(films veezi.FilmList) error {
	if p.json {
		return p.encode(films)
	}
	if films.Len() == 0 {
		fmt.Fprintln(p.w, "No films found matching the criteria.")
		return nil
	}

	fmt.Fprintf(p.w, "Found %s:\n\n", plural(films.Len(), "film"))
	p.rule()
	fmt.Fprintf(p.w, "%-10s %-40s %-8s %-6s %-12s %s\n", "ID", "TITLE", "LENGTH", "RATING", "FORMAT", "GENRE")
	p.rule()
	for _, f := range films {
		fmt.Fprintf(p.w, "%-10s %-40s %-8s %-6s %-12s %s\n",
			f.ID,
			truncate(f.Title, 40),
			f.FormattedDuration(),
			f.RatingDisplay(),
			f.Format,
			f.Genre,
		)
	}
	return nil
}

func (p *printer) filmDetails(f veezi.Film) {
	fmt.Fprintf(p.w, "• %s (%s)\n", f.Title, f.ID)
	fmt.Fprintf(p.w, "  Runtime: %s  Rating: %s  Format: %s\n", f.FormattedDuration(), f.RatingDisplay(), f.Format)
	if directors := f.DirectorsFormatted(); directors != "" {
		fmt.Fprintf(p.w, "  Directed by: %s\n", directors)
	}
	if actors := f.ActorsFormatted(); actors != "" {
		fmt.Fprintf(p.w, "  Starring: %s\n", actors)
	}
	if f.Synopsis != nil && *f.Synopsis != "" {
		fmt.Fprintf(p.w, "  %s\n", *f.Synopsis)
	}
}

func (p *printer) rankedFilms(matches []veezi.TitleMatch) error {
	if p.json {
		return p.encode(matches)
	}
	if len(matches) == 0 {
		fmt.Fprintln(p.w, "No films found matching the search.")
		return nil
	}
	for _, m := range matches {
		fmt.Fprintf(p.w, "%5d  %-10s %s\n", m.Score, m.Film.ID, m.Film.Title)
	}
	return nil
}

func (p *printer) site(site *veezi.Site) error {
	if p.json {
		return p.encode(site)
	}
	fmt.Fprintf(p.w, "%s (%s)\n", site.Name, site.ShortName)
	fmt.Fprintf(p.w, "- Legal name: %s\n", site.LegalName)
	if addr := site.Address(); addr != "" {
		fmt.Fprintf(p.w, "- Address: %s\n", addr)
	}
	fmt.Fprintf(p.w, "- Country: %s\n", site.Country)
	fmt.Fprintf(p.w, "- Time zone: %s\n", site.TimeZoneIdentifier)
	fmt.Fprintf(p.w, "- Screens: %d\n", len(site.Screens))
	return nil
}

func (p *printer) screens(screens []veezi.Screen) error {
	if p.json {
		return p.encode(screens)
	}
	if len(screens) == 0 {
		fmt.Fprintln(p.w, "No screens found.")
		return nil
	}
	fmt.Fprintf(p.w, "%-5s %-30s %-8s %-7s %s\n", "ID", "NAME", "NUMBER", "SEATS", "SELLABLE")
	p.rule()
	for _, s := range screens {
		fmt.Fprintf(p.w, "%-5d %-30s %-8s %-7d %d\n", s.ID, truncate(s.Name, 30), s.ScreenNumber, s.TotalSeats, s.SellableSeats())
	}
	return nil
}

func (p *printer) attributes(attrs []veezi.Attribute) error {
	if p.json {
		return p.encode(attrs)
	}
	if len(attrs) == 0 {
		fmt.Fprintln(p.w, "No attributes found.")
		return nil
	}
	for _, a := range attrs {
		fmt.Fprintf(p.w, "  • %s: %s (%s)\n", a.ID, a.Description, a.ShortName)
	}
	return nil
}

func (p *printer) packages(packages []veezi.FilmPackage) error {
	if p.json {
		return p.encode(packages)
	}
	if len(packages) == 0 {
		fmt.Fprintln(p.w, "No film packages found.")
		return nil
	}
	for _, pkg := range packages {
		fmt.Fprintf(p.w, "• %s (ID: %d, %s)\n", pkg.Title, pkg.ID, pkg.Status)
		for _, f := range pkg.OrderedFilms() {
			fmt.Fprintf(p.w, "  %d. %s [%s] %.0f%%\n", f.Order, f.Title, f.FilmID, f.SplitPercent)
		}
	}
	return nil
}
