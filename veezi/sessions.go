package veezi

import (
	"strings"
	"time"

	"github.com/s0up4200/veezi/veezi/query"
)

// SessionList is a collection of sessions with chainable query helpers.
// Every helper returns a new list and leaves the receiver unchanged.
type SessionList []Session

// Sessions returns the underlying slice
func (l SessionList) Sessions() []Session {
	return []Session(l)
}

// Len returns the number of sessions
func (l SessionList) Len() int {
	return len(l)
}

// Where keeps sessions matching pred
func (l SessionList) Where(pred func(Session) bool) SessionList {
	return query.Filter(l, pred)
}

// FilterByScreen keeps sessions on the given screen
func (l SessionList) FilterByScreen(screenID int) SessionList {
	return l.Where(func(s Session) bool { return s.ScreenID == screenID })
}

// FilterByFilm keeps sessions screening the given film
func (l SessionList) FilterByFilm(filmID string) SessionList {
	return l.Where(func(s Session) bool { return s.FilmID == filmID })
}

// FilterContainingAttribute keeps sessions carrying the attribute ID
func (l SessionList) FilterContainingAttribute(attributeID string) SessionList {
	return l.Where(func(s Session) bool { return s.HasAttribute(attributeID) })
}

// FilterByStatus keeps sessions with the given status
func (l SessionList) FilterByStatus(status SessionStatus) SessionList {
	return l.Where(func(s Session) bool { return s.Status == status })
}

// FilterOnDate keeps sessions whose pre-show starts on date
func (l SessionList) FilterOnDate(date Date) SessionList {
	return l.Where(func(s Session) bool { return s.Date() == date })
}

// FilterByDateRange keeps sessions starting between start and end, inclusive
func (l SessionList) FilterByDateRange(start, end Date) SessionList {
	return l.Where(func(s Session) bool {
		d := s.Date()
		return !d.Before(start) && !d.After(end)
	})
}

// FilterToday keeps sessions starting on the current local date
func (l SessionList) FilterToday() SessionList {
	return l.FilterTodayAt(time.Now())
}

// FilterTodayAt keeps sessions starting on now's calendar date
func (l SessionList) FilterTodayAt(now time.Time) SessionList {
	return l.FilterOnDate(DateOf(now))
}

// FilterOpenForSales keeps sessions that can currently be sold
func (l SessionList) FilterOpenForSales() SessionList {
	return l.FilterOpenForSalesAt(time.Now())
}

// FilterOpenForSalesAt keeps sessions that can be sold at now
func (l SessionList) FilterOpenForSalesAt(now time.Time) SessionList {
	return l.Where(func(s Session) bool { return s.IsOpenForSales(now) })
}

// FilterWebSaleable keeps sessions that can currently be bought online
func (l SessionList) FilterWebSaleable() SessionList {
	return l.FilterWebSaleableAt(time.Now())
}

// FilterWebSaleableAt keeps public, open sessions sold online at now
func (l SessionList) FilterWebSaleableAt(now time.Time) SessionList {
	return l.Where(func(s Session) bool { return s.IsWebSaleable(now) })
}

// FilterHasAvailableSeats keeps sessions that are not sold out
func (l SessionList) FilterHasAvailableSeats() SessionList {
	return l.Where(func(s Session) bool { return s.HasAvailableSeats() })
}

// FilterByFormat keeps sessions presented in format
func (l SessionList) FilterByFormat(format FilmFormat) SessionList {
	return l.Where(func(s Session) bool { return s.FilmFormat == format })
}

// SortByStartTime orders sessions by pre-show start, earliest first
func (l SessionList) SortByStartTime() SessionList {
	return query.SortFunc(l, func(a, b Session) int {
		return a.PreShowStartTime.Compare(b.PreShowStartTime.Time)
	})
}

// SortByTitle orders sessions by title, case-insensitively
func (l SessionList) SortByTitle() SessionList {
	return query.SortBy(l, func(s Session) string { return strings.ToLower(s.Title) })
}

// SortBySeatsAvailable orders sessions by remaining seats, fewest first
func (l SessionList) SortBySeatsAvailable() SessionList {
	return query.SortBy(l, func(s Session) int { return s.SeatsAvailable })
}

// GroupByDate buckets sessions by start date in order of first appearance
func (l SessionList) GroupByDate() query.Groups[Date, Session] {
	return query.GroupBy(l, func(s Session) Date { return s.Date() })
}

// GroupByFilm buckets sessions by film ID in order of first appearance
func (l SessionList) GroupByFilm() query.Groups[string, Session] {
	return query.GroupBy(l, func(s Session) string { return s.FilmID })
}

// GroupByScreen buckets sessions by screen ID in order of first appearance
func (l SessionList) GroupByScreen() query.Groups[int, Session] {
	return query.GroupBy(l, func(s Session) int { return s.ScreenID })
}

// TotalSeatsAvailable sums available seats
func (l SessionList) TotalSeatsAvailable() int {
	return query.Sum(l, func(s Session) int { return s.SeatsAvailable })
}

// TotalSeatsSold sums sold seats
func (l SessionList) TotalSeatsSold() int {
	return query.Sum(l, func(s Session) int { return s.SeatsSold })
}

// AverageSeatsAvailable is the mean of available seats; false when empty
func (l SessionList) AverageSeatsAvailable() (float64, bool) {
	return query.Average(l, func(s Session) int { return s.SeatsAvailable })
}

// AverageOccupancy is the mean sold fraction; false when empty
func (l SessionList) AverageOccupancy() (float64, bool) {
	return query.Average(l, func(s Session) float64 { return s.Occupancy() })
}

// FilmIDs returns the distinct film IDs in order of first appearance
func (l SessionList) FilmIDs() []string {
	return l.GroupByFilm().Keys()
}
