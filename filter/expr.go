package filter

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/veezi/veezi"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	now        func() time.Time
	custom     map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache[*exprFilter](size)
		}
	}
}

// WithCustomFunctions adds custom helper functions. They replace built-in
// helpers of the same name.
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.custom, funcs)
	}
}

// WithClock sets the time source behind now(), today() and the sales
// helpers. Filters keep the clock of the compiler that built them.
func WithClock(now func() time.Time) ExprCompilerOption {
	return func(c *exprCompiler) {
		if now != nil {
			c.now = now
		}
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		custom: make(map[string]any),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.static = staticEnvironment(c.now)
	maps.Copy(c.static, c.custom)
	return c
}

// exprCompiler implements Compiler for expr-based filters
type exprCompiler struct {
	custom map[string]any
	static map[string]any
	cache  *lruCache[*exprFilter]
	now    func() time.Time
}

// Compile compiles an expression into an executable filter. Shorthand syntax
// such as `screen:2 AND attribute:"SUB"` is expanded first.
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, newCompilationError(expression, "empty expression", nil)
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	source := expression
	if IsShorthand(source) {
		source = ExpandShorthand(source)
	}

	program, err := expr.Compile(source,
		expr.Env(c.static),
		expr.AllowUndefinedVariables(), // record fields are bound at run time
		expr.AsBool(),
	)
	if err != nil {
		return nil, newCompilationError(expression, "failed to compile expression", err)
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		now:        c.now,
		custom:     c.custom,
	}
	if c.cache != nil {
		c.cache.Put(expression, filter)
	}
	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

func (f *exprFilter) run(env map[string]any) bool {
	maps.Copy(env, f.custom)
	result, err := expr.Run(f.program, env)
	if err != nil {
		// A record missing a referenced field does not match
		return false
	}
	matched, ok := result.(bool)
	return ok && matched
}

// MatchSession evaluates the filter against a session
func (f *exprFilter) MatchSession(s veezi.Session) bool {
	return f.run(sessionEnvironment(s, f.now()))
}

// MatchFilm evaluates the filter against a film
func (f *exprFilter) MatchFilm(film veezi.Film) bool {
	return f.run(filmEnvironment(film, f.now()))
}

// Expression returns the expression as written
func (f *exprFilter) Expression() string {
	return f.expression
}

// staticEnvironment describes every helper for type checking. Record helpers
// are placeholders with the right signatures; the runtime environment binds
// them to the record being evaluated.
func staticEnvironment(now func() time.Time) map[string]any {
	env := make(map[string]any, 48)
	addHelperFunctions(env, now())

	never := func(string) bool { return false }
	env["hasAttribute"] = never
	env["sellsVia"] = never
	env["onDate"] = never
	env["hasActor"] = never
	env["hasDirector"] = never
	env["hasPerson"] = never
	env["today"] = func() bool { return false }
	env["openForSales"] = func() bool { return false }
	env["webSaleable"] = func() bool { return false }
	env["startsBefore"] = func(time.Time) bool { return false }
	env["startsAfter"] = func(time.Time) bool { return false }
	env["openedWithin"] = func(int) bool { return false }
	return env
}

// addHelperFunctions adds the record-independent helpers
func addHelperFunctions(env map[string]any, now time.Time) {
	// Date helpers; timestamps are wall clocks, so "now" is too
	wall := veezi.Wall(now)
	env["now"] = func() time.Time { return wall }
	env["daysAgo"] = func(days int) time.Time {
		return wall.AddDate(0, 0, -days)
	}
	env["daysAhead"] = func(days int) time.Time {
		return wall.AddDate(0, 0, days)
	}
	env["daysSince"] = func(t time.Time) int {
		return int(wall.Sub(t).Hours() / 24)
	}
	env["parseDate"] = func(s string) time.Time {
		t, _ := time.Parse(time.DateOnly, s)
		return t
	}
	env["parseTime"] = func(s string) time.Time {
		lt, _ := veezi.ParseLocalTime(s)
		return lt.Time
	}
	// String helpers. contains, startsWith and endsWith are expr operators
	// already, so the case-insensitive variants get their own names.
	env["containsFold"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWithFold"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
}

// sessionEnvironment creates the runtime environment for a session
func sessionEnvironment(s veezi.Session, now time.Time) map[string]any {
	env := make(map[string]any, 64)
	addHelperFunctions(env, now)

	env["Session"] = s
	env["ID"] = s.ID
	env["FilmID"] = s.FilmID
	env["Title"] = s.Title
	env["ScreenID"] = s.ScreenID
	env["Seating"] = string(s.Seating)
	env["ShowType"] = string(s.ShowType)
	env["Status"] = string(s.Status)
	env["Format"] = string(s.FilmFormat)
	env["PriceCard"] = s.PriceCardName
	env["Attributes"] = s.Attributes
	env["Language"] = s.Language()
	env["Start"] = s.PreShowStartTime.Time
	env["FeatureStart"] = s.FeatureStartTime.Time
	env["FeatureEnd"] = s.FeatureEndTime.Time
	env["SalesCutOff"] = s.SalesCutOffTime.Time
	env["Date"] = s.Date().String()
	env["SeatsAvailable"] = s.SeatsAvailable
	env["SeatsSold"] = s.SeatsSold
	env["SeatsHeld"] = s.SeatsHeld
	env["SeatsHouse"] = s.SeatsHouse
	env["Capacity"] = s.Capacity()
	env["Occupancy"] = s.Occupancy()
	env["SoldOut"] = s.TicketsSoldOut
	env["FewTicketsLeft"] = s.FewTicketsLeft
	env["ComplimentariesAllowed"] = s.AreComplimentariesAllowed
	env["InPackage"] = s.FilmPackageID != nil

	env["hasAttribute"] = func(id string) bool {
		return s.HasAttribute(id)
	}
	env["sellsVia"] = func(channel string) bool {
		return s.SalesVia.Allows(veezi.SalesChannel(strings.ToUpper(channel)))
	}
	env["onDate"] = func(date string) bool {
		return s.Date().String() == date
	}
	env["today"] = func() bool {
		return s.Date() == veezi.DateOf(now)
	}
	env["openForSales"] = func() bool {
		return s.IsOpenForSales(now)
	}
	env["webSaleable"] = func() bool {
		return s.IsWebSaleable(now)
	}
	env["startsBefore"] = func(t time.Time) bool {
		return s.PreShowStartTime.Before(t)
	}
	env["startsAfter"] = func(t time.Time) bool {
		return s.PreShowStartTime.After(t)
	}
	return env
}

// filmEnvironment creates the runtime environment for a film
func filmEnvironment(f veezi.Film, now time.Time) map[string]any {
	env := make(map[string]any, 48)
	addHelperFunctions(env, now)

	env["Film"] = f
	env["ID"] = f.ID
	env["Title"] = f.Title
	env["ShortName"] = f.ShortName
	env["Genre"] = f.Genre
	env["Distributor"] = f.Distributor
	env["Rating"] = f.RatingDisplay()
	env["Status"] = string(f.Status)
	env["Format"] = string(f.Format)
	env["Duration"] = f.Duration
	env["DisplaySequence"] = f.DisplaySequence
	env["OpeningDate"] = f.OpeningDate.Time
	env["IsRestricted"] = f.IsRestricted
	env["Active"] = f.IsActive()
	env["Is3D"] = f.Is3D()
	env["Is2D"] = f.Is2D()

	actors := lowerNames(f.Actors())
	directors := lowerNames(f.Directors())
	everyone := lowerNames(f.People)
	env["hasActor"] = func(name string) bool {
		return slices.Contains(actors, strings.ToLower(name))
	}
	env["hasDirector"] = func(name string) bool {
		return slices.Contains(directors, strings.ToLower(name))
	}
	env["hasPerson"] = func(name string) bool {
		return slices.Contains(everyone, strings.ToLower(name))
	}
	env["openedWithin"] = func(days int) bool {
		opened := f.OpeningDate.Time
		wall := veezi.Wall(now)
		return !opened.After(wall) && wall.Sub(opened) <= time.Duration(days)*24*time.Hour
	}
	return env
}

func lowerNames(people []veezi.Person) []string {
	names := make([]string, len(people))
	for i, p := range people {
		names[i] = strings.ToLower(p.FullName())
	}
	return names
}
