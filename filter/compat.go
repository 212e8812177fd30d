package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type shorthandRule struct {
	pattern *regexp.Regexp
	expand  func(m []string) string
}

// quoted or bare values: key:"some value" or key:value
const shorthandValue = `(?:"([^"]*)"|([^\s()"]+))`

func shorthand(key string, expand func(value string) string) shorthandRule {
	return shorthandRule{
		pattern: regexp.MustCompile(`\b` + key + `(!?):` + shorthandValue),
		expand: func(m []string) string {
			value := m[2]
			if value == "" {
				value = m[3]
			}
			out := expand(value)
			if m[1] == "!" {
				return "not (" + out + ")"
			}
			return out
		},
	}
}

var shorthandRules = []shorthandRule{
	shorthand("film", func(v string) string { return fmt.Sprintf(`FilmID == %q`, v) }),
	shorthand("screen", func(v string) string { return fmt.Sprintf(`ScreenID == %s`, numeric(v)) }),
	shorthand("attribute", func(v string) string { return fmt.Sprintf(`hasAttribute(%q)`, v) }),
	shorthand("status", func(v string) string { return fmt.Sprintf(`lower(Status) == %q`, strings.ToLower(v)) }),
	shorthand("format", func(v string) string { return fmt.Sprintf(`lower(Format) == %q`, strings.ToLower(v)) }),
	shorthand("genre", func(v string) string { return fmt.Sprintf(`lower(Genre) == %q`, strings.ToLower(v)) }),
	shorthand("rating", func(v string) string { return fmt.Sprintf(`upper(Rating) == %q`, strings.ToUpper(v)) }),
	shorthand("date", func(v string) string { return fmt.Sprintf(`onDate(%q)`, v) }),
	shorthand("via", func(v string) string { return fmt.Sprintf(`sellsVia(%q)`, v) }),
	shorthand("actor", func(v string) string { return fmt.Sprintf(`hasActor(%q)`, v) }),
	shorthand("director", func(v string) string { return fmt.Sprintf(`hasDirector(%q)`, v) }),
	shorthand("open", func(v string) string {
		if strings.EqualFold(v, "false") {
			return "not openForSales()"
		}
		return "openForSales()"
	}),
	{
		// seats:>10, seats:<=5, seats:0
		pattern: regexp.MustCompile(`\bseats:(>=|<=|>|<|=)?(\d+)`),
		expand: func(m []string) string {
			op := m[1]
			if op == "" || op == "=" {
				op = "=="
			}
			return fmt.Sprintf(`SeatsAvailable %s %s`, op, m[2])
		},
	},
}

// numeric leaves integers bare and quotes anything else
func numeric(v string) string {
	if _, err := strconv.Atoi(v); err == nil {
		return v
	}
	return strconv.Quote(v)
}

// ExpandShorthand rewrites the key:value shorthand into an expr expression.
// AND, OR and NOT are accepted in upper case.
func ExpandShorthand(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}

	out := " " + s + " "
	out = strings.ReplaceAll(out, " AND ", " and ")
	out = strings.ReplaceAll(out, " OR ", " or ")
	out = strings.ReplaceAll(out, " NOT ", " not ")
	out = strings.ReplaceAll(out, "(NOT ", "(not ")

	for _, rule := range shorthandRules {
		out = rule.pattern.ReplaceAllStringFunc(out, func(match string) string {
			return rule.expand(rule.pattern.FindStringSubmatch(match))
		})
	}
	return strings.TrimSpace(out)
}

// IsShorthand reports whether s uses the key:value shorthand
func IsShorthand(s string) bool {
	for _, rule := range shorthandRules {
		if rule.pattern.MatchString(s) {
			return true
		}
	}
	return false
}
