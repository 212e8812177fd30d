package veezi

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// localTimeLayout is the upstream timestamp format. Fractional seconds are
// accepted when parsing even though the layout does not name them.
const localTimeLayout = "2006-01-02T15:04:05"

// LocalTime is a site-local wall-clock timestamp as sent by the API, which
// carries no zone. The wrapped time.Time holds the wall clock in UTC; use Wall
// to bring another instant onto the same scale before comparing.
type LocalTime struct {
	time.Time
}

// UnmarshalJSON parses the upstream timestamp format
func (t *LocalTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	parsed, err := ParseLocalTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON renders the timestamp in the upstream format
func (t LocalTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(localTimeLayout))
}

// ParseLocalTime parses a wall-clock timestamp. Zoned RFC 3339 input is
// accepted and reduced to its wall clock.
func ParseLocalTime(s string) (LocalTime, error) {
	s = strings.TrimSpace(s)
	if parsed, err := time.Parse(localTimeLayout, s); err == nil {
		return LocalTime{parsed}, nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return LocalTime{}, fmt.Errorf("invalid timestamp %q", s)
	}
	return LocalTime{Wall(parsed)}, nil
}

// Date returns the calendar date of the timestamp
func (t LocalTime) Date() Date {
	return DateOf(t.Time)
}

// Wall returns t's wall clock, in t's own location, re-expressed in UTC so it
// can be compared with LocalTime values.
func Wall(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// Date is a calendar date without time or zone
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD date
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// String formats the date as YYYY-MM-DD
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after o
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

// Before reports whether d is before o
func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

// After reports whether d is after o
func (d Date) After(o Date) bool { return d.Compare(o) > 0 }

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// requireFields checks that every named field is present and non-null in the
// JSON object.
func requireFields(data []byte, record string, fields ...string) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("%s: %w", record, err)
	}
	if obj == nil {
		return fmt.Errorf("%s: expected object, got null", record)
	}
	for _, f := range fields {
		raw, ok := obj[f]
		if !ok || string(raw) == "null" {
			return &MissingFieldError{Record: record, Field: f}
		}
	}
	return nil
}

// idList decodes the upstream `[{"Id":1},{"Id":2}]` shape into [1, 2]
type idList []int

// UnmarshalJSON implements json.Unmarshaler
func (l *idList) UnmarshalJSON(data []byte) error {
	var refs []struct {
		ID *int `json:"Id"`
	}
	if err := json.Unmarshal(data, &refs); err != nil {
		return err
	}
	ids := make([]int, 0, len(refs))
	for _, r := range refs {
		if r.ID == nil {
			return &MissingFieldError{Record: "id reference", Field: "Id"}
		}
		ids = append(ids, *r.ID)
	}
	*l = ids
	return nil
}

// MarshalJSON implements json.Marshaler
func (l idList) MarshalJSON() ([]byte, error) {
	refs := make([]struct {
		ID int `json:"Id"`
	}, len(l))
	for i, id := range l {
		refs[i].ID = id
	}
	return json.Marshal(refs)
}
