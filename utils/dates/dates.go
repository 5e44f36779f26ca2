package dates

import (
	"time"

	"gorm.io/datatypes"
)

// Layout is the wire format for all date-only fields
const Layout = "2006-01-02"

// Parse parses a "YYYY-MM-DD" string into a date-only value
func Parse(s string) (datatypes.Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return datatypes.Date{}, err
	}
	return datatypes.Date(t), nil
}

// Today returns the current calendar day as a date-only value
func Today() datatypes.Date {
	now := time.Now()
	return datatypes.Date(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC))
}

// Time converts a date-only value back to a time.Time at midnight UTC
func Time(d datatypes.Date) time.Time {
	return time.Time(d)
}

// Format renders a date-only value as "YYYY-MM-DD"
func Format(d datatypes.Date) string {
	return time.Time(d).Format(Layout)
}

// SameDay reports whether two timestamps fall on the same calendar day
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// WithinRange reports whether day t falls inside [from, to] inclusive,
// comparing calendar days only.
func WithinRange(t, from, to time.Time) bool {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	until := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(f) && !day.After(until)
}
