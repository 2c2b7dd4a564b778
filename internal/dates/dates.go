// Package dates converts completion-day strings to and from calendar dates.
//
// Two spellings exist in storage. The legacy form carries a weekday and
// commas ("Wed, 8 Jan, 2026"); the compact form is canonical
// ("08 Jan 2026"). Every write produces the compact form.
package dates

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedDate is wrapped by every parse failure.
var ErrMalformedDate = errors.New("malformed date")

// ISOFormat is the layout accepted from command line flags and API clients.
const ISOFormat = "2006-01-02"

var monthAbbrevs = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

var weekdayAbbrevs = map[string]bool{
	"Sun": true, "Mon": true, "Tue": true, "Wed": true,
	"Thu": true, "Fri": true, "Sat": true,
}

var monthIndex = map[string]time.Month{
	"Jan": time.January,
	"Feb": time.February,
	"Mar": time.March,
	"Apr": time.April,
	"May": time.May,
	"Jun": time.June,
	"Jul": time.July,
	"Aug": time.August,
	"Sep": time.September,
	"Oct": time.October,
	"Nov": time.November,
	"Dec": time.December,
}

// ParseError describes why a stored day string could not be read.
type ParseError struct {
	Raw    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed date %q: %s", e.Raw, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrMalformedDate
}

// Date is a timezone-naive calendar day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// New builds a Date from explicit calendar fields. Out-of-range values
// roll over the same way time.Date does.
func New(year int, month time.Month, day int) Date {
	return fromUTC(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FromTime returns the calendar day of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func fromUTC(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Parse reads either stored format. The legacy form must open with a
// weekday abbreviation and a comma; the weekday itself is not checked
// against the date.
func Parse(raw string) (Date, error) {
	tokens := strings.Fields(raw)

	var dayTok, monthTok, yearTok string
	switch len(tokens) {
	case 3:
		dayTok, monthTok, yearTok = tokens[0], tokens[1], tokens[2]
	case 4:
		wd, ok := strings.CutSuffix(tokens[0], ",")
		if !ok || !weekdayAbbrevs[wd] {
			return Date{}, &ParseError{Raw: raw, Reason: fmt.Sprintf("expected weekday abbreviation and comma, got %q", tokens[0])}
		}
		dayTok = strings.TrimSuffix(tokens[1], ",")
		monthTok = strings.TrimSuffix(tokens[2], ",")
		yearTok = strings.TrimSuffix(tokens[3], ",")
	default:
		return Date{}, &ParseError{Raw: raw, Reason: fmt.Sprintf("expected 3 or 4 tokens, got %d", len(tokens))}
	}

	day, err := strconv.Atoi(dayTok)
	if err != nil {
		return Date{}, &ParseError{Raw: raw, Reason: fmt.Sprintf("day %q is not a number", dayTok)}
	}
	month, ok := monthIndex[monthTok]
	if !ok {
		return Date{}, &ParseError{Raw: raw, Reason: fmt.Sprintf("unknown month %q", monthTok)}
	}
	year, err := strconv.Atoi(yearTok)
	if err != nil {
		return Date{}, &ParseError{Raw: raw, Reason: fmt.Sprintf("year %q is not a number", yearTok)}
	}

	d := New(year, month, day)
	if d.Day != day || d.Month != month || d.Year != year {
		return Date{}, &ParseError{Raw: raw, Reason: fmt.Sprintf("day %d is out of range for %s %d", day, monthTok, year)}
	}
	return d, nil
}

// ParseISO reads a YYYY-MM-DD string.
func ParseISO(s string) (Date, error) {
	t, err := time.Parse(ISOFormat, strings.TrimSpace(s))
	if err != nil {
		return Date{}, &ParseError{Raw: s, Reason: "expected YYYY-MM-DD"}
	}
	return FromTime(t), nil
}

// ParseInput accepts ISO input as well as both stored formats.
func ParseInput(s string) (Date, error) {
	if d, err := ParseISO(s); err == nil {
		return d, nil
	}
	return Parse(s)
}

// ParseAll parses every string, returning the readable dates and one
// error per rejected input.
func ParseAll(raws []string) ([]Date, []error) {
	out := make([]Date, 0, len(raws))
	var errs []error
	for _, raw := range raws {
		d, err := Parse(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, d)
	}
	return out, errs
}

// IsCanonical reports whether raw is already in the compact form.
func IsCanonical(raw string) bool {
	d, err := Parse(raw)
	if err != nil {
		return false
	}
	return d.Format() == raw
}

// Format renders the compact form, e.g. "08 Jan 2026". The zero Date
// renders as "".
func (d Date) Format() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%02d %s %04d", d.Day, monthAbbrevs[d.Month-1], d.Year)
}

func (d Date) String() string {
	return d.Format()
}

// Legacy renders the verbose form, e.g. "Wed, 8 Jan, 2026". Only used to
// phrase dates for language models.
func (d Date) Legacy() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s, %d %s, %d", d.Weekday().String()[:3], d.Day, monthAbbrevs[d.Month-1], d.Year)
}

// ISO renders YYYY-MM-DD.
func (d Date) ISO() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// SortKey orders dates chronologically as plain integers.
func (d Date) SortKey() int {
	return d.Year*10000 + int(d.Month)*100 + d.Day
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Time returns midnight UTC of d. UTC has no DST, so whole-day
// subtraction is exact.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) AddDays(n int) Date {
	return New(d.Year, d.Month, d.Day+n)
}

func (d Date) AddMonths(n int) Date {
	return New(d.Year, d.Month+time.Month(n), d.Day)
}

func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

func (d Date) Before(o Date) bool { return d.SortKey() < o.SortKey() }
func (d Date) After(o Date) bool  { return d.SortKey() > o.SortKey() }
func (d Date) Equal(o Date) bool  { return d == o }

// FirstOfMonth returns the first day of d's month.
func (d Date) FirstOfMonth() Date {
	return Date{Year: d.Year, Month: d.Month, Day: 1}
}

// DaysInMonth returns the number of days in d's month.
func (d Date) DaysInMonth() int {
	return New(d.Year, d.Month+1, 0).Day
}

// DaysBetween returns b - a in whole days.
func DaysBetween(a, b Date) int {
	return int(b.Time().Sub(a.Time()).Hours() / 24)
}

// MarshalText emits the compact form.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.Format()), nil
}

// UnmarshalText accepts either stored format or ISO. Empty input yields
// the zero Date.
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseInput(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
