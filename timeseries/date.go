// Package timeseries provides day-granularity dates and date-keyed value
// series, the building blocks of the price and rate books.
package timeseries

import (
	"fmt"
	"strings"
	"time"
)

// KeyFormat is the canonical textual representation of a date, as persisted
// in the workbook (dd-mm-yyyy).
const KeyFormat = "02-01-2006"

// ISOFormat is the representation used when querying providers.
const ISOFormat = "2006-01-02"

// Date represents a date with day-level granularity.
// Equality and ordering are by calendar day only, never time-of-day.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Today returns the current date.
func Today() Date { return New(time.Now().Date()) }

// FromTime truncates a time.Time to its calendar day.
func FromTime(t time.Time) Date { return New(t.Date()) }

// time returns the canonical representation of that day (midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// String formats the date in the canonical workbook form (dd-mm-yyyy).
func (d Date) String() string { return d.time().Format(KeyFormat) }

// ISO formats the date as yyyy-mm-dd for provider queries.
func (d Date) ISO() string { return d.time().Format(ISOFormat) }

// Unix returns the epoch seconds of the day at midnight UTC, the form
// expected by chart-style provider APIs.
func (d Date) Unix() int64 { return d.time().Unix() }

// Year returns the year of the date.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Day returns the day of the month.
func (d Date) Day() int { return d.d }

// IsZero returns true if the date is the zero value.
func (d Date) IsZero() bool { return d.y == 0 && d.m == 0 && d.d == 0 }

// Weekday returns the day of the week for the date.
func (d Date) Weekday() time.Weekday { return d.time().Weekday() }

// IsWeekend reports whether the date falls on a Saturday or Sunday, when
// market and FX observations do not exist.
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Compare returns -1, 0 or +1 depending on whether d is before, equal to, or
// after x.
func (d Date) Compare(x Date) int {
	if d.Before(x) {
		return -1
	}
	if d.After(x) {
		return 1
	}
	return 0
}

// Add returns a new Date with the given number of days added.
func (d Date) Add(days int) Date { return New(d.y, d.m, d.d+days) }

// Sub returns the number of calendar days between d and x (positive when d
// is after x).
func (d Date) Sub(x Date) int {
	return int(d.time().Sub(x.time()) / (24 * time.Hour))
}

// Parse parses a Date from its canonical dd-mm-yyyy form, falling back to
// the ISO yyyy-mm-dd form. Any other content is not a date: callers use the
// returned error to tell metadata rows apart from data rows.
func Parse(str string) (Date, error) {
	str = strings.TrimSpace(str)
	if t, err := time.Parse(KeyFormat, str); err == nil {
		return New(t.Date()), nil
	}
	if t, err := time.Parse(ISOFormat, str); err == nil {
		return New(t.Date()), nil
	}
	return Date{}, fmt.Errorf("invalid date %q: want %q or %q", str, KeyFormat, ISOFormat)
}

// MustParse is like Parse but panics on error. For tests and constants.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}
