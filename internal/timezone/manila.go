// Package timezone pins business dates to Asia/Manila.
package timezone

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

const Name = "Asia/Manila"

// DisplayLayout is the layout used for human-facing timestamps.
const DisplayLayout = "2006-01-02 15:04:05"

var location = mustLoad()

func mustLoad() *time.Location {
	loc, err := time.LoadLocation(Name)
	if err != nil {
		// Manila has had no DST since 1978, a fixed offset is equivalent.
		return time.FixedZone(Name, 8*60*60)
	}
	return loc
}

func Location() *time.Location { return location }

// Now returns the current instant in Manila time.
func Now() time.Time { return time.Now().In(location) }

// Layouts without an explicit offset are interpreted as Manila wall time.
var localLayouts = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006",
}

// Parse reads a date or date-time. Inputs carrying an offset keep it; all
// other inputs are read as Manila wall time.
func Parse(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.In(location), nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, v, location); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", value)
}

// StartOfDay returns 00:00:00.000 of t's Manila calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, location)
}

// EndOfDay returns 23:59:59.999 of t's Manila calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.In(location).Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), location)
}

func Format(t time.Time) string {
	return t.In(location).Format(DisplayLayout)
}
