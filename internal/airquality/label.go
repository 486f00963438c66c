package airquality

import (
	"fmt"
	"time"
)

// Short month names in Indonesian, the locale the dashboard is shown in.
var idMonths = [...]string{
	"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
	"Jul", "Agu", "Sep", "Okt", "Nov", "Des",
}

// DayLabel formats a YYYY-MM-DD key as "dd MMM", e.g. "2024-12-18" -> "18 Des".
// Keys that do not parse are returned unchanged.
func DayLabel(dayKey string) string {
	t, err := time.Parse(DayKeyLayout, dayKey)
	if err != nil {
		return dayKey
	}
	return fmt.Sprintf("%02d %s", t.Day(), idMonths[t.Month()-1])
}

// TimestampLabel formats t as "dd MMM yyyy, HH:mm" in loc, matching the
// recorded-at column of the readings table.
func TimestampLabel(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return fmt.Sprintf("%02d %s %d, %02d:%02d", t.Day(), idMonths[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}
