package airquality

import (
	"math"
	"sort"
	"strconv"
	"time"
)

// DayKeyLayout is the canonical layout of a daily bucket key.
const DayKeyLayout = "2006-01-02"

// CategoryCount is one slice of the category distribution chart.
type CategoryCount struct {
	Category string `json:"name"`
	Count    int    `json:"value"`

	// Color is the chart fill for the category.
	Color string `json:"color"`
}

// DailyAverage is one bar of the daily trend chart.
type DailyAverage struct {
	// Day is the canonical YYYY-MM-DD bucket key.
	Day string `json:"day"`
	// Label is the display form of Day, e.g. "18 Des".
	Label string `json:"date"`
	// AvgAQI is the rounded mean AQI of the bucket.
	AvgAQI int `json:"avgAqi"`
	// Count is the number of readings in the bucket.
	Count int `json:"count"`
}

// CategoryDistribution counts readings per category. Readings without a
// category are counted under UnknownCategory. Pairs appear in the order their
// category was first seen.
func CategoryDistribution(readings []Reading) []CategoryCount {
	out := make([]CategoryCount, 0)
	index := make(map[string]int)

	for _, r := range readings {
		label := r.CategoryLabel()
		i, ok := index[label]
		if !ok {
			index[label] = len(out)
			out = append(out, CategoryCount{Category: label, Count: 1, Color: CategoryColor(label)})
			continue
		}
		out[i].Count++
	}

	return out
}

// DailyTrend buckets readings by the civil day of RecordedAt in loc (UTC when
// nil) and returns the rounded mean AQI per day, oldest first. Days without
// readings are not emitted.
func DailyTrend(readings []Reading, loc *time.Location) []DailyAverage {
	if loc == nil {
		loc = time.UTC
	}

	type bucket struct {
		total float64
		count int
	}
	buckets := make(map[string]*bucket)

	for _, r := range readings {
		key := DayKey(r.RecordedAt, loc)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.total += r.AQI
		b.count++
	}

	days := make([]string, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	// YYYY-MM-DD sorts lexically in calendar order.
	sort.Strings(days)

	out := make([]DailyAverage, 0, len(days))
	for _, day := range days {
		b := buckets[day]
		out = append(out, DailyAverage{
			Day:    day,
			Label:  DayLabel(day),
			AvgAQI: int(math.Round(b.total / float64(b.count))),
			Count:  b.count,
		})
	}

	return out
}

// LastDays keeps the n most recent buckets of an ascending trend.
// A non-positive n keeps all of them.
func LastDays(trend []DailyAverage, n int) []DailyAverage {
	if n <= 0 || len(trend) <= n {
		return trend
	}
	return trend[len(trend)-n:]
}

// DayKey returns the YYYY-MM-DD key of t in loc.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DayKeyLayout)
}

// Summary holds the headline figures shown above the charts.
type Summary struct {
	TotalReadings int     `json:"totalReadings"`
	Stations      int     `json:"stations"`
	AvgAQI        int     `json:"avgAqi"`
	Verdict       string  `json:"verdict"`
	Band          AQIBand `json:"band"`
}

// UnhealthyThreshold is the overall mean AQI above which the summary verdict
// turns unhealthy.
const UnhealthyThreshold = 100

// Summarize computes the headline figures for a set of readings.
func Summarize(readings []Reading) Summary {
	stations := make(map[string]struct{})
	var total float64

	for _, r := range readings {
		total += r.AQI
		if key := stationKey(r); key != "" {
			stations[key] = struct{}{}
		}
	}

	avg := 0
	if len(readings) > 0 {
		avg = int(math.Round(total / float64(len(readings))))
	}

	verdict := CategoryGood
	if avg > UnhealthyThreshold {
		verdict = CategoryUnhealthy
	}

	return Summary{
		TotalReadings: len(readings),
		Stations:      len(stations),
		AvgAQI:        avg,
		Verdict:       verdict,
		Band:          BandFor(float64(avg)),
	}
}

func stationKey(r Reading) string {
	switch {
	case r.Station != nil && r.Station.ID != 0:
		return "id:" + strconv.Itoa(r.Station.ID)
	case r.StationID != 0:
		return "id:" + strconv.Itoa(r.StationID)
	case r.StationName() != "":
		return "name:" + r.StationName()
	default:
		return ""
	}
}
