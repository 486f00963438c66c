package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/howstheair/dashboard/internal/airquality"
	"github.com/howstheair/dashboard/internal/backend"
)

// OverviewOptions tunes the analytics overview.
type OverviewOptions struct {
	// Days is how many most recent populated days the trend keeps.
	Days int
	// Location decides civil-day boundaries. Nil uses the service default.
	Location *time.Location
}

// Overview is the analytics page: summary cards, category pie and daily trend.
type Overview struct {
	Summary      airquality.Summary         `json:"summary"`
	Distribution []airquality.CategoryCount `json:"distribution"`
	Trend        []airquality.DailyAverage  `json:"trend"`
	GeneratedAt  time.Time                  `json:"generatedAt"`
}

// Overview fetches the latest readings and aggregates them.
func (s *Service) Overview(ctx context.Context, opts OverviewOptions) (*Overview, error) {
	if opts.Days <= 0 {
		opts.Days = s.trendDays
	}
	if opts.Location == nil {
		opts.Location = s.location
	}

	readings, err := s.backend.ListReadings(ctx, backend.ReadingFilter{})
	if err != nil {
		return nil, fmt.Errorf("loading readings: %w", err)
	}

	return BuildOverview(readings, opts, s.now()), nil
}

// BuildOverview aggregates readings into an Overview.
func BuildOverview(readings []airquality.Reading, opts OverviewOptions, now time.Time) *Overview {
	trend := airquality.DailyTrend(readings, opts.Location)
	return &Overview{
		Summary:      airquality.Summarize(readings),
		Distribution: airquality.CategoryDistribution(readings),
		Trend:        airquality.LastDays(trend, opts.Days),
		GeneratedAt:  now.UTC(),
	}
}
