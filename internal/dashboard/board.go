package dashboard

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/howstheair/dashboard/internal/airquality"
)

// StationBoard holds the station list as the operator sees it. Toggles are
// applied locally before the backend confirms them; on failure the list is
// re-fetched from the backend.
type StationBoard struct {
	backend StationBackend
	logger  zerolog.Logger

	mu       sync.RWMutex
	stations []airquality.Station

	// toggleMu serialises toggles so concurrent requests see each other's result.
	toggleMu sync.Mutex
}

// NewStationBoard creates an empty board.
func NewStationBoard(b StationBackend, logger zerolog.Logger) *StationBoard {
	return &StationBoard{backend: b, logger: logger}
}

// Load replaces the board with the backend's list.
func (b *StationBoard) Load(ctx context.Context) ([]airquality.Station, error) {
	stations, err := b.backend.ListStations(ctx)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.stations = stations
	b.mu.Unlock()

	return b.Stations(), nil
}

// Stations returns a copy of the current list.
func (b *StationBoard) Stations() []airquality.Station {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]airquality.Station, len(b.stations))
	copy(out, b.stations)
	return out
}

// Filter returns stations whose name or keyword contains text, ignoring case.
// Empty text returns everything.
func (b *StationBoard) Filter(text string) []airquality.Station {
	return FilterStations(b.Stations(), text)
}

// FilterStations matches text against station name and keyword, ignoring case.
func FilterStations(stations []airquality.Station, text string) []airquality.Station {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return stations
	}

	out := make([]airquality.Station, 0, len(stations))
	for _, st := range stations {
		if strings.Contains(strings.ToLower(st.StationName), needle) ||
			strings.Contains(strings.ToLower(st.Keyword), needle) {
			out = append(out, st)
		}
	}
	return out
}

// Toggle sets a station's active flag. The backend endpoint only flips, so
// the station's state is re-read from the backend before deciding whether to
// call it. The board reflects the new flag immediately; if the backend call
// fails or leaves the station in the other state, the board is reloaded and
// an error returned. A station already in the requested state is returned
// unchanged.
func (b *StationBoard) Toggle(ctx context.Context, id int, active bool) (*airquality.Station, error) {
	return b.toggle(ctx, id, func(bool) bool { return active })
}

// Flip inverts a station's active flag as the backend currently reports it.
func (b *StationBoard) Flip(ctx context.Context, id int) (*airquality.Station, error) {
	return b.toggle(ctx, id, func(current bool) bool { return !current })
}

func (b *StationBoard) toggle(ctx context.Context, id int, target func(current bool) bool) (*airquality.Station, error) {
	b.toggleMu.Lock()
	defer b.toggleMu.Unlock()

	if _, err := b.Load(ctx); err != nil {
		return nil, err
	}
	st, ok := b.find(id)
	if !ok {
		return nil, airquality.ErrStationNotFound
	}
	active := target(st.IsActive)
	if st.IsActive == active {
		return &st, nil
	}
	b.setActive(id, active)

	updated, err := b.backend.ToggleStation(ctx, id)
	if err != nil {
		b.reload(ctx, id)
		return nil, err
	}

	// The backend answered without a body.
	if updated == nil || updated.ID != id {
		b.reload(ctx, id)
		current, ok := b.find(id)
		if !ok || current.IsActive != active {
			return nil, fmt.Errorf("station %d: %w", id, airquality.ErrToggleConflict)
		}
		return &current, nil
	}
	if updated.IsActive != active {
		b.reload(ctx, id)
		return nil, fmt.Errorf("station %d: %w", id, airquality.ErrToggleConflict)
	}
	b.put(*updated)
	return updated, nil
}

func (b *StationBoard) reload(ctx context.Context, id int) {
	if _, err := b.Load(ctx); err != nil {
		b.logger.Warn().Err(err).Int("station_id", id).Msg("failed to reload stations after toggle")
	}
}

func (b *StationBoard) find(id int) (airquality.Station, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if idx := b.indexOf(id); idx >= 0 {
		return b.stations[idx], true
	}
	return airquality.Station{}, false
}

func (b *StationBoard) setActive(id int, active bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if idx := b.indexOf(id); idx >= 0 {
		b.stations[idx].IsActive = active
	}
}

// put inserts or replaces a station.
func (b *StationBoard) put(st airquality.Station) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if idx := b.indexOf(st.ID); idx >= 0 {
		b.stations[idx] = st
		return
	}
	b.stations = append(b.stations, st)
}

func (b *StationBoard) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if idx := b.indexOf(id); idx >= 0 {
		b.stations = append(b.stations[:idx], b.stations[idx+1:]...)
	}
}

// indexOf must be called with mu held.
func (b *StationBoard) indexOf(id int) int {
	for i := range b.stations {
		if b.stations[i].ID == id {
			return i
		}
	}
	return -1
}
