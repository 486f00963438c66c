package dashboard_test

import (
	"context"
	"sync"

	"github.com/howstheair/dashboard/internal/airquality"
	"github.com/howstheair/dashboard/internal/backend"
)

// fakeBackend is an in-memory stand-in for the backend client.
type fakeBackend struct {
	mu sync.Mutex

	stations []airquality.Station
	readings []airquality.Reading
	lastSync *airquality.AuditLog
	search   map[string][]airquality.SearchStation

	syncErr     error
	toggleErr   error
	// toggleStuck answers toggles without changing the station.
	toggleStuck bool
	// createNoBody answers creates with an empty station.
	createNoBody bool
	lastSyncErr error
	syncResult  airquality.SyncResult

	syncCalls     int
	toggleCalls   int
	listCalls     int
	searchQueries []string
	readingFilter backend.ReadingFilter
}

func (f *fakeBackend) ListStations(context.Context) ([]airquality.Station, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	out := make([]airquality.Station, len(f.stations))
	copy(out, f.stations)
	return out, nil
}

func (f *fakeBackend) CreateStation(_ context.Context, req backend.CreateStationRequest) (*airquality.Station, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := airquality.Station{ID: len(f.stations) + 100, StationName: req.StationName, Keyword: req.Keyword, UID: req.UID, IsActive: true}
	f.stations = append(f.stations, st)
	if f.createNoBody {
		return &airquality.Station{}, nil
	}
	return &st, nil
}

func (f *fakeBackend) UpdateStationKeyword(_ context.Context, id int, keyword string) (*airquality.Station, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.stations {
		if f.stations[i].ID == id {
			f.stations[i].Keyword = keyword
			st := f.stations[i]
			return &st, nil
		}
	}
	return nil, airquality.ErrStationNotFound
}

func (f *fakeBackend) ToggleStation(_ context.Context, id int) (*airquality.Station, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toggleCalls++
	if f.toggleErr != nil {
		return nil, f.toggleErr
	}
	for i := range f.stations {
		if f.stations[i].ID == id {
			if !f.toggleStuck {
				f.stations[i].IsActive = !f.stations[i].IsActive
			}
			st := f.stations[i]
			return &st, nil
		}
	}
	return nil, airquality.ErrStationNotFound
}

func (f *fakeBackend) DeleteStation(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.stations {
		if f.stations[i].ID == id {
			f.stations = append(f.stations[:i], f.stations[i+1:]...)
			return nil
		}
	}
	return airquality.ErrStationNotFound
}

func (f *fakeBackend) SearchStations(_ context.Context, keyword string) ([]airquality.SearchStation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchQueries = append(f.searchQueries, keyword)
	return f.search[keyword], nil
}

func (f *fakeBackend) ListReadings(_ context.Context, filter backend.ReadingFilter) ([]airquality.Reading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readingFilter = filter
	return f.readings, nil
}

func (f *fakeBackend) History(context.Context, backend.HistoryFilter) ([]airquality.Reading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readings, nil
}

func (f *fakeBackend) Sync(context.Context) (*airquality.SyncResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.syncCalls++
	if f.syncErr != nil {
		return nil, f.syncErr
	}
	result := f.syncResult
	return &result, nil
}

func (f *fakeBackend) LastSync(context.Context) (*airquality.AuditLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastSync, f.lastSyncErr
}

func (f *fakeBackend) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searchQueries)
}

func (f *fakeBackend) setActive(id int, active bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.stations {
		if f.stations[i].ID == id {
			f.stations[i].IsActive = active
		}
	}
}

func (f *fakeBackend) station(id int) airquality.Station {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, st := range f.stations {
		if st.ID == id {
			return st
		}
	}
	return airquality.Station{}
}
