package dashboard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/howstheair/dashboard/internal/activity"
	"github.com/howstheair/dashboard/internal/airquality"
	"github.com/howstheair/dashboard/internal/backend"
	"github.com/howstheair/dashboard/internal/dashboard"
)

var testNow = time.Date(2024, 12, 18, 12, 0, 0, 0, time.UTC)

func newService(fb *fakeBackend) *dashboard.Service {
	return dashboard.NewService(dashboard.ServiceConfig{
		Backend: fb,
		Logger:  zerolog.Nop(),
		Now:     func() time.Time { return testNow },
	})
}

func TestService_Overview(t *testing.T) {
	jkt := &airquality.Station{ID: 1, StationName: "Jakarta"}
	fb := &fakeBackend{readings: []airquality.Reading{
		{AQI: 150, Category: "Unhealthy", RecordedAt: testNow.Add(-48 * time.Hour), Station: jkt},
		{AQI: 50, Category: "Good", RecordedAt: testNow.Add(-24 * time.Hour), Station: jkt},
		{AQI: 70, Category: "Moderate", RecordedAt: testNow, Station: jkt},
	}}

	overview, err := newService(fb).Overview(context.Background(), dashboard.OverviewOptions{Days: 2})
	require.NoError(t, err)

	assert.Equal(t, 3, overview.Summary.TotalReadings)
	assert.Equal(t, 1, overview.Summary.Stations)
	assert.Equal(t, 90, overview.Summary.AvgAQI)
	assert.Len(t, overview.Distribution, 3)
	require.Len(t, overview.Trend, 2)
	assert.Equal(t, "2024-12-17", overview.Trend[0].Day)
	assert.Equal(t, "2024-12-18", overview.Trend[1].Day)
	assert.Equal(t, testNow, overview.GeneratedAt)
}

func TestService_Overview_DefaultDays(t *testing.T) {
	var readings []airquality.Reading
	for i := 0; i < 20; i++ {
		readings = append(readings, airquality.Reading{AQI: 10, RecordedAt: testNow.AddDate(0, 0, -i)})
	}

	overview, err := newService(&fakeBackend{readings: readings}).Overview(context.Background(), dashboard.OverviewOptions{})
	require.NoError(t, err)
	assert.Len(t, overview.Trend, dashboard.DefaultTrendDays)
}

func TestService_DataPage_FreshSkipsSync(t *testing.T) {
	fb := &fakeBackend{lastSync: &airquality.AuditLog{ID: 1, PerformedAt: testNow.Add(-5 * time.Minute)}}

	page, err := newService(fb).DataPage(context.Background(), backend.ReadingFilter{Search: "jak"})
	require.NoError(t, err)

	assert.Zero(t, fb.syncCalls)
	assert.False(t, page.AutoSynced)
	assert.Equal(t, 1, page.LastSync.ID)
	assert.Equal(t, "jak", fb.readingFilter.Search)
}

func TestService_DataPage_StaleTriggersSync(t *testing.T) {
	fb := &fakeBackend{
		lastSync:   &airquality.AuditLog{ID: 1, PerformedAt: testNow.Add(-16 * time.Minute)},
		syncResult: airquality.SyncResult{SyncedCount: 4},
	}
	svc := newService(fb)

	page, err := svc.DataPage(context.Background(), backend.ReadingFilter{})
	require.NoError(t, err)

	assert.Equal(t, 1, fb.syncCalls)
	assert.True(t, page.AutoSynced)
	assert.Empty(t, page.SyncError)

	entries, _ := svc.Activity().List(context.Background(), 10)
	require.Len(t, entries, 1)
	assert.Equal(t, activity.ActionSyncAuto, entries[0].Action)
	assert.Equal(t, activity.OutcomeSuccess, entries[0].Outcome)
}

func TestService_DataPage_MissingSyncTriggersSync(t *testing.T) {
	fb := &fakeBackend{}

	page, err := newService(fb).DataPage(context.Background(), backend.ReadingFilter{})
	require.NoError(t, err)

	assert.Equal(t, 1, fb.syncCalls)
	assert.True(t, page.AutoSynced)
}

func TestService_DataPage_SyncFailureStillReturnsData(t *testing.T) {
	fb := &fakeBackend{
		syncErr:  &backend.APIError{StatusCode: 502, Message: "WAQI timeout"},
		readings: []airquality.Reading{{ID: 1, AQI: 42}},
	}

	page, err := newService(fb).DataPage(context.Background(), backend.ReadingFilter{})
	require.NoError(t, err)

	assert.Len(t, page.Readings, 1)
	assert.Equal(t, "WAQI timeout", page.SyncError)
}

func TestService_DataPage_InvalidRange(t *testing.T) {
	_, err := newService(&fakeBackend{}).DataPage(context.Background(), backend.ReadingFilter{
		StartDate: testNow,
		EndDate:   testNow.AddDate(0, 0, -1),
	})
	assert.ErrorIs(t, err, airquality.ErrInvalidDateRange)
}

func TestService_EnsureFresh(t *testing.T) {
	fb := &fakeBackend{lastSync: &airquality.AuditLog{PerformedAt: testNow.Add(-15 * time.Minute)}}
	svc := newService(fb)

	synced, err := svc.EnsureFresh(context.Background())
	require.NoError(t, err)
	assert.False(t, synced, "exactly the freshness window is still fresh")

	fb.lastSync = &airquality.AuditLog{PerformedAt: testNow.Add(-15*time.Minute - time.Second)}
	synced, err = svc.EnsureFresh(context.Background())
	require.NoError(t, err)
	assert.True(t, synced)
}

func TestService_EnsureFresh_LastSyncError(t *testing.T) {
	fb := &fakeBackend{lastSyncErr: errors.New("connection refused")}

	synced, err := newService(fb).EnsureFresh(context.Background())
	assert.Error(t, err)
	assert.False(t, synced)
	assert.Zero(t, fb.syncCalls)
}

func TestService_Sync_RecordsActivity(t *testing.T) {
	fb := &fakeBackend{syncResult: airquality.SyncResult{Message: "ok", SyncedCount: 7}}
	svc := newService(fb)

	result, err := svc.Sync(context.Background(), "ops@example.com")
	require.NoError(t, err)
	assert.Equal(t, 7, result.SyncedCount)

	fb.syncErr = errors.New("boom")
	_, err = svc.Sync(context.Background(), "ops@example.com")
	assert.Error(t, err)

	entries, _ := svc.Activity().List(context.Background(), 10)
	require.Len(t, entries, 2)
	assert.Equal(t, activity.OutcomeFailure, entries[0].Outcome)
	assert.Equal(t, "7 stations synced", entries[1].Detail)
	assert.Equal(t, "ops@example.com", entries[1].Actor)
}

func TestService_ForceSync_RecordsAutomaticSync(t *testing.T) {
	fb := &fakeBackend{syncResult: airquality.SyncResult{SyncedCount: 5}}
	svc := newService(fb)

	result, err := svc.ForceSync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, result.SyncedCount)

	entries, _ := svc.Activity().List(context.Background(), 10)
	require.Len(t, entries, 1)
	assert.Equal(t, activity.ActionSyncAuto, entries[0].Action)
	assert.Equal(t, activity.SystemActor, entries[0].Actor)
	assert.Equal(t, "5 stations synced", entries[0].Detail)
}

func TestService_StationMutations(t *testing.T) {
	fb := &fakeBackend{stations: []airquality.Station{{ID: 1, StationName: "Jakarta", Keyword: "jakarta", IsActive: true}}}
	svc := newService(fb)
	ctx := context.Background()

	created, err := svc.CreateStation(ctx, "ops", backend.CreateStationRequest{Keyword: "@42", StationName: "Bandung", UID: 42})
	require.NoError(t, err)

	_, err = svc.RenameStation(ctx, "ops", created.ID, "bandung")
	require.NoError(t, err)

	stations, err := svc.Stations(ctx, "BAND")
	require.NoError(t, err)
	require.Len(t, stations, 1)
	assert.Equal(t, "bandung", stations[0].Keyword)

	require.NoError(t, svc.DeleteStation(ctx, "ops", created.ID))
	assert.Len(t, svc.Board().Stations(), 1)

	entries, _ := svc.Activity().List(ctx, 10)
	require.Len(t, entries, 3)
	assert.Equal(t, activity.ActionStationDelete, entries[0].Action)
	assert.Equal(t, activity.ActionStationUpdate, entries[1].Action)
	assert.Equal(t, activity.ActionStationCreate, entries[2].Action)
}

func TestService_FlipStation(t *testing.T) {
	fb := &fakeBackend{stations: []airquality.Station{{ID: 5, StationName: "Medan", Keyword: "medan", IsActive: true}}}
	svc := newService(fb)
	ctx := context.Background()

	st, err := svc.FlipStation(ctx, "ops", 5)
	require.NoError(t, err)
	assert.False(t, st.IsActive)

	st, err = svc.FlipStation(ctx, "ops", 5)
	require.NoError(t, err)
	assert.True(t, st.IsActive)
	assert.Equal(t, 2, fb.toggleCalls)

	_, err = svc.FlipStation(ctx, "ops", 404)
	assert.ErrorIs(t, err, airquality.ErrStationNotFound)

	entries, _ := svc.Activity().List(ctx, 10)
	require.Len(t, entries, 3)
	assert.Equal(t, activity.OutcomeFailure, entries[0].Outcome)
	assert.Equal(t, "activated", entries[1].Detail)
}

func TestService_SetStationActive_StaleBoard(t *testing.T) {
	fb := &fakeBackend{stations: []airquality.Station{{ID: 3, StationName: "Surabaya", Keyword: "surabaya"}}}
	svc := newService(fb)
	ctx := context.Background()
	_, err := svc.Stations(ctx, "")
	require.NoError(t, err)

	fb.setActive(3, true)

	st, err := svc.SetStationActive(ctx, "op", 3, true)
	require.NoError(t, err)

	assert.True(t, st.IsActive)
	assert.True(t, fb.station(3).IsActive)
	assert.Zero(t, fb.toggleCalls)
}

func TestService_SetStationActive_Conflict(t *testing.T) {
	fb := &fakeBackend{stations: []airquality.Station{{ID: 3, StationName: "Surabaya", Keyword: "surabaya"}}, toggleStuck: true}
	svc := newService(fb)
	ctx := context.Background()

	_, err := svc.SetStationActive(ctx, "op", 3, true)
	assert.ErrorIs(t, err, airquality.ErrToggleConflict)

	entries, _ := svc.Activity().List(ctx, 10)
	require.Len(t, entries, 1)
	assert.Equal(t, activity.OutcomeFailure, entries[0].Outcome)
}

func TestService_CreateStation_EmptyBodyReloads(t *testing.T) {
	fb := &fakeBackend{createNoBody: true}
	svc := newService(fb)
	ctx := context.Background()

	_, err := svc.CreateStation(ctx, "op", backend.CreateStationRequest{Keyword: "medan", StationName: "Medan", UID: 42})
	require.NoError(t, err)

	stations := svc.Board().Stations()
	require.Len(t, stations, 1)
	assert.NotZero(t, stations[0].ID)
	assert.Equal(t, "Medan", stations[0].StationName)
}

func TestService_History_InvalidRange(t *testing.T) {
	svc := newService(&fakeBackend{})

	_, err := svc.History(context.Background(), backend.HistoryFilter{
		StartDate: testNow,
		EndDate:   testNow.AddDate(0, 0, -1),
	})

	assert.ErrorIs(t, err, airquality.ErrInvalidDateRange)
}
