package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/howstheair/dashboard/internal/airquality"
	"github.com/howstheair/dashboard/internal/backend"
	"github.com/howstheair/dashboard/internal/provider/resilience"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *backend.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := resilience.DefaultClientConfig("test")
	cfg.InitialInterval = time.Millisecond
	cfg.MaxInterval = 5 * time.Millisecond

	return backend.NewClient(backend.ClientConfig{
		BaseURL:    server.URL + "/",
		HTTPClient: resilience.NewClient(cfg),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_ListStations(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/cities", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":1,"stationName":"Jakarta GBK","keyword":"jakarta","isActive":true,"uid":8294,"createdAt":"2024-12-01T10:00:00.000Z"}]`))
	})

	stations, err := client.ListStations(context.Background())
	require.NoError(t, err)
	require.Len(t, stations, 1)

	assert.Equal(t, 1, stations[0].ID)
	assert.Equal(t, "Jakarta GBK", stations[0].StationName)
	assert.Equal(t, "jakarta", stations[0].Keyword)
	assert.True(t, stations[0].IsActive)
	assert.Equal(t, 8294, stations[0].UID)
}

func TestClient_CreateStation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/cities", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "@8294", body["keyword"])
		assert.Equal(t, "Jakarta GBK", body["stationName"])
		assert.EqualValues(t, 8294, body["uid"])

		writeJSON(w, http.StatusCreated, map[string]any{"id": 7, "stationName": "Jakarta GBK", "keyword": "@8294", "isActive": true, "uid": 8294})
	})

	station, err := client.CreateStation(context.Background(), backend.CreateStationRequest{
		Keyword: "@8294", StationName: "Jakarta GBK", UID: 8294,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, station.ID)
}

func TestClient_CreateStation_Validation(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(_ http.ResponseWriter, _ *http.Request) { calls.Add(1) })

	_, err := client.CreateStation(context.Background(), backend.CreateStationRequest{StationName: "x"})
	assert.Error(t, err)
	assert.Zero(t, calls.Load())
}

func TestClient_CreateStation_DuplicateMessage(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusConflict, map[string]any{"message": "Kota sudah terdaftar", "statusCode": 409})
	})

	_, err := client.CreateStation(context.Background(), backend.CreateStationRequest{Keyword: "tokyo", StationName: "Tokyo"})

	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "Kota sudah terdaftar", apiErr.Message)
	assert.True(t, apiErr.IsClientError())
	assert.Equal(t, "Kota sudah terdaftar", backend.MessageOf(err, "fallback"))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_ValidationMessageArray(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": []string{"keyword should not be empty", "uid must be a number"}})
	})

	_, err := client.UpdateStationKeyword(context.Background(), 3, "x")

	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "keyword should not be empty", apiErr.Message)
}

func TestClient_MutationsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "sync failed"})
	})

	_, err := client.Sync(context.Background())

	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "sync failed", apiErr.Message)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_UpdateStationKeyword(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/cities/3", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"keyword":"bandung"}`, string(body))
		writeJSON(w, http.StatusOK, map[string]any{"id": 3, "keyword": "bandung"})
	})

	station, err := client.UpdateStationKeyword(context.Background(), 3, "bandung")
	require.NoError(t, err)
	assert.Equal(t, "bandung", station.Keyword)
}

func TestClient_ToggleStation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/cities/5/toggle", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{"id": 5, "isActive": false})
	})

	station, err := client.ToggleStation(context.Background(), 5)
	require.NoError(t, err)
	assert.False(t, station.IsActive)
}

func TestClient_ToggleStation_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "City not found"})
	})

	_, err := client.ToggleStation(context.Background(), 99)

	assert.ErrorIs(t, err, airquality.ErrStationNotFound)
	assert.True(t, backend.IsNotFound(err))
}

func TestClient_DeleteStation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/cities/4", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.DeleteStation(context.Background(), 4))
}

func TestClient_SearchStations(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cities/search", r.URL.Path)
		assert.Equal(t, "jakarta selatan", r.URL.Query().Get("keyword"))
		_, _ = w.Write([]byte(`[{"uid":8294,"name":"Jakarta GBK","aqi":"153","keywordValue":"@8294"},{"uid":1,"name":"US Embassy","aqi":"-","keywordValue":"@1"}]`))
	})

	results, err := client.SearchStations(context.Background(), "jakarta selatan")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "@8294", results[0].KeywordValue)
	assert.Equal(t, "-", results[1].AQI)
}

func TestClient_ListReadings_Query(t *testing.T) {
	tests := []struct {
		name   string
		filter backend.ReadingFilter
		want   string
	}{
		{"no filter", backend.ReadingFilter{}, ""},
		{"search only", backend.ReadingFilter{Search: "jakarta"}, "search=jakarta"},
		{
			"date range",
			backend.ReadingFilter{
				StartDate: time.Date(2024, 12, 1, 15, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2024, 12, 7, 0, 0, 0, 0, time.UTC),
			},
			"endDate=2024-12-07&startDate=2024-12-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/air-quality", r.URL.Path)
				assert.Equal(t, tt.want, r.URL.RawQuery)
				_, _ = w.Write([]byte(`[]`))
			})

			readings, err := client.ListReadings(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.NotNil(t, readings)
		})
	}
}

func TestClient_ListReadings_InvalidRange(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(_ http.ResponseWriter, _ *http.Request) { calls.Add(1) })

	_, err := client.ListReadings(context.Background(), backend.ReadingFilter{
		StartDate: time.Date(2024, 12, 8, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
	})

	assert.ErrorIs(t, err, airquality.ErrInvalidDateRange)
	assert.Zero(t, calls.Load())
}

func TestClient_ListReadings_DecodesRelation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id":11,"aqi":153,"category":"Unhealthy","recordedAt":"2024-12-18T05:00:00.000Z","lastSynced":"2024-12-18T05:10:00.000Z",
			 "monitoredCity":{"id":1,"stationName":"Jakarta GBK","keyword":"jakarta","isActive":true,"uid":8294}},
			{"id":12,"aqi":40,"category":null,"recordedAt":"2024-12-18T06:00:00.000Z","lastSynced":"2024-12-18T06:10:00.000Z",
			 "monitoredCity":{"id":2,"stationName":"Bandung"}}
		]`))
	})

	readings, err := client.ListReadings(context.Background(), backend.ReadingFilter{})
	require.NoError(t, err)
	require.Len(t, readings, 2)

	assert.Equal(t, 1, readings[0].StationID)
	assert.Equal(t, "Jakarta GBK", readings[0].StationName())
	assert.Equal(t, airquality.UnknownCategory, readings[1].CategoryLabel())
	assert.Equal(t, time.Date(2024, 12, 18, 5, 0, 0, 0, time.UTC), readings[0].RecordedAt.UTC())
}

func TestClient_History(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/air-quality/history", r.URL.Path)
		assert.Equal(t, "cityId=3&startDate=2024-12-01", r.URL.RawQuery)
		_, _ = w.Write([]byte(`[{"id":1,"aqi":70,"category":"Moderate","recordedAt":"2024-12-02T00:00:00Z","monitoredCityId":3,"monitoredCity":{"stationName":"Surabaya"}}]`))
	})

	readings, err := client.History(context.Background(), backend.HistoryFilter{
		StartDate: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
		StationID: 3,
	})
	require.NoError(t, err)
	require.Len(t, readings, 1)
	assert.Equal(t, 3, readings[0].StationID)
	assert.Equal(t, 3, readings[0].Station.ID)
	assert.Equal(t, "Surabaya", readings[0].StationName())
}

func TestClient_Sync(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/air-quality/sync", r.URL.Path)
		writeJSON(w, http.StatusCreated, map[string]any{"message": "Sync completed", "syncedCount": 12})
	})

	result, err := client.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, result.SyncedCount)
	assert.Equal(t, "Sync completed", result.Message)
}

func TestClient_LastSync(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/air-quality/last-sync", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":9,"action":"SYNC_AQI","details":"Synced 12 cities","status":"SUCCESS","performedAt":"2024-12-18T05:00:00.000Z"}`))
	})

	log, err := client.LastSync(context.Background())
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.Equal(t, "SUCCESS", log.Status)
	assert.Equal(t, time.Date(2024, 12, 18, 5, 0, 0, 0, time.UTC), log.PerformedAt.UTC())
}

func TestClient_LastSync_None(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"empty body", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }},
		{"null body", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("null")) }},
		{"not found", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNotFound) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)

			log, err := client.LastSync(context.Background())
			require.NoError(t, err)
			assert.Nil(t, log)
		})
	}
}

func TestClient_UnavailableWhenCircuitOpen(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	cfg := resilience.ClientConfig{Name: "test", Timeout: time.Second}
	client := backend.NewClient(backend.ClientConfig{BaseURL: server.URL, HTTPClient: resilience.NewClient(cfg)})

	var err error
	for i := 0; i < 6; i++ {
		_, err = client.ListStations(context.Background())
	}

	assert.True(t, errors.Is(err, backend.ErrUnavailable))
	assert.True(t, client.Health().IsUnhealthy())
}

func TestAPIError_Error(t *testing.T) {
	assert.Equal(t, "backend returned 404 Not Found", (&backend.APIError{StatusCode: 404}).Error())
	assert.Equal(t, "backend returned 409: duplicate", (&backend.APIError{StatusCode: 409, Message: "duplicate"}).Error())
	assert.Equal(t, "fallback", backend.MessageOf(errors.New("boom"), "fallback"))
}

func TestClient_Name(t *testing.T) {
	assert.Equal(t, backend.ProviderName, backend.NewClient(backend.ClientConfig{}).Name())
}
