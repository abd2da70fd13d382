package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sree-9523/RedBus/models"
	"github.com/sree-9523/RedBus/storage"
)

type fakeReader struct {
	records  []*models.TripRecord
	lastSeen storage.RouteFilter
}

func (f *fakeReader) FetchRoutes(ctx context.Context, filter storage.RouteFilter) ([]*models.TripRecord, error) {
	f.lastSeen = filter
	return f.records, nil
}

func TestListRoutes(t *testing.T) {
	reader := &fakeReader{records: []*models.TripRecord{
		{
			RouteName:      "Hyderabad to Nirmal",
			Operator:       "TSRTC",
			BusType:        "Express (Non AC Seater 2+3)",
			DepartureAt:    time.Date(2024, 7, 13, 6, 0, 0, 0, time.UTC),
			ArrivalAt:      time.Date(2024, 7, 13, 9, 30, 0, 0, time.UTC),
			Price:          280,
			SeatsAvailable: 41,
		},
	}}
	router := NewServer(reader, zerolog.Nop()).Router()

	req := httptest.NewRequest(http.MethodGet,
		"/routes?route=Hyderabad+to+Nirmal&min_rating=3.5&min_price=100&max_price=500&from=2024-07-13&to=2024-07-13", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Count int                  `json:"count"`
		Data  []*models.TripRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "TSRTC", body.Data[0].Operator)

	assert.Equal(t, []string{"Hyderabad to Nirmal"}, reader.lastSeen.RouteNames)
	assert.Equal(t, 3.5, reader.lastSeen.MinRating)
	require.NotNil(t, reader.lastSeen.DepartTo)
	// An inclusive to-date becomes an exclusive bound on the next day.
	assert.Equal(t, time.Date(2024, 7, 14, 0, 0, 0, 0, time.UTC), *reader.lastSeen.DepartTo)
}

func TestListRoutesRejectsBadParams(t *testing.T) {
	router := NewServer(&fakeReader{}, zerolog.Nop()).Router()

	for _, target := range []string{
		"/routes?min_rating=high",
		"/routes?min_price=cheap",
		"/routes?max_price=expensive",
		"/routes?from=13-Jul-2024",
		"/routes?to=tomorrow",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestHealth(t *testing.T) {
	router := NewServer(&fakeReader{}, zerolog.Nop()).Router()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
