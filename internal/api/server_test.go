package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brownbat/kingdom-clicker/internal/engine"
	"github.com/brownbat/kingdom-clicker/internal/kingdom"
	"github.com/brownbat/kingdom-clicker/internal/scout"
	"github.com/brownbat/kingdom-clicker/internal/tuning"
)

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	sim := engine.NewSimulation(kingdom.New(), tuning.Default(), 1)
	srv := &Server{Sim: sim, AdminKey: "hunter2"}
	return srv, srv.Handler()
}

func getJSON(t *testing.T, h http.Handler, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	return rec
}

func TestStatusEndpoint(t *testing.T) {
	srv, h := newTestServer(t)
	srv.Sim.Advance(3)

	var status map[string]any
	getJSON(t, h, "/api/v1/status", &status)

	assert.Equal(t, float64(3), status["tick"])
	assert.Equal(t, "Spring", status["season"])
	assert.Equal(t, float64(0), status["population"])
	assert.NotEmpty(t, status["log"])
}

func TestResourcesEndpoint(t *testing.T) {
	_, h := newTestServer(t)

	var body struct {
		Resources []struct {
			Name   string   `json:"name"`
			Amount float64  `json:"amount"`
			Cap    *float64 `json:"cap"`
		} `json:"resources"`
		ReserveCapacity float64 `json:"reserve_capacity"`
	}
	getJSON(t, h, "/api/v1/resources", &body)

	require.NotEmpty(t, body.Resources)
	assert.Equal(t, "Food", body.Resources[0].Name)
	assert.Equal(t, 20.0, body.Resources[0].Amount)
	assert.Nil(t, body.Resources[0].Cap, "derived food total is uncapped")
}

func TestActionRequiresAuth(t *testing.T) {
	_, h := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/action",
		strings.NewReader(`{"verb":"recruit_peasant"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestActionApplies(t *testing.T) {
	srv, h := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/action",
		strings.NewReader(`{"verb":"recruit_peasant"}`))
	req.Header.Set("Authorization", "Bearer hunter2")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Applied bool   `json:"applied"`
		Log     string `json:"log"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Applied)
	assert.Equal(t, "a new peasant joins your fledgling settlement.", body.Log)
	assert.Equal(t, 1, srv.Sim.K.Peasants)
}

func TestActionRejectionStillOK(t *testing.T) {
	srv, h := newTestServer(t)
	srv.Sim.K.Stores[kingdom.ResMeat] = 0

	req := httptest.NewRequest(http.MethodPost, "/api/v1/action",
		strings.NewReader(`{"verb":"recruit_peasant"}`))
	req.Header.Set("Authorization", "Bearer hunter2")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Applied bool `json:"applied"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Applied)
}

func TestUnknownVerb(t *testing.T) {
	_, h := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/action",
		strings.NewReader(`{"verb":"summon_dragon"}`))
	req.Header.Set("Authorization", "Bearer hunter2")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEventsFilter(t *testing.T) {
	srv, h := newTestServer(t)
	srv.Sim.K.AddEvent(kingdom.EvSeason, "autumn settles over the fields.")
	srv.Sim.K.AddEvent(kingdom.EvBuilding, "a new house is built. more peasants can be housed.")

	var events []kingdom.Event
	getJSON(t, h, "/api/v1/events?category=season", &events)

	require.Len(t, events, 1)
	assert.Equal(t, kingdom.EvSeason, events[0].Category)
}

func TestVerbsEndpoint(t *testing.T) {
	_, h := newTestServer(t)

	var body struct {
		Verbs []string `json:"verbs"`
	}
	getJSON(t, h, "/api/v1/verbs", &body)

	assert.Contains(t, body.Verbs, "recruit_peasant")
	assert.Contains(t, body.Verbs, "build_tailor_shop")
}

func TestWorkforceEndpoint(t *testing.T) {
	srv, h := newTestServer(t)
	srv.Sim.K.Peasants = 2
	srv.Sim.K.Hunters = 1

	var body map[string]any
	getJSON(t, h, "/api/v1/workforce", &body)

	assert.Equal(t, float64(2), body["peasants"])
	assert.Equal(t, float64(1), body["hunters"])
	assert.Equal(t, float64(3), body["population"])
}

func TestDeckEndpointHidesOrder(t *testing.T) {
	srv, h := newTestServer(t)
	srv.Sim.K.Deck = scout.Deck{"forest", "forest", "quarry"}

	var body struct {
		CardsRemaining int            `json:"cards_remaining"`
		Composition    map[string]int `json:"composition"`
	}
	getJSON(t, h, "/api/v1/deck", &body)

	assert.Equal(t, 3, body.CardsRemaining)
	assert.Equal(t, 2, body.Composition["forest"])
	assert.Equal(t, 1, body.Composition["quarry"])
}

func TestSpeedWithoutEngine(t *testing.T) {
	_, h := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/speed",
		strings.NewReader(`{"speed":2}`))
	req.Header.Set("Authorization", "Bearer hunter2")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"), "buckets are per IP")
	assert.Greater(t, rl.RetryAfter("10.0.0.1"), 0)
}
