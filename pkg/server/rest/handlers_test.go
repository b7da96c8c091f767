package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lintang/tripnav/pkg/datastructure"
	"lintang/tripnav/pkg/geo"
	"lintang/tripnav/pkg/server/rest"
	"lintang/tripnav/pkg/server/rest/service"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type providerFunc func(ctx context.Context, waypoints []datastructure.Coordinate, profile datastructure.TravelProfile,
	exclusions datastructure.ExclusionSet) (*datastructure.Route, error)

func (f providerFunc) FetchRoute(ctx context.Context, waypoints []datastructure.Coordinate, profile datastructure.TravelProfile,
	exclusions datastructure.ExclusionSet) (*datastructure.Route, error) {
	return f(ctx, waypoints, profile, exclusions)
}

type staticCatalog []datastructure.CorridorPOI

func (c staticCatalog) CandidatesAlongLine([]datastructure.Coordinate, float64) ([]datastructure.CorridorPOI, error) {
	return c, nil
}

func (c staticCatalog) Nearby(datastructure.Coordinate, float64) ([]datastructure.CorridorPOI, error) {
	return c, nil
}

func lonLat(lon, lat float64) datastructure.Coordinate {
	return datastructure.NewLonLat(lon, lat)
}

func eastRoute() *datastructure.Route {
	mk := func(instr string, a, b datastructure.Coordinate) datastructure.Step {
		line := []datastructure.Coordinate{a, b}
		return datastructure.Step{
			Geometry: line,
			Maneuver: datastructure.Maneuver{Instruction: instr, BearingAfter: 90, Location: a},
			Distance: geo.LineLength(line),
		}
	}
	steps := []datastructure.Step{
		mk("Head East", lonLat(120.0, 14.0), lonLat(120.1, 14.0)),
		mk("Continue onto Jalan Satu", lonLat(120.1, 14.0), lonLat(120.2, 14.0)),
	}
	leg := datastructure.Leg{Steps: steps}
	for _, s := range steps {
		leg.Distance += s.Distance
	}
	return datastructure.NewRoute([]datastructure.Leg{leg}, nil)
}

type testServer struct {
	*httptest.Server
	reg *prometheus.Registry
	m   *rest.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := rest.NewMetrics(reg)
	provider := providerFunc(func(context.Context, []datastructure.Coordinate, datastructure.TravelProfile, datastructure.ExclusionSet) (*datastructure.Route, error) {
		return eastRoute(), nil
	})
	svc := service.NewNavigationService(provider,
		service.WithMetrics(m),
		service.WithCatalog(staticCatalog{
			{ID: "node/1", Name: "Museum", Category: "tourism=museum", Coordinate: lonLat(120.05, 14.0004)},
		}),
		service.WithDispatcher(func(f func()) { f() }),
	)
	r := chi.NewRouter()
	r.Use(rest.PromeHttpMiddleware(m))
	rest.NavigatorRouter(r, svc)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, reg: reg, m: m}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, s.URL+path, rd)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	if resp.StatusCode != http.StatusNoContent {
		_ = json.NewDecoder(resp.Body).Decode(&out)
	}
	return resp, out
}

func TestNavigationFlow(t *testing.T) {
	srv := newTestServer(t)

	resp, body := srv.do(t, http.MethodPost, "/api/navigations/sessions", map[string]interface{}{"profile": "driving"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)
	base := "/api/navigations/sessions/" + id

	resp, body = srv.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "viewing", body["mode"])

	resp, body = srv.do(t, http.MethodPost, base+"/start", map[string]interface{}{
		"destination": map[string]interface{}{"id": "dest-1", "lat": 14.0, "lon": 120.2},
		"location":    map[string]interface{}{"lat": 14.0, "lon": 120.0},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	events, _ := body["events"].([]interface{})
	require.NotEmpty(t, events)
	first := events[0].(map[string]interface{})
	assert.Equal(t, "camera", first["type"])
	payload := first["payload"].(map[string]interface{})
	assert.Equal(t, 17.0, payload["zoom"])
	assert.Equal(t, 60.0, payload["pitch"])

	resp, body = srv.do(t, http.MethodPost, base+"/locations", map[string]interface{}{"lat": 14.0, "lon": 120.05})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "navigating", body["mode"])
	corridor, _ := body["corridor"].([]interface{})
	require.Len(t, corridor, 1)
	assert.Equal(t, "node/1", corridor[0].(map[string]interface{})["id"])

	resp, body = srv.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["remaining_path"])
	step := body["current_step"].(map[string]interface{})
	assert.Equal(t, "Head East", step["instruction"])

	resp, body = srv.do(t, http.MethodGet, base+"/corridor?radius=150", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 150.0, body["radius"])
	assert.Len(t, body["pois"], 1)

	resp, body = srv.do(t, http.MethodPut, base+"/preferences", map[string]interface{}{"profile": "walking"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["rerouting"])

	resp, _ = srv.do(t, http.MethodPost, base+"/arrive", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = srv.do(t, http.MethodPost, base+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Resource conflict.", body["status"])

	resp, _ = srv.do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = srv.do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	assert.Equal(t, 1.0, metricValue(t, srv.reg, "tripnav_arrivals_total"))
	assert.Equal(t, 1.0, metricValue(t, srv.reg, "tripnav_location_ticks_total"))
	assert.Equal(t, 0.0, metricValue(t, srv.reg, "tripnav_active_sessions"))
}

func metricValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		total := 0.0
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				total += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				total += m.GetGauge().GetValue()
			}
		}
		return total
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestValidation(t *testing.T) {
	srv := newTestServer(t)

	resp, body := srv.do(t, http.MethodPost, "/api/navigations/sessions", map[string]interface{}{"profile": "flying"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, body["validation"])

	resp, body = srv.do(t, http.MethodPost, "/api/navigations/sessions", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	base := "/api/navigations/sessions/" + body["id"].(string)

	t.Run("latitude out of range", func(t *testing.T) {
		resp, body := srv.do(t, http.MethodPost, base+"/locations", map[string]interface{}{"lat": 95.0, "lon": 110.0})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		validation, _ := body["validation"].([]interface{})
		require.Len(t, validation, 1)
		assert.True(t, strings.Contains(validation[0].(string), "Lat"))
	})

	t.Run("boundary coordinates are valid", func(t *testing.T) {
		for _, c := range []map[string]interface{}{
			{"lat": 90.0, "lon": 180.0},
			{"lat": -90.0, "lon": -180.0},
		} {
			resp, _ := srv.do(t, http.MethodPost, base+"/locations", c)
			assert.Equal(t, http.StatusOK, resp.StatusCode, "lat %v lon %v", c["lat"], c["lon"])
		}

		resp, body := srv.do(t, http.MethodPost, base+"/locations", map[string]interface{}{"lat": 0.0, "lon": -180.5})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		validation, _ := body["validation"].([]interface{})
		require.Len(t, validation, 1)
		assert.True(t, strings.Contains(validation[0].(string), "Lon"))
	})

	t.Run("start without location", func(t *testing.T) {
		resp, _ := srv.do(t, http.MethodPost, base+"/start", map[string]interface{}{
			"destination": map[string]interface{}{"id": "dest-1", "lat": 14.0, "lon": 120.2},
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("destination without id", func(t *testing.T) {
		resp, _ := srv.do(t, http.MethodPost, base+"/start", map[string]interface{}{
			"destination": map[string]interface{}{"lat": 14.0, "lon": 120.2},
			"location":    map[string]interface{}{"lat": 14.0, "lon": 120.0},
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("bad radius", func(t *testing.T) {
		resp, _ := srv.do(t, http.MethodGet, base+"/corridor?radius=abc", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("cancel while viewing", func(t *testing.T) {
		resp, _ := srv.do(t, http.MethodPost, base+"/cancel", nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("unknown session", func(t *testing.T) {
		resp, body := srv.do(t, http.MethodGet, "/api/navigations/sessions/nope", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "Resource not found.", body["status"])
	})
}
