package tracking

import (
	"errors"
	"testing"

	"lintang/tripnav/pkg/datastructure"
	"lintang/tripnav/pkg/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lonLat(lon, lat float64) datastructure.Coordinate {
	return datastructure.NewLonLat(lon, lat)
}

func eastboundRoute() *datastructure.Route {
	mk := func(instr string, a, b datastructure.Coordinate) datastructure.Step {
		g := []datastructure.Coordinate{a, b}
		return datastructure.Step{
			Geometry: g,
			Maneuver: datastructure.Maneuver{Instruction: instr, BearingAfter: 90, Location: a},
			Distance: geo.LineLength(g),
		}
	}
	steps := []datastructure.Step{
		mk("Head East", lonLat(120.0, 14.0), lonLat(120.1, 14.0)),
		mk("Continue onto Jalan Satu", lonLat(120.1, 14.0), lonLat(120.2, 14.0)),
		mk("Continue onto Jalan Dua", lonLat(120.2, 14.0), lonLat(120.3, 14.0)),
	}
	leg := datastructure.Leg{Steps: steps}
	for _, s := range steps {
		leg.Distance += s.Distance
	}
	return datastructure.NewRoute([]datastructure.Leg{leg}, nil)
}

// navigatingSession session Navigating tanpa reroute anchor.
func navigatingSession() *Session {
	s := NewSession(datastructure.Driving, nil, DefaultCameraSettings())
	s.mode = Navigating
	s.activeRoute = eastboundRoute()
	s.destination = datastructure.NewDestination("stop-1", lonLat(120.3, 14.0))
	return s
}

func rerouteRequests(events []Event) []RouteRequest {
	reqs := []RouteRequest{}
	for _, ev := range events {
		if r, ok := ev.(RouteRequest); ok {
			reqs = append(reqs, r)
		}
	}
	return reqs
}

func TestOffRouteHysteresis(t *testing.T) {
	t.Run("reroute fires once for a stationary off-route fix", func(t *testing.T) {
		s := navigatingSession()
		offRoute := lonLat(120.05, 14.00054) // ~60 m utara route

		reqs := rerouteRequests(s.Evaluate(offRoute, nil))
		require.Len(t, reqs, 1)
		assert.Equal(t, ReasonOffRoute, reqs[0].Reason)
		assert.Equal(t, []datastructure.Coordinate{offRoute, lonLat(120.3, 14.0)}, reqs[0].Waypoints)
		assert.True(t, s.RerouteInFlight())
		anchor, ok := s.LastRerouteAnchor()
		require.True(t, ok)
		assert.Equal(t, offRoute, anchor)

		assert.Empty(t, rerouteRequests(s.Evaluate(offRoute, nil)))

		// fetch gagal, in flight di clear tapi anchor tetap -> masih tidak reroute.
		_, err := s.CompleteReroute(reqs[0].ID, nil, errors.New("provider down"))
		assert.EqualError(t, err, "provider down")
		assert.False(t, s.RerouteInFlight())
		assert.Empty(t, rerouteRequests(s.Evaluate(offRoute, nil)))
		assert.Equal(t, 0, s.CurrentStepIndex())
		assert.NotNil(t, s.ActiveRoute())
	})

	t.Run("real displacement re-arms the check", func(t *testing.T) {
		s := navigatingSession()
		first := lonLat(120.05, 14.00054)
		reqs := rerouteRequests(s.Evaluate(first, nil))
		require.Len(t, reqs, 1)
		_, _ = s.CompleteReroute(reqs[0].ID, nil, errors.New("timeout"))

		moved := lonLat(120.05, 14.00081) // ~30 m dari anchor
		reqs = rerouteRequests(s.Evaluate(moved, nil))
		require.Len(t, reqs, 1)
		assert.Equal(t, uint64(2), reqs[0].ID)
	})

	t.Run("in flight reroute suppresses another one", func(t *testing.T) {
		s := navigatingSession()
		require.Len(t, rerouteRequests(s.Evaluate(lonLat(120.05, 14.00054), nil)), 1)
		assert.Empty(t, rerouteRequests(s.Evaluate(lonLat(120.05, 14.0009), nil)))
	})

	t.Run("on route fix does not reroute", func(t *testing.T) {
		s := navigatingSession()
		assert.Empty(t, rerouteRequests(s.Evaluate(lonLat(120.05, 14.0001), nil)))
		assert.False(t, s.RerouteInFlight())
	})

	t.Run("successful reroute replaces route and resets index", func(t *testing.T) {
		s := navigatingSession()
		s.currentStepIndex = 1
		reqs := rerouteRequests(s.Evaluate(lonLat(120.15, 14.00054), nil))
		require.Len(t, reqs, 1)

		newRoute := eastboundRoute()
		events, err := s.CompleteReroute(reqs[0].ID, newRoute, nil)
		require.NoError(t, err)
		assert.Same(t, newRoute, s.ActiveRoute())
		assert.Equal(t, 0, s.CurrentStepIndex())
		assert.False(t, s.RerouteInFlight())
		require.NotEmpty(t, events)
		assert.Equal(t, EventRouteReplaced, events[0].Type())
	})
}

func TestArrivalBeatsOtherChecks(t *testing.T) {
	s := navigatingSession()
	events := s.Evaluate(lonLat(120.3, 14.00005), nil)
	require.Len(t, events, 2)
	arrival, ok := events[0].(Arrival)
	require.True(t, ok)
	assert.Equal(t, "stop-1", arrival.Destination.ID)
	cam, ok := events[1].(CameraIntent)
	require.True(t, ok)
	assert.Equal(t, 0.0, cam.Pitch)
	assert.Equal(t, 0.0, cam.Bearing)
	assert.Equal(t, Viewing, s.Mode())
	assert.Nil(t, s.ActiveRoute())
	assert.Nil(t, s.lastAnnouncedInstruction)

	_, err := s.Arrive()
	assert.ErrorIs(t, err, ErrNotNavigating)
}

func TestArrivalByLegRemaining(t *testing.T) {
	s := navigatingSession()
	// destination dipindah jauh, tapi sisa leg <= 10 m
	s.destination = datastructure.NewDestination("stop-2", lonLat(121.0, 14.0))
	s.currentStepIndex = 2
	events := s.Evaluate(lonLat(120.29995, 14.0), nil)
	require.NotEmpty(t, events)
	assert.Equal(t, EventArrival, events[0].Type())
}

func TestMaybeAnnounce(t *testing.T) {
	s := navigatingSession()

	ann, ok := s.MaybeAnnounce()
	require.True(t, ok)
	assert.Equal(t, "Head East", ann.Text)

	_, ok = s.MaybeAnnounce()
	assert.False(t, ok)

	s.currentStepIndex = 1
	ann, ok = s.MaybeAnnounce()
	require.True(t, ok)
	assert.Equal(t, "Continue onto Jalan Satu", ann.Text)

	s.mode = Viewing
	_, ok = s.MaybeAnnounce()
	assert.False(t, ok)
	assert.Nil(t, s.lastAnnouncedInstruction)
}

func TestRemainingDistanceInStep(t *testing.T) {
	step := eastboundRoute().Legs[0].Steps[0]

	t.Run("half way", func(t *testing.T) {
		mid := geo.MidPoint(step.Geometry[0], step.Geometry[1])
		assert.InDelta(t, step.Distance/2, RemainingDistanceInStep(step, mid), 0.5)
	})

	t.Run("degenerate geometry falls back to reported distance", func(t *testing.T) {
		broken := datastructure.Step{Geometry: []datastructure.Coordinate{lonLat(120, 14)}, Distance: 42}
		assert.Equal(t, 42.0, RemainingDistanceInStep(broken, lonLat(120.1, 14)))
	})
}

func TestSettingsChangeReroute(t *testing.T) {
	s := navigatingSession()
	loc := lonLat(120.05, 14.0)
	s.Evaluate(loc, nil)

	req := s.UpdatePreferences(datastructure.Driving, datastructure.NewExclusionSet(datastructure.ExcludeToll))
	require.NotNil(t, req)
	assert.Equal(t, ReasonSettingsChange, req.Reason)
	assert.True(t, req.Exclusions.Has(datastructure.ExcludeToll))
	anchor, _ := s.LastRerouteAnchor()
	assert.Equal(t, loc, anchor)

	// settings-change bypass in-flight guard, request lama jadi stale
	req2 := s.UpdatePreferences(datastructure.Walking, datastructure.NewExclusionSet(datastructure.ExcludeToll))
	require.NotNil(t, req2)
	_, err := s.CompleteReroute(req.ID, eastboundRoute(), nil)
	assert.ErrorIs(t, err, ErrStaleResult)

	assert.Nil(t, s.UpdatePreferences(datastructure.Walking, datastructure.NewExclusionSet(datastructure.ExcludeToll)))
}

func TestStartCommitsOnlyOnSuccess(t *testing.T) {
	dest := datastructure.NewDestination("stop-1", lonLat(120.3, 14.0))
	start := lonLat(120.0, 14.0)

	t.Run("failed fetch leaves session untouched", func(t *testing.T) {
		s := NewSession(datastructure.Driving, nil, DefaultCameraSettings())
		req, err := s.BeginStart(dest, &start)
		require.NoError(t, err)
		assert.Equal(t, []datastructure.Coordinate{start, dest.Coordinate}, req.Waypoints)
		assert.Nil(t, s.Destination())
		_, ok := s.LastKnownLocation()
		assert.False(t, ok)

		_, err = s.CompleteStart(req.ID, nil, errors.New("provider down"))
		assert.EqualError(t, err, "provider down")
		assert.Equal(t, Viewing, s.Mode())
		assert.Nil(t, s.Destination())
		assert.Nil(t, s.PendingRequest())
		_, ok = s.LastKnownLocation()
		assert.False(t, ok)
	})

	t.Run("empty route leaves session untouched", func(t *testing.T) {
		s := NewSession(datastructure.Driving, nil, DefaultCameraSettings())
		req, err := s.BeginStart(dest, &start)
		require.NoError(t, err)
		_, err = s.CompleteStart(req.ID, datastructure.NewRoute(nil, nil), nil)
		assert.ErrorIs(t, err, ErrEmptyRoute)
		assert.Nil(t, s.Destination())
	})

	t.Run("success commits destination and origin", func(t *testing.T) {
		s := NewSession(datastructure.Driving, nil, DefaultCameraSettings())
		req, err := s.BeginStart(dest, &start)
		require.NoError(t, err)
		_, err = s.CompleteStart(req.ID, eastboundRoute(), nil)
		require.NoError(t, err)
		assert.Equal(t, Navigating, s.Mode())
		require.NotNil(t, s.Destination())
		assert.Equal(t, "stop-1", s.Destination().ID)
		loc, ok := s.LastKnownLocation()
		require.True(t, ok)
		assert.Equal(t, start, loc)
	})
}
