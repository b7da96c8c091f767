package tracking

import (
	"lintang/tripnav/pkg/datastructure"
	"lintang/tripnav/pkg/geo"
)

const (
	ArrivalRadiusMeters      = 20.0
	ArrivalLegRemainingMeter = 10.0
	StepAdvanceRadiusMeters  = 10.0
	OffRouteMeters           = 30.0
	RerouteHysteresisMeters  = 20.0
)

/*
Evaluate. evaluasi 1 location tick (pure, tanpa I/O). urutan:
 1. arrival check, kalau arrive stop.
 2. refresh sisa jarak step sekarang.
 3. step advancement, kalau advance stop (skip off-route check).
 4. off-route check dengan hysteresis anchor, return RouteRequest event kalau harus reroute.

destination boleh nil, berarti pakai destination terakhir.
*/
func (s *Session) Evaluate(location datastructure.Coordinate, destination *datastructure.Destination) []Event {
	s.lastKnownLocation = coordPtr(location)
	if s.mode != Navigating {
		s.MaybeAnnounce()
		return nil
	}
	if destination != nil {
		dest := *destination
		s.destination = &dest
	}

	leg, _ := s.activeRoute.FirstLeg()
	step := leg.Steps[s.currentStepIndex]

	remainingInStep := RemainingDistanceInStep(step, location)
	remainingInLeg := remainingInStep
	for _, next := range leg.Steps[s.currentStepIndex+1:] {
		remainingInLeg += next.Distance
	}

	// 1. arrival
	if (s.destination != nil && geo.HaversineDistance(location, s.destination.Coordinate) <= ArrivalRadiusMeters) ||
		remainingInLeg <= ArrivalLegRemainingMeter {
		events, _ := s.Arrive()
		return events
	}

	// 2. remaining distance
	distanceToRoute := -1.0
	if proj, err := geo.NearestPointOnLine(s.activeRoute.Geometry, location); err == nil {
		distanceToRoute = proj.Distance
	}
	events := []Event{Progress{
		StepIndex:       s.currentStepIndex,
		RemainingInStep: remainingInStep,
		RemainingInLeg:  remainingInLeg,
		DistanceToRoute: distanceToRoute,
	}}

	// 3. step advancement
	if s.currentStepIndex+1 < len(leg.Steps) {
		next := leg.Steps[s.currentStepIndex+1]
		if len(next.Geometry) > 0 && geo.HaversineDistance(location, next.Geometry[0]) < StepAdvanceRadiusMeters {
			from := s.currentStepIndex
			s.currentStepIndex++
			events = append(events, StepAdvanced{From: from, To: s.currentStepIndex})
			if ann, ok := s.MaybeAnnounce(); ok {
				events = append(events, ann)
			}
			return events
		}
	}

	// 4. off-route
	if s.shouldReroute(location, distanceToRoute) {
		s.lastRerouteAnchor = coordPtr(location)
		s.rerouteInFlight = true
		events = append(events, s.newRequest(ReasonOffRoute, location, s.destination.Coordinate))
	}

	if ann, ok := s.MaybeAnnounce(); ok {
		events = append(events, ann)
	}
	return events
}

func (s *Session) shouldReroute(location datastructure.Coordinate, distanceToRoute float64) bool {
	if s.rerouteInFlight || s.destination == nil {
		return false
	}
	// geometry route degenerate, tidak bisa tentukan off-route
	if distanceToRoute < 0 || distanceToRoute <= OffRouteMeters {
		return false
	}
	if s.lastRerouteAnchor != nil && geo.HaversineDistance(location, *s.lastRerouteAnchor) <= RerouteHysteresisMeters {
		return false
	}
	return true
}
