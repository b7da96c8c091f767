package tracking

import (
	"lintang/tripnav/pkg/datastructure"
)

type Mode int

const (
	Viewing Mode = iota
	Navigating
)

func (m Mode) String() string {
	if m == Navigating {
		return "navigating"
	}
	return "viewing"
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

type CameraSettings struct {
	NavigatingZoom  float64
	NavigatingPitch float64
	OverviewZoom    float64
	DurationMs      int
}

func DefaultCameraSettings() CameraSettings {
	return CameraSettings{
		NavigatingZoom:  17,
		NavigatingPitch: 60,
		OverviewZoom:    15,
		DurationMs:      1000,
	}
}

/*
Session state navigasi untuk 1 traveler. Session bukan goroutine safe, host (Navigator) yang serialize akses.
Invariant: kalau mode == Navigating, activeRoute != nil dan currentStepIndex valid di leg pertama activeRoute.
*/
type Session struct {
	mode                     Mode
	activeRoute              *datastructure.Route
	currentStepIndex         int
	lastKnownLocation        *datastructure.Coordinate
	lastRerouteAnchor        *datastructure.Coordinate
	rerouteInFlight          bool
	lastAnnouncedInstruction *string

	destination *datastructure.Destination
	profile     datastructure.TravelProfile
	exclusions  datastructure.ExclusionSet
	camera      CameraSettings

	// pending request fetch (start / reroute) yang hasilnya masih ditunggu.
	pending *RouteRequest
	// destination start yang belum di commit, baru jadi destination setelah CompleteStart sukses.
	pendingDestination *datastructure.Destination
	nextRequestID uint64
}

func NewSession(profile datastructure.TravelProfile, exclusions datastructure.ExclusionSet, camera CameraSettings) *Session {
	if exclusions == nil {
		exclusions = datastructure.NewExclusionSet()
	}
	return &Session{
		mode:       Viewing,
		profile:    profile,
		exclusions: exclusions.Clone(),
		camera:     camera,
	}
}

func (s *Session) Mode() Mode {
	return s.mode
}

func (s *Session) ActiveRoute() *datastructure.Route {
	return s.activeRoute
}

func (s *Session) CurrentStepIndex() int {
	return s.currentStepIndex
}

func (s *Session) CurrentStep() (datastructure.Step, bool) {
	if s.mode != Navigating {
		return datastructure.Step{}, false
	}
	return s.activeRoute.Step(s.currentStepIndex)
}

func (s *Session) LastKnownLocation() (datastructure.Coordinate, bool) {
	if s.lastKnownLocation == nil {
		return datastructure.Coordinate{}, false
	}
	return *s.lastKnownLocation, true
}

func (s *Session) LastRerouteAnchor() (datastructure.Coordinate, bool) {
	if s.lastRerouteAnchor == nil {
		return datastructure.Coordinate{}, false
	}
	return *s.lastRerouteAnchor, true
}

func (s *Session) RerouteInFlight() bool {
	return s.rerouteInFlight
}

func (s *Session) Destination() *datastructure.Destination {
	return s.destination
}

func (s *Session) Profile() datastructure.TravelProfile {
	return s.profile
}

func (s *Session) Exclusions() datastructure.ExclusionSet {
	return s.exclusions.Clone()
}

func (s *Session) PendingRequest() *RouteRequest {
	return s.pending
}

func (s *Session) newRequest(reason RerouteReason, from, to datastructure.Coordinate) RouteRequest {
	s.nextRequestID++
	req := RouteRequest{
		ID:         s.nextRequestID,
		Reason:     reason,
		Waypoints:  []datastructure.Coordinate{from, to},
		Profile:    s.profile,
		Exclusions: s.exclusions.Clone(),
	}
	s.pending = &req
	return req
}

func coordPtr(c datastructure.Coordinate) *datastructure.Coordinate {
	return &c
}

/*
BeginStart. langkah pertama startNavigating: validasi precondition lalu return request fetch route [currentLocation, destination].
state session (mode, destination, lokasi) belum berubah sampai CompleteStart dipanggil dengan hasil fetch yang sukses.
*/
func (s *Session) BeginStart(destination *datastructure.Destination, currentLocation *datastructure.Coordinate) (RouteRequest, error) {
	if destination == nil {
		return RouteRequest{}, ErrNoDestination
	}
	if currentLocation == nil {
		return RouteRequest{}, ErrNoLocation
	}
	if s.mode == Navigating {
		return RouteRequest{}, ErrAlreadyNavigating
	}

	dest := *destination
	s.pendingDestination = &dest
	return s.newRequest(ReasonStart, *currentLocation, dest.Coordinate), nil
}

// CompleteStart apply hasil fetch route awal. kalau fetch gagal session tetap Viewing.
func (s *Session) CompleteStart(requestID uint64, route *datastructure.Route, fetchErr error) ([]Event, error) {
	req := s.pending
	if req == nil || req.ID != requestID || req.Reason != ReasonStart || s.mode != Viewing {
		return nil, ErrStaleResult
	}
	dest := s.pendingDestination
	s.pending = nil
	s.pendingDestination = nil
	if fetchErr != nil {
		return nil, fetchErr
	}
	if route == nil || route.NumSteps() == 0 {
		return nil, ErrEmptyRoute
	}

	origin := req.Waypoints[0]
	s.destination = dest
	s.lastKnownLocation = coordPtr(origin)
	s.activeRoute = route
	s.currentStepIndex = 0
	s.lastRerouteAnchor = coordPtr(origin)
	s.rerouteInFlight = false
	s.mode = Navigating

	firstStep, _ := route.Step(0)
	events := []Event{
		CameraIntent{
			Center:     origin,
			Zoom:       s.camera.NavigatingZoom,
			Pitch:      s.camera.NavigatingPitch,
			Bearing:    firstStep.Maneuver.BearingAfter,
			DurationMs: s.camera.DurationMs,
		},
	}
	if ann, ok := s.MaybeAnnounce(); ok {
		events = append(events, ann)
	}
	return events, nil
}

// Arrive. hanya dari Navigating, panggilan kedua setelah arrival sudah diproses return ErrNotNavigating (no-op).
func (s *Session) Arrive() ([]Event, error) {
	if s.mode != Navigating {
		return nil, ErrNotNavigating
	}
	var dest datastructure.Destination
	if s.destination != nil {
		dest = *s.destination
	}
	center := s.recenterLocation()
	s.reset()

	return []Event{
		Arrival{Destination: dest, Location: center},
		s.overviewCamera(center),
	}, nil
}

// Cancel reset sama seperti Arrive tapi tanpa arrival event (tidak ada mark visited).
func (s *Session) Cancel() ([]Event, error) {
	if s.mode != Navigating {
		return nil, ErrNotNavigating
	}
	center := s.recenterLocation()
	s.reset()
	return []Event{s.overviewCamera(center)}, nil
}

func (s *Session) recenterLocation() datastructure.Coordinate {
	if s.lastKnownLocation != nil {
		return *s.lastKnownLocation
	}
	if s.destination != nil {
		return s.destination.Coordinate
	}
	return datastructure.Coordinate{}
}

func (s *Session) overviewCamera(center datastructure.Coordinate) CameraIntent {
	return CameraIntent{
		Center:     center,
		Zoom:       s.camera.OverviewZoom,
		Pitch:      0,
		Bearing:    0,
		DurationMs: s.camera.DurationMs,
	}
}

func (s *Session) reset() {
	s.mode = Viewing
	s.activeRoute = nil
	s.currentStepIndex = 0
	s.lastAnnouncedInstruction = nil
	s.lastRerouteAnchor = nil
	s.rerouteInFlight = false
	s.destination = nil
	s.pending = nil
	s.pendingDestination = nil
}

/*
UpdatePreferences ganti travel profile / exclusion. kalau lagi Navigating dan ada yang berubah, reroute langsung
dari lastKnownLocation tanpa hysteresis, anchor di update supaya tidak ada automatic reroute duplikat.
request lama yang masih in flight di replace, hasilnya nanti di discard.
*/
func (s *Session) UpdatePreferences(profile datastructure.TravelProfile, exclusions datastructure.ExclusionSet) *RouteRequest {
	if exclusions == nil {
		exclusions = datastructure.NewExclusionSet()
	}
	changed := profile != s.profile || !exclusions.Equal(s.exclusions)
	s.profile = profile
	s.exclusions = exclusions.Clone()

	if !changed || s.mode != Navigating || s.lastKnownLocation == nil {
		return nil
	}
	from := *s.lastKnownLocation
	s.lastRerouteAnchor = coordPtr(from)
	s.rerouteInFlight = true
	req := s.newRequest(ReasonSettingsChange, from, s.destination.Coordinate)
	return &req
}

// CompleteReroute apply hasil reroute. gagal -> route lama tetap dipakai.
func (s *Session) CompleteReroute(requestID uint64, route *datastructure.Route, fetchErr error) ([]Event, error) {
	req := s.pending
	if s.mode != Navigating || req == nil || req.ID != requestID || req.Reason == ReasonStart {
		return nil, ErrStaleResult
	}
	s.pending = nil
	s.rerouteInFlight = false
	if fetchErr != nil {
		return nil, fetchErr
	}
	if route == nil || route.NumSteps() == 0 {
		return nil, ErrEmptyRoute
	}

	s.activeRoute = route
	s.currentStepIndex = 0
	events := []Event{RouteReplaced{
		RequestID: req.ID,
		Reason:    req.Reason,
		Distance:  route.Distance(),
		NumSteps:  route.NumSteps(),
	}}
	if ann, ok := s.MaybeAnnounce(); ok {
		events = append(events, ann)
	}
	return events, nil
}
