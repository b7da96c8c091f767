package tracking

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"lintang/tripnav/pkg/datastructure"
	"lintang/tripnav/pkg/engine/corridor"
)

type DirectionsProvider interface {
	FetchRoute(ctx context.Context, waypoints []datastructure.Coordinate, profile datastructure.TravelProfile,
		exclusions datastructure.ExclusionSet) (*datastructure.Route, error)
}

type VisitedMarker interface {
	MarkVisited(ctx context.Context, destinationID string) error
}

// EventSink consumer event (camera, announcement, dll). Publish tidak boleh block lama.
type EventSink interface {
	Publish(ctx context.Context, sessionID string, ev Event)
}

// CandidateSource superset candidate corridor POI. filter jarak exact dilakukan Navigator.
type CandidateSource interface {
	CandidatesAlongLine(line []datastructure.Coordinate, radiusMeters float64) ([]datastructure.CorridorPOI, error)
	Nearby(p datastructure.Coordinate, radiusMeters float64) ([]datastructure.CorridorPOI, error)
}

type Metrics interface {
	ObserveTick(d time.Duration)
	RerouteIssued(reason string)
	RerouteCompleted(reason string, err error)
	Arrived()
	VisitedMarkFailed()
}

type nopMetrics struct{}

func (nopMetrics) ObserveTick(time.Duration)      {}
func (nopMetrics) RerouteIssued(string)           {}
func (nopMetrics) RerouteCompleted(string, error) {}
func (nopMetrics) Arrived()                       {}
func (nopMetrics) VisitedMarkFailed()             {}

type nopSink struct{}

func (nopSink) Publish(context.Context, string, Event) {}

type TickResult struct {
	Mode      Mode                        `json:"mode"`
	StepIndex int                         `json:"step_index"`
	Events    []Event                     `json:"events"`
	Corridor  []datastructure.CorridorPOI `json:"corridor"`
}

/*
Navigator host untuk 1 Session. tick di serialize pakai mutex, fetch route (reroute) jalan di goroutine terpisah
dan hasilnya di apply lewat Session.CompleteReroute. mark visited juga async.
*/
type Navigator struct {
	id      string
	mu      sync.Mutex
	session *Session

	provider   DirectionsProvider
	marker     VisitedMarker
	sink       EventSink
	candidates CandidateSource
	metrics    Metrics
	logger     *slog.Logger

	fetchTimeout   time.Duration
	corridorRadius float64
	dispatch       func(func())
	wg             sync.WaitGroup

	visitsMu      sync.Mutex
	pendingVisits map[string]struct{}

	// di akses dengan n.mu di lock. load candidate dari CandidateSource selalu di luar lock.
	corridor corridorCache
}

// corridorCache r-tree route aktif + candidate sepanjang route untuk corridorRadius default.
type corridorCache struct {
	route  *datastructure.Route
	idx    *corridor.SegmentIndex
	pois   []datastructure.CorridorPOI
	loaded bool
}

type Option func(*Navigator)

func WithVisitedMarker(m VisitedMarker) Option {
	return func(n *Navigator) { n.marker = m }
}

func WithEventSink(s EventSink) Option {
	return func(n *Navigator) { n.sink = s }
}

func WithCandidateSource(c CandidateSource) Option {
	return func(n *Navigator) { n.candidates = c }
}

func WithMetrics(m Metrics) Option {
	return func(n *Navigator) { n.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(n *Navigator) { n.logger = l }
}

func WithFetchTimeout(d time.Duration) Option {
	return func(n *Navigator) { n.fetchTimeout = d }
}

func WithCorridorRadius(r float64) Option {
	return func(n *Navigator) { n.corridorRadius = r }
}

// WithDispatcher ganti cara menjalankan pekerjaan async (default goroutine).
func WithDispatcher(d func(func())) Option {
	return func(n *Navigator) { n.dispatch = d }
}

func NewNavigator(id string, session *Session, provider DirectionsProvider, opts ...Option) *Navigator {
	n := &Navigator{
		id:             id,
		session:        session,
		provider:       provider,
		sink:           nopSink{},
		metrics:        nopMetrics{},
		logger:         slog.Default(),
		fetchTimeout:   10 * time.Second,
		corridorRadius: corridor.DefaultRadiusMeters,
		pendingVisits:  make(map[string]struct{}),
	}
	n.dispatch = func(f func()) { go f() }
	for _, opt := range opts {
		opt(n)
	}
	n.logger = n.logger.With(slog.String("session_id", id))
	return n
}

func (n *Navigator) ID() string {
	return n.id
}

func (n *Navigator) goAsync(f func()) {
	n.wg.Add(1)
	n.dispatch(func() {
		defer n.wg.Done()
		f()
	})
}

// Wait tunggu semua fetch / mark visited yang masih jalan.
func (n *Navigator) Wait() {
	n.wg.Wait()
}

func (n *Navigator) publish(ctx context.Context, events []Event) {
	for _, ev := range events {
		n.sink.Publish(ctx, n.id, ev)
	}
}

/*
StartNavigating fetch route awal secara synchronous. kalau fetch gagal session tetap Viewing dan error di return.
*/
func (n *Navigator) StartNavigating(ctx context.Context, destination *datastructure.Destination, currentLocation *datastructure.Coordinate) ([]Event, error) {
	n.mu.Lock()
	req, err := n.session.BeginStart(destination, currentLocation)
	n.mu.Unlock()
	if err != nil {
		return nil, err
	}

	n.metrics.RerouteIssued(string(req.Reason))
	route, fetchErr := n.fetch(ctx, req)
	n.metrics.RerouteCompleted(string(req.Reason), fetchErr)

	n.mu.Lock()
	events, err := n.session.CompleteStart(req.ID, route, fetchErr)
	n.mu.Unlock()
	if err != nil {
		n.logger.Warn("start navigation failed", slog.String("destination_id", destination.ID), slog.Any("error", err))
		return nil, err
	}

	n.logger.Info("navigation started", slog.String("destination_id", destination.ID), slog.Int("steps", route.NumSteps()))
	n.publish(ctx, events)
	return events, nil
}

func (n *Navigator) fetch(ctx context.Context, req RouteRequest) (*datastructure.Route, error) {
	ctx, cancel := context.WithTimeout(ctx, n.fetchTimeout)
	defer cancel()
	return n.provider.FetchRoute(ctx, req.Waypoints, req.Profile, req.Exclusions)
}

// Tick proses 1 location sample. destination nil berarti pakai destination yang sekarang.
func (n *Navigator) Tick(ctx context.Context, location datastructure.Coordinate, destination *datastructure.Destination) TickResult {
	start := time.Now()

	n.mu.Lock()
	events := n.session.Evaluate(location, destination)
	res := TickResult{
		Mode:      n.session.Mode(),
		StepIndex: n.session.CurrentStepIndex(),
		Events:    events,
	}
	route := n.navigatingRouteLocked()
	n.mu.Unlock()

	pois, err := n.corridorFor(route, location, n.corridorRadius)
	if err != nil {
		n.logger.Warn("load corridor candidates failed", slog.Any("error", err))
		pois = []datastructure.CorridorPOI{}
	}
	res.Corridor = pois

	n.metrics.ObserveTick(time.Since(start))
	n.publish(ctx, events)
	n.handleEffects(ctx, events)
	return res
}

// handleEffects dispatch reroute & mark visited. jangan dipanggil saat n.mu di lock.
func (n *Navigator) handleEffects(ctx context.Context, events []Event) {
	for _, ev := range events {
		switch e := ev.(type) {
		case RouteRequest:
			n.dispatchReroute(ctx, e)
		case Arrival:
			n.metrics.Arrived()
			n.logger.Info("arrived", slog.String("destination_id", e.Destination.ID))
			n.dispatchMarkVisited(ctx, e.Destination.ID)
		}
	}
}

func (n *Navigator) dispatchReroute(ctx context.Context, req RouteRequest) {
	n.metrics.RerouteIssued(string(req.Reason))
	n.logger.Info("reroute requested", slog.String("reason", string(req.Reason)), slog.Uint64("request_id", req.ID))
	bg := context.WithoutCancel(ctx)
	n.goAsync(func() {
		route, fetchErr := n.fetch(bg, req)
		n.metrics.RerouteCompleted(string(req.Reason), fetchErr)

		n.mu.Lock()
		events, err := n.session.CompleteReroute(req.ID, route, fetchErr)
		n.mu.Unlock()

		switch {
		case errors.Is(err, ErrStaleResult):
			n.logger.Debug("late route result discarded", slog.Uint64("request_id", req.ID))
		case err != nil:
			n.logger.Warn("reroute failed, keep current route", slog.String("reason", string(req.Reason)), slog.Any("error", err))
		default:
			n.publish(bg, events)
		}
	})
}

// dispatchMarkVisited mark visited maksimal 1x per approach ke destination yang sama.
func (n *Navigator) dispatchMarkVisited(ctx context.Context, destinationID string) {
	if n.marker == nil || destinationID == "" {
		return
	}
	n.visitsMu.Lock()
	if _, ok := n.pendingVisits[destinationID]; ok {
		n.visitsMu.Unlock()
		return
	}
	n.pendingVisits[destinationID] = struct{}{}
	n.visitsMu.Unlock()

	bg := context.WithoutCancel(ctx)
	n.goAsync(func() {
		defer func() {
			n.visitsMu.Lock()
			delete(n.pendingVisits, destinationID)
			n.visitsMu.Unlock()
		}()
		ctx, cancel := context.WithTimeout(bg, n.fetchTimeout)
		defer cancel()
		if err := n.marker.MarkVisited(ctx, destinationID); err != nil {
			n.metrics.VisitedMarkFailed()
			n.logger.Warn("mark visited failed", slog.String("destination_id", destinationID), slog.Any("error", err))
		}
	})
}

// Arrive finalize arrival secara manual.
func (n *Navigator) Arrive(ctx context.Context) ([]Event, error) {
	n.mu.Lock()
	events, err := n.session.Arrive()
	n.mu.Unlock()
	if err != nil {
		return nil, err
	}
	n.publish(ctx, events)
	n.handleEffects(ctx, events)
	return events, nil
}

func (n *Navigator) Cancel(ctx context.Context) ([]Event, error) {
	n.mu.Lock()
	events, err := n.session.Cancel()
	n.mu.Unlock()
	if err != nil {
		return nil, err
	}
	n.logger.Info("navigation canceled")
	n.publish(ctx, events)
	return events, nil
}

// UpdatePreferences ganti profile/exclusions. return request reroute kalau settings-change reroute di issue.
func (n *Navigator) UpdatePreferences(ctx context.Context, profile datastructure.TravelProfile, exclusions datastructure.ExclusionSet) *RouteRequest {
	n.mu.Lock()
	req := n.session.UpdatePreferences(profile, exclusions)
	n.mu.Unlock()
	if req != nil {
		n.publish(ctx, []Event{*req})
		n.handleEffects(ctx, []Event{*req})
	}
	return req
}

// Corridor corridor POI di sekitar route aktif & lokasi terakhir user dengan radius tertentu.
func (n *Navigator) Corridor(radiusMeters float64) ([]datastructure.CorridorPOI, error) {
	if radiusMeters <= 0 {
		radiusMeters = n.corridorRadius
	}
	n.mu.Lock()
	loc, ok := n.session.LastKnownLocation()
	route := n.navigatingRouteLocked()
	n.mu.Unlock()
	if !ok {
		return []datastructure.CorridorPOI{}, nil
	}
	return n.corridorFor(route, loc, radiusMeters)
}

func (n *Navigator) navigatingRouteLocked() *datastructure.Route {
	route := n.session.ActiveRoute()
	if n.session.Mode() != Navigating || route == nil || len(route.Geometry) == 0 {
		return nil
	}
	return route
}

/*
corridorFor candidate = candidate sepanjang route + candidate di sekitar user (POI dekat user tetap masuk walaupun
jauh dari route, misal saat off-route), lalu di filter exact pakai r-tree segment route.
candidate sepanjang route di cache per route hanya untuk radius default, radius lain selalu load ulang.
*/
func (n *Navigator) corridorFor(route *datastructure.Route, location datastructure.Coordinate,
	radiusMeters float64) ([]datastructure.CorridorPOI, error) {
	if route == nil || n.candidates == nil {
		return []datastructure.CorridorPOI{}, nil
	}

	idx, alongRoute, ok := n.cachedCorridor(route, radiusMeters)
	if !ok {
		var err error
		alongRoute, err = n.candidates.CandidatesAlongLine(route.Geometry, radiusMeters)
		if err != nil {
			return nil, err
		}
		if idx == nil {
			idx = corridor.NewSegmentIndex(route.Geometry)
		}
		n.storeCorridor(route, radiusMeters, idx, alongRoute)
	}

	nearUser, err := n.candidates.Nearby(location, radiusMeters)
	if err != nil {
		return nil, err
	}
	return idx.FindNearby(mergeCandidates(alongRoute, nearUser), location, radiusMeters), nil
}

func (n *Navigator) cachedCorridor(route *datastructure.Route, radiusMeters float64) (*corridor.SegmentIndex, []datastructure.CorridorPOI, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.corridor.route != route {
		return nil, nil, false
	}
	if radiusMeters == n.corridorRadius && n.corridor.loaded {
		return n.corridor.idx, n.corridor.pois, true
	}
	return n.corridor.idx, nil, false
}

// storeCorridor simpan hasil load kalau route yang di load masih route aktif.
func (n *Navigator) storeCorridor(route *datastructure.Route, radiusMeters float64, idx *corridor.SegmentIndex,
	pois []datastructure.CorridorPOI) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.session.ActiveRoute() != route {
		return
	}
	if n.corridor.route != route {
		n.corridor = corridorCache{route: route, idx: idx}
	}
	if radiusMeters == n.corridorRadius {
		n.corridor.pois = pois
		n.corridor.loaded = true
	}
}

func mergeCandidates(a, b []datastructure.CorridorPOI) []datastructure.CorridorPOI {
	seen := make(map[string]struct{}, len(a)+len(b))
	merged := make([]datastructure.CorridorPOI, 0, len(a)+len(b))
	for _, list := range [][]datastructure.CorridorPOI{a, b} {
		for _, poi := range list {
			if _, ok := seen[poi.ID]; ok {
				continue
			}
			seen[poi.ID] = struct{}{}
			merged = append(merged, poi)
		}
	}
	return merged
}

type Snapshot struct {
	Mode              Mode                        `json:"mode"`
	StepIndex         int                         `json:"step_index"`
	Destination       *datastructure.Destination  `json:"destination,omitempty"`
	Profile           datastructure.TravelProfile `json:"profile"`
	Exclusions        []string                    `json:"exclusions"`
	RerouteInFlight   bool                        `json:"reroute_in_flight"`
	LastKnownLocation *datastructure.Coordinate   `json:"last_known_location,omitempty"`
	CurrentStep       *datastructure.Step         `json:"current_step,omitempty"`
	RemainingInStep   float64                     `json:"remaining_in_step"`
	RemainingInLeg    float64                     `json:"remaining_in_leg"`
	RemainingPath     []datastructure.Coordinate  `json:"-"`
}

func (n *Navigator) Snapshot() Snapshot {
	n.mu.Lock()
	defer n.mu.Unlock()
	s := n.session
	snap := Snapshot{
		Mode:            s.Mode(),
		StepIndex:       s.CurrentStepIndex(),
		Destination:     s.Destination(),
		Profile:         s.Profile(),
		Exclusions:      s.exclusions.Slice(),
		RerouteInFlight: s.RerouteInFlight(),
	}
	loc, hasLoc := s.LastKnownLocation()
	if hasLoc {
		snap.LastKnownLocation = &loc
	}
	step, ok := s.CurrentStep()
	if !ok {
		return snap
	}
	snap.CurrentStep = &step
	snap.RemainingInStep = step.Distance
	if leg, ok := s.ActiveRoute().FirstLeg(); ok && hasLoc {
		snap.RemainingInStep = RemainingDistanceInStep(step, loc)
		snap.RemainingInLeg = RemainingDistanceInLeg(leg, s.CurrentStepIndex(), loc)
		snap.RemainingPath = RemainingGeometry(s.ActiveRoute(), loc)
	} else {
		snap.RemainingPath = s.ActiveRoute().Geometry
	}
	return snap
}
