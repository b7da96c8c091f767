package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"lintang/tripnav/pkg/datastructure"
	"lintang/tripnav/pkg/directions"
	"lintang/tripnav/pkg/engine/corridor"
	"lintang/tripnav/pkg/engine/tracking"
	"lintang/tripnav/pkg/server"

	"github.com/google/uuid"
)

type POICatalog interface {
	CandidatesAlongLine(line []datastructure.Coordinate, radiusMeters float64) ([]datastructure.CorridorPOI, error)
	Nearby(p datastructure.Coordinate, radiusMeters float64) ([]datastructure.CorridorPOI, error)
}

type Metrics interface {
	tracking.Metrics
	SetActiveSessions(n int)
}

// SinkFactory bikin event sink & visited marker per session.
type SinkFactory func(sessionID string) (tracking.EventSink, tracking.VisitedMarker)

type Defaults struct {
	Profile        datastructure.TravelProfile
	Camera         tracking.CameraSettings
	CorridorRadius float64
	FetchTimeout   time.Duration
}

type NavigationService struct {
	mu       sync.RWMutex
	sessions map[string]*tracking.Navigator

	provider tracking.DirectionsProvider
	catalog  POICatalog
	sinks    SinkFactory
	metrics  Metrics
	logger   *slog.Logger
	defaults Defaults
	newID    func() string
	dispatch func(func())
}

type Option func(*NavigationService)

func WithCatalog(c POICatalog) Option {
	return func(s *NavigationService) { s.catalog = c }
}

func WithSinkFactory(f SinkFactory) Option {
	return func(s *NavigationService) { s.sinks = f }
}

func WithMetrics(m Metrics) Option {
	return func(s *NavigationService) { s.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *NavigationService) { s.logger = l }
}

func WithDefaults(d Defaults) Option {
	return func(s *NavigationService) { s.defaults = d }
}

func WithIDGenerator(f func() string) Option {
	return func(s *NavigationService) { s.newID = f }
}

// WithDispatcher diteruskan ke setiap Navigator, dipakai test supaya fetch synchronous.
func WithDispatcher(d func(func())) Option {
	return func(s *NavigationService) { s.dispatch = d }
}

func NewNavigationService(provider tracking.DirectionsProvider, opts ...Option) *NavigationService {
	s := &NavigationService{
		sessions: make(map[string]*tracking.Navigator),
		provider: provider,
		logger:   slog.Default(),
		defaults: Defaults{
			Profile:        datastructure.Driving,
			Camera:         tracking.DefaultCameraSettings(),
			CorridorRadius: corridor.DefaultRadiusMeters,
			FetchTimeout:   10 * time.Second,
		},
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession bikin session Viewing baru. profile kosong = default profile service.
func (s *NavigationService) CreateSession(ctx context.Context, profile string, exclusions []string) (string, error) {
	p := s.defaults.Profile
	if profile != "" {
		parsed, err := datastructure.ParseTravelProfile(profile)
		if err != nil {
			return "", server.WrapErrorf(err, server.ErrBadParamInput, "invalid profile %q", profile)
		}
		p = parsed
	}
	ex, err := datastructure.ParseExclusions(exclusions)
	if err != nil {
		return "", server.WrapErrorf(err, server.ErrBadParamInput, "invalid exclusions")
	}

	id := s.newID()
	opts := []tracking.Option{
		tracking.WithLogger(s.logger),
		tracking.WithCorridorRadius(s.defaults.CorridorRadius),
		tracking.WithFetchTimeout(s.defaults.FetchTimeout),
	}
	if s.catalog != nil {
		opts = append(opts, tracking.WithCandidateSource(s.catalog))
	}
	if s.metrics != nil {
		opts = append(opts, tracking.WithMetrics(s.metrics))
	}
	if s.sinks != nil {
		sink, marker := s.sinks(id)
		if sink != nil {
			opts = append(opts, tracking.WithEventSink(sink))
		}
		if marker != nil {
			opts = append(opts, tracking.WithVisitedMarker(marker))
		}
	}
	if s.dispatch != nil {
		opts = append(opts, tracking.WithDispatcher(s.dispatch))
	}

	nav := tracking.NewNavigator(id, tracking.NewSession(p, ex, s.defaults.Camera), s.provider, opts...)

	s.mu.Lock()
	if _, ok := s.sessions[id]; ok {
		s.mu.Unlock()
		return "", server.WrapErrorf(nil, server.ErrConflict, "session %s already exists", id)
	}
	s.sessions[id] = nav
	n := len(s.sessions)
	s.mu.Unlock()

	s.setActive(n)
	s.logger.InfoContext(ctx, "session created", slog.String("session_id", id), slog.String("profile", p.String()))
	return id, nil
}

func (s *NavigationService) setActive(n int) {
	if s.metrics != nil {
		s.metrics.SetActiveSessions(n)
	}
}

func (s *NavigationService) get(id string) (*tracking.Navigator, error) {
	s.mu.RLock()
	nav, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, server.WrapErrorf(nil, server.ErrNotFound, "session %s not found", id)
	}
	return nav, nil
}

func (s *NavigationService) GetSession(ctx context.Context, id string) (tracking.Snapshot, error) {
	nav, err := s.get(id)
	if err != nil {
		return tracking.Snapshot{}, err
	}
	return nav.Snapshot(), nil
}

// DeleteSession hapus session. fetch yang masih jalan dibiarkan selesai, hasilnya tidak dipakai lagi.
func (s *NavigationService) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()
	if !ok {
		return server.WrapErrorf(nil, server.ErrNotFound, "session %s not found", id)
	}
	s.setActive(n)
	s.logger.InfoContext(ctx, "session deleted", slog.String("session_id", id))
	return nil
}

func (s *NavigationService) StartNavigation(ctx context.Context, id string, destination *datastructure.Destination,
	location *datastructure.Coordinate) ([]tracking.Event, error) {
	nav, err := s.get(id)
	if err != nil {
		return nil, err
	}
	events, err := nav.StartNavigating(ctx, destination, location)
	if err != nil {
		return nil, wrapTrackingError(err, "start navigation")
	}
	return events, nil
}

func (s *NavigationService) UpdateLocation(ctx context.Context, id string, location datastructure.Coordinate,
	destination *datastructure.Destination) (tracking.TickResult, error) {
	nav, err := s.get(id)
	if err != nil {
		return tracking.TickResult{}, err
	}
	return nav.Tick(ctx, location, destination), nil
}

func (s *NavigationService) Arrive(ctx context.Context, id string) ([]tracking.Event, error) {
	nav, err := s.get(id)
	if err != nil {
		return nil, err
	}
	events, err := nav.Arrive(ctx)
	if err != nil {
		return nil, wrapTrackingError(err, "arrive")
	}
	return events, nil
}

func (s *NavigationService) Cancel(ctx context.Context, id string) ([]tracking.Event, error) {
	nav, err := s.get(id)
	if err != nil {
		return nil, err
	}
	events, err := nav.Cancel(ctx)
	if err != nil {
		return nil, wrapTrackingError(err, "cancel navigation")
	}
	return events, nil
}

func (s *NavigationService) UpdatePreferences(ctx context.Context, id string, profile string, exclusions []string) (*tracking.RouteRequest, error) {
	nav, err := s.get(id)
	if err != nil {
		return nil, err
	}
	p, err := datastructure.ParseTravelProfile(profile)
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrBadParamInput, "invalid profile %q", profile)
	}
	ex, err := datastructure.ParseExclusions(exclusions)
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrBadParamInput, "invalid exclusions")
	}
	return nav.UpdatePreferences(ctx, p, ex), nil
}

// Corridor POI catalog di sekitar route aktif & lokasi terakhir. radius <= 0 pakai default.
func (s *NavigationService) Corridor(ctx context.Context, id string, radiusMeters float64) ([]datastructure.CorridorPOI, error) {
	nav, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if radiusMeters <= 0 {
		radiusMeters = s.defaults.CorridorRadius
	}
	pois, err := nav.Corridor(radiusMeters)
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrInternalServerError, "load corridor candidates")
	}
	return pois, nil
}

// Close tunggu semua fetch & mark visited yang masih jalan.
func (s *NavigationService) Close() {
	s.mu.RLock()
	navs := make([]*tracking.Navigator, 0, len(s.sessions))
	for _, nav := range s.sessions {
		navs = append(navs, nav)
	}
	s.mu.RUnlock()
	for _, nav := range navs {
		nav.Wait()
	}
}

func wrapTrackingError(err error, op string) error {
	var perr *directions.ProviderError
	switch {
	case errors.Is(err, tracking.ErrNoDestination), errors.Is(err, tracking.ErrNoLocation),
		errors.Is(err, directions.ErrBadWaypoints):
		return server.WrapErrorf(err, server.ErrBadParamInput, "%s", op)
	case errors.Is(err, tracking.ErrAlreadyNavigating), errors.Is(err, tracking.ErrNotNavigating),
		errors.Is(err, tracking.ErrStaleResult):
		return server.WrapErrorf(err, server.ErrConflict, "%s", op)
	case errors.Is(err, directions.ErrNoRoute), errors.Is(err, tracking.ErrEmptyRoute):
		return server.WrapErrorf(err, server.ErrNotFound, "%s: no route found", op)
	case errors.As(err, &perr), errors.Is(err, context.DeadlineExceeded):
		return server.WrapErrorf(err, server.ErrBadGateway, "%s: directions provider failed", op)
	default:
		return server.WrapErrorf(err, server.ErrInternalServerError, "%s", op)
	}
}
