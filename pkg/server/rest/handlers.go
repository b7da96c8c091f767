package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"lintang/tripnav/pkg/datastructure"
	"lintang/tripnav/pkg/engine/tracking"
	"lintang/tripnav/pkg/server"
	"lintang/tripnav/pkg/util"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

type NavigationService interface {
	CreateSession(ctx context.Context, profile string, exclusions []string) (string, error)
	GetSession(ctx context.Context, id string) (tracking.Snapshot, error)
	DeleteSession(ctx context.Context, id string) error
	StartNavigation(ctx context.Context, id string, destination *datastructure.Destination, location *datastructure.Coordinate) ([]tracking.Event, error)
	UpdateLocation(ctx context.Context, id string, location datastructure.Coordinate, destination *datastructure.Destination) (tracking.TickResult, error)
	Arrive(ctx context.Context, id string) ([]tracking.Event, error)
	Cancel(ctx context.Context, id string) ([]tracking.Event, error)
	UpdatePreferences(ctx context.Context, id string, profile string, exclusions []string) (*tracking.RouteRequest, error)
	Corridor(ctx context.Context, id string, radiusMeters float64) ([]datastructure.CorridorPOI, error)
}

type NavigationHandler struct {
	svc      NavigationService
	validate *validator.Validate
	trans    ut.Translator
}

func NavigatorRouter(r chi.Router, svc NavigationService) {
	validate := validator.New()
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	handler := &NavigationHandler{svc: svc, validate: validate, trans: trans}

	r.Group(func(r chi.Router) {
		r.Route("/api/navigations", func(r chi.Router) {
			r.Post("/sessions", handler.createSession)
			r.Route("/sessions/{id}", func(r chi.Router) {
				r.Get("/", handler.getSession)
				r.Delete("/", handler.deleteSession)
				r.Post("/start", handler.startNavigation)
				r.Post("/locations", handler.updateLocation)
				r.Post("/arrive", handler.arrive)
				r.Post("/cancel", handler.cancel)
				r.Put("/preferences", handler.updatePreferences)
				r.Get("/corridor", handler.corridor)
			})
		})
	})
}

// Coord model info
//
//	@Description	model untuk koordinat
type Coord struct {
	Lat float64 `json:"lat" validate:"lte=90,gte=-90"`
	Lon float64 `json:"lon" validate:"lte=180,gte=-180"`
}

func (c Coord) toCoordinate() datastructure.Coordinate {
	return datastructure.NewCoordinate(c.Lat, c.Lon)
}

// DestinationRequest model info
//
//	@Description	destination navigasi, id dipakai buat mark visited
type DestinationRequest struct {
	ID  string  `json:"id" validate:"required"`
	Lat float64 `json:"lat" validate:"lte=90,gte=-90"`
	Lon float64 `json:"lon" validate:"lte=180,gte=-180"`
}

func (d *DestinationRequest) toDestination() *datastructure.Destination {
	if d == nil {
		return nil
	}
	return datastructure.NewDestination(d.ID, datastructure.NewCoordinate(d.Lat, d.Lon))
}

// CreateSessionRequest model info
//
//	@Description	request body untuk bikin session navigasi baru
type CreateSessionRequest struct {
	Profile    string   `json:"profile" validate:"omitempty,oneof=driving walking cycling"`
	Exclusions []string `json:"exclusions" validate:"dive,oneof=toll"`
}

func (s *CreateSessionRequest) Bind(r *http.Request) error {
	return nil
}

// SessionResponse model info
//
//	@Description	response body session baru
type SessionResponse struct {
	ID string `json:"id"`
}

// SnapshotResponse model info
//
//	@Description	state session navigasi
type SnapshotResponse struct {
	ID                string                     `json:"id"`
	Mode              string                     `json:"mode"`
	StepIndex         int                        `json:"step_index"`
	Profile           string                     `json:"profile"`
	Exclusions        []string                   `json:"exclusions"`
	Destination       *datastructure.Destination `json:"destination,omitempty"`
	LastKnownLocation *datastructure.Coordinate  `json:"last_known_location,omitempty"`
	RerouteInFlight   bool                       `json:"reroute_in_flight"`
	CurrentStep       *StepResponse              `json:"current_step,omitempty"`
	RemainingInStep   float64                    `json:"remaining_in_step"`
	RemainingInLeg    float64                    `json:"remaining_in_leg"`
	RemainingPath     string                     `json:"remaining_path,omitempty"`
}

// StepResponse model info
//
//	@Description	step yang sedang dijalani
type StepResponse struct {
	Instruction   string                   `json:"instruction"`
	BearingBefore float64                  `json:"bearing_before"`
	BearingAfter  float64                  `json:"bearing_after"`
	Location      datastructure.Coordinate `json:"location"`
	Distance      float64                  `json:"distance"`
	Duration      float64                  `json:"duration"`
}

func NewSnapshotResponse(id string, snap tracking.Snapshot) *SnapshotResponse {
	resp := &SnapshotResponse{
		ID:                id,
		Mode:              snap.Mode.String(),
		StepIndex:         snap.StepIndex,
		Profile:           snap.Profile.String(),
		Exclusions:        snap.Exclusions,
		Destination:       snap.Destination,
		LastKnownLocation: snap.LastKnownLocation,
		RerouteInFlight:   snap.RerouteInFlight,
		RemainingInStep:   util.RoundFloat(snap.RemainingInStep, 2),
		RemainingInLeg:    util.RoundFloat(snap.RemainingInLeg, 2),
	}
	if snap.CurrentStep != nil {
		st := snap.CurrentStep
		resp.CurrentStep = &StepResponse{
			Instruction:   st.Maneuver.Instruction,
			BearingBefore: st.Maneuver.BearingBefore,
			BearingAfter:  st.Maneuver.BearingAfter,
			Location:      st.Maneuver.Location,
			Distance:      util.RoundFloat(st.Distance, 2),
			Duration:      util.RoundFloat(st.Duration, 2),
		}
	}
	if len(snap.RemainingPath) > 0 {
		resp.RemainingPath = datastructure.RenderPath(snap.RemainingPath)
	}
	return resp
}

// EventResponse model info
//
//	@Description	event navigasi (camera, announcement, arrival, progress, dll)
type EventResponse struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

func renderEvents(events []tracking.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, EventResponse{Type: string(ev.Type()), Payload: ev})
	}
	return out
}

// EventsResponse model info
//
//	@Description	list event yang di emit oleh operasi navigasi
type EventsResponse struct {
	Events []EventResponse `json:"events"`
}

// StartNavigationRequest model info
//
//	@Description	request body untuk mulai navigasi ke destination
type StartNavigationRequest struct {
	Destination *DestinationRequest `json:"destination" validate:"required"`
	Location    *Coord              `json:"location" validate:"required"`
}

func (s *StartNavigationRequest) Bind(r *http.Request) error {
	if s.Destination == nil || s.Location == nil {
		return errors.New("destination and location are required")
	}
	return nil
}

// LocationUpdateRequest model info
//
//	@Description	request body location update dari device. destination optional, kalau kosong pakai destination session
type LocationUpdateRequest struct {
	Lat         float64             `json:"lat" validate:"lte=90,gte=-90"`
	Lon         float64             `json:"lon" validate:"lte=180,gte=-180"`
	Destination *DestinationRequest `json:"destination,omitempty" validate:"omitempty"`
}

func (s *LocationUpdateRequest) Bind(r *http.Request) error {
	return nil
}

// CorridorPOIResponse model info
//
//	@Description	poi di sekitar route
type CorridorPOIResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
}

func renderPOIs(pois []datastructure.CorridorPOI) []CorridorPOIResponse {
	out := make([]CorridorPOIResponse, 0, len(pois))
	for _, p := range pois {
		out = append(out, CorridorPOIResponse{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Lat:      p.Coordinate.Lat,
			Lon:      p.Coordinate.Lon,
		})
	}
	return out
}

// LocationUpdateResponse model info
//
//	@Description	hasil evaluasi 1 location update
type LocationUpdateResponse struct {
	Mode      string                `json:"mode"`
	StepIndex int                   `json:"step_index"`
	Events    []EventResponse       `json:"events"`
	Corridor  []CorridorPOIResponse `json:"corridor"`
}

// PreferencesRequest model info
//
//	@Description	request body ganti travel profile / exclusions
type PreferencesRequest struct {
	Profile    string   `json:"profile" validate:"required,oneof=driving walking cycling"`
	Exclusions []string `json:"exclusions" validate:"dive,oneof=toll"`
}

func (s *PreferencesRequest) Bind(r *http.Request) error {
	return nil
}

// PreferencesResponse model info
//
//	@Description	rerouting true kalau settings-change reroute di issue
type PreferencesResponse struct {
	Rerouting bool   `json:"rerouting"`
	RequestID uint64 `json:"request_id,omitempty"`
}

// CorridorResponse model info
//
//	@Description	poi catalog di sekitar route aktif
type CorridorResponse struct {
	Radius float64               `json:"radius"`
	POIs   []CorridorPOIResponse `json:"pois"`
}

func (h *NavigationHandler) validateRequest(w http.ResponseWriter, r *http.Request, data interface{}) bool {
	if err := h.validate.Struct(data); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			render.Render(w, r, ErrInvalidRequest(err))
			return false
		}
		render.Render(w, r, ErrValidation(err, translateError(verrs, h.trans)))
		return false
	}
	return true
}

// createSession
//
//	@Summary		bikin session navigasi baru.
//	@Description	bikin session navigasi baru dalam mode viewing. profile default driving.
//	@Tags			navigations
//	@Param			body	body	CreateSessionRequest	true	"request body session baru"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/sessions [post]
//	@Success		201	{object}	SessionResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *NavigationHandler) createSession(w http.ResponseWriter, r *http.Request) {
	data := &CreateSessionRequest{}
	if r.ContentLength != 0 {
		if err := render.Bind(r, data); err != nil {
			render.Render(w, r, ErrInvalidRequest(err))
			return
		}
	}
	if !h.validateRequest(w, r, *data) {
		return
	}

	id, err := h.svc.CreateSession(r.Context(), data.Profile, data.Exclusions)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, SessionResponse{ID: id})
}

// getSession
//
//	@Summary		state session navigasi.
//	@Description	state session navigasi termasuk sisa route (encoded polyline) dari posisi terakhir user.
//	@Tags			navigations
//	@Param			id	path	string	true	"session id"
//	@Produce		application/json
//	@Router			/navigations/sessions/{id} [get]
//	@Success		200	{object}	SnapshotResponse
//	@Failure		404	{object}	ErrResponse
func (h *NavigationHandler) getSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := h.svc.GetSession(r.Context(), id)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, NewSnapshotResponse(id, snap))
}

// deleteSession
//
//	@Summary		hapus session navigasi.
//	@Tags			navigations
//	@Param			id	path	string	true	"session id"
//	@Router			/navigations/sessions/{id} [delete]
//	@Success		204
//	@Failure		404	{object}	ErrResponse
func (h *NavigationHandler) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.NoContent(w, r)
}

// startNavigation
//
//	@Summary		mulai navigasi ke destination.
//	@Description	fetch route dari lokasi sekarang ke destination lalu masuk mode navigating.
//	@Tags			navigations
//	@Param			id		path	string					true	"session id"
//	@Param			body	body	StartNavigationRequest	true	"destination & lokasi sekarang"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/sessions/{id}/start [post]
//	@Success		200	{object}	EventsResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		409	{object}	ErrResponse
//	@Failure		502	{object}	ErrResponse
func (h *NavigationHandler) startNavigation(w http.ResponseWriter, r *http.Request) {
	data := &StartNavigationRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if !h.validateRequest(w, r, *data) {
		return
	}

	loc := data.Location.toCoordinate()
	events, err := h.svc.StartNavigation(r.Context(), chi.URLParam(r, "id"), data.Destination.toDestination(), &loc)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, EventsResponse{Events: renderEvents(events)})
}

// updateLocation
//
//	@Summary		location update dari device.
//	@Description	evaluasi 1 location sample: arrival, step advance, off-route reroute, announcement. return event + corridor poi.
//	@Tags			navigations
//	@Param			id		path	string					true	"session id"
//	@Param			body	body	LocationUpdateRequest	true	"lokasi terbaru user"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/sessions/{id}/locations [post]
//	@Success		200	{object}	LocationUpdateResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
func (h *NavigationHandler) updateLocation(w http.ResponseWriter, r *http.Request) {
	data := &LocationUpdateRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if !h.validateRequest(w, r, *data) {
		return
	}

	res, err := h.svc.UpdateLocation(r.Context(), chi.URLParam(r, "id"), datastructure.NewCoordinate(data.Lat, data.Lon),
		data.Destination.toDestination())
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, LocationUpdateResponse{
		Mode:      res.Mode.String(),
		StepIndex: res.StepIndex,
		Events:    renderEvents(res.Events),
		Corridor:  renderPOIs(res.Corridor),
	})
}

// arrive
//
//	@Summary		finalize arrival secara manual.
//	@Tags			navigations
//	@Param			id	path	string	true	"session id"
//	@Produce		application/json
//	@Router			/navigations/sessions/{id}/arrive [post]
//	@Success		200	{object}	EventsResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		409	{object}	ErrResponse
func (h *NavigationHandler) arrive(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.Arrive(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, EventsResponse{Events: renderEvents(events)})
}

// cancel
//
//	@Summary		cancel navigasi.
//	@Description	cancel navigasi, session kembali ke mode viewing tanpa mark visited.
//	@Tags			navigations
//	@Param			id	path	string	true	"session id"
//	@Produce		application/json
//	@Router			/navigations/sessions/{id}/cancel [post]
//	@Success		200	{object}	EventsResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		409	{object}	ErrResponse
func (h *NavigationHandler) cancel(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, EventsResponse{Events: renderEvents(events)})
}

// updatePreferences
//
//	@Summary		ganti travel profile / exclusions.
//	@Description	kalau sedang navigating dan setting berubah, route di fetch ulang dari lokasi terakhir.
//	@Tags			navigations
//	@Param			id		path	string				true	"session id"
//	@Param			body	body	PreferencesRequest	true	"profile & exclusions baru"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/sessions/{id}/preferences [put]
//	@Success		200	{object}	PreferencesResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
func (h *NavigationHandler) updatePreferences(w http.ResponseWriter, r *http.Request) {
	data := &PreferencesRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if !h.validateRequest(w, r, *data) {
		return
	}

	req, err := h.svc.UpdatePreferences(r.Context(), chi.URLParam(r, "id"), data.Profile, data.Exclusions)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	resp := PreferencesResponse{}
	if req != nil {
		resp.Rerouting = true
		resp.RequestID = req.ID
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

// corridor
//
//	@Summary		poi di sekitar route aktif.
//	@Description	poi catalog dalam radius dari route aktif atau lokasi terakhir user.
//	@Tags			navigations
//	@Param			id		path	string	true	"session id"
//	@Param			radius	query	number	false	"radius meter, default 100"
//	@Produce		application/json
//	@Router			/navigations/sessions/{id}/corridor [get]
//	@Success		200	{object}	CorridorResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
func (h *NavigationHandler) corridor(w http.ResponseWriter, r *http.Request) {
	radius := 0.0
	if raw := r.URL.Query().Get("radius"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 || v > 5000 {
			render.Render(w, r, ErrInvalidRequest(fmt.Errorf("radius must be a number in (0, 5000], got %q", raw)))
			return
		}
		radius = v
	}

	pois, err := h.svc.Corridor(r.Context(), chi.URLParam(r, "id"), radius)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, CorridorResponse{Radius: radius, POIs: renderPOIs(pois)})
}

// ErrResponse model info
//
//	@Description	model untuk error response
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText    string   `json:"status"`          // user-level status message
	AppCode       int64    `json:"code,omitempty"`  // application-specific error code
	ErrorText     string   `json:"error,omitempty"` // application-level error message, for debugging
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := []string{}
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
		ErrValidation:  vv,
	}
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrChi(err error) render.Renderer {
	statusText := ""
	switch getStatusCode(err) {
	case http.StatusNotFound:
		statusText = "Resource not found."
	case http.StatusInternalServerError:
		statusText = "Internal server error."
	case http.StatusConflict:
		statusText = "Resource conflict."
	case http.StatusBadRequest:
		statusText = "Bad request."
	case http.StatusBadGateway:
		statusText = "Upstream provider error."
	default:
		statusText = "Error."
	}

	errText := err.Error()
	var ierr *server.Error
	if errors.As(err, &ierr) && ierr.Code() == server.ErrInternalServerError {
		// detail error internal tidak dikirim ke client
		errText = ierr.Message()
	}

	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: getStatusCode(err),
		StatusText:     statusText,
		ErrorText:      errText,
	}
}

func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var ierr *server.Error
	if !errors.As(err, &ierr) {
		return http.StatusInternalServerError
	}
	switch ierr.Code() {
	case server.ErrInternalServerError:
		return http.StatusInternalServerError
	case server.ErrNotFound:
		return http.StatusNotFound
	case server.ErrConflict:
		return http.StatusConflict
	case server.ErrBadParamInput:
		return http.StatusBadRequest
	case server.ErrBadGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func translateError(validatorErrs validator.ValidationErrors, trans ut.Translator) (errs []error) {
	for _, e := range validatorErrs {
		errs = append(errs, errors.New(e.Translate(trans)))
	}
	return errs
}
