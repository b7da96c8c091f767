package directions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lintang/tripnav/pkg/datastructure"
	"lintang/tripnav/pkg/guidance"

	"github.com/gojek/heimdall/v7"
	"github.com/gojek/heimdall/v7/httpclient"
)

var (
	ErrNoRoute       = errors.New("directions: no route found")
	ErrBadWaypoints  = errors.New("directions: need at least 2 waypoints")
	ErrEmptyResponse = errors.New("directions: empty response")
)

// ProviderError error dari directions provider (network / response non-Ok).
type ProviderError struct {
	Status int
	Code   string
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("directions provider: status %d code %s: %v", e.Status, e.Code, e.Err)
	}
	return fmt.Sprintf("directions provider: status %d: %v", e.Status, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
	// Profiles nama profile di url osrm per TravelProfile.
	Profiles map[datastructure.TravelProfile]string
}

func DefaultProfiles() map[datastructure.TravelProfile]string {
	return map[datastructure.TravelProfile]string{
		datastructure.Driving: "driving",
		datastructure.Walking: "walking",
		datastructure.Cycling: "cycling",
	}
}

type OSRMClient struct {
	baseURL  string
	client   heimdall.Doer
	profiles map[datastructure.TravelProfile]string
}

func NewOSRMClient(cfg Config) *OSRMClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	backoff := heimdall.NewConstantBackoff(200*time.Millisecond, 100*time.Millisecond)
	client := httpclient.NewClient(
		httpclient.WithHTTPTimeout(timeout),
		httpclient.WithRetrier(heimdall.NewRetrier(backoff)),
		httpclient.WithRetryCount(cfg.RetryCount),
	)
	profiles := cfg.Profiles
	if len(profiles) == 0 {
		profiles = DefaultProfiles()
	}
	return &OSRMClient{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		client:   client,
		profiles: profiles,
	}
}

type osrmResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Routes  []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Distance float64   `json:"distance"`
	Duration float64   `json:"duration"`
	Geometry string    `json:"geometry"`
	Legs     []osrmLeg `json:"legs"`
}

type osrmLeg struct {
	Distance float64    `json:"distance"`
	Duration float64    `json:"duration"`
	Steps    []osrmStep `json:"steps"`
}

type osrmStep struct {
	Distance     float64      `json:"distance"`
	Duration     float64      `json:"duration"`
	Geometry     string       `json:"geometry"`
	Name         string       `json:"name"`
	Destinations string       `json:"destinations"`
	Maneuver     osrmManeuver `json:"maneuver"`
}

type osrmManeuver struct {
	BearingBefore float64    `json:"bearing_before"`
	BearingAfter  float64    `json:"bearing_after"`
	Location      [2]float64 `json:"location"` // [lon, lat]
	Type          string     `json:"type"`
	Modifier      string     `json:"modifier"`
	Exit          int        `json:"exit"`
}

func (c *OSRMClient) routeURL(waypoints []datastructure.Coordinate, profile datastructure.TravelProfile, exclusions datastructure.ExclusionSet) string {
	coords := make([]string, len(waypoints))
	for i, w := range waypoints {
		coords[i] = fmt.Sprintf("%.6f,%.6f", w.Lon, w.Lat)
	}
	q := url.Values{}
	q.Set("overview", "full")
	q.Set("geometries", "polyline6")
	q.Set("steps", "true")
	// exclude cuma meaningful buat driving
	if profile == datastructure.Driving && len(exclusions) > 0 {
		q.Set("exclude", strings.Join(exclusions.Slice(), ","))
	}
	profileName, ok := c.profiles[profile]
	if !ok {
		profileName = profile.String()
	}
	return fmt.Sprintf("%s/route/v1/%s/%s?%s", c.baseURL, profileName, strings.Join(coords, ";"), q.Encode())
}

// FetchRoute ambil route dari osrm untuk waypoints [origin, ..., destination].
func (c *OSRMClient) FetchRoute(ctx context.Context, waypoints []datastructure.Coordinate, profile datastructure.TravelProfile,
	exclusions datastructure.ExclusionSet) (*datastructure.Route, error) {
	if len(waypoints) < 2 {
		return nil, ErrBadWaypoints
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.routeURL(waypoints, profile, exclusions), nil)
	if err != nil {
		return nil, &ProviderError{Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
			resp.Body.Close()
		}
		return nil, &ProviderError{Status: status, Err: err}
	}
	defer resp.Body.Close()

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &ProviderError{Status: resp.StatusCode, Err: fmt.Errorf("decode osrm response: %w", err)}
	}
	if body.Code != "Ok" {
		perr := &ProviderError{Status: resp.StatusCode, Code: body.Code, Err: errors.New(body.Message)}
		if body.Code == "NoRoute" || body.Code == "NoSegment" {
			perr.Err = fmt.Errorf("%w: %s", ErrNoRoute, body.Message)
		}
		return nil, perr
	}
	if len(body.Routes) == 0 {
		return nil, &ProviderError{Status: resp.StatusCode, Code: body.Code, Err: ErrNoRoute}
	}
	return toRoute(body.Routes[0])
}

func toRoute(r osrmRoute) (*datastructure.Route, error) {
	legs := make([]datastructure.Leg, 0, len(r.Legs))
	for _, l := range r.Legs {
		leg := datastructure.Leg{Distance: l.Distance, Steps: make([]datastructure.Step, 0, len(l.Steps))}
		for _, s := range l.Steps {
			step, err := toStep(s)
			if err != nil {
				return nil, err
			}
			leg.Steps = append(leg.Steps, step)
		}
		legs = append(legs, leg)
	}
	if len(legs) == 0 || len(legs[0].Steps) == 0 {
		return nil, &ProviderError{Code: "Ok", Err: ErrEmptyResponse}
	}

	var full []datastructure.Coordinate
	if r.Geometry != "" {
		path, err := datastructure.DecodePolyline6(r.Geometry)
		if err != nil {
			return nil, &ProviderError{Err: fmt.Errorf("decode route geometry: %w", err)}
		}
		full = path
	}
	return datastructure.NewRoute(legs, full), nil
}

func toStep(s osrmStep) (datastructure.Step, error) {
	geometry, err := datastructure.DecodePolyline6(s.Geometry)
	if err != nil {
		return datastructure.Step{}, &ProviderError{Err: fmt.Errorf("decode step geometry: %w", err)}
	}
	loc := datastructure.NewLonLat(s.Maneuver.Location[0], s.Maneuver.Location[1])
	switch len(geometry) {
	case 0:
		geometry = []datastructure.Coordinate{loc, loc}
	case 1:
		geometry = append(geometry, geometry[0])
	}

	text := guidance.InstructionText(guidance.ManeuverInput{
		Type:          s.Maneuver.Type,
		Modifier:      s.Maneuver.Modifier,
		Name:          s.Name,
		Destinations:  s.Destinations,
		Exit:          s.Maneuver.Exit,
		BearingBefore: s.Maneuver.BearingBefore,
		BearingAfter:  s.Maneuver.BearingAfter,
		Location:      loc,
	})
	return datastructure.Step{
		Geometry: geometry,
		Maneuver: datastructure.Maneuver{
			Instruction:   text,
			BearingBefore: s.Maneuver.BearingBefore,
			BearingAfter:  s.Maneuver.BearingAfter,
			Location:      loc,
		},
		Distance: s.Distance,
		Duration: s.Duration,
	}, nil
}
