package datastructure

import (
	"fmt"
	"strings"

	"github.com/twpayne/go-polyline"
)

type TravelProfile int

const (
	Driving TravelProfile = iota
	Walking
	Cycling
)

func (p TravelProfile) String() string {
	switch p {
	case Walking:
		return "walking"
	case Cycling:
		return "cycling"
	default:
		return "driving"
	}
}

func (p TravelProfile) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *TravelProfile) UnmarshalText(b []byte) error {
	parsed, err := ParseTravelProfile(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func ParseTravelProfile(s string) (TravelProfile, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "driving", "car":
		return Driving, nil
	case "walking", "foot":
		return Walking, nil
	case "cycling", "bike":
		return Cycling, nil
	}
	return Driving, fmt.Errorf("unknown travel profile %q", s)
}

type Exclusion string

const (
	ExcludeToll Exclusion = "toll"
)

// ExclusionSet cuma meaningful untuk profile Driving.
type ExclusionSet map[Exclusion]struct{}

func NewExclusionSet(ex ...Exclusion) ExclusionSet {
	set := make(ExclusionSet, len(ex))
	for _, e := range ex {
		set[e] = struct{}{}
	}
	return set
}

func ParseExclusions(raw []string) (ExclusionSet, error) {
	set := make(ExclusionSet, len(raw))
	for _, r := range raw {
		switch Exclusion(strings.ToLower(strings.TrimSpace(r))) {
		case ExcludeToll:
			set[ExcludeToll] = struct{}{}
		default:
			return nil, fmt.Errorf("unknown exclusion %q", r)
		}
	}
	return set, nil
}

func (s ExclusionSet) Has(e Exclusion) bool {
	_, ok := s[e]
	return ok
}

func (s ExclusionSet) Equal(other ExclusionSet) bool {
	if len(s) != len(other) {
		return false
	}
	for e := range s {
		if !other.Has(e) {
			return false
		}
	}
	return true
}

func (s ExclusionSet) Clone() ExclusionSet {
	c := make(ExclusionSet, len(s))
	for e := range s {
		c[e] = struct{}{}
	}
	return c
}

func (s ExclusionSet) Slice() []string {
	out := make([]string, 0, len(s))
	if s.Has(ExcludeToll) {
		out = append(out, string(ExcludeToll))
	}
	return out
}

type Maneuver struct {
	Instruction   string     `json:"instruction"`
	BearingBefore float64    `json:"bearing_before"`
	BearingAfter  float64    `json:"bearing_after"`
	Location      Coordinate `json:"location"`
}

type Step struct {
	Geometry []Coordinate `json:"geometry"`
	Maneuver Maneuver     `json:"maneuver"`
	Distance float64      `json:"distance"` // meter
	Duration float64      `json:"duration"` // detik
}

type Leg struct {
	Steps    []Step  `json:"steps"`
	Distance float64 `json:"distance"`
}

// Route hasil fetch directions provider. Route tidak pernah di mutate, kalau reroute diganti semua.
type Route struct {
	Legs     []Leg        `json:"legs"`
	Geometry []Coordinate `json:"geometry"`
}

// NewRoute. kalau fullPath kosong, geometry dibuat dari concat geometry tiap step.
func NewRoute(legs []Leg, fullPath []Coordinate) *Route {
	if len(fullPath) == 0 {
		for _, leg := range legs {
			for _, step := range leg.Steps {
				for _, c := range step.Geometry {
					if n := len(fullPath); n > 0 && fullPath[n-1].Equal(c) {
						continue
					}
					fullPath = append(fullPath, c)
				}
			}
		}
	}
	return &Route{Legs: legs, Geometry: fullPath}
}

func (r *Route) FirstLeg() (Leg, bool) {
	if r == nil || len(r.Legs) == 0 {
		return Leg{}, false
	}
	return r.Legs[0], true
}

func (r *Route) Step(idx int) (Step, bool) {
	leg, ok := r.FirstLeg()
	if !ok || idx < 0 || idx >= len(leg.Steps) {
		return Step{}, false
	}
	return leg.Steps[idx], true
}

func (r *Route) NumSteps() int {
	leg, ok := r.FirstLeg()
	if !ok {
		return 0
	}
	return len(leg.Steps)
}

func (r *Route) Distance() float64 {
	var total float64
	for _, leg := range r.Legs {
		total += leg.Distance
	}
	return total
}

// RenderPath encode geometry ke google polyline (precision 5).
func RenderPath(path []Coordinate) string {
	coords := make([][]float64, 0, len(path))
	for _, p := range path {
		coords = append(coords, []float64{p.Lat, p.Lon})
	}
	return string(polyline.EncodeCoords(coords))
}

var polyline6 = polyline.Codec{Dim: 2, Scale: 1e6}

// DecodePolyline6 decode polyline precision 6 (format geometry osrm "polyline6").
func DecodePolyline6(s string) ([]Coordinate, error) {
	coords, rest, err := polyline6.DecodeCoords([]byte(s))
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("polyline6: %d trailing bytes", len(rest))
	}
	path := make([]Coordinate, len(coords))
	for i, c := range coords {
		path[i] = NewCoordinate(c[0], c[1])
	}
	return path, nil
}

func EncodePolyline6(path []Coordinate) string {
	coords := make([][]float64, 0, len(path))
	for _, p := range path {
		coords = append(coords, []float64{p.Lat, p.Lon})
	}
	return string(polyline6.EncodeCoords(nil, coords))
}
