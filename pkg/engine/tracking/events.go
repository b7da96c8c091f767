package tracking

import "lintang/tripnav/pkg/datastructure"

type EventType string

const (
	EventCamera           EventType = "camera"
	EventAnnouncement     EventType = "announcement"
	EventArrival          EventType = "arrival"
	EventProgress         EventType = "progress"
	EventStepAdvanced     EventType = "step_advanced"
	EventRerouteRequested EventType = "reroute_requested"
	EventRouteReplaced    EventType = "route_replaced"
)

// Event fire-and-forget signal buat consumer luar (renderer, speech engine, dll).
type Event interface {
	Type() EventType
}

type CameraIntent struct {
	Center     datastructure.Coordinate `json:"center"`
	Zoom       float64                  `json:"zoom"`
	Pitch      float64                  `json:"pitch"`
	Bearing    float64                  `json:"bearing"`
	DurationMs int                      `json:"duration_ms"`
}

func (CameraIntent) Type() EventType { return EventCamera }

type Announcement struct {
	Text            string  `json:"text"`
	RemainingMeters float64 `json:"remaining_meters"`
}

func (Announcement) Type() EventType { return EventAnnouncement }

type Arrival struct {
	Destination datastructure.Destination `json:"destination"`
	Location    datastructure.Coordinate  `json:"location"`
}

func (Arrival) Type() EventType { return EventArrival }

type Progress struct {
	StepIndex       int     `json:"step_index"`
	RemainingInStep float64 `json:"remaining_in_step"`
	RemainingInLeg  float64 `json:"remaining_in_leg"`
	DistanceToRoute float64 `json:"distance_to_route"`
}

func (Progress) Type() EventType { return EventProgress }

type StepAdvanced struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (StepAdvanced) Type() EventType { return EventStepAdvanced }

type RerouteReason string

const (
	ReasonStart          RerouteReason = "start"
	ReasonOffRoute       RerouteReason = "off_route"
	ReasonSettingsChange RerouteReason = "settings_change"
)

// RouteRequest request fetch route ke directions provider. ID dipakai buat discard hasil yang sudah stale.
type RouteRequest struct {
	ID         uint64                      `json:"id"`
	Reason     RerouteReason               `json:"reason"`
	Waypoints  []datastructure.Coordinate  `json:"waypoints"`
	Profile    datastructure.TravelProfile `json:"profile"`
	Exclusions datastructure.ExclusionSet  `json:"-"`
}

func (RouteRequest) Type() EventType { return EventRerouteRequested }

type RouteReplaced struct {
	RequestID uint64        `json:"request_id"`
	Reason    RerouteReason `json:"reason"`
	Distance  float64       `json:"distance"`
	NumSteps  int           `json:"num_steps"`
}

func (RouteReplaced) Type() EventType { return EventRouteReplaced }
