package guidance

import (
	"math"
	"strings"

	"lintang/tripnav/pkg/datastructure"
	"lintang/tripnav/pkg/geo"
)

// ManeuverInput maneuver mentah dari directions provider (format osrm).
type ManeuverInput struct {
	Type          string
	Modifier      string
	Name          string
	Destinations  string
	Exit          int
	BearingBefore float64
	BearingAfter  float64
	Location      datastructure.Coordinate
}

/*
BuildInstruction. bikin Instruction dari maneuver osrm. kalau modifier kosong, arah belokan dihitung dari
bearing_before & bearing_after.
*/
func BuildInstruction(m ManeuverInput) Instruction {
	var ins Instruction
	switch strings.ToLower(m.Type) {
	case "depart":
		ins = NewInstruction(START, m.Name, m.Location)
		ins.Heading = geo.NormalizeBearing(m.BearingAfter)
	case "arrive":
		ins = NewInstruction(FINISH, m.Name, m.Location)
	case "roundabout", "rotary", "roundabout turn":
		ins = NewRoundaboutInstruction(m.Name, m.Location, WithExit(m.Exit))
	case "exit roundabout", "exit rotary":
		ins = NewInstruction(LEAVE_ROUNDABOUT, m.Name, m.Location)
	case "fork", "merge", "on ramp", "off ramp":
		sign := signFromManeuver(m)
		switch {
		case sign < 0:
			sign = KEEP_LEFT
		case sign > 0:
			sign = KEEP_RIGHT
		}
		ins = NewInstruction(sign, m.Name, m.Location)
	default:
		ins = NewInstruction(signFromManeuver(m), m.Name, m.Location)
	}
	ins.Destinations = m.Destinations
	return ins
}

// InstructionText teks instruksi yang dipakai buat Maneuver.Instruction & announcement.
func InstructionText(m ManeuverInput) string {
	ins := BuildInstruction(m)
	return ins.GetTurnDescription()
}

func signFromManeuver(m ManeuverInput) int {
	if sign, ok := SignFromModifier(m.Modifier); ok {
		return sign
	}
	return TurnSign(m.BearingBefore, m.BearingAfter)
}

func SignFromModifier(modifier string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(modifier)) {
	case "uturn":
		return U_TURN_UNKNOWN, true
	case "sharp right":
		return TURN_SHARP_RIGHT, true
	case "right":
		return TURN_RIGHT, true
	case "slight right":
		return TURN_SLIGHT_RIGHT, true
	case "straight":
		return CONTINUE_ON_STREET, true
	case "slight left":
		return TURN_SLIGHT_LEFT, true
	case "left":
		return TURN_LEFT, true
	case "sharp left":
		return TURN_SHARP_LEFT, true
	}
	return UNKNOWN, false
}

/*
TurnSign. klasifikasi belokan dari delta bearing:

	< 12°  continue
	< 40°  slight
	< 105° turn
	> 170° u-turn
	sisanya sharp
*/
func TurnSign(bearingBefore, bearingAfter float64) int {
	delta := geo.BearingDelta(bearingBefore, bearingAfter)
	deltaDegree := math.Abs(delta)
	if deltaDegree < 12 {
		return CONTINUE_ON_STREET
	} else if deltaDegree < 40 {
		if delta < 0 {
			return TURN_SLIGHT_LEFT
		}
		return TURN_SLIGHT_RIGHT
	} else if deltaDegree < 105 {
		if delta < 0 {
			return TURN_LEFT
		}
		return TURN_RIGHT
	} else if deltaDegree > 170 {
		if delta < 0 {
			return U_TURN_LEFT
		}
		return U_TURN_RIGHT
	} else if delta < 0 {
		return TURN_SHARP_LEFT
	}
	return TURN_SHARP_RIGHT
}
