package guidance

import (
	"fmt"
	"strings"

	"lintang/tripnav/pkg/datastructure"
)

const (
	UNKNOWN            = -9999
	U_TURN_UNKNOWN     = -999
	U_TURN_LEFT        = -8
	KEEP_LEFT          = -7
	LEAVE_ROUNDABOUT   = -6
	TURN_SHARP_LEFT    = -3
	TURN_LEFT          = -2
	TURN_SLIGHT_LEFT   = -1
	CONTINUE_ON_STREET = 0
	TURN_SLIGHT_RIGHT  = 1
	TURN_RIGHT         = 2
	TURN_SHARP_RIGHT   = 3
	FINISH             = 4
	USE_ROUNDABOUT     = 6
	KEEP_RIGHT         = 7
	U_TURN_RIGHT       = 8
	START              = 101
)

type Instruction struct {
	Point        datastructure.Coordinate
	Sign         int
	Name         string
	Heading      float64
	Destinations string
	IsRoundabout bool
	Roundabout   RoundaboutInstruction
}

func NewInstruction(sign int, name string, p datastructure.Coordinate) Instruction {
	return Instruction{
		Sign:  sign,
		Name:  name,
		Point: p,
	}
}

func NewRoundaboutInstruction(name string, p datastructure.Coordinate, options ...Option) Instruction {
	roundabout := RoundaboutInstruction{
		ExitNumber: 0,
		Exited:     false,
	}
	for _, option := range options {
		roundabout = option(roundabout)
	}
	return Instruction{
		Sign:         USE_ROUNDABOUT,
		Name:         name,
		Point:        p,
		IsRoundabout: true,
		Roundabout:   roundabout,
	}
}

func (instr *Instruction) GetTurnDescription() string {
	streetName := strings.TrimSpace(instr.Name)
	var description string

	switch instr.Sign {
	case CONTINUE_ON_STREET:
		if isEmpty(streetName) {
			description = "Continue"
		} else {
			description = fmt.Sprintf("Continue onto %s", streetName)
		}
	case START:
		compassDir := azimuthToCompass(instr.Heading)
		if isEmpty(streetName) {
			description = fmt.Sprintf("Head %s", compassDir)
		} else {
			description = fmt.Sprintf("Head %s on %s", compassDir, streetName)
		}
	case FINISH:
		description = "You have arrived at your destination"
	default:
		dir := getDirectionDescription(instr.Sign, *instr)
		if dir == "" {
			description = "Continue"
		} else if isEmpty(streetName) || instr.IsRoundabout {
			description = dir
		} else {
			switch dir {
			case "Keep left", "Keep right":
				description = fmt.Sprintf("%s to continue on %s", dir, streetName)
			default:
				description = fmt.Sprintf("%s onto %s", dir, streetName)
			}
		}
	}

	if instr.Destinations != "" && instr.Sign != FINISH {
		return fmt.Sprintf("%s toward %s", description, instr.Destinations)
	}
	return description
}

func azimuthToCompass(azimuth float64) string {
	if azimuth < 22.5 {
		return "North"
	} else if azimuth < 67.5 {
		return "North East"
	} else if azimuth < 112.5 {
		return "East"
	} else if azimuth < 157.5 {
		return "South East"
	} else if azimuth < 202.5 {
		return "South"
	} else if azimuth < 247.5 {
		return "South West"
	} else if azimuth < 292.5 {
		return "West"
	} else if azimuth < 337.5 {
		return "North West"
	} else {
		return "North"
	}
}

func getDirectionDescription(sign int, instruction Instruction) string {
	switch sign {
	case U_TURN_UNKNOWN:
		return "Make a U-turn"
	case U_TURN_RIGHT:
		return "Make a U-turn right"
	case U_TURN_LEFT:
		return "Make a U-turn left"
	case KEEP_LEFT:
		return "Keep left"
	case TURN_SHARP_LEFT:
		return "Turn sharp left"
	case TURN_LEFT:
		return "Turn left"
	case TURN_SLIGHT_LEFT:
		return "Turn slight left"
	case TURN_SLIGHT_RIGHT:
		return "Turn slight right"
	case TURN_RIGHT:
		return "Turn right"
	case TURN_SHARP_RIGHT:
		return "Turn sharp right"
	case KEEP_RIGHT:
		return "Keep right"
	case LEAVE_ROUNDABOUT:
		if isEmpty(instruction.Name) {
			return "Exit the roundabout"
		}
		return fmt.Sprintf("Exit the roundabout onto %s", instruction.Name)
	case USE_ROUNDABOUT:
		if instruction.Roundabout.ExitNumber <= 0 {
			return "Enter the roundabout"
		}
		if isEmpty(instruction.Name) {
			return fmt.Sprintf("At the roundabout, take exit %d", instruction.Roundabout.ExitNumber)
		}
		return fmt.Sprintf("At the roundabout, take exit %d onto %s", instruction.Roundabout.ExitNumber, instruction.Name)
	default:
		return ""
	}
}

func isEmpty(str string) bool {
	return strings.TrimSpace(str) == ""
}

type RoundaboutInstruction struct {
	ExitNumber int
	Exited     bool
}

type Option func(RoundaboutInstruction) RoundaboutInstruction

func WithExit(exit int) Option {
	return func(r RoundaboutInstruction) RoundaboutInstruction {
		r.ExitNumber = exit
		r.Exited = exit > 0
		return r
	}
}
