package tracking

import (
	"lintang/tripnav/pkg/datastructure"
	"lintang/tripnav/pkg/geo"
)

// RemainingDistanceInStep sisa jarak (meter) dari location sampai akhir step. kalau geometry step degenerate pakai step.Distance.
func RemainingDistanceInStep(step datastructure.Step, location datastructure.Coordinate) float64 {
	proj, err := geo.NearestPointOnLine(step.Geometry, location)
	if err != nil {
		return step.Distance
	}
	rest, err := geo.SliceLine(step.Geometry, proj.Fraction, 1)
	if err != nil {
		return step.Distance
	}
	return geo.LineLength(rest)
}

// RemainingDistanceInLeg sisa jarak step sekarang + distance step-step berikutnya di leg yang sama.
func RemainingDistanceInLeg(leg datastructure.Leg, stepIdx int, location datastructure.Coordinate) float64 {
	if stepIdx < 0 || stepIdx >= len(leg.Steps) {
		return 0
	}
	remaining := RemainingDistanceInStep(leg.Steps[stepIdx], location)
	for _, step := range leg.Steps[stepIdx+1:] {
		remaining += step.Distance
	}
	return remaining
}

// RemainingGeometry full path route dari posisi user sampai akhir, buat render sisa rute.
func RemainingGeometry(route *datastructure.Route, location datastructure.Coordinate) []datastructure.Coordinate {
	if route == nil {
		return nil
	}
	proj, err := geo.NearestPointOnLine(route.Geometry, location)
	if err != nil {
		return route.Geometry
	}
	rest, err := geo.SliceLine(route.Geometry, proj.Fraction, 1)
	if err != nil {
		return route.Geometry
	}
	return rest
}
