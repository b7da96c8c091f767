package geo

import (
	"errors"
	"math"

	"lintang/tripnav/pkg/datastructure"

	"github.com/golang/geo/s2"
)

var (
	// ErrDegenerateLine line kurang dari 2 titik. caller harus fallback ke distance dari data route.
	ErrDegenerateLine = errors.New("degenerate line: need at least 2 points")
)

type PointOnLine struct {
	Point    datastructure.Coordinate
	Distance float64 // meter dari titik query ke Point
	Fraction float64 // posisi Point di line, 0 = start, 1 = end
	Segment  int     // index segment [Segment, Segment+1]
}

func toS2(c datastructure.Coordinate) s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(c.Lat, c.Lon))
}

func fromS2(p s2.Point) datastructure.Coordinate {
	ll := s2.LatLngFromPoint(p)
	return datastructure.NewCoordinate(ll.Lat.Degrees(), ll.Lng.Degrees())
}

// projectToSegment titik di segment [a,b] yang paling dekat dengan p.
func projectToSegment(p, a, b datastructure.Coordinate) datastructure.Coordinate {
	if a.Equal(b) {
		return a
	}
	if p.Equal(a) {
		return a
	}
	if p.Equal(b) {
		return b
	}
	return fromS2(s2.Project(toS2(p), toS2(a), toS2(b)))
}

/*
NearestPointOnLine. project p ke setiap segment line (clamped ke segment), ambil projection yang paling dekat.
Fraction dihitung dari cumulative length sampai projection dibagi total length line.
*/
func NearestPointOnLine(line []datastructure.Coordinate, p datastructure.Coordinate) (PointOnLine, error) {
	if len(line) < 2 {
		return PointOnLine{}, ErrDegenerateLine
	}

	cum := cumulativeDistances(line)
	total := cum[len(cum)-1]

	best := PointOnLine{Distance: -1}
	for i := 0; i < len(line)-1; i++ {
		proj := projectToSegment(p, line[i], line[i+1])
		dist := HaversineDistance(p, proj)
		if best.Distance < 0 || dist < best.Distance {
			along := cum[i] + HaversineDistance(line[i], proj)
			if along > cum[i+1] {
				along = cum[i+1]
			}
			best = PointOnLine{
				Point:    proj,
				Distance: dist,
				Fraction: fraction(along, total),
				Segment:  i,
			}
		}
	}
	return best, nil
}

func fraction(along, total float64) float64 {
	if total <= 0 {
		return 0
	}
	f := along / total
	if f > 1 {
		return 1
	}
	return f
}

// DistancePointToSegment jarak (meter) p ke segment [segStart, segEnd], bukan ke infinite line.
func DistancePointToSegment(p, segStart, segEnd datastructure.Coordinate) float64 {
	if segStart.Equal(segEnd) {
		return HaversineDistance(p, segStart)
	}
	angle := s2.DistanceFromSegment(toS2(p), toS2(segStart), toS2(segEnd))
	return angle.Radians() * earthRadiusM
}

// pointAlong titik di line yang berjarak d meter dari start.
func pointAlong(line []datastructure.Coordinate, cum []float64, d float64) datastructure.Coordinate {
	last := len(line) - 1
	if d <= 0 {
		return line[0]
	}
	for i := 0; i < last; i++ {
		if cum[i+1] < d {
			continue
		}
		segLen := cum[i+1] - cum[i]
		if segLen == 0 {
			return line[i]
		}
		t := (d - cum[i]) / segLen
		if t <= 0 {
			return line[i]
		}
		if t >= 1 {
			return line[i+1]
		}
		return fromS2(s2.Interpolate(t, toS2(line[i]), toS2(line[i+1])))
	}
	return line[last]
}

/*
SliceLine. sub-polyline antara 2 posisi normalized (0 = start line, 1 = end line).
titik di dalam segment di interpolate di great circle, jadi panjang hasil slice = (to-from) * total length.
*/
func SliceLine(line []datastructure.Coordinate, fromFraction, toFraction float64) ([]datastructure.Coordinate, error) {
	if len(line) < 2 {
		return nil, ErrDegenerateLine
	}
	fromFraction = clamp01(fromFraction)
	toFraction = clamp01(toFraction)
	if fromFraction > toFraction {
		fromFraction, toFraction = toFraction, fromFraction
	}

	cum := cumulativeDistances(line)
	total := cum[len(cum)-1]
	startD := fromFraction * total
	endD := toFraction * total

	sliced := []datastructure.Coordinate{pointAlong(line, cum, startD)}
	for i := 1; i < len(line)-1; i++ {
		if cum[i] > startD && cum[i] < endD {
			sliced = append(sliced, line[i])
		}
	}
	sliced = append(sliced, pointAlong(line, cum, endD))
	return sliced, nil
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Densify tambah titik di setiap segment supaya jarak antar titik <= stepMeters.
func Densify(line []datastructure.Coordinate, stepMeters float64) []datastructure.Coordinate {
	if len(line) < 2 || stepMeters <= 0 {
		return line
	}
	dense := []datastructure.Coordinate{line[0]}
	for i := 0; i+1 < len(line); i++ {
		a, b := line[i], line[i+1]
		segLen := HaversineDistance(a, b)
		n := int(math.Ceil(segLen / stepMeters))
		if n > 1 {
			pa, pb := toS2(a), toS2(b)
			for j := 1; j < n; j++ {
				dense = append(dense, fromS2(s2.Interpolate(float64(j)/float64(n), pa, pb)))
			}
		}
		dense = append(dense, b)
	}
	return dense
}
