package geo

import (
	"math"

	"lintang/tripnav/pkg/datastructure"
)

//	φ is latitude, λ is longitude
//
// https://www.movable-type.co.uk/scripts/latlong.html
func MidPoint(a, b datastructure.Coordinate) datastructure.Coordinate {
	p1LatRad := degToRad(a.Lat)
	p2LatRad := degToRad(b.Lat)

	diffLon := degToRad(b.Lon - a.Lon)

	bx := math.Cos(p2LatRad) * math.Cos(diffLon)
	by := math.Cos(p2LatRad) * math.Sin(diffLon)

	newLon := degToRad(a.Lon) + math.Atan2(by, math.Cos(p1LatRad)+bx)
	newLat := math.Atan2(math.Sin(p1LatRad)+math.Sin(p2LatRad), math.Sqrt((math.Cos(p1LatRad)+bx)*(math.Cos(p1LatRad)+bx)+by*by))

	return datastructure.NewCoordinate(radToDeg(newLat), radToDeg(newLon))
}

/*
BearingTo. menghitung initial bearing dari a ke b, hasilnya [0, 360).
https://www.movable-type.co.uk/scripts/latlong.html
*/
func BearingTo(a, b datastructure.Coordinate) float64 {
	dLon := degToRad(b.Lon - a.Lon)

	lat1 := degToRad(a.Lat)
	lat2 := degToRad(b.Lat)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) -
		math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	return NormalizeBearing(radToDeg(math.Atan2(y, x)))
}

func NormalizeBearing(b float64) float64 {
	b = math.Mod(b, 360)
	if b < 0 {
		b += 360
	}
	return b
}

// BearingDelta selisih bearing after - before dalam (-180, 180]. negatif = belok kiri.
func BearingDelta(before, after float64) float64 {
	d := NormalizeBearing(after - before)
	if d > 180 {
		d -= 360
	}
	return d
}
