package geo

import (
	"math"

	"lintang/tripnav/pkg/datastructure"
)

const (
	// earthRadiusM radius bumi (spherical). error ~0.5% dibanding ellipsoid, tidak masalah buat threshold navigasi.
	earthRadiusM = 6371000.0
)

type Location struct {
	lat float64
	lon float64
}

func NewLocation(lat, lon float64) Location {
	return Location{
		lat: degToRad(lat),
		lon: degToRad(lon),
	}
}

func havFormula(theta float64) float64 {
	return math.Pow(math.Sin(theta/2), 2)
}

func haversine(a, b Location) float64 {
	dLat := b.lat - a.lat
	dLon := b.lon - a.lon
	h := havFormula(dLat) + math.Cos(a.lat)*math.Cos(b.lat)*havFormula(dLon)
	if h > 1 {
		h = 1
	}
	return 2 * earthRadiusM * math.Asin(math.Sqrt(h))
}

// HaversineDistance great-circle distance dalam meter.
func HaversineDistance(a, b datastructure.Coordinate) float64 {
	if a.Equal(b) {
		return 0
	}
	return haversine(NewLocation(a.Lat, a.Lon), NewLocation(b.Lat, b.Lon))
}

// LineLength total panjang polyline dalam meter.
func LineLength(line []datastructure.Coordinate) float64 {
	var total float64
	for i := 1; i < len(line); i++ {
		total += HaversineDistance(line[i-1], line[i])
	}
	return total
}

func cumulativeDistances(line []datastructure.Coordinate) []float64 {
	cum := make([]float64, len(line))
	for i := 1; i < len(line); i++ {
		cum[i] = cum[i-1] + HaversineDistance(line[i-1], line[i])
	}
	return cum
}

func degToRad(d float64) float64 {
	return d * math.Pi / 180.0
}

func radToDeg(r float64) float64 {
	return 180.0 * r / math.Pi
}
