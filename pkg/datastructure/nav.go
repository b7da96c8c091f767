package datastructure

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

// NewLonLat. urutan [lon, lat] seperti geojson / osrm.
func NewLonLat(lon, lat float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

func (c Coordinate) Equal(other Coordinate) bool {
	return c.Lat == other.Lat && c.Lon == other.Lon
}

// Destination next unvisited stop dari itinerary.
type Destination struct {
	ID         string     `json:"id"`
	Coordinate Coordinate `json:"coordinate"`
}

func NewDestination(id string, c Coordinate) *Destination {
	return &Destination{ID: id, Coordinate: c}
}

// CorridorPOI candidate point of interest untuk corridor search.
type CorridorPOI struct {
	ID         string     `json:"id"`
	Name       string     `json:"name,omitempty"`
	Category   string     `json:"category,omitempty"`
	Coordinate Coordinate `json:"coordinate"`
}
