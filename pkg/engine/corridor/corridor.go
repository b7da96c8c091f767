package corridor

import (
	"lintang/tripnav/pkg/datastructure"
	"lintang/tripnav/pkg/geo"
)

const DefaultRadiusMeters = 100.0

/*
FindNearbyCorridorPOIs. candidate masuk kalau jaraknya ke user <= radius, atau jaraknya ke salah satu segment
full path route <= radius. O(candidates x route points).
*/
func FindNearbyCorridorPOIs(candidates []datastructure.CorridorPOI, route *datastructure.Route,
	location datastructure.Coordinate, radiusMeters float64) []datastructure.CorridorPOI {
	if route == nil || len(route.Geometry) == 0 {
		return []datastructure.CorridorPOI{}
	}
	if radiusMeters <= 0 {
		radiusMeters = DefaultRadiusMeters
	}
	path := route.Geometry

	nearby := make([]datastructure.CorridorPOI, 0)
	for _, poi := range candidates {
		if geo.HaversineDistance(location, poi.Coordinate) <= radiusMeters {
			nearby = append(nearby, poi)
			continue
		}
		for i := 0; i+1 < len(path); i++ {
			if geo.DistancePointToSegment(poi.Coordinate, path[i], path[i+1]) <= radiusMeters {
				nearby = append(nearby, poi)
				break
			}
		}
	}
	return nearby
}
