package corridor

import (
	"math"

	"lintang/tripnav/pkg/datastructure"
	"lintang/tripnav/pkg/geo"

	"github.com/dhconnelly/rtreego"
)

const (
	metersPerDegreeLat = 111320.0
	// bounding box query di perbesar sedikit supaya tidak ada segment yang ke skip karena approximasi derajat -> meter.
	bboxSlack = 1.2
	tol       = 1e-9
)

type segment struct {
	idx  int
	a, b datastructure.Coordinate
	rect rtreego.Rect
}

func (s *segment) Bounds() rtreego.Rect {
	return s.rect
}

// SegmentIndex r-tree dari bounding box tiap segment full path route. point = [lat, lon].
type SegmentIndex struct {
	rt   *rtreego.Rtree
	path []datastructure.Coordinate
}

func NewSegmentIndex(path []datastructure.Coordinate) *SegmentIndex {
	rt := rtreego.NewTree(2, 25, 50)
	for i := 0; i+1 < len(path); i++ {
		a, b := path[i], path[i+1]
		lo := rtreego.Point{math.Min(a.Lat, b.Lat), math.Min(a.Lon, b.Lon)}
		lengths := []float64{math.Abs(a.Lat-b.Lat) + tol, math.Abs(a.Lon-b.Lon) + tol}
		rect, err := rtreego.NewRect(lo, lengths)
		if err != nil {
			continue
		}
		rt.Insert(&segment{idx: i, a: a, b: b, rect: rect})
	}
	return &SegmentIndex{rt: rt, path: path}
}

func (si *SegmentIndex) Len() int {
	return si.rt.Size()
}

// queryRect kotak di sekitar p dengan radius meter (dalam derajat).
func queryRect(p datastructure.Coordinate, radiusMeters float64) (rtreego.Rect, error) {
	dLat := radiusMeters * bboxSlack / metersPerDegreeLat
	cosLat := math.Cos(p.Lat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	dLon := radiusMeters * bboxSlack / (metersPerDegreeLat * cosLat)
	return rtreego.NewRect(rtreego.Point{p.Lat - dLat, p.Lon - dLon}, []float64{2 * dLat, 2 * dLon})
}

// WithinRadius true kalau ada segment yang jaraknya ke p <= radiusMeters.
func (si *SegmentIndex) WithinRadius(p datastructure.Coordinate, radiusMeters float64) bool {
	if si.rt.Size() == 0 {
		return len(si.path) == 1 && geo.HaversineDistance(p, si.path[0]) <= radiusMeters
	}
	rect, err := queryRect(p, radiusMeters)
	if err != nil {
		return false
	}
	for _, sp := range si.rt.SearchIntersect(rect) {
		seg := sp.(*segment)
		if geo.DistancePointToSegment(p, seg.a, seg.b) <= radiusMeters {
			return true
		}
	}
	return false
}

// FindNearby sama dengan FindNearbyCorridorPOIs tapi segment yang di cek cuma kandidat dari r-tree.
func (si *SegmentIndex) FindNearby(candidates []datastructure.CorridorPOI, location datastructure.Coordinate,
	radiusMeters float64) []datastructure.CorridorPOI {
	if len(si.path) == 0 {
		return []datastructure.CorridorPOI{}
	}
	if radiusMeters <= 0 {
		radiusMeters = DefaultRadiusMeters
	}
	nearby := make([]datastructure.CorridorPOI, 0)
	for _, poi := range candidates {
		if geo.HaversineDistance(location, poi.Coordinate) <= radiusMeters || si.WithinRadius(poi.Coordinate, radiusMeters) {
			nearby = append(nearby, poi)
		}
	}
	return nearby
}
