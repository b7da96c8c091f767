package geo_test

import (
	"testing"

	"lintang/tripnav/pkg/datastructure"
	"lintang/tripnav/pkg/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineDistance(t *testing.T) {
	a := datastructure.NewLonLat(-73.900338, 40.71820)
	b := datastructure.NewLonLat(-73.900490, 40.719213)

	t.Run("same point is zero", func(t *testing.T) {
		assert.Equal(t, 0.0, geo.HaversineDistance(a, a))
		assert.Equal(t, 0.0, geo.HaversineDistance(b, b))
	})

	t.Run("symmetric", func(t *testing.T) {
		assert.Equal(t, geo.HaversineDistance(a, b), geo.HaversineDistance(b, a))
	})

	t.Run("matches reported leg distance within 1%", func(t *testing.T) {
		assert.InEpsilon(t, 114.153, geo.HaversineDistance(a, b), 0.01)
	})

	t.Run("one degree of latitude", func(t *testing.T) {
		d := geo.HaversineDistance(datastructure.NewLonLat(0, 0), datastructure.NewLonLat(0, 1))
		assert.InDelta(t, 111194.9, d, 1)
	})
}

func meridianLine() []datastructure.Coordinate {
	return []datastructure.Coordinate{
		datastructure.NewLonLat(120.0, 14.0),
		datastructure.NewLonLat(120.0, 14.1),
		datastructure.NewLonLat(120.0, 14.2),
	}
}

func TestNearestPointOnLine(t *testing.T) {
	t.Run("point on segment", func(t *testing.T) {
		p := datastructure.NewLonLat(120.0, 14.15)
		res, err := geo.NearestPointOnLine(meridianLine(), p)
		require.NoError(t, err)
		assert.InDelta(t, 0, res.Distance, 1e-6)
		assert.InDelta(t, p.Lat, res.Point.Lat, 1e-9)
		assert.InDelta(t, p.Lon, res.Point.Lon, 1e-9)
		assert.InDelta(t, 0.75, res.Fraction, 1e-9)
		assert.Equal(t, 1, res.Segment)
	})

	t.Run("point beside line is clamped to closest segment", func(t *testing.T) {
		// ~60 m timur dari line
		p := datastructure.NewLonLat(120.000556, 14.05)
		res, err := geo.NearestPointOnLine(meridianLine(), p)
		require.NoError(t, err)
		assert.InDelta(t, 60, res.Distance, 1)
		assert.InDelta(t, 0.25, res.Fraction, 1e-3)
	})

	t.Run("point before start clamps to first vertex", func(t *testing.T) {
		p := datastructure.NewLonLat(120.0, 13.9)
		res, err := geo.NearestPointOnLine(meridianLine(), p)
		require.NoError(t, err)
		assert.InDelta(t, 0, res.Fraction, 1e-9)
		assert.InDelta(t, geo.HaversineDistance(p, meridianLine()[0]), res.Distance, 1e-6)
	})

	t.Run("degenerate line", func(t *testing.T) {
		_, err := geo.NearestPointOnLine([]datastructure.Coordinate{datastructure.NewLonLat(1, 1)}, datastructure.NewLonLat(1, 1))
		assert.ErrorIs(t, err, geo.ErrDegenerateLine)
	})
}

func TestDistancePointToSegment(t *testing.T) {
	a := datastructure.NewLonLat(120.0, 14.0)
	b := datastructure.NewLonLat(120.0, 14.1)

	t.Run("perpendicular distance inside segment", func(t *testing.T) {
		p := datastructure.NewLonLat(120.000556, 14.05)
		assert.InDelta(t, 60, geo.DistancePointToSegment(p, a, b), 1)
	})

	t.Run("finite segment uses nearest endpoint", func(t *testing.T) {
		p := datastructure.NewLonLat(120.0, 14.2)
		assert.InDelta(t, geo.HaversineDistance(p, b), geo.DistancePointToSegment(p, a, b), 1e-3)
	})

	t.Run("zero length segment", func(t *testing.T) {
		p := datastructure.NewLonLat(120.0, 14.05)
		assert.InDelta(t, geo.HaversineDistance(p, a), geo.DistancePointToSegment(p, a, a), 1e-9)
	})
}

func TestSliceLine(t *testing.T) {
	line := []datastructure.Coordinate{
		datastructure.NewLonLat(120.0, 14.0),
		datastructure.NewLonLat(120.1, 14.0),
		datastructure.NewLonLat(120.1, 14.1),
		datastructure.NewLonLat(120.2, 14.15),
	}
	total := geo.LineLength(line)

	t.Run("full slice reproduces the line", func(t *testing.T) {
		sliced, err := geo.SliceLine(line, 0, 1)
		require.NoError(t, err)
		assert.Equal(t, line, sliced)
		assert.Equal(t, total, geo.LineLength(sliced))
	})

	t.Run("partial slice length is proportional", func(t *testing.T) {
		for _, tc := range []struct{ from, to float64 }{
			{0.1, 0.9}, {0.25, 0.5}, {0.0, 0.33}, {0.7, 1.0},
		} {
			sliced, err := geo.SliceLine(line, tc.from, tc.to)
			require.NoError(t, err)
			assert.InDelta(t, (tc.to-tc.from)*total, geo.LineLength(sliced), 1e-3)
		}
	})

	t.Run("reversed fractions are swapped", func(t *testing.T) {
		a, err := geo.SliceLine(line, 0.8, 0.2)
		require.NoError(t, err)
		b, err := geo.SliceLine(line, 0.2, 0.8)
		require.NoError(t, err)
		assert.Equal(t, b, a)
	})

	t.Run("empty slice", func(t *testing.T) {
		sliced, err := geo.SliceLine(line, 0.4, 0.4)
		require.NoError(t, err)
		assert.Len(t, sliced, 2)
		assert.InDelta(t, 0, geo.LineLength(sliced), 1e-6)
	})

	t.Run("degenerate line", func(t *testing.T) {
		_, err := geo.SliceLine(nil, 0, 1)
		assert.ErrorIs(t, err, geo.ErrDegenerateLine)
	})
}

func TestBearingTo(t *testing.T) {
	origin := datastructure.NewLonLat(120.0, 14.0)
	assert.InDelta(t, 0, geo.BearingTo(origin, datastructure.NewLonLat(120.0, 14.1)), 1e-6)
	assert.InDelta(t, 90, geo.BearingTo(origin, datastructure.NewLonLat(120.1, 14.0)), 0.1)
	assert.InDelta(t, 180, geo.BearingTo(origin, datastructure.NewLonLat(120.0, 13.9)), 1e-6)
	assert.InDelta(t, 270, geo.BearingTo(origin, datastructure.NewLonLat(119.9, 14.0)), 0.1)
	assert.InDelta(t, -90, geo.BearingDelta(350, 260), 1e-9)
	assert.InDelta(t, 20, geo.BearingDelta(350, 10), 1e-9)
}

func TestDensify(t *testing.T) {
	line := meridianLine()
	dense := geo.Densify(line, 1000)
	assert.Equal(t, line[0], dense[0])
	assert.Equal(t, line[len(line)-1], dense[len(dense)-1])
	for i := 1; i < len(dense); i++ {
		assert.LessOrEqual(t, geo.HaversineDistance(dense[i-1], dense[i]), 1000.0+1e-6)
	}
	assert.InDelta(t, geo.LineLength(line), geo.LineLength(dense), 1e-3)
}
