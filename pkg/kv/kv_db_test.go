package kv_test

import (
	"fmt"
	"testing"

	"lintang/tripnav/pkg/datastructure"
	"lintang/tripnav/pkg/engine/corridor"
	"lintang/tripnav/pkg/kv"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(t *testing.T) *kv.POICatalog {
	t.Helper()
	db, err := pebble.Open("", &pebble.Options{FS: vfs.NewMem()})
	require.NoError(t, err)
	catalog := kv.NewPOICatalog(db, kv.WithWorkers(2))
	t.Cleanup(func() { _ = catalog.Close() })
	return catalog
}

func ids(pois []datastructure.CorridorPOI) map[string]bool {
	m := make(map[string]bool, len(pois))
	for _, p := range pois {
		m[p.ID] = true
	}
	return m
}

func TestCodec(t *testing.T) {
	records := []kv.POIRecord{
		{ID: "node/1", Name: "Keraton Surakarta", Category: "attraction", Lat: -7.5776, Lon: 110.8281},
		{ID: "node/2", Name: "Pasar Gede", Category: "marketplace", Lat: -7.5690, Lon: 110.8305},
	}
	bb, err := kv.CompressPOIs(records)
	require.NoError(t, err)
	loaded, err := kv.LoadPOIs(bb)
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
}

func TestPOICatalog(t *testing.T) {
	catalog := newCatalog(t)

	pois := []datastructure.CorridorPOI{
		{ID: "museum", Name: "Museum", Coordinate: datastructure.NewLonLat(110.8300, -7.5700)},
		{ID: "temple", Name: "Temple", Coordinate: datastructure.NewLonLat(110.8700, -7.5700)},
		{ID: "far", Name: "Far Away", Coordinate: datastructure.NewLonLat(111.5, -7.9)},
	}
	for i := 0; i < 20; i++ {
		pois = append(pois, datastructure.CorridorPOI{
			ID:         fmt.Sprintf("cafe-%d", i),
			Coordinate: datastructure.NewLonLat(110.8300+float64(i)*0.002, -7.5705),
		})
	}
	require.NoError(t, catalog.PutPOIs(pois))

	t.Run("nearby", func(t *testing.T) {
		got, err := catalog.Nearby(datastructure.NewLonLat(110.8301, -7.5701), 100)
		require.NoError(t, err)
		found := ids(got)
		assert.True(t, found["museum"])
		assert.True(t, found["cafe-0"])
		assert.False(t, found["temple"])
		assert.False(t, found["far"])
	})

	t.Run("candidates along line are a superset of the corridor", func(t *testing.T) {
		line := []datastructure.Coordinate{
			datastructure.NewLonLat(110.8200, -7.5700),
			datastructure.NewLonLat(110.8800, -7.5700),
		}
		got, err := catalog.CandidatesAlongLine(line, 100)
		require.NoError(t, err)
		found := ids(got)
		assert.True(t, found["museum"])
		assert.True(t, found["temple"])
		assert.False(t, found["far"])

		route := datastructure.NewRoute(nil, line)
		want := corridor.FindNearbyCorridorPOIs(pois, route, line[0], 100)
		for _, p := range want {
			assert.True(t, found[p.ID], "missing %s", p.ID)
		}
	})

	t.Run("put replaces by id", func(t *testing.T) {
		require.NoError(t, catalog.PutPOIs([]datastructure.CorridorPOI{
			{ID: "museum", Name: "Museum Radya Pustaka", Coordinate: datastructure.NewLonLat(110.8300, -7.5700)},
		}))
		got, err := catalog.Nearby(datastructure.NewLonLat(110.8300, -7.5700), 50)
		require.NoError(t, err)
		count := 0
		for _, p := range got {
			if p.ID == "museum" {
				count++
				assert.Equal(t, "Museum Radya Pustaka", p.Name)
			}
		}
		assert.Equal(t, 1, count)
	})
}
