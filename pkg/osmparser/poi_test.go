package osmparser_test

import (
	"testing"

	"lintang/tripnav/pkg/osmparser"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
)

func TestPOIFromNode(t *testing.T) {
	t.Run("tourism attraction", func(t *testing.T) {
		n := &osm.Node{ID: 42, Lat: -7.5776, Lon: 110.8281, Tags: osm.Tags{
			{Key: "name", Value: "Keraton Surakarta"},
			{Key: "tourism", Value: "attraction"},
		}}
		poi, ok := osmparser.POIFromNode(n)
		assert.True(t, ok)
		assert.Equal(t, "node/42", poi.ID)
		assert.Equal(t, "Keraton Surakarta", poi.Name)
		assert.Equal(t, "tourism=attraction", poi.Category)
		assert.Equal(t, -7.5776, poi.Coordinate.Lat)
		assert.Equal(t, 110.8281, poi.Coordinate.Lon)
	})

	t.Run("any historic value", func(t *testing.T) {
		n := &osm.Node{ID: 7, Tags: osm.Tags{{Key: "historic", Value: "monument"}}}
		poi, ok := osmparser.POIFromNode(n)
		assert.True(t, ok)
		assert.Equal(t, "historic=monument", poi.Category)
	})

	t.Run("unlisted amenity is ignored", func(t *testing.T) {
		n := &osm.Node{ID: 8, Tags: osm.Tags{{Key: "amenity", Value: "bench"}}}
		_, ok := osmparser.POIFromNode(n)
		assert.False(t, ok)
	})

	t.Run("untagged node", func(t *testing.T) {
		_, ok := osmparser.POIFromNode(&osm.Node{ID: 9})
		assert.False(t, ok)
	})
}
