package osmparser

import (
	"context"
	"fmt"
	"io"
	"log"
	"runtime"

	"lintang/tripnav/pkg/datastructure"

	"github.com/k0kubun/go-ansi"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/schollz/progressbar/v3"
)

// ValidPOIKey tag osm yang dianggap point of interest, value = kategori yang diterima ("*" = semua).
var ValidPOIKey = map[string]map[string]bool{
	"tourism": {
		"attraction": true, "museum": true, "viewpoint": true, "gallery": true,
		"zoo": true, "theme_park": true, "artwork": true, "information": true,
	},
	"historic": {"*": true},
	"amenity": {
		"place_of_worship": true, "marketplace": true, "restaurant": true, "cafe": true,
		"fuel": true, "toilets": true, "hospital": true, "police": true,
	},
	"leisure": {"park": true, "garden": true, "nature_reserve": true},
}

var poiKeyOrder = []string{"tourism", "historic", "amenity", "leisure"}

// POIFromNode. return poi kalau node punya tag poi yang valid.
func POIFromNode(n *osm.Node) (datastructure.CorridorPOI, bool) {
	if n == nil || len(n.Tags) == 0 {
		return datastructure.CorridorPOI{}, false
	}
	for _, key := range poiKeyOrder {
		val := n.Tags.Find(key)
		if val == "" {
			continue
		}
		accepted := ValidPOIKey[key]
		if !accepted["*"] && !accepted[val] {
			continue
		}
		return datastructure.CorridorPOI{
			ID:         fmt.Sprintf("node/%d", n.ID),
			Name:       n.Tags.Find("name"),
			Category:   fmt.Sprintf("%s=%s", key, val),
			Coordinate: datastructure.NewCoordinate(n.Lat, n.Lon),
		}, true
	}
	return datastructure.CorridorPOI{}, false
}

type POISink interface {
	PutPOIs(pois []datastructure.CorridorPOI) error
}

/*
ImportPOIs scan osm pbf, ambil node yang punya tag poi, simpan ke sink per batch.
*/
func ImportPOIs(ctx context.Context, r io.Reader, sink POISink, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 5000
	}
	scanner := osmpbf.New(ctx, r, runtime.GOMAXPROCS(-1))
	defer scanner.Close()
	scanner.SkipWays = true
	scanner.SkipRelations = true

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("[cyan][1/2][reset] scanning openstreetmap nodes for poi..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	total := 0
	count := 0
	batch := make([]datastructure.CorridorPOI, 0, batchSize)
	for scanner.Scan() {
		count++
		if count%50000 == 0 {
			bar.Add(50000)
		}
		node, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		poi, ok := POIFromNode(node)
		if !ok {
			continue
		}
		batch = append(batch, poi)
		if len(batch) >= batchSize {
			if err := sink.PutPOIs(batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return total, err
	}
	if len(batch) > 0 {
		if err := sink.PutPOIs(batch); err != nil {
			return total, err
		}
		total += len(batch)
	}
	fmt.Println("")
	log.Printf("jumlah osm nodes: %d, jumlah poi: %d", count, total)
	return total, nil
}
