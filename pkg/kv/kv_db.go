package kv

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"lintang/tripnav/pkg/concurrent"
	"lintang/tripnav/pkg/datastructure"
	"lintang/tripnav/pkg/geo"

	"github.com/cockroachdb/pebble"
	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"
	"github.com/uber/h3-go/v4"
)

const (
	h3Resolution = 9
	keyPrefix    = "poi:"
	// densifyStepMeters jarak sampling route, lebih kecil dari edge cell res 9 (~174 m).
	densifyStepMeters = 100.0
	// ringMargin ring tambahan di luar estimasi area, cell res 9 ukurannya tidak seragam.
	ringMargin = 2
)

// POICatalog candidate poi untuk corridor search, di index per h3 cell di pebble.
type POICatalog struct {
	db           *pebble.DB
	numWorkers   int
	showProgress bool
}

type CatalogOption func(*POICatalog)

func WithProgressBar() CatalogOption {
	return func(c *POICatalog) { c.showProgress = true }
}

func WithWorkers(n int) CatalogOption {
	return func(c *POICatalog) {
		if n > 0 {
			c.numWorkers = n
		}
	}
}

func NewPOICatalog(db *pebble.DB, opts ...CatalogOption) *POICatalog {
	c := &POICatalog{db: db, numWorkers: 4}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func cellKey(cell h3.Cell) []byte {
	return []byte(keyPrefix + cell.String())
}

func cellOf(lat, lon float64) h3.Cell {
	return h3.LatLngToCell(h3.NewLatLng(lat, lon), h3Resolution)
}

func newBar(max int, desc string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

/*
PutPOIs simpan poi ke catalog. poi di group per h3 cell, digabung dengan isi cell yang sudah ada (poi dengan ID
sama di replace), lalu disimpan pakai worker pool.
*/
func (k *POICatalog) PutPOIs(pois []datastructure.CorridorPOI) error {
	kv := make(map[string][]concurrent.POIItem)
	for _, p := range pois {
		cell := cellOf(p.Coordinate.Lat, p.Coordinate.Lon)
		kv[cell.String()] = append(kv[cell.String()], NewPOIRecord(p).toConcurrentItem())
	}
	if len(kv) == 0 {
		return nil
	}

	var bar *progressbar.ProgressBar
	if k.showProgress {
		bar = newBar(len(kv), "[cyan][2/2][reset] saving h3 indexed poi to pebble db...")
	}

	workers := concurrent.NewWorkerPool[concurrent.SavePOIJobItem, error](k.numWorkers, len(kv))
	for keyStr, valArr := range kv {
		workers.AddJob(concurrent.SavePOIJobItem{KeyStr: keyStr, ValArr: valArr})
	}
	workers.Close()
	workers.Start(func(job concurrent.SavePOIJobItem) error {
		err := k.savePOIs(job)
		if bar != nil {
			bar.Add(1)
		}
		return err
	})
	workers.Wait()

	var errs []error
	for err := range workers.CollectResults() {
		if err != nil {
			errs = append(errs, err)
		}
	}
	if bar != nil {
		fmt.Println("")
	}
	return errors.Join(errs...)
}

func (k *POICatalog) savePOIs(item concurrent.SavePOIJobItem) error {
	key := []byte(keyPrefix + item.KeyStr)

	existing, err := k.get(key)
	if err != nil {
		return err
	}
	byID := make(map[string]POIRecord, len(existing)+len(item.ValArr))
	for _, p := range existing {
		byID[p.ID] = p
	}
	for _, c := range item.ValArr {
		byID[c.ID] = fromConcurrentItem(c)
	}
	merged := make([]POIRecord, 0, len(byID))
	for _, p := range byID {
		merged = append(merged, p)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ID < merged[j].ID })

	val, err := CompressPOIs(merged)
	if err != nil {
		return fmt.Errorf("compress cell %s: %w", item.KeyStr, err)
	}
	if err := k.db.Set(key, val, pebble.Sync); err != nil {
		return fmt.Errorf("save cell %s: %w", item.KeyStr, err)
	}
	return nil
}

func (k *POICatalog) get(key []byte) ([]POIRecord, error) {
	val, closer, err := k.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return LoadPOIs(val)
}

func (k *POICatalog) collect(cells map[h3.Cell]struct{}) ([]datastructure.CorridorPOI, error) {
	keys := make([]h3.Cell, 0, len(cells))
	for c := range cells {
		keys = append(keys, c)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	seen := make(map[string]struct{})
	pois := []datastructure.CorridorPOI{}
	for _, cell := range keys {
		records, err := k.get(cellKey(cell))
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			if _, ok := seen[r.ID]; ok {
				continue
			}
			seen[r.ID] = struct{}{}
			pois = append(pois, r.ToCorridorPOI())
		}
	}
	return pois, nil
}

// Nearby candidate poi dari cell-cell di sekitar titik (superset, belum difilter jarak exact).
func (k *POICatalog) Nearby(p datastructure.Coordinate, radiusMeters float64) ([]datastructure.CorridorPOI, error) {
	cells := make(map[h3.Cell]struct{})
	for _, c := range kRingIndexesArea(p.Lat, p.Lon, radiusMeters/1000) {
		cells[c] = struct{}{}
	}
	return k.collect(cells)
}

// CandidatesAlongLine candidate poi di sepanjang line, dipakai Navigator sebagai candidate source corridor search.
func (k *POICatalog) CandidatesAlongLine(line []datastructure.Coordinate, radiusMeters float64) ([]datastructure.CorridorPOI, error) {
	cells := make(map[h3.Cell]struct{})
	searchKm := (radiusMeters + densifyStepMeters/2) / 1000
	for _, p := range geo.Densify(line, densifyStepMeters) {
		for _, c := range kRingIndexesArea(p.Lat, p.Lon, searchKm) {
			cells[c] = struct{}{}
		}
	}
	return k.collect(cells)
}

/*
*
  - https://observablehq.com/@nrabinowitz/h3-radius-lookup?collection=@nrabinowitz/h3
    search cell neighbor dari cell dari lat,lon  yang radius nya = searchRadiusKm. ditambah ringMargin supaya
    titik di pinggir cell tidak ke skip.
*/
func kRingIndexesArea(lat, lon, searchRadiusKm float64) []h3.Cell {
	home := h3.NewLatLng(lat, lon)
	origin := h3.LatLngToCell(home, h3Resolution)
	originArea := h3.CellAreaKm2(origin)
	searchArea := math.Pi * searchRadiusKm * searchRadiusKm

	radius := 0
	diskArea := originArea

	for diskArea < searchArea {
		radius++
		cellCount := float64(3*radius*(radius+1) + 1)
		diskArea = cellCount * originArea
	}

	return h3.GridDisk(origin, radius+ringMargin)
}

func (k *POICatalog) Close() error {
	return k.db.Close()
}
