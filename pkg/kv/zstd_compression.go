package kv

import (
	"lintang/tripnav/pkg/concurrent"
	"lintang/tripnav/pkg/datastructure"

	"github.com/DataDog/zstd"
	"github.com/kelindar/binary"
)

// POIRecord poi yang disimpan per h3 cell.
type POIRecord struct {
	ID       string
	Name     string
	Category string
	Lat      float64
	Lon      float64
}

func (p POIRecord) ToCorridorPOI() datastructure.CorridorPOI {
	return datastructure.CorridorPOI{
		ID:         p.ID,
		Name:       p.Name,
		Category:   p.Category,
		Coordinate: datastructure.NewCoordinate(p.Lat, p.Lon),
	}
}

func NewPOIRecord(p datastructure.CorridorPOI) POIRecord {
	return POIRecord{ID: p.ID, Name: p.Name, Category: p.Category, Lat: p.Coordinate.Lat, Lon: p.Coordinate.Lon}
}

func (p POIRecord) toConcurrentItem() concurrent.POIItem {
	return concurrent.POIItem{ID: p.ID, Name: p.Name, Category: p.Category, Lat: p.Lat, Lon: p.Lon}
}

func fromConcurrentItem(c concurrent.POIItem) POIRecord {
	return POIRecord{ID: c.ID, Name: c.Name, Category: c.Category, Lat: c.Lat, Lon: c.Lon}
}

func Encode(pois []POIRecord) ([]byte, error) {
	return binary.Marshal(pois)
}

func Decode(bb []byte) ([]POIRecord, error) {
	var pois []POIRecord
	if err := binary.Unmarshal(bb, &pois); err != nil {
		return nil, err
	}
	return pois, nil
}

func Compress(bb []byte) ([]byte, error) {
	var bbCompressed []byte
	bbCompressed, err := zstd.Compress(bbCompressed, bb)
	if err != nil {
		return []byte{}, err
	}
	return bbCompressed, nil
}

func Decompress(bbCompressed []byte) ([]byte, error) {
	var bb []byte
	bb, err := zstd.Decompress(bb, bbCompressed)
	if err != nil {
		return []byte{}, err
	}
	return bb, nil
}

func CompressPOIs(pois []POIRecord) ([]byte, error) {
	bb, err := Encode(pois)
	if err != nil {
		return nil, err
	}
	return Compress(bb)
}

func LoadPOIs(bbCompressed []byte) ([]POIRecord, error) {
	bb, err := Decompress(bbCompressed)
	if err != nil {
		return nil, err
	}
	return Decode(bb)
}
