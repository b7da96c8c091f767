package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"lintang/tripnav/pkg/kv"
	"lintang/tripnav/pkg/osmparser"

	"github.com/cockroachdb/pebble"
)

var (
	mapFile   = flag.String("f", "solo_jogja.osm.pbf", "openstreetmap file sumber poi")
	dbDir     = flag.String("db", "./tripnav_poi", "directory pebble poi catalog")
	workers   = flag.Int("workers", runtime.NumCPU(), "jumlah worker penyimpanan poi")
	batchSize = flag.Int("batch", 5000, "jumlah poi per batch simpan")
)

func main() {
	flag.Parse()

	f, err := os.Open(*mapFile)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	db, err := pebble.Open(*dbDir, &pebble.Options{})
	if err != nil {
		log.Fatal(err)
	}
	catalog := kv.NewPOICatalog(db, kv.WithProgressBar(), kv.WithWorkers(*workers))
	defer catalog.Close()

	total, err := osmparser.ImportPOIs(context.Background(), f, catalog, *batchSize)
	if err != nil {
		log.Printf("import poi gagal setelah %d poi: %v", total, err)
		return
	}
	fmt.Printf("\nimport selesai, %d poi disimpan ke %s\n", total, *dbDir)
}
