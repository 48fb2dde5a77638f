// Command dupscan finds near-duplicate images in a directory.
//
// Every pair closer than the threshold is printed as two tab-separated
// filenames followed by their distance.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/kdimtricp/galleryguru/internal/ingest"
	"github.com/kdimtricp/galleryguru/internal/phash"
)

func main() {
	var (
		dir       = flag.String("dir", "", "directory of images")
		threshold = flag.Int("threshold", ingest.DefaultThreshold, "exclusive Hamming distance bound")
		workers   = flag.Int("workers", runtime.NumCPU(), "concurrent decoders")
	)
	flag.Parse()

	if *dir == "" {
		fmt.Fprintln(os.Stderr, "Required flag: -dir. See -help.")
		os.Exit(2)
	}

	entries, err := scanDir(context.Background(), *dir, phash.NewDifferenceHasher(), *workers)
	if err != nil {
		fmt.Fprintln(os.Stderr, "scan:", err)
		os.Exit(1)
	}

	for _, p := range findPairs(entries, *threshold) {
		fmt.Printf("%s\t%s\t%d\n", p.A, p.B, p.Distance)
	}
}
