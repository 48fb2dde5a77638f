package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/kdimtricp/galleryguru/internal/phash"
)

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true,
}

type entry struct {
	Path        string
	Fingerprint phash.Fingerprint
}

type pair struct {
	A, B     string
	Distance int
}

// scanDir fingerprints every image file directly inside dir. Files that fail
// to decode are reported on stderr and skipped.
func scanDir(ctx context.Context, dir string, hasher phash.Hasher, workers int) ([]entry, error) {
	listing, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, item := range listing {
		if item.IsDir() || !imageExts[strings.ToLower(filepath.Ext(item.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, item.Name()))
	}

	results := make([]*entry, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := imaging.Open(path, imaging.AutoOrientation(true))
			if err != nil {
				fmt.Fprintln(os.Stderr, "decode "+path+":", err)
				return nil
			}
			fp, err := hasher.Fingerprint(img)
			if err != nil {
				fmt.Fprintln(os.Stderr, "hash "+path+":", err)
				return nil
			}
			results[i] = &entry{Path: path, Fingerprint: fp}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make([]entry, 0, len(results))
	for _, e := range results {
		if e != nil {
			entries = append(entries, *e)
		}
	}
	return entries, nil
}

// findPairs returns every pair closer than threshold, closest first.
func findPairs(entries []entry, threshold int) []pair {
	var pairs []pair
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			if d := phash.Hamming(entries[i].Fingerprint, entries[j].Fingerprint); d < threshold {
				pairs = append(pairs, pair{A: entries[i].Path, B: entries[j].Path, Distance: d})
			}
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Distance < pairs[j].Distance
	})
	return pairs
}
