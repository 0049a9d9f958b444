package pds

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/pds/extract"
)

// Option configures the Extractor used for each file of a batch. Method
// expressions such as (*Extractor).IgnoreChecksum satisfy it.
type Option func(*Extractor) *Extractor

// FileFunc receives the outcome of one file of a batch. Calls are
// serialized. A non-nil return stops the batch and is returned by
// ExtractFiles.
type FileFunc func(path string, res *extract.Result, err error) error

// ExtractFiles extracts the image of every path with at most workers files
// in flight; workers <= 0 means no limit. Each file gets its own Extractor
// and source. Per-file failures are handed to fn rather than stopping the
// batch. Cancellation of ctx is observed between files.
//
// Example:
//
//	err := pds.ExtractFiles(ctx, paths, 4, func(path string, res *extract.Result, err error) error {
//	    if err != nil {
//	        log.Printf("%s: %v", path, err)
//	    }
//	    return nil
//	}, (*pds.Extractor).IgnoreChecksum)
func ExtractFiles(ctx context.Context, paths []string, workers int, fn FileFunc, opts ...Option) error {
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	var mu sync.Mutex
	for _, path := range paths {
		path := path
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ext := Open(path)
			for _, opt := range opts {
				ext = opt(ext)
			}
			res, err := ext.Image()

			mu.Lock()
			defer mu.Unlock()
			return fn(path, res, err)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
