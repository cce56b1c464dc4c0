package config

import (
	"context"
	"runtime"
	"sort"

	"github.com/sourcegraph/conc/pool"
)

// FileResult is the outcome of validating one model config file.
type FileResult struct {
	Path   string
	Config *Config
	Err    error
}

// ValidateFiles loads every path concurrently with at most workers goroutines
// (GOMAXPROCS when workers <= 0). Results are sorted by path; a cancelled ctx
// marks the files not yet started with ctx.Err().
func (l *Loader) ValidateFiles(ctx context.Context, paths []string, workers int) []FileResult {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := pool.NewWithResults[FileResult]().WithMaxGoroutines(workers)
	for _, path := range paths {
		path := path
		p.Go(func() FileResult {
			if err := ctx.Err(); err != nil {
				return FileResult{Path: path, Err: err}
			}
			cfg, err := l.LoadConfig(path)
			if err != nil {
				l.logger.Warn().Err(err).Str("file", path).Msg("model config invalid")
			}
			return FileResult{Path: path, Config: cfg, Err: err}
		})
	}

	results := p.Wait()
	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results
}
