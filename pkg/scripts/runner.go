package scripts

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"basic/pkg/driver"
	"basic/pkg/source"
)

// Extension is the file extension of checkable scripts.
const Extension = ".bas"

// Discover returns the paths of all scripts under root in fsys, sorted.
func Discover(fsys fs.FS, root string) ([]string, error) {
	var paths []string
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if path.Ext(p) == Extension {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// Report is the outcome of one checking run.
type Report struct {
	Results []*Result // one per script, in submission order
	Stats   PoolStats
}

// Run checks every script under root in fsys. Results are returned in
// the order Discover lists the scripts. displayDir is prefixed to script
// paths in diagnostics.
func Run(ctx context.Context, fsys fs.FS, root, displayDir string, cfg *driver.Config) (*Report, error) {
	paths, err := Discover(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("scripts: discover %s: %w", root, err)
	}

	sources := make([]*source.SourceFile, len(paths))
	for i, p := range paths {
		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("scripts: read %s: %w", p, err)
		}
		full := p
		if displayDir != "" {
			full = filepath.Join(displayDir, filepath.FromSlash(p))
		}
		sources[i] = source.FromFile(full, string(content))
	}

	return RunSources(ctx, sources, cfg)
}

// RunDir checks every script under dir on disk.
func RunDir(ctx context.Context, dir string, cfg *driver.Config) (*Report, error) {
	return Run(ctx, os.DirFS(dir), ".", dir, cfg)
}

// RunSources checks the given scripts concurrently and returns one result
// per source, in the same order, along with the pool's statistics.
func RunSources(ctx context.Context, sources []*source.SourceFile, cfg *driver.Config) (*Report, error) {
	pool := NewPool(cfg)
	if err := pool.Start(ctx); err != nil {
		return nil, err
	}

	submitErr := make(chan error, 1)
	go func() {
		var err error
		for i, src := range sources {
			if err = pool.Submit(&Job{Index: i, Source: src}); err != nil {
				break
			}
		}
		pool.Shutdown(context.Background())
		submitErr <- err
	}()

	results := make([]*Result, len(sources))
	for res := range pool.Results() {
		results[res.Index] = res
	}
	if err := <-submitErr; err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Report{Results: results, Stats: pool.Stats()}, nil
}

// Summary counts passed, failed and skipped results.
func Summary(results []*Result) (passed, failed, skipped int) {
	for _, r := range results {
		switch {
		case r.Skipped:
			skipped++
		case r.Passed:
			passed++
		default:
			failed++
		}
	}
	return passed, failed, skipped
}
