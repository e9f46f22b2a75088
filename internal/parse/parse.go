// Package parse extracts include and definition directives from procedure files.
package parse

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/phobologic/ipftree/internal/lang"
	"github.com/phobologic/ipftree/internal/model"
)

const maxLineBytes = 1 << 20

// Scan reads r line by line and returns its directives in line order. On a
// line matching both patterns the include is reported before the definition.
func Scan(r io.Reader, m *lang.Matcher) ([]model.Directive, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var out []model.Directive
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSuffix(sc.Text(), "\r")

		if target, ok := m.Include(line); ok {
			out = append(out, model.Directive{Kind: model.Include, Value: target, Line: lineNo})
		}
		if name, ok := m.Definition(line); ok {
			out = append(out, model.Directive{Kind: model.Definition, Value: name, Line: lineNo})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ScanFile opens path and scans it.
func ScanFile(path string, m *lang.Matcher) ([]model.Directive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ds, err := Scan(f, m)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ds, nil
}

// FileSource reads directives straight from disk on every call.
type FileSource struct {
	Matcher *lang.Matcher
}

// Directives implements forest.Source.
func (s FileSource) Directives(ctx context.Context, path string) ([]model.Directive, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ScanFile(path, s.Matcher)
}

// Cache holds directives scanned ahead of time. Paths that were not
// pre-scanned are read from disk on demand and remembered.
type Cache struct {
	fallback FileSource

	mu      sync.Mutex
	entries map[string][]model.Directive
}

// NewCache returns an empty cache backed by m.
func NewCache(m *lang.Matcher) *Cache {
	return &Cache{
		fallback: FileSource{Matcher: m},
		entries:  make(map[string][]model.Directive),
	}
}

// Directives implements forest.Source.
func (c *Cache) Directives(ctx context.Context, path string) ([]model.Directive, error) {
	c.mu.Lock()
	ds, ok := c.entries[path]
	c.mu.Unlock()
	if ok {
		return ds, nil
	}

	ds, err := c.fallback.Directives(ctx, path)
	if err != nil {
		return nil, err
	}
	c.store(path, ds)
	return ds, nil
}

// Lookup returns the cached directives for path without touching disk.
func (c *Cache) Lookup(path string) ([]model.Directive, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ds, ok := c.entries[path]
	return ds, ok
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) store(path string, ds []model.Directive) {
	c.mu.Lock()
	c.entries[path] = ds
	c.mu.Unlock()
}

// ScanAll scans paths concurrently with at most workers goroutines
// (GOMAXPROCS when workers <= 0). The first failure cancels the remaining
// work and is returned.
func ScanAll(ctx context.Context, m *lang.Matcher, paths []string, workers int) (*Cache, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	c := NewCache(m)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ds, err := ScanFile(path, m)
			if err != nil {
				return err
			}
			c.store(path, ds)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return c, nil
}
