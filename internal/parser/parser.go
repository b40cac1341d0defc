package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"docweaver/internal/cache"
	"docweaver/internal/descriptor"
	"docweaver/internal/environment"
	"docweaver/pkg/logging"

	"golang.org/x/sync/errgroup"
)

const filesKind = "files"

// Result is the outcome of a Parse call.
type Result struct {
	Files     []descriptor.File
	FromCache int
}

// Parser reads source files into descriptors, reusing cached results for
// unchanged content.
type Parser struct {
	cache    *cache.Storage
	settings environment.Settings
}

// New returns a parser caching into storage. Caching follows the normalized
// DOCWEAVER_CACHE_* settings; a nil storage disables it.
func New(storage *cache.Storage, settings environment.Settings) *Parser {
	return &Parser{cache: storage, settings: settings}
}

// Cache returns the storage parse results are cached in.
func (p *Parser) Cache() *cache.Storage {
	return p.cache
}

// CacheEnabled reports whether parse results are read from and written to
// the cache. The cache is on unless cache.enable or cache.load_comments is
// switched off; a cache without comments would produce empty documentation.
func (p *Parser) CacheEnabled() bool {
	if p.cache == nil {
		return false
	}
	if p.settings == nil {
		return true
	}
	return !environment.Disabled(p.settings, environment.CacheEnable) &&
		!environment.Disabled(p.settings, environment.CacheLoadComments)
}

// Parse reads files (relative to opts.Root) concurrently. Results keep the
// order of files. The first failure cancels the remaining work.
func (p *Parser) Parse(ctx context.Context, opts Options, files []string) (Result, error) {
	out := make([]descriptor.File, len(files))
	useCache := p.CacheEnabled()
	var fromCache atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	g.SetLimit(workers)

	for i, rel := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			src, err := os.ReadFile(filepath.Join(opts.Root, filepath.FromSlash(rel)))
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", rel, err)
			}
			hash := Hash(src)

			if useCache {
				var cached descriptor.File
				if err := p.cache.Load(filesKind, hash, &cached); err == nil {
					cached.Path = rel
					out[i] = cached
					fromCache.Add(1)
					return nil
				}
			}

			f, err := ParseSource(rel, src, opts.DefaultPackage)
			if err != nil {
				return err
			}
			out[i] = f

			if useCache {
				if err := p.cache.Save(filesKind, hash, f); err != nil {
					logging.Warn("Parser", "Could not cache %s: %v", rel, err)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	if useCache {
		keep := make(map[string]bool, len(out))
		for _, f := range out {
			keep[f.Hash] = true
		}
		if removed, err := p.cache.Purge(filesKind, keep); err != nil {
			logging.Warn("Parser", "Could not prune the parse cache: %v", err)
		} else if removed > 0 {
			logging.Debug("Parser", "Pruned %d stale cache entries", removed)
		}
	}

	res := Result{Files: out, FromCache: int(fromCache.Load())}
	logging.Debug("Parser", "Parsed %d files, %d from cache", len(out), res.FromCache)
	return res, nil
}
