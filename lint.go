package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/sync/errgroup"

	"github.com/phobologic/rustlint/internal/cache"
	"github.com/phobologic/rustlint/internal/config"
	"github.com/phobologic/rustlint/internal/diag"
	"github.com/phobologic/rustlint/internal/discover"
	"github.com/phobologic/rustlint/internal/engine"
	"github.com/phobologic/rustlint/internal/expand"
	"github.com/phobologic/rustlint/internal/lang"
	"github.com/phobologic/rustlint/internal/parse"
	"github.com/phobologic/rustlint/internal/rules"
)

// warner writes "Warning: ..." lines to stderr from any goroutine.
type warner struct {
	mu    sync.Mutex
	w     io.Writer
	quiet bool
}

func newWarner(w io.Writer, quiet bool) *warner {
	return &warner{w: w, quiet: quiet}
}

func (w *warner) printf(format string, args ...any) {
	if w.quiet {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, _ = fmt.Fprintf(w.w, "Warning: "+format+"\n", args...)
}

// linter checks files against the registered rules.
type linter struct {
	root  string
	cfg   *config.Config
	cache *cache.Cache
	warn  *warner
	jobs  int
}

type fileResult struct {
	records []diag.Record
	failed  bool
}

// lintFiles checks files concurrently, one tree-sitter parser per worker,
// and adds their diagnostics to em in the order of files. It returns the
// number of files that could not be checked.
func (l *linter) lintFiles(files []discover.FileEntry, em *diag.Emitter) (int, error) {
	fingerprint, err := config.Marshal(l.cfg)
	if err != nil {
		return 0, err
	}
	rl := lang.Rust()
	query, err := rl.GetTagQuery()
	if err != nil {
		return 0, fmt.Errorf("compiling query: %w", err)
	}
	validator := &engine.Validator{Rules: rules.Registered(), Config: l.cfg}

	jobs := l.jobs
	if jobs < 1 {
		jobs = 1
	}
	if jobs > len(files) {
		jobs = len(files)
	}

	results := make([]fileResult, len(files))
	work := make(chan int)

	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		defer close(work)
		for i := range files {
			select {
			case work <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	for range jobs {
		g.Go(func() error {
			// Each goroutine gets its own parser
			parser := rl.NewParser()
			defer parser.Close()
			for idx := range work {
				results[idx] = l.lintFile(files[idx], parser, query, validator, fingerprint)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	failed := 0
	for _, r := range results {
		if r.failed {
			failed++
			continue
		}
		for _, rec := range r.records {
			em.Add(rec)
		}
	}
	return failed, nil
}

func (l *linter) lintFile(f discover.FileEntry, parser *sitter.Parser, query *sitter.Query, v *engine.Validator, fingerprint []byte) fileResult {
	source, err := os.ReadFile(filepath.Join(l.root, f.Path))
	if err != nil {
		l.warn.printf("%s: %v", f.Path, err)
		return fileResult{failed: true}
	}

	key := cache.Key(f.Path, source, fingerprint, version)
	if recs, ok, err := l.cache.Get(key); err != nil {
		l.warn.printf("%s: reading cache: %v", f.Path, err)
	} else if ok {
		return fileResult{records: recs}
	}

	res, err := parse.File(parser, query, source)
	if err != nil {
		l.warn.printf("%s: %v", f.Path, err)
		return fileResult{failed: true}
	}
	if res.HasErrors {
		l.warn.printf("%s: syntax errors, results may be incomplete", f.Path)
	}

	diags, err := v.Validate(res.Tree, f.Path, expand.NewMacroRules(parser, query, res.Macros))
	if err != nil {
		l.warn.printf("%v", err)
		return fileResult{failed: true}
	}

	recs := make([]diag.Record, len(diags))
	for i, d := range diags {
		recs[i] = d.Resolve()
	}
	if err := l.cache.Put(key, f.Path, recs); err != nil {
		l.warn.printf("%s: writing cache: %v", f.Path, err)
	}
	return fileResult{records: recs}
}
