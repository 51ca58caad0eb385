// rustlint checks the style of Rust crates.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/phobologic/rustlint/internal/cache"
	"github.com/phobologic/rustlint/internal/cargo"
	"github.com/phobologic/rustlint/internal/config"
	"github.com/phobologic/rustlint/internal/diag"
	"github.com/phobologic/rustlint/internal/discover"
	"github.com/phobologic/rustlint/internal/toon"
)

var version = "dev"

const defaultMaxFileSize = 1_000_000 // 1 MB

// Exit codes.
const (
	exitOK          = 0
	exitDiagnostics = 1
	exitError       = 2
)

// errDiagnostics is returned when a run completed and reported problems.
var errDiagnostics = errors.New("diagnostics reported")

type options struct {
	configPath  string
	color       string
	format      string
	noExcerpt   bool
	jobs        int
	useCache    bool
	clearCache  bool
	cacheDir    string
	maxFileSize int
	quiet       bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errDiagnostics):
		return exitDiagnostics
	}
	_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
	return exitError
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "rustlint [path]",
		Short:         "Check the style of a Rust crate or workspace",
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			return runLint(root, opts, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "path to config file (default: discovered in the root)")
	f.StringVar(&opts.color, "color", "auto", "colorize output (auto|always|never)")
	f.StringVar(&opts.format, "format", "text", "output format (text|toon)")
	f.BoolVar(&opts.noExcerpt, "no-excerpt", false, "omit source excerpts")
	f.IntVarP(&opts.jobs, "jobs", "j", runtime.GOMAXPROCS(0), "number of files linted in parallel")
	f.BoolVar(&opts.useCache, "cache", false, "reuse results of unchanged files")
	f.BoolVar(&opts.clearCache, "clear-cache", false, "remove cached results before linting")
	f.StringVar(&opts.cacheDir, "cache-dir", "", "cache directory (default: $XDG_CACHE_HOME/rustlint)")
	f.IntVar(&opts.maxFileSize, "max-file-size", defaultMaxFileSize, "skip files larger than this many bytes")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress warnings")

	cmd.AddCommand(newExpandCmd(stdout, stderr))
	cmd.AddCommand(newInitCmd(stdout, stderr))
	return cmd
}

func runLint(root string, opts *options, stdout, stderr io.Writer) error {
	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", root)
	}

	cfg, err := config.Load(opts.configPath, root)
	if err != nil {
		return err
	}

	pkgs, err := cargo.Load(root)
	if err != nil && !errors.Is(err, cargo.ErrNoManifest) {
		return err
	}

	files, err := discover.Files(root, pkgs, cfg.Lint.Exclude)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no Rust files found")
	}

	warn := newWarner(stderr, opts.quiet)
	files = filterBySize(root, files, opts.maxFileSize, warn)

	c, err := openCache(opts)
	if err != nil {
		return err
	}

	renderer, err := newRenderer(opts, root, files, stdout)
	if err != nil {
		return err
	}
	em := diag.NewEmitter(renderer)

	l := &linter{root: root, cfg: cfg, cache: c, warn: warn, jobs: opts.jobs}
	failed, err := l.lintFiles(files, em)
	if err != nil {
		return err
	}

	hasDiags := em.HasErrors()
	nErrors, nWarnings := em.Counts()
	if err := em.Emit(stdout); err != nil {
		return fmt.Errorf("writing diagnostics: %w", err)
	}
	if hasDiags && !opts.quiet {
		_, _ = fmt.Fprintf(stderr, "%d error(s), %d warning(s)\n", nErrors, nWarnings)
	}
	if failed > 0 {
		return fmt.Errorf("%d file(s) could not be checked", failed)
	}
	if hasDiags {
		return errDiagnostics
	}
	return nil
}

// openCache returns the result cache selected by the flags, or nil when
// caching is off. --clear-cache empties it first.
func openCache(opts *options) (*cache.Cache, error) {
	if !opts.useCache && !opts.clearCache {
		return nil, nil
	}
	dir := opts.cacheDir
	if dir == "" {
		var err error
		if dir, err = cache.DefaultDir("rustlint"); err != nil {
			return nil, fmt.Errorf("locating cache: %w", err)
		}
	}
	c, err := cache.Open(dir)
	if err != nil {
		return nil, err
	}
	if opts.clearCache {
		if err := c.Clear(); err != nil {
			return nil, fmt.Errorf("clearing cache: %w", err)
		}
	}
	if !opts.useCache {
		return nil, nil
	}
	return c, nil
}

func newRenderer(opts *options, root string, files []discover.FileEntry, stdout io.Writer) (diag.Renderer, error) {
	switch opts.format {
	case "text":
		useColor, err := colorEnabled(opts.color, stdout)
		if err != nil {
			return nil, err
		}
		return &diag.TextRenderer{Color: useColor, Excerpt: !opts.noExcerpt}, nil
	case "toon":
		paths := make([]string, len(files))
		for i, f := range files {
			paths[i] = f.Path
		}
		return &toon.Renderer{Root: filepath.Base(root), Files: paths}, nil
	}
	return nil, fmt.Errorf("unknown format %q (want text or toon)", opts.format)
}

// colorEnabled resolves --color. auto colors only a terminal that does not
// set NO_COLOR.
func colorEnabled(mode string, w io.Writer) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		if os.Getenv("NO_COLOR") != "" {
			return false, nil
		}
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd())), nil
	}
	return false, fmt.Errorf("unknown color mode %q (want auto, always or never)", mode)
}

func filterBySize(root string, files []discover.FileEntry, maxSize int, warn *warner) []discover.FileEntry {
	var kept []discover.FileEntry
	for _, f := range files {
		fi, err := os.Stat(filepath.Join(root, f.Path))
		if err != nil {
			kept = append(kept, f) // keep if can't stat
			continue
		}
		if maxSize > 0 && fi.Size() > int64(maxSize) {
			warn.printf("%s: skipped (>%d bytes)", f.Path, maxSize)
			continue
		}
		kept = append(kept, f)
	}
	return kept
}
