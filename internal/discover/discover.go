// Package discover finds the Rust source files of a crate or workspace.
package discover

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/phobologic/rustlint/internal/cargo"
	"github.com/phobologic/rustlint/internal/lang"
)

// FileEntry represents a discovered source file.
type FileEntry struct {
	Path    string // Relative to root
	Package string // Owning crate, empty without a manifest
}

var skipDirs = map[string]struct{}{
	"target":       {},
	"node_modules": {},
	".git":         {},
	".hg":          {},
	".svn":         {},
}

// Files discovers Rust source files under root. When pkgs is non-empty only
// their src directories are walked; otherwise the whole root is. Files
// ignored by git, or matching one of the gitignore-style exclude patterns,
// are left out.
func Files(root string, pkgs []cargo.Package, exclude []string) ([]FileEntry, error) {
	gitFiles := gitLsFiles(root)
	var gi *ignore.GitIgnore
	if gitFiles == nil {
		gi = loadGitignore(root)
	}
	var ex *ignore.GitIgnore
	if len(exclude) > 0 {
		ex = ignore.CompileIgnoreLines(exclude...)
	}

	if len(pkgs) == 0 {
		pkgs = []cargo.Package{{SrcDir: "."}}
	}

	seen := make(map[string]struct{})
	var results []FileEntry

	for _, pkg := range pkgs {
		start := filepath.Join(root, pkg.SrcDir)
		if info, err := os.Stat(start); err != nil || !info.IsDir() {
			continue
		}

		err := filepath.WalkDir(start, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil // skip errors
			}

			name := d.Name()

			if d.IsDir() {
				if path == start {
					return nil
				}
				if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
					return filepath.SkipDir
				}
				return nil
			}

			if strings.HasPrefix(name, ".") {
				return nil
			}

			// Skip symlinks
			if d.Type()&os.ModeSymlink != 0 {
				return nil
			}

			if lang.ForExtension(filepath.Ext(name)) != "rust" {
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return nil
			}
			slash := filepath.ToSlash(rel)

			if gitFiles != nil {
				if _, ok := gitFiles[slash]; !ok {
					return nil
				}
			} else if gi != nil && gi.MatchesPath(slash) {
				return nil
			}
			if ex != nil && ex.MatchesPath(slash) {
				return nil
			}

			if _, dup := seen[rel]; dup {
				return nil
			}
			seen[rel] = struct{}{}
			results = append(results, FileEntry{Path: rel, Package: pkg.Name})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})

	return results, nil
}

func gitLsFiles(root string) map[string]struct{} {
	gitDir := filepath.Join(root, ".git")
	info, err := os.Stat(gitDir)
	if err != nil || !info.IsDir() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return nil
	}

	files := make(map[string]struct{})
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line != "" {
			files[line] = struct{}{}
		}
	}
	return files
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
