package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/phobologic/rustlint/internal/cargo"
)

func TestDiscoverRustFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "src/main.rs", "fn main() {}")
	writeFile(t, dir, "src/util/mod.rs", "pub fn helper() {}")
	// Non-Rust file should be ignored
	writeFile(t, dir, "README.md", "hello")
	// Hidden file should be ignored
	writeFile(t, dir, "src/.hidden.rs", "secret")

	entries, err := Files(dir, nil, nil)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(entries), paths)
	}

	// Should be sorted
	if entries[0].Path != filepath.Join("src", "main.rs") {
		t.Errorf("entry 0: got %q", entries[0].Path)
	}
	if entries[1].Path != filepath.Join("src", "util", "mod.rs") {
		t.Errorf("entry 1: got %q", entries[1].Path)
	}
}

func TestDiscoverSkipDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "src/lib.rs", "")
	writeFile(t, dir, "target/debug/build/out.rs", "")
	writeFile(t, dir, ".hidden/secret.rs", "")

	entries, err := Files(dir, nil, nil)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Path != filepath.Join("src", "lib.rs") {
		t.Errorf("expected src/lib.rs, got %q", entries[0].Path)
	}
}

func TestDiscoverPackages(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "crates/a/src/lib.rs", "")
	writeFile(t, dir, "crates/a/build.rs", "")
	writeFile(t, dir, "crates/b/src/main.rs", "")
	writeFile(t, dir, "scratch/notes.rs", "")

	pkgs := []cargo.Package{
		{Name: "a", Dir: "crates/a", SrcDir: filepath.Join("crates", "a", "src")},
		{Name: "b", Dir: "crates/b", SrcDir: filepath.Join("crates", "b", "src")},
		{Name: "gone", Dir: "crates/gone", SrcDir: filepath.Join("crates", "gone", "src")},
	}
	entries, err := Files(dir, pkgs, nil)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(entries), entries)
	}
	if entries[0].Package != "a" || entries[1].Package != "b" {
		t.Errorf("packages = %q, %q", entries[0].Package, entries[1].Package)
	}
}

func TestDiscoverExclude(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "src/lib.rs", "")
	writeFile(t, dir, "src/generated/bindings.rs", "")
	writeFile(t, dir, "src/old.rs", "")

	entries, err := Files(dir, nil, []string{"generated/", "old.rs"})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	if len(entries) != 1 || entries[0].Path != filepath.Join("src", "lib.rs") {
		t.Fatalf("entries = %v", entries)
	}
}

func TestDiscoverGitignore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, ".gitignore", "src/scratch.rs\n")
	writeFile(t, dir, "src/lib.rs", "")
	writeFile(t, dir, "src/scratch.rs", "")

	entries, err := Files(dir, nil, nil)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	if len(entries) != 1 || entries[0].Path != filepath.Join("src", "lib.rs") {
		t.Fatalf("entries = %v", entries)
	}
}

func TestDiscoverSymlinksSkipped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "real.rs", "")

	// Create symlink
	err := os.Symlink(filepath.Join(dir, "real.rs"), filepath.Join(dir, "link.rs"))
	if err != nil {
		t.Skip("symlinks not supported")
	}

	entries, err := Files(dir, nil, nil)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry (no symlink), got %d", len(entries))
	}
	if entries[0].Path != "real.rs" {
		t.Errorf("expected real.rs, got %q", entries[0].Path)
	}
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
