// Package cargo reads Cargo manifests to find the member crates of a
// workspace.
package cargo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file name of a Cargo manifest.
const ManifestName = "Cargo.toml"

// ErrNoManifest indicates that the root holds no Cargo.toml.
var ErrNoManifest = errors.New("no " + ManifestName)

// Package is a member crate.
type Package struct {
	Name string
	// Dir is the crate directory, relative to the workspace root.
	Dir string
	// SrcDir is Dir/src, the directory that is linted.
	SrcDir string
}

type manifest struct {
	Package *struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Workspace *struct {
		Members []string `toml:"members"`
		Exclude []string `toml:"exclude"`
	} `toml:"workspace"`
}

// Load reads root/Cargo.toml and returns the member packages sorted by
// directory: the root package, if the manifest has one, and every package
// matched by [workspace].members that is not listed in
// [workspace].exclude. A missing root manifest is ErrNoManifest.
func Load(root string) ([]Package, error) {
	path := filepath.Join(root, ManifestName)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", root, ErrNoManifest)
		}
		return nil, err
	}
	m, err := readManifest(path)
	if err != nil {
		return nil, err
	}

	var pkgs []Package
	if m.Package != nil {
		pkgs = append(pkgs, newPackage(m.Package.Name, "."))
	}
	if m.Workspace == nil {
		return pkgs, nil
	}

	excluded := make(map[string]struct{}, len(m.Workspace.Exclude))
	for _, e := range m.Workspace.Exclude {
		excluded[filepath.Clean(filepath.FromSlash(e))] = struct{}{}
	}
	seen := map[string]struct{}{".": {}}
	for _, pattern := range m.Workspace.Members {
		dirs, err := filepath.Glob(filepath.Join(root, filepath.FromSlash(pattern)))
		if err != nil {
			return nil, fmt.Errorf("%s: invalid member pattern %q: %w", path, pattern, err)
		}
		for _, dir := range dirs {
			rel, err := filepath.Rel(root, dir)
			if err != nil {
				continue
			}
			if _, ok := excluded[rel]; ok {
				continue
			}
			if _, ok := seen[rel]; ok {
				continue
			}
			memberPath := filepath.Join(dir, ManifestName)
			if _, err := os.Stat(memberPath); err != nil {
				continue
			}
			member, err := readManifest(memberPath)
			if err != nil {
				return nil, err
			}
			if member.Package == nil {
				return nil, fmt.Errorf("%s: missing [package]", memberPath)
			}
			seen[rel] = struct{}{}
			pkgs = append(pkgs, newPackage(member.Package.Name, rel))
		}
	}

	sort.Slice(pkgs, func(i, j int) bool {
		return pkgs[i].Dir < pkgs[j].Dir
	})
	return pkgs, nil
}

func readManifest(path string) (*manifest, error) {
	var m manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return &m, nil
}

func newPackage(name, dir string) Package {
	return Package{
		Name:   strings.TrimSpace(name),
		Dir:    dir,
		SrcDir: filepath.Join(dir, "src"),
	}
}
