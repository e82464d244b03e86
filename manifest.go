package tkbundle

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// Exclusion patterns applied to the base name of every file and directory in a tree. Demos are not needed at
// runtime, .lib archives are only used for linking and the Config.sh scripts describe the build host.
var (
	TclExcludes = []string{"demos", "*.lib", "tclConfig.sh"}
	TkExcludes  = []string{"demos", "*.lib", "tkConfig.sh"}
)

// ManifestEntry relocates one file into the bundle.
type ManifestEntry struct {
	// Source is the file on disk.
	Source string `yaml:"source"`
	// Dest is the slash-separated path of the file inside the bundle.
	Dest string `yaml:"dest"`
}

// Manifest is an ordered list of files to bundle.
type Manifest []ManifestEntry

// Tree walks root in lexical order and returns an entry for every file not matching an exclusion pattern. A
// matching directory is skipped with everything below it. Each destination is the namespace joined with the path
// relative to root, so the same tree always produces the same manifest.
func Tree(root, namespace string, excludes []string) (Manifest, error) {
	for _, pattern := range excludes {
		if _, err := path.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("exclude %q: %w", pattern, err)
		}
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("tree: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("tree: %s is not a directory", root)
	}

	var manifest Manifest
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		if excluded(d.Name(), excludes) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		switch {
		case d.IsDir():
			return nil
		case d.Type()&fs.ModeSymlink != 0:
			// Symlinked directories are not followed and dangling links have nothing to copy.
			if !isFile(p) {
				return nil
			}
		case !d.Type().IsRegular():
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		manifest = append(manifest, ManifestEntry{
			Source: p,
			Dest:   path.Join(namespace, filepath.ToSlash(rel)),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("tree: %w", err)
	}
	return manifest, nil
}

// excluded reports whether name matches any of the patterns.
func excluded(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := path.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// Destinations returns the destination paths of the manifest in order.
func (m Manifest) Destinations() []string {
	dests := make([]string, len(m))
	for i, entry := range m {
		dests[i] = entry.Dest
	}
	return dests
}
