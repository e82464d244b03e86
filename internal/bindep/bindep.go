// Package bindep lists the shared libraries a binary links against. ELF, Mach-O (thin and universal) and PE images
// are supported. Import names are resolved to paths the way the platform's loader would, using the search paths
// recorded in the binary and the usual system library directories.
package bindep

import (
	"bytes"
	"cmp"
	"debug/elf"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
)

// ErrUnknownFormat is returned when a file is not an ELF, Mach-O or PE image.
var ErrUnknownFormat = errors.New("unknown binary format")

// defaultMaxDepth bounds the dependency closure walk.
const defaultMaxDepth = 16

// Dependency is one shared library a binary links against.
type Dependency struct {
	// Name is the base name of the library, e.g. "Tcl" or "libtcl8.6.so".
	Name string `yaml:"name"`
	// Path is the resolved location of the library.
	Path string `yaml:"path"`
}

// Inspector lists binary dependencies. The zero value is ready to use.
type Inspector struct {
	// SearchPaths are searched after the paths recorded in the binary and before the system directories.
	SearchPaths []string
	// MaxDepth bounds how many levels All follows. Zero means a default of 16.
	MaxDepth int
}

// New returns an Inspector with default settings.
func New() *Inspector {
	return &Inspector{MaxDepth: defaultMaxDepth}
}

// image is the loader-relevant content of a parsed binary.
type image struct {
	path    string
	format  format
	imports []string
	// rpaths are the expanded search paths recorded in the binary, in loader order.
	rpaths []string
	// runpath is set when rpaths came from DT_RUNPATH rather than DT_RPATH.
	runpath bool
	// machine selects multiarch directories for ELF images.
	machine elf.Machine
}

// format is the container format of an image.
type format int

const (
	formatELF format = iota
	formatMachO
	formatPE
)

// Linked returns the libraries the binary at path links against directly, excluding libraries that belong to the
// operating system. An empty result is not an error.
func (in *Inspector) Linked(path string) ([]Dependency, error) {
	img, err := open(path)
	if err != nil {
		return nil, err
	}

	var deps []Dependency
	for _, dep := range in.resolveAll(img) {
		if !isSystem(img.format, dep) {
			deps = append(deps, dep)
		}
	}
	sortDependencies(deps)
	return deps, nil
}

// All returns the transitive closure of libraries reachable from the binary at path, system libraries included.
// Libraries which cannot be opened, such as macOS libraries that only exist in the dyld shared cache, are listed but
// not followed.
func (in *Inspector) All(path string) ([]Dependency, error) {
	root, err := open(path)
	if err != nil {
		return nil, err
	}

	maxDepth := in.MaxDepth
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}

	seen := map[string]bool{root.path: true}
	var deps []Dependency
	level := []*image{root}
	for depth := 0; depth < maxDepth && len(level) > 0; depth++ {
		var next []*image
		for _, img := range level {
			for _, dep := range in.resolveAll(img) {
				if seen[dep.Path] {
					continue
				}
				seen[dep.Path] = true
				deps = append(deps, dep)

				child, err := open(dep.Path)
				if err != nil {
					continue
				}
				next = append(next, child)
			}
		}
		level = next
	}

	sortDependencies(deps)
	return deps, nil
}

// resolveAll resolves every import of img, dropping the ones that cannot be found.
func (in *Inspector) resolveAll(img *image) []Dependency {
	var deps []Dependency
	seen := make(map[string]bool)
	for _, name := range img.imports {
		path, ok := in.resolve(img, name)
		if !ok || seen[path] {
			continue
		}
		seen[path] = true
		deps = append(deps, Dependency{Name: filepath.Base(path), Path: path})
	}
	return deps
}

// resolve maps an import name to a path using the rules of the image's loader.
func (in *Inspector) resolve(img *image, name string) (string, bool) {
	switch img.format {
	case formatELF:
		return in.resolveELF(img, name)
	case formatMachO:
		return in.resolveMachO(img, name)
	case formatPE:
		return in.resolvePE(img, name)
	}
	return "", false
}

// firstExisting returns the first dir/name that exists as a file.
func firstExisting(dirs []string, name string) (string, bool) {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// open parses the binary at path.
func open(path string) (*image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	var magic [4]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}

	img := &image{path: path}
	switch {
	case bytes.Equal(magic[:], []byte(elf.ELFMAG)):
		err = readELF(f, img)
	case isMachOMagic(magic):
		err = readMachO(f, img)
	case bytes.Equal(magic[:2], []byte("MZ")):
		err = readPE(f, img)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// sortDependencies orders dependencies by name and then path so results are reproducible.
func sortDependencies(deps []Dependency) {
	slices.SortFunc(deps, func(a, b Dependency) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.Path, b.Path)
	})
}
