package bindep

import (
	"debug/macho"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// isMachOMagic reports whether magic starts a thin or universal Mach-O file in either byte order.
func isMachOMagic(magic [4]byte) bool {
	be := binary.BigEndian.Uint32(magic[:])
	le := binary.LittleEndian.Uint32(magic[:])
	for _, m := range []uint32{macho.Magic32, macho.Magic64, macho.MagicFat} {
		if be == m || le == m {
			return true
		}
	}
	return false
}

// readMachO reads the LC_LOAD_DYLIB and LC_RPATH commands of a Mach-O image. Universal binaries are read from
// their first architecture.
func readMachO(r io.ReaderAt, img *image) error {
	f, err := macho.NewFile(r)
	if err != nil {
		fat, fatErr := macho.NewFatFile(r)
		if fatErr != nil {
			return fmt.Errorf("macho: %w", err)
		}
		defer fat.Close()
		if len(fat.Arches) == 0 {
			return errors.New("macho: universal binary without architectures")
		}
		f = fat.Arches[0].File
	} else {
		defer f.Close()
	}

	imports, err := f.ImportedLibraries()
	if err != nil {
		return fmt.Errorf("macho imports: %w", err)
	}

	img.format = formatMachO
	img.imports = imports

	loader := filepath.Dir(img.path)
	for _, load := range f.Loads {
		if rpath, ok := load.(*macho.Rpath); ok {
			img.rpaths = append(img.rpaths, expandLoaderPath(rpath.Path, loader))
		}
	}
	return nil
}

// expandLoaderPath substitutes @loader_path and @executable_path. A loadable module is not an executable, so both
// resolve to the module's own directory.
func expandLoaderPath(path, loader string) string {
	for _, prefix := range []string{"@loader_path", "@executable_path"} {
		if rest, ok := strings.CutPrefix(path, prefix); ok {
			return filepath.Join(loader, rest)
		}
	}
	return path
}

// resolveMachO resolves an install name. Absolute install names are returned as-is even when the file is missing:
// system libraries on recent macOS releases only exist inside the dyld shared cache.
func (in *Inspector) resolveMachO(img *image, name string) (string, bool) {
	if rest, ok := strings.CutPrefix(name, "@rpath/"); ok {
		dirs := append(append([]string{}, img.rpaths...), in.SearchPaths...)
		return firstExisting(dirs, rest)
	}

	if strings.HasPrefix(name, "@") {
		path := expandLoaderPath(name, filepath.Dir(img.path))
		if _, err := os.Stat(path); err != nil {
			return "", false
		}
		return path, true
	}

	if filepath.IsAbs(name) {
		return name, true
	}
	return firstExisting(in.SearchPaths, name)
}
