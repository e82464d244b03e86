package bindep

import (
	"debug/elf"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// multiarchTriplets maps ELF machines onto Debian multiarch directory names.
var multiarchTriplets = map[elf.Machine]string{
	elf.EM_X86_64:  "x86_64-linux-gnu",
	elf.EM_AARCH64: "aarch64-linux-gnu",
	elf.EM_386:     "i386-linux-gnu",
	elf.EM_ARM:     "arm-linux-gnueabihf",
	elf.EM_PPC64:   "powerpc64le-linux-gnu",
	elf.EM_S390:    "s390x-linux-gnu",
	elf.EM_RISCV:   "riscv64-linux-gnu",
}

// readELF reads the DT_NEEDED entries and search paths of an ELF image.
func readELF(r io.ReaderAt, img *image) error {
	f, err := elf.NewFile(r)
	if err != nil {
		return fmt.Errorf("elf: %w", err)
	}
	defer f.Close()

	imports, err := f.ImportedLibraries()
	if err != nil {
		return fmt.Errorf("elf imports: %w", err)
	}

	img.format = formatELF
	img.imports = imports
	img.machine = f.Machine

	// DT_RPATH is ignored when DT_RUNPATH is present.
	origin := filepath.Dir(img.path)
	if runpath, _ := f.DynString(elf.DT_RUNPATH); len(runpath) > 0 {
		img.rpaths = expandOrigin(runpath, origin)
		img.runpath = true
	} else if rpath, _ := f.DynString(elf.DT_RPATH); len(rpath) > 0 {
		img.rpaths = expandOrigin(rpath, origin)
	}
	return nil
}

// expandOrigin splits colon-separated search paths and substitutes $ORIGIN.
func expandOrigin(entries []string, origin string) []string {
	var dirs []string
	for _, entry := range entries {
		for _, dir := range strings.Split(entry, ":") {
			if dir == "" {
				continue
			}
			dir = strings.ReplaceAll(dir, "${ORIGIN}", origin)
			dir = strings.ReplaceAll(dir, "$ORIGIN", origin)
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// resolveELF searches for a DT_NEEDED entry in loader order: DT_RPATH, LD_LIBRARY_PATH, DT_RUNPATH, then the
// inspector's and system directories.
func (in *Inspector) resolveELF(img *image, name string) (string, bool) {
	if strings.Contains(name, "/") {
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			return name, true
		}
		return "", false
	}

	ldLibraryPath := filepath.SplitList(os.Getenv("LD_LIBRARY_PATH"))
	var dirs []string
	if img.runpath {
		dirs = append(dirs, ldLibraryPath...)
		dirs = append(dirs, img.rpaths...)
	} else {
		dirs = append(dirs, img.rpaths...)
		dirs = append(dirs, ldLibraryPath...)
	}
	dirs = append(dirs, in.SearchPaths...)
	dirs = append(dirs, elfSystemDirs(img.machine)...)
	return firstExisting(dirs, name)
}

// elfSystemDirs returns the default library directories for machine.
func elfSystemDirs(machine elf.Machine) []string {
	var dirs []string
	if triplet, ok := multiarchTriplets[machine]; ok {
		dirs = append(dirs,
			filepath.Join("/lib", triplet),
			filepath.Join("/usr/lib", triplet),
		)
	}
	return append(dirs,
		"/lib64",
		"/usr/lib64",
		"/lib",
		"/usr/lib",
		"/usr/local/lib",
	)
}
