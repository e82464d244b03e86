package bindep

import (
	"debug/pe"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// readPE reads the imported DLL names of a PE image. debug/pe does not implement ImportedLibraries, so the names
// are taken from the "symbol:dll" pairs of the import table.
func readPE(r io.ReaderAt, img *image) error {
	f, err := pe.NewFile(r)
	if err != nil {
		return fmt.Errorf("pe: %w", err)
	}
	defer f.Close()

	symbols, err := f.ImportedSymbols()
	if err != nil {
		return fmt.Errorf("pe imports: %w", err)
	}

	seen := make(map[string]bool)
	for _, symbol := range symbols {
		_, dll, ok := strings.Cut(symbol, ":")
		if !ok || seen[strings.ToLower(dll)] {
			continue
		}
		seen[strings.ToLower(dll)] = true
		img.imports = append(img.imports, dll)
	}
	img.format = formatPE
	return nil
}

// resolvePE searches for a DLL next to the module, then in the inspector's directories, then on PATH.
func (in *Inspector) resolvePE(img *image, name string) (string, bool) {
	dirs := []string{filepath.Dir(img.path)}
	dirs = append(dirs, in.SearchPaths...)
	dirs = append(dirs, filepath.SplitList(os.Getenv("PATH"))...)
	if path, ok := firstExisting(dirs, name); ok {
		return path, true
	}
	return firstExisting(dirs, strings.ToLower(name))
}
