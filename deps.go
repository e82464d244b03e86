package tkbundle

import "github.com/adamkeys/tkbundle/internal/bindep"

// BinaryDependency is one native shared library the embedding module links against.
type BinaryDependency = bindep.Dependency

// Inspector lists the native libraries of a binary. Both methods are read-only and may return an empty result
// without error.
type Inspector interface {
	// Linked returns the libraries the binary links against directly, excluding operating system libraries.
	Linked(path string) ([]BinaryDependency, error)
	// All returns every library reachable from the binary. It is the fallback when Linked is empty, e.g. when
	// _tkinter links against the system Tcl/Tk frameworks.
	All(path string) ([]BinaryDependency, error)
}

// NewInspector returns the default Inspector, which parses ELF, Mach-O and PE images.
func NewInspector() Inspector {
	return bindep.New()
}
