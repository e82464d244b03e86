package tkbundle

import (
	"context"
	"fmt"
	"regexp"
	"runtime"
)

// tclLibraryRegex matches the Tcl shared library across platforms, e.g. libtcl8.6.so, libtcl8.6.dylib, Tcl and
// tcl86t.dll. Stub libraries are not loadable and do not match.
var tclLibraryRegex = regexp.MustCompile(`^(libtcl[0-9.]*\.(so|dylib)(\.[0-9.]+)?|Tcl|tcl[0-9]+t?\.dll)$`)

// LibraryProber answers the shell probe by loading the Tcl shared library into the current process instead of
// spawning a Python interpreter. It is useful on build hosts without a working tkinter.
//
// Tk versions track the Tcl major.minor version, so TkVersion reports "info tclversion".
type LibraryProber struct {
	// Path is the Tcl shared library. When empty, it is resolved from the dependencies of Module and then from
	// pkg-config.
	Path string
	// Module is the embedding module whose dependencies name the Tcl library.
	Module string
	// Inspector lists the dependencies of Module.
	Inspector Inspector
}

// TclLibrary implements Prober.
func (p *LibraryProber) TclLibrary(ctx context.Context) (string, error) {
	return p.eval(ctx, "info library")
}

// TkVersion implements Prober.
func (p *LibraryProber) TkVersion(ctx context.Context) (string, error) {
	return p.eval(ctx, "info tclversion")
}

// eval evaluates script in a fresh Tcl interpreter and returns its single-line result.
func (p *LibraryProber) eval(ctx context.Context, script string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := p.libraryPath()
	if err != nil {
		return "", err
	}
	result, err := evalTcl(path, script)
	if err != nil {
		return "", err
	}
	return parseLine(result)
}

// libraryPath resolves and remembers the Tcl shared library.
func (p *LibraryProber) libraryPath() (string, error) {
	if p.Path != "" {
		return p.Path, nil
	}

	if p.Inspector != nil && p.Module != "" {
		if deps, err := p.Inspector.All(p.Module); err == nil {
			for _, dep := range deps {
				if tclLibraryRegex.MatchString(dep.Name) {
					p.Path = dep.Path
					return p.Path, nil
				}
			}
		}
	}

	if path, ok := pkgConfigLibPath("tcl", "libtcl*"+sharedLibraryExt()); ok {
		p.Path = path
		return p.Path, nil
	}
	return "", fmt.Errorf("%w: tcl shared library", ErrNotFound)
}

// sharedLibraryExt returns the shared library file extension of the current platform.
func sharedLibraryExt() string {
	switch runtime.GOOS {
	case "darwin":
		return ".dylib"
	case "windows":
		return ".dll"
	default:
		return ".so"
	}
}
