package tkbundle

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// FrameworkScripts is the script library directory of a framework, relative to the framework binary.
const FrameworkScripts = "Resources/Scripts"

// Framework binary names of the two components.
const (
	TclFramework = "Tcl"
	TkFramework  = "Tk"
)

// tkDirPrefix names the Tk library directory next to the Tcl one, e.g. tk8.6.
const tkDirPrefix = "tk"

// Roots are the script library directories of Tcl and Tk.
type Roots struct {
	Tcl string `yaml:"tcl"`
	Tk  string `yaml:"tk"`
}

// Locator resolves the Tcl and Tk roots of an embedding module.
type Locator struct {
	// Platform selects the discovery strategy.
	Platform Platform
	// Inspector lists the module's native libraries for the framework probe.
	Inspector Inspector
	// Prober answers the shell probe. A nil Prober makes the shell probe fail with ErrInterpreterNotFound.
	Prober Prober
	// UserFrameworks is the per-user framework directory. Frameworks under it are resolved with the shell probe.
	UserFrameworks string
	// SkipVerify disables the existence check of shell probe roots.
	SkipVerify bool
	// Logger receives debug diagnostics. A nil Logger discards them.
	Logger *log.Logger
}

// Locate resolves the roots for the module at modulePath.
func (l *Locator) Locate(ctx context.Context, modulePath string) (Roots, error) {
	logger := l.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	strategy := SelectStrategy(l.Platform)
	logger.Debug("locating tcl/tk", "platform", l.Platform, "strategy", strategy, "module", modulePath)

	switch strategy {
	case StrategyUnsupported:
		return Roots{}, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, l.Platform)
	case StrategyFramework:
		roots, ok, err := l.frameworkRoots(modulePath)
		if err != nil {
			return Roots{}, err
		}
		if ok {
			return roots, nil
		}
		logger.Debug("tcl/tk is not a relocatable framework, falling back to the shell probe")
	case StrategyShell:
	}

	return l.shellRoots(ctx)
}

// frameworkRoots resolves roots from the Tcl and Tk framework binaries. It reports ok=false when the libraries are
// not framework bundles, or live in the user's framework directory, and the shell probe should be used instead.
func (l *Locator) frameworkRoots(modulePath string) (Roots, bool, error) {
	if l.Inspector == nil {
		return Roots{}, false, nil
	}

	linked, err := l.Inspector.Linked(modulePath)
	if err != nil {
		return Roots{}, false, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	tcl, tk := frameworkBinaries(linked)
	if tcl == "" || tk == "" {
		if len(linked) > 0 {
			return Roots{}, false, nil
		}

		// _tkinter may depend on the system frameworks, which Linked leaves out.
		all, err := l.Inspector.All(modulePath)
		if err != nil {
			return Roots{}, false, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		tcl, tk = frameworkBinaries(all)
		if tcl == "" {
			return Roots{}, false, fmt.Errorf("%w: %s is not linked against %s", ErrComponentNotFound, modulePath, TclFramework)
		}
		if tk == "" {
			return Roots{}, false, fmt.Errorf("%w: %s is not linked against %s", ErrComponentNotFound, modulePath, TkFramework)
		}
	}

	if l.isUserFramework(tcl) {
		return Roots{}, false, nil
	}
	return FrameworkRoots(tcl, tk), true, nil
}

// isUserFramework reports whether path is inside the per-user framework directory.
func (l *Locator) isUserFramework(path string) bool {
	if l.UserFrameworks == "" {
		return false
	}
	dir := filepath.Clean(l.UserFrameworks) + string(filepath.Separator)
	return strings.HasPrefix(filepath.Clean(path), dir)
}

// shellRoots asks the prober for the Tcl library and derives the Tk library next to it.
func (l *Locator) shellRoots(ctx context.Context) (Roots, error) {
	if l.Prober == nil {
		return Roots{}, ErrInterpreterNotFound
	}

	tcl, err := l.Prober.TclLibrary(ctx)
	if err != nil {
		return Roots{}, err
	}
	version, err := l.Prober.TkVersion(ctx)
	if err != nil {
		return Roots{}, err
	}

	roots := Roots{Tcl: tcl, Tk: DeriveTkRoot(tcl, version)}
	if l.SkipVerify {
		return roots, nil
	}
	if !isDir(roots.Tcl) {
		return Roots{}, fmt.Errorf("%w: tcl library %s does not exist", ErrComponentNotFound, roots.Tcl)
	}
	if !isDir(roots.Tk) {
		return Roots{}, fmt.Errorf("%w: tk library %s does not exist next to %s", ErrComponentNotFound, roots.Tk, roots.Tcl)
	}
	return roots, nil
}

// frameworkBinaries returns the paths of the Tcl and Tk framework binaries in deps.
func frameworkBinaries(deps []BinaryDependency) (string, string) {
	var tcl, tk string
	for _, dep := range deps {
		switch filepath.Base(dep.Name) {
		case TclFramework:
			if tcl == "" {
				tcl = dep.Path
			}
		case TkFramework:
			if tk == "" {
				tk = dep.Path
			}
		}
	}
	return tcl, tk
}

// FrameworkRoots derives the script library directories from the Tcl and Tk framework binaries.
func FrameworkRoots(tclBinary, tkBinary string) Roots {
	scripts := filepath.FromSlash(FrameworkScripts)
	return Roots{
		Tcl: filepath.Join(filepath.Dir(tclBinary), scripts),
		Tk:  filepath.Join(filepath.Dir(tkBinary), scripts),
	}
}

// DeriveTkRoot returns the Tk library directory for a Tcl library directory. Tcl and Tk are assumed to share an
// installation prefix, so Tk lives in a sibling directory named after its version.
func DeriveTkRoot(tclRoot, version string) string {
	return filepath.Join(filepath.Dir(tclRoot), tkDirPrefix+version)
}
