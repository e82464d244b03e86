package tkbundle

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Environment variables Tcl, Tk and Tix read to find their script libraries.
const (
	TclLibraryVar = "TCL_LIBRARY"
	TkLibraryVar  = "TK_LIBRARY"
	TixLibraryVar = "TIX_LIBRARY"
)

// LibraryEnv holds the script library locations handed to the interpreter process. Empty fields are left to the
// interpreter's own defaults.
type LibraryEnv struct {
	Tcl string
	Tk  string
	Tix string
}

// LibraryEnvFromOS reads the library locations from the process environment.
func LibraryEnvFromOS() LibraryEnv {
	return LibraryEnv{
		Tcl: os.Getenv(TclLibraryVar),
		Tk:  os.Getenv(TkLibraryVar),
		Tix: os.Getenv(TixLibraryVar),
	}
}

// Environ renders the non-empty locations as KEY=value pairs suitable for exec.Cmd.Env.
func (e LibraryEnv) Environ() []string {
	var env []string
	for _, kv := range [][2]string{
		{TclLibraryVar, e.Tcl},
		{TkLibraryVar, e.Tk},
		{TixLibraryVar, e.Tix},
	} {
		if kv[1] != "" {
			env = append(env, kv[0]+"="+kv[1])
		}
	}
	return env
}

// VirtualEnv describes whether the interpreter runs inside a virtual environment.
type VirtualEnv struct {
	Active     bool
	Prefix     string
	BasePrefix string
}

// DetectVirtualEnv asks the interpreter for its prefixes. The interpreter is inside a virtual environment when its
// prefix differs from the base installation prefix.
func DetectVirtualEnv(ctx context.Context, interp *Interpreter) (VirtualEnv, error) {
	prefix, base, err := interp.Prefixes(ctx)
	if err != nil {
		return VirtualEnv{}, err
	}
	return VirtualEnv{
		Active:     filepath.Clean(prefix) != filepath.Clean(base),
		Prefix:     prefix,
		BasePrefix: base,
	}, nil
}

// NormalizeEnv works around virtual environments on Windows which do not point Tcl/Tk at the base installation.
// The base installation's tcl directory is scanned and the first subdirectory starting with "tcl", "tk" and "tix"
// becomes the respective library location. On every other platform, outside a virtual environment, or when the
// directory does not exist, env is returned unchanged. An active virtual environment must name its base prefix.
//
// https://github.com/pypa/virtualenv/issues/93
func NormalizeEnv(p Platform, venv VirtualEnv, env LibraryEnv) (LibraryEnv, error) {
	if p != PlatformWindows || !venv.Active {
		return env, nil
	}

	if venv.BasePrefix == "" {
		return env, fmt.Errorf("%w: virtual environment without a base prefix", ErrEnvironment)
	}

	basedir, err := filepath.Abs(filepath.Join(venv.BasePrefix, "tcl"))
	if err != nil {
		return env, fmt.Errorf("%w: %w", ErrEnvironment, err)
	}
	entries, err := os.ReadDir(basedir)
	if errors.Is(err, fs.ErrNotExist) {
		return env, nil
	}
	if err != nil {
		return env, fmt.Errorf("%w: read %s: %w", ErrEnvironment, basedir, err)
	}

	var found LibraryEnv
	for _, entry := range entries {
		abs := filepath.Join(basedir, entry.Name())
		if !entry.IsDir() && !isDir(abs) {
			continue
		}
		name := entry.Name()
		switch {
		case strings.HasPrefix(name, "tcl") && found.Tcl == "":
			found.Tcl = abs
		case strings.HasPrefix(name, "tk") && found.Tk == "":
			found.Tk = abs
		case strings.HasPrefix(name, "tix") && found.Tix == "":
			found.Tix = abs
		}
	}

	if found.Tcl != "" {
		env.Tcl = found.Tcl
	}
	if found.Tk != "" {
		env.Tk = found.Tk
	}
	if found.Tix != "" {
		env.Tix = found.Tix
	}
	return env, nil
}
