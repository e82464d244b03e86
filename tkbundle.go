// Package tkbundle finds the Tcl/Tk script libraries a Python _tkinter extension needs at runtime and lists the
// files to bundle with a packaged application, so that it runs on machines without Tcl/Tk installed.
//
// Discovery depends on the platform family. On macOS the libraries are derived from the Tcl and Tk framework
// bundles _tkinter links against. Elsewhere a Python interpreter is asked for Tcl's "info library" and Tk is expected
// next to it. Inside a virtual environment on Windows the library environment variables are corrected first.
//
//	mod, err := tkbundle.Collect(ctx, tkbundle.Module{Path: "/path/to/_tkinter.so"}, tkbundle.DefaultOptions())
//	if err != nil {
//		return err
//	}
//	for _, entry := range mod.Datas {
//		fmt.Println(entry.Source, "->", entry.Dest)
//	}
package tkbundle

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultNamespace is the bundle directory the Tcl and Tk libraries are placed under.
const DefaultNamespace = "_MEI"

// Component directories inside the namespace.
const (
	tclDir = "tcl"
	tkDir  = "tk"
)

// Module describes the extension module that embeds Tk, together with the files already scheduled for bundling
// alongside it.
type Module struct {
	Path  string   `yaml:"path"`
	Datas Manifest `yaml:"datas"`
}

// ProbeKind selects how the shell probe queries Tcl.
type ProbeKind int

const (
	// ProbeInterpreter runs a Python interpreter in a separate process.
	ProbeInterpreter ProbeKind = iota
	// ProbeLibrary loads the Tcl shared library in-process.
	ProbeLibrary
)

// String returns the probe name.
func (k ProbeKind) String() string {
	if k == ProbeLibrary {
		return "library"
	}
	return "interpreter"
}

// ParseProbe parses a probe name as returned by ProbeKind.String.
func ParseProbe(s string) (ProbeKind, error) {
	switch s {
	case "", "interpreter":
		return ProbeInterpreter, nil
	case "library":
		return ProbeLibrary, nil
	}
	return ProbeInterpreter, fmt.Errorf("unknown probe: %q", s)
}

// Options configures Collect. Start from DefaultOptions; the zero value targets PlatformUnsupported.
type Options struct {
	// Platform selects the discovery strategy.
	Platform Platform
	// PlatformName is the name Platform was parsed from, such as a GOOS value. It is reported when the platform is
	// unsupported.
	PlatformName string
	// Inspector lists the module's native libraries. Defaults to NewInspector.
	Inspector Inspector
	// Probe selects the shell probe implementation when Prober is nil.
	Probe ProbeKind
	// Prober overrides the shell probe.
	Prober Prober
	// Python is the interpreter executable. Defaults to FindPython.
	Python string
	// TkinterModule is the module that exposes the Tcl class.
	TkinterModule string
	// Timeout bounds every interpreter invocation.
	Timeout time.Duration
	// VirtualEnv describes the interpreter's environment. When nil it is detected on Windows.
	VirtualEnv *VirtualEnv
	// Env is the library environment handed to the interpreter. When nil it is read from the process.
	Env *LibraryEnv
	// Namespace is the bundle directory for the libraries.
	Namespace string
	// UserFrameworks is the per-user framework directory on macOS.
	UserFrameworks string
	// SkipVerify disables the existence check of interpreter-reported roots.
	SkipVerify bool
	// Logger receives the pipeline's diagnostics. A nil Logger discards them.
	Logger *log.Logger
}

// DefaultOptions returns options for the current platform.
func DefaultOptions() *Options {
	return &Options{
		Platform:       CurrentPlatform(),
		PlatformName:   runtime.GOOS,
		Probe:          ProbeInterpreter,
		TkinterModule:  DefaultTkinterModule,
		Timeout:        DefaultTimeout,
		Namespace:      DefaultNamespace,
		UserFrameworks: defaultUserFrameworks(),
		Logger:         log.NewWithOptions(os.Stderr, log.Options{Prefix: "tkbundle"}),
	}
}

// Collect locates the Tcl and Tk libraries for mod and returns mod with their files appended to Datas. Tcl files
// are placed under <namespace>/tcl and Tk files under <namespace>/tk.
//
// Failing to find Tcl/Tk is not an error: it is logged and mod is returned unchanged, so packaging proceeds. The
// bundle may then fail at runtime if it uses Tk. Errors are returned only for a broken environment or an
// interpreter producing unparsable output.
func Collect(ctx context.Context, mod Module, opts *Options) (Module, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	logger := opts.logger()

	if SelectStrategy(opts.Platform) == StrategyUnsupported {
		name := opts.PlatformName
		if name == "" {
			name = opts.Platform.String()
		}
		logger.Info("skipping Tcl/Tk detection on this platform", "platform", name)
		return mod, nil
	}

	roots, err := Locate(ctx, mod.Path, opts)
	if err != nil {
		if IsNotFound(err) {
			logger.Error("Tcl/Tk does not seem to be properly installed on this system", "module", mod.Path, "err", err)
			return mod, nil
		}
		return mod, err
	}
	logger.Debug("located tcl/tk", "tcl", roots.Tcl, "tk", roots.Tk)

	files, err := opts.manifest(roots, logger)
	if err != nil {
		logger.Error("could not collect Tcl/Tk files", "tcl", roots.Tcl, "tk", roots.Tk, "err", err)
		return mod, nil
	}

	datas := make(Manifest, 0, len(mod.Datas)+len(files))
	datas = append(datas, mod.Datas...)
	datas = append(datas, files...)
	return Module{Path: mod.Path, Datas: datas}, nil
}

// Locate normalizes the library environment and resolves the Tcl and Tk roots for the module at modulePath.
func Locate(ctx context.Context, modulePath string, opts *Options) (Roots, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	logger := opts.logger()

	env, err := ResolveEnv(ctx, opts)
	if err != nil {
		return Roots{}, err
	}

	inspector := opts.Inspector
	if inspector == nil {
		inspector = NewInspector()
	}
	locator := &Locator{
		Platform:       opts.Platform,
		Inspector:      inspector,
		Prober:         opts.prober(modulePath, inspector, env),
		UserFrameworks: opts.UserFrameworks,
		SkipVerify:     opts.SkipVerify,
		Logger:         logger,
	}

	roots, err := locator.Locate(ctx, modulePath)
	if err != nil {
		return Roots{}, fmt.Errorf("locate tcl/tk: %w", err)
	}
	return roots, nil
}

// manifest builds the Tcl manifest followed by the Tk manifest.
func (o *Options) manifest(roots Roots, logger *log.Logger) (Manifest, error) {
	namespace := o.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}

	tclTree, err := Tree(roots.Tcl, path.Join(namespace, tclDir), TclExcludes)
	if err != nil {
		return nil, fmt.Errorf("tcl: %w", err)
	}
	if o.Platform == PlatformDarwin {
		if advisory, ok := Advise(roots.Tcl, tclTree); ok {
			logger.Warn(advisory.Message(), "file", advisory.InitScript)
		}
	}

	tkTree, err := Tree(roots.Tk, path.Join(namespace, tkDir), TkExcludes)
	if err != nil {
		return nil, fmt.Errorf("tk: %w", err)
	}
	logger.Debug("collected tcl/tk files", "tcl", len(tclTree), "tk", len(tkTree))

	return append(tclTree, tkTree...), nil
}

// ResolveEnv returns the library environment handed to the shell probe. On Windows inside a virtual environment it
// is normalized to point at the base installation.
func ResolveEnv(ctx context.Context, opts *Options) (LibraryEnv, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	o, logger := opts, opts.logger()

	env := LibraryEnvFromOS()
	if o.Env != nil {
		env = *o.Env
	}
	if o.Platform != PlatformWindows {
		return env, nil
	}

	venv := o.VirtualEnv
	if venv == nil {
		interp, err := o.interpreter(env)
		if err != nil {
			logger.Debug("cannot detect virtual environment", "err", err)
			return env, nil
		}
		detected, err := DetectVirtualEnv(ctx, interp)
		if err != nil {
			logger.Debug("cannot detect virtual environment", "err", err)
			return env, nil
		}
		venv = &detected
	}

	normalized, err := NormalizeEnv(o.Platform, *venv, env)
	if err != nil {
		return env, err
	}
	if normalized != env {
		logger.Debug("normalized tcl/tk environment", "tcl", normalized.Tcl, "tk", normalized.Tk, "tix", normalized.Tix)
	}
	return normalized, nil
}

// prober returns the shell probe implementation, or nil when no interpreter is available.
func (o *Options) prober(modulePath string, inspector Inspector, env LibraryEnv) Prober {
	if o.Prober != nil {
		return o.Prober
	}
	if o.Probe == ProbeLibrary {
		return &LibraryProber{Module: modulePath, Inspector: inspector}
	}
	interp, err := o.interpreter(env)
	if err != nil {
		return nil
	}
	return interp
}

// interpreter returns the Python interpreter configured by the options.
func (o *Options) interpreter(env LibraryEnv) (*Interpreter, error) {
	python := o.Python
	if python == "" {
		var err error
		python, err = FindPython()
		if err != nil {
			return nil, err
		}
	}

	interp := NewInterpreter(python)
	if o.TkinterModule != "" {
		interp.Module = o.TkinterModule
	}
	if o.Timeout > 0 {
		interp.Timeout = o.Timeout
	}
	interp.Env = env
	return interp, nil
}

// logger returns the configured logger or one that discards everything.
func (o *Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.New(io.Discard)
	}
	return o.Logger
}
