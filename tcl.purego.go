//go:build darwin || linux

package tkbundle

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"
)

// Types used in the Tcl C API.
type tclInterp uintptr

// Constants used in the Tcl C API.
const tclOK = 0

// Function prototypes for the Tcl C API.
var tcl_FindExecutable func(uintptr)
var tcl_CreateInterp func() tclInterp
var tcl_DeleteInterp func(tclInterp)
var tcl_Init func(tclInterp) int32
var tcl_EvalEx func(tclInterp, string, int, int32) int32
var tcl_GetStringResult func(tclInterp) string

var (
	// tcl is a handle to the Tcl shared library.
	tcl uintptr
	// tclPath is the library tcl was loaded from.
	tclPath string
	// tclMu serializes loading and evaluation.
	tclMu sync.Mutex
)

// loadTcl loads the Tcl shared library and registers the C API functions. A process can only load one Tcl library.
func loadTcl(path string) error {
	if tcl != 0 {
		if path != tclPath {
			return fmt.Errorf("%w: %s is loaded; cannot load %s", ErrAlreadyInitialized, tclPath, path)
		}
		return nil
	}

	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return fmt.Errorf("%w: dlopen: %v", ErrProbeFailed, err)
	}

	purego.RegisterLibFunc(&tcl_FindExecutable, lib, "Tcl_FindExecutable")
	purego.RegisterLibFunc(&tcl_CreateInterp, lib, "Tcl_CreateInterp")
	purego.RegisterLibFunc(&tcl_DeleteInterp, lib, "Tcl_DeleteInterp")
	purego.RegisterLibFunc(&tcl_Init, lib, "Tcl_Init")
	purego.RegisterLibFunc(&tcl_EvalEx, lib, "Tcl_EvalEx")
	purego.RegisterLibFunc(&tcl_GetStringResult, lib, "Tcl_GetStringResult")

	// Initializes encodings and the library search path; must precede the first interpreter.
	tcl_FindExecutable(0)

	tcl = lib
	tclPath = path
	return nil
}

// evalTcl evaluates script in a new interpreter. Tcl interpreters are bound to the thread that created them, so the
// goroutine is pinned for the interpreter's lifetime.
func evalTcl(path, script string) (string, error) {
	tclMu.Lock()
	defer tclMu.Unlock()

	if err := loadTcl(path); err != nil {
		return "", err
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	interp := tcl_CreateInterp()
	if interp == 0 {
		return "", fmt.Errorf("%w: Tcl_CreateInterp", ErrProbeFailed)
	}
	defer tcl_DeleteInterp(interp)

	if tcl_Init(interp) != tclOK {
		return "", fmt.Errorf("%w: Tcl_Init: %s", ErrProbeFailed, tcl_GetStringResult(interp))
	}
	// A negative length makes Tcl read up to the terminating NUL.
	if tcl_EvalEx(interp, script, -1, 0) != tclOK {
		return "", fmt.Errorf("%w: %s: %s", ErrProbeFailed, script, tcl_GetStringResult(interp))
	}
	return tcl_GetStringResult(interp), nil
}
