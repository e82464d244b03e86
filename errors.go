package tkbundle

import "errors"

var (
	// ErrNotFound is returned when the Tcl/Tk support files cannot be located.
	ErrNotFound = errors.New("tcl/tk not found")
	// ErrComponentNotFound is returned when one of the Tcl or Tk components cannot be resolved.
	ErrComponentNotFound = errors.New("component not found")
	// ErrInterpreterNotFound is returned when no Python interpreter can be found to run the shell probe.
	ErrInterpreterNotFound = errors.New("python interpreter not found")
	// ErrProbeFailed is returned when the probe process exits unsuccessfully or times out.
	ErrProbeFailed = errors.New("probe failed")
	// ErrProbeUnsupported is returned when the selected probe cannot run on this platform.
	ErrProbeUnsupported = errors.New("probe unsupported on this platform")
	// ErrMalformedOutput is returned when the probe process succeeds but its output cannot be parsed.
	ErrMalformedOutput = errors.New("malformed probe output")
	// ErrEnvironment is returned when the Tcl/Tk environment cannot be normalized.
	ErrEnvironment = errors.New("broken tcl/tk environment")
	// ErrUnsupportedPlatform is returned when discovery is requested on a platform outside the supported families.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	// ErrAlreadyInitialized is returned when the Tcl library is loaded twice with different paths.
	ErrAlreadyInitialized = errors.New("already initialized")
)

// IsNotFound reports whether err is a discovery failure that packaging can tolerate. Such failures leave the
// embedding module unchanged instead of aborting the run.
func IsNotFound(err error) bool {
	for _, target := range []error{
		ErrNotFound,
		ErrComponentNotFound,
		ErrInterpreterNotFound,
		ErrProbeFailed,
		ErrProbeUnsupported,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
