//go:build !(darwin || linux)

package tkbundle

import "fmt"

// evalTcl returns ErrProbeUnsupported on systems where the Tcl library cannot be loaded in-process.
func evalTcl(path, script string) (string, error) {
	return "", fmt.Errorf("%w: in-process tcl probe", ErrProbeUnsupported)
}
