package tkbundle

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"zombiezen.com/go/nix"
)

// InitScript is the script Tcl sources when an interpreter starts.
const InitScript = "init.tcl"

// nixStore is the default Nix store directory.
const nixStore = "/nix/store/"

// Markers that, together in init.tcl, identify an ActiveTcl distribution which loads teapot packages.
const (
	activeTclMarker = "activetcl"
	teapotMarker    = "teapot"
)

// Advisory reports a Tcl distribution that is unlikely to work once bundled.
type Advisory struct {
	// InitScript is the init.tcl that references teapot.
	InitScript string
}

// Message returns the warning shown to the user, including how to fix the installation.
func (a Advisory) Message() string {
	return fmt.Sprintf(`It seems you are using an ActiveTcl build of Tcl/Tk. This may not package correctly.
To fix the problem, please try commenting out all mentions of 'teapot' in:

     %s

See https://github.com/pyinstaller/pyinstaller/issues/621 for more information`, a.InitScript)
}

// Advise checks whether the Tcl library at tclRoot is an ActiveTcl build that requires teapot, which is not
// bundled. tree is the manifest built for tclRoot; its init.tcl is scanned for both markers outside comments.
// Advise never fails: an unreadable or missing init.tcl produces no advisory.
func Advise(tclRoot string, tree Manifest) (Advisory, bool) {
	if IsSystemPath(tclRoot) {
		return Advisory{}, false
	}

	script, ok := findInitScript(tree)
	if !ok {
		return Advisory{}, false
	}

	f, err := os.Open(script)
	if err != nil {
		return Advisory{}, false
	}
	defer f.Close()

	var activeTcl, teapot bool
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(line, activeTclMarker) {
			activeTcl = true
		}
		if strings.Contains(line, teapotMarker) {
			teapot = true
		}
		if activeTcl && teapot {
			return Advisory{InitScript: script}, true
		}
	}
	return Advisory{}, false
}

// findInitScript returns the source of the first manifest entry that is an init.tcl.
func findInitScript(tree Manifest) (string, bool) {
	for _, entry := range tree {
		if strings.HasSuffix(entry.Source, InitScript) {
			return entry.Source, true
		}
	}
	return "", false
}

// IsSystemPath reports whether path belongs to the operating system or an immutable package store. Tcl libraries
// there are not affected by the ActiveTcl problem. /usr/local is not a system path.
func IsSystemPath(path string) bool {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	path = filepath.ToSlash(filepath.Clean(path))

	switch {
	case strings.HasPrefix(path, "/usr/local/"):
		return false
	case strings.HasPrefix(path, "/System/"), strings.HasPrefix(path, "/usr/"):
		return true
	case strings.HasPrefix(path, nixStore):
		object, _, _ := strings.Cut(strings.TrimPrefix(path, nixStore), "/")
		_, err := nix.ParseStorePath(nixStore + object)
		return err == nil
	}
	return false
}
