package tkbundle

import "fmt"

// DefaultTkinterModule is the module name that exposes the Tcl class on Python 3. Python 2 used Tkinter.
const DefaultTkinterModule = "tkinter"

// tclLibraryProgram creates a Tcl interpreter through tkinter and prints its library directory. The module name is
// substituted before running.
const tclLibraryProgram = `from %s import Tcl; t = Tcl(); print(t.eval("info library"))`

// tkVersionProgram prints the Tk version _tkinter was compiled against.
const tkVersionProgram = `from _tkinter import TK_VERSION as v; print(v)`

// prefixProgram prints the interpreter prefix followed by the base installation prefix. The two differ inside a
// virtual environment; real_prefix covers the legacy virtualenv layout.
const prefixProgram = `
import sys
print(sys.prefix)
print(getattr(sys, "base_prefix", getattr(sys, "real_prefix", sys.prefix)))
`

// generateTclLibraryCode generates the Python code that queries the Tcl library directory using the supplied
// tkinter module name.
func generateTclLibraryCode(module string) string {
	if module == "" {
		module = DefaultTkinterModule
	}
	return fmt.Sprintf(tclLibraryProgram, module)
}
