package tkbundle

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single interpreter invocation.
const DefaultTimeout = 30 * time.Second

// Prober answers the questions the shell probe needs to derive the Tcl and Tk roots.
type Prober interface {
	// TclLibrary returns the directory reported by Tcl's "info library".
	TclLibrary(ctx context.Context) (string, error)
	// TkVersion returns the Tk version, e.g. "8.6".
	TkVersion(ctx context.Context) (string, error)
}

// Interpreter runs short Python programs in an isolated process. Each call spawns a new process which must print a
// single line of output before the timeout.
type Interpreter struct {
	// Path is the Python executable.
	Path string
	// Module is the tkinter module name. Defaults to DefaultTkinterModule.
	Module string
	// Timeout bounds each invocation. Defaults to DefaultTimeout.
	Timeout time.Duration
	// Env is layered over the process environment of every invocation.
	Env LibraryEnv
}

// NewInterpreter returns an Interpreter for the Python executable at path.
func NewInterpreter(path string) *Interpreter {
	return &Interpreter{
		Path:    path,
		Module:  DefaultTkinterModule,
		Timeout: DefaultTimeout,
	}
}

// TclLibrary implements Prober.
func (i *Interpreter) TclLibrary(ctx context.Context) (string, error) {
	out, err := i.Run(ctx, generateTclLibraryCode(i.Module))
	if err != nil {
		return "", fmt.Errorf("tcl library: %w", err)
	}
	return parseLine(out)
}

// TkVersion implements Prober.
func (i *Interpreter) TkVersion(ctx context.Context) (string, error) {
	out, err := i.Run(ctx, tkVersionProgram)
	if err != nil {
		return "", fmt.Errorf("tk version: %w", err)
	}
	return parseLine(out)
}

// Prefixes returns sys.prefix and the base installation prefix of the interpreter.
func (i *Interpreter) Prefixes(ctx context.Context) (string, string, error) {
	out, err := i.Run(ctx, prefixProgram)
	if err != nil {
		return "", "", fmt.Errorf("prefixes: %w", err)
	}
	lines := strings.Split(strings.TrimSpace(strings.ReplaceAll(out, "\r\n", "\n")), "\n")
	if len(lines) != 2 || lines[0] == "" || lines[1] == "" {
		return "", "", fmt.Errorf("%w: expected two prefixes; got %q", ErrMalformedOutput, out)
	}
	return lines[0], lines[1], nil
}

// Run runs the Python code with "-c" and returns its standard output. A non-zero exit or an expired timeout is
// reported as ErrProbeFailed; it is never retried. Cancellation of ctx is returned as the context's error.
func (i *Interpreter) Run(ctx context.Context, code string) (string, error) {
	if i.Path == "" {
		return "", ErrInterpreterNotFound
	}

	timeout := i.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, i.Path, "-c", code)
	cmd.Env = append(os.Environ(), i.Env.Environ()...)
	cmd.WaitDelay = time.Second

	output, err := cmd.Output()
	if err == nil {
		return string(output), nil
	}

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", i.Path, err)
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf("%w: %s timed out after %s", ErrProbeFailed, i.Path, timeout)
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrInterpreterNotFound, i.Path)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return "", fmt.Errorf("%w: %s: %v: %s", ErrProbeFailed, i.Path, err, lastLine(string(exitErr.Stderr)))
	}
	return "", fmt.Errorf("%w: %s: %v", ErrProbeFailed, i.Path, err)
}

// parseLine returns the single line of output printed by a probe.
func parseLine(out string) (string, error) {
	line := strings.TrimRight(out, "\r\n")
	if strings.TrimSpace(line) == "" || strings.ContainsAny(line, "\r\n") {
		return "", fmt.Errorf("%w: %q", ErrMalformedOutput, out)
	}
	return line, nil
}

// lastLine returns the last non-empty line of s, which for a Python traceback is the exception message.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
