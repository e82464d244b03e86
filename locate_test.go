package tkbundle_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/adamkeys/tkbundle"
)

type fakeInspector struct {
	linked []tkbundle.BinaryDependency
	all    []tkbundle.BinaryDependency
	err    error
}

func (f *fakeInspector) Linked(string) ([]tkbundle.BinaryDependency, error) { return f.linked, f.err }
func (f *fakeInspector) All(string) ([]tkbundle.BinaryDependency, error)    { return f.all, f.err }

type fakeProber struct {
	tcl     string
	version string
	err     error
	calls   int
}

func (f *fakeProber) TclLibrary(context.Context) (string, error) {
	f.calls++
	return f.tcl, f.err
}

func (f *fakeProber) TkVersion(context.Context) (string, error) {
	f.calls++
	return f.version, f.err
}

func framework(binary string) tkbundle.BinaryDependency {
	return tkbundle.BinaryDependency{Name: binary, Path: binary}
}

// shellInstall creates a Tcl library directory with a Tk sibling and returns the Tcl one.
func shellInstall(t *testing.T, tk string) string {
	t.Helper()
	share := t.TempDir()
	tcl := filepath.Join(share, "tcl8.6")
	require.NoError(t, os.MkdirAll(tcl, 0o755))
	if tk != "" {
		require.NoError(t, os.MkdirAll(filepath.Join(share, tk), 0o755))
	}
	return tcl
}

func TestLocate_Framework(t *testing.T) {
	prober := &fakeProber{err: errors.New("must not be called")}
	locator := &tkbundle.Locator{
		Platform: tkbundle.PlatformDarwin,
		Inspector: &fakeInspector{linked: []tkbundle.BinaryDependency{
			framework(filepath.FromSlash("/A/Tcl")),
			framework(filepath.FromSlash("/B/Tk")),
		}},
		Prober: prober,
	}

	roots, err := locator.Locate(context.Background(), "_tkinter.so")
	require.NoError(t, err)

	assert.Equal(t, filepath.FromSlash("/A/Resources/Scripts"), roots.Tcl)
	assert.Equal(t, filepath.FromSlash("/B/Resources/Scripts"), roots.Tk)
	assert.Zero(t, prober.calls)
}

func TestLocate_FrameworkFromClosure(t *testing.T) {
	tclBin := filepath.FromSlash("/System/Library/Frameworks/Tcl.framework/Versions/8.5/Tcl")
	tkBin := filepath.FromSlash("/System/Library/Frameworks/Tk.framework/Versions/8.5/Tk")
	locator := &tkbundle.Locator{
		Platform:  tkbundle.PlatformDarwin,
		Inspector: &fakeInspector{all: []tkbundle.BinaryDependency{framework(tclBin), framework(tkBin)}},
	}

	roots, err := locator.Locate(context.Background(), "_tkinter.so")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(tclBin), "Resources", "Scripts"), roots.Tcl)
	assert.Equal(t, filepath.Join(filepath.Dir(tkBin), "Resources", "Scripts"), roots.Tk)
}

func TestLocate_FrameworkMissingComponent(t *testing.T) {
	locator := &tkbundle.Locator{
		Platform:  tkbundle.PlatformDarwin,
		Inspector: &fakeInspector{all: []tkbundle.BinaryDependency{framework("/A/Tcl")}},
	}

	_, err := locator.Locate(context.Background(), "_tkinter.so")
	assert.ErrorIs(t, err, tkbundle.ErrComponentNotFound)
	assert.True(t, tkbundle.IsNotFound(err))
}

func TestLocate_FrameworkInspectorError(t *testing.T) {
	locator := &tkbundle.Locator{
		Platform:  tkbundle.PlatformDarwin,
		Inspector: &fakeInspector{err: errors.New("bad magic")},
	}

	_, err := locator.Locate(context.Background(), "_tkinter.so")
	assert.ErrorIs(t, err, tkbundle.ErrNotFound)
}

func TestLocate_FrameworkFallsBackToShell(t *testing.T) {
	tcl := shellInstall(t, "tk8.6")

	tests := []struct {
		name      string
		inspector *fakeInspector
		user      string
	}{
		{
			name: "not a framework",
			inspector: &fakeInspector{linked: []tkbundle.BinaryDependency{
				{Name: "libtcl8.6.dylib", Path: "/usr/local/lib/libtcl8.6.dylib"},
				{Name: "libtk8.6.dylib", Path: "/usr/local/lib/libtk8.6.dylib"},
			}},
		},
		{
			name: "user framework",
			inspector: &fakeInspector{linked: []tkbundle.BinaryDependency{
				framework(filepath.FromSlash("/Users/me/Library/Frameworks/Tcl.framework/Versions/8.6/Tcl")),
				framework(filepath.FromSlash("/Users/me/Library/Frameworks/Tk.framework/Versions/8.6/Tk")),
			}},
			user: filepath.FromSlash("/Users/me/Library/Frameworks"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prober := &fakeProber{tcl: tcl, version: "8.6"}
			locator := &tkbundle.Locator{
				Platform:       tkbundle.PlatformDarwin,
				Inspector:      tt.inspector,
				Prober:         prober,
				UserFrameworks: tt.user,
			}

			roots, err := locator.Locate(context.Background(), "_tkinter.so")
			require.NoError(t, err)
			assert.Equal(t, tcl, roots.Tcl)
			assert.Equal(t, filepath.Join(filepath.Dir(tcl), "tk8.6"), roots.Tk)
			assert.Equal(t, 2, prober.calls)
		})
	}
}

func TestLocate_Shell(t *testing.T) {
	tcl := shellInstall(t, "tk8.6")
	locator := &tkbundle.Locator{
		Platform: tkbundle.PlatformUnix,
		Prober:   &fakeProber{tcl: tcl, version: "8.6"},
	}

	roots, err := locator.Locate(context.Background(), "_tkinter.so")
	require.NoError(t, err)
	assert.Equal(t, tkbundle.Roots{Tcl: tcl, Tk: filepath.Join(filepath.Dir(tcl), "tk8.6")}, roots)
}

func TestLocate_ShellMissingTk(t *testing.T) {
	tcl := shellInstall(t, "")
	locator := &tkbundle.Locator{
		Platform: tkbundle.PlatformUnix,
		Prober:   &fakeProber{tcl: tcl, version: "8.6"},
	}

	_, err := locator.Locate(context.Background(), "_tkinter.so")
	assert.ErrorIs(t, err, tkbundle.ErrComponentNotFound)

	locator.SkipVerify = true
	roots, err := locator.Locate(context.Background(), "_tkinter.so")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(tcl), "tk8.6"), roots.Tk)
}

func TestLocate_ShellMissingTcl(t *testing.T) {
	locator := &tkbundle.Locator{
		Platform: tkbundle.PlatformWindows,
		Prober:   &fakeProber{tcl: filepath.Join(t.TempDir(), "tcl8.6"), version: "8.6"},
	}

	_, err := locator.Locate(context.Background(), "_tkinter.pyd")
	assert.ErrorIs(t, err, tkbundle.ErrComponentNotFound)
}

func TestLocate_ShellErrors(t *testing.T) {
	locator := &tkbundle.Locator{Platform: tkbundle.PlatformUnix}
	_, err := locator.Locate(context.Background(), "_tkinter.so")
	assert.ErrorIs(t, err, tkbundle.ErrInterpreterNotFound)

	locator.Prober = &fakeProber{err: tkbundle.ErrMalformedOutput}
	_, err = locator.Locate(context.Background(), "_tkinter.so")
	assert.ErrorIs(t, err, tkbundle.ErrMalformedOutput)
}

func TestLocate_Unsupported(t *testing.T) {
	locator := &tkbundle.Locator{Platform: tkbundle.PlatformUnsupported}

	_, err := locator.Locate(context.Background(), "_tkinter.so")
	assert.ErrorIs(t, err, tkbundle.ErrUnsupportedPlatform)
}

func TestFrameworkRoots(t *testing.T) {
	roots := tkbundle.FrameworkRoots(
		filepath.FromSlash("/Library/Frameworks/Tcl.framework/Versions/8.6/Tcl"),
		filepath.FromSlash("/Library/Frameworks/Tk.framework/Versions/8.6/Tk"),
	)
	assert.Equal(t, filepath.FromSlash("/Library/Frameworks/Tcl.framework/Versions/8.6/Resources/Scripts"), roots.Tcl)
	assert.Equal(t, filepath.FromSlash("/Library/Frameworks/Tk.framework/Versions/8.6/Resources/Scripts"), roots.Tk)
}

func TestDeriveTkRoot(t *testing.T) {
	assert.Equal(t, filepath.FromSlash("/usr/share/tcltk/tk8.6"), tkbundle.DeriveTkRoot(filepath.FromSlash("/usr/share/tcltk/tcl8.6"), "8.6"))
}

func TestDeriveTkRoot_Sibling(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		segments := rapid.SliceOfN(rapid.StringMatching(`[a-z][a-z0-9.]{0,8}`), 1, 5).Draw(t, "segments")
		version := rapid.StringMatching(`[0-9]\.[0-9]{1,2}`).Draw(t, "version")
		tclRoot := filepath.Join(append([]string{string(filepath.Separator)}, segments...)...)

		tkRoot := tkbundle.DeriveTkRoot(tclRoot, version)
		if filepath.Dir(tkRoot) != filepath.Dir(tclRoot) {
			t.Fatalf("%s is not a sibling of %s", tkRoot, tclRoot)
		}
		if filepath.Base(tkRoot) != "tk"+version {
			t.Fatalf("unexpected tk directory %s for version %s", tkRoot, version)
		}
	})
}
