package tkbundle_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/adamkeys/tkbundle"
)

// writeTree creates the slash-separated files under root.
func writeTree(t testing.TB, root string, files ...string) {
	t.Helper()
	for _, name := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(name), 0o644))
	}
}

func TestTree(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"init.tcl",
		"tclConfig.sh",
		"tcl86.lib",
		"encoding/utf-8.enc",
		"demos/widget",
		"demos/images/earth.gif",
		"msgs/de.msg",
	)

	tree, err := tkbundle.Tree(root, "_MEI/tcl", tkbundle.TclExcludes)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"_MEI/tcl/encoding/utf-8.enc",
		"_MEI/tcl/init.tcl",
		"_MEI/tcl/msgs/de.msg",
	}, tree.Destinations())
	assert.Equal(t, filepath.Join(root, "init.tcl"), tree[1].Source)
}

func TestTree_TkExcludes(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "tk.tcl", "tkConfig.sh", "tclConfig.sh", "images/logo.gif", "demos/hello")

	tree, err := tkbundle.Tree(root, "_MEI/tk", tkbundle.TkExcludes)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"_MEI/tk/images/logo.gif",
		"_MEI/tk/tclConfig.sh",
		"_MEI/tk/tk.tcl",
	}, tree.Destinations())
}

func TestTree_ExcludedNestedDirectory(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "ttk/demos/x.tcl", "ttk/ttk.tcl")

	tree, err := tkbundle.Tree(root, "_MEI/tk", tkbundle.TkExcludes)
	require.NoError(t, err)
	assert.Equal(t, []string{"_MEI/tk/ttk/ttk.tcl"}, tree.Destinations())
}

func TestTree_Symlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	writeTree(t, root, "init.tcl", "lib/pkg.tcl")
	require.NoError(t, os.Symlink(filepath.Join(root, "init.tcl"), filepath.Join(root, "alias.tcl")))
	require.NoError(t, os.Symlink(filepath.Join(root, "lib"), filepath.Join(root, "linked")))
	require.NoError(t, os.Symlink(filepath.Join(root, "gone.tcl"), filepath.Join(root, "broken.tcl")))

	tree, err := tkbundle.Tree(root, "_MEI/tcl", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"_MEI/tcl/alias.tcl",
		"_MEI/tcl/init.tcl",
		"_MEI/tcl/lib/pkg.tcl",
	}, tree.Destinations())
}

func TestTree_Errors(t *testing.T) {
	_, err := tkbundle.Tree(filepath.Join(t.TempDir(), "missing"), "_MEI/tcl", nil)
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "init.tcl")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = tkbundle.Tree(file, "_MEI/tcl", nil)
	assert.Error(t, err)

	_, err = tkbundle.Tree(t.TempDir(), "_MEI/tcl", []string{"[demos"})
	assert.Error(t, err)
}

func TestTree_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		files := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z]{1,3}(/[a-z]{1,3}){0,2}\.(tcl|msg|lib)`), 1, 12, rapid.ID[string]).Draw(t, "files")

		root, err := os.MkdirTemp("", "tree")
		if err != nil {
			t.Fatal(err)
		}
		defer os.RemoveAll(root)
		for _, name := range files {
			p := filepath.Join(root, filepath.FromSlash(name))
			if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(p, nil, 0o644); err != nil {
				t.Fatal(err)
			}
		}

		first, err := tkbundle.Tree(root, "_MEI/tcl", tkbundle.TclExcludes)
		if err != nil {
			t.Fatal(err)
		}
		second, err := tkbundle.Tree(root, "_MEI/tcl", tkbundle.TclExcludes)
		if err != nil {
			t.Fatal(err)
		}
		if len(first) != len(second) {
			t.Fatalf("manifest length changed: %d != %d", len(first), len(second))
		}
		for i := range first {
			if first[i] != second[i] {
				t.Fatalf("entry %d changed: %v != %v", i, first[i], second[i])
			}
			if !strings.HasPrefix(first[i].Dest, "_MEI/tcl/") {
				t.Fatalf("destination outside namespace: %s", first[i].Dest)
			}
			if strings.HasSuffix(first[i].Dest, ".lib") {
				t.Fatalf("excluded file collected: %s", first[i].Dest)
			}
		}
	})
}
