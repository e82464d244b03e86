//go:build darwin

package tkbundle

import (
	"os"
	"path/filepath"
)

// searchPaths returns the list of directories to search for a Python interpreter on macOS.
func searchPaths() []string {
	paths := []string{
		"/Library/Frameworks/Python.framework/Versions/*/bin",
		"/opt/homebrew/bin",
		"/usr/local/bin",
		"/opt/local/bin",
		"/usr/bin",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".pyenv/versions/*/bin"),
			filepath.Join(home, "miniconda3/bin"),
			filepath.Join(home, "anaconda3/bin"),
		)
	}

	return paths
}

// defaultUserFrameworks returns the per-user framework directory. Frameworks installed there are not relocated
// the way system frameworks are, so the framework probe defers to the shell probe for them.
func defaultUserFrameworks() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "Library", "Frameworks")
}
