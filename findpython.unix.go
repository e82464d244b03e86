//go:build unix && !darwin

package tkbundle

import (
	"os"
	"path/filepath"
)

// searchPaths returns the list of directories to search for a Python interpreter on Unix systems.
func searchPaths() []string {
	paths := []string{
		"/usr/local/bin",
		"/usr/bin",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".pyenv/versions/*/bin"),
			filepath.Join(home, "miniconda3/bin"),
			filepath.Join(home, "anaconda3/bin"),
			filepath.Join(home, ".local/bin"),
		)
	}

	return paths
}

// defaultUserFrameworks returns an empty path; framework bundles only exist on macOS.
func defaultUserFrameworks() string {
	return ""
}
