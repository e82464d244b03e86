//go:build windows

package tkbundle

import (
	"os"
	"path/filepath"
)

// searchPaths returns the list of directories to search for a Python interpreter on Windows.
func searchPaths() []string {
	paths := []string{
		`C:\Python3*`,
		`C:\Program Files\Python3*`,
	}
	if local := os.Getenv("LOCALAPPDATA"); local != "" {
		paths = append(paths, filepath.Join(local, "Programs", "Python", "Python3*"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, "miniconda3"),
			filepath.Join(home, "anaconda3"),
		)
	}

	return paths
}

// defaultUserFrameworks returns an empty path; framework bundles only exist on macOS.
func defaultUserFrameworks() string {
	return ""
}
