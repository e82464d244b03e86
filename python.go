package tkbundle

import (
	"os"
	"os/exec"
	"path/filepath"
)

// PythonEnvVar overrides interpreter discovery when set.
const PythonEnvVar = "TKBUNDLE_PYTHON"

// FindPython attempts to find a Python interpreter on the system and returns its path. If the interpreter cannot
// be found, ErrInterpreterNotFound is returned. If the TKBUNDLE_PYTHON environment variable is set, the value of
// that environment variable is returned.
func FindPython() (string, error) {
	if path := os.Getenv(PythonEnvVar); path != "" {
		return path, nil
	}

	for _, name := range []string{"python3", "python"} {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}

	for _, prefix := range searchPaths() {
		dirMatches, err := filepath.Glob(prefix)
		if err != nil {
			continue
		}

		var candidates []string
		for _, dir := range dirMatches {
			entries, err := os.ReadDir(dir)
			if err != nil {
				continue
			}
			for _, entry := range entries {
				path := filepath.Join(dir, entry.Name())
				if pythonNameRegex.MatchString(entry.Name()) && isFile(path) {
					candidates = append(candidates, path)
				}
			}
		}
		if len(candidates) > 0 {
			return preferredVersion(candidates), nil
		}
	}
	return "", ErrInterpreterNotFound
}
