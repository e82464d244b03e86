package tkbundle

import (
	"cmp"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// pythonNameRegex matches interpreter executables and skips helpers such as python3-config.
var pythonNameRegex = regexp.MustCompile(`^python(3(\.[0-9]+)?)?(\.exe)?$`)

// versionRegex extracts the numeric components of a versioned path.
var versionRegex = regexp.MustCompile(`[0-9]+`)

// preferredVersion orders paths by the version numbers embedded in them and returns the highest.
func preferredVersion(paths []string) string {
	if len(paths) == 1 {
		return paths[0]
	}
	sorted := slices.Clone(paths)
	slices.SortFunc(sorted, func(a, b string) int {
		if c := compareVersions(versionOf(b), versionOf(a)); c != 0 {
			return c
		}
		return cmp.Compare(b, a)
	})
	return sorted[0]
}

// versionOf returns the numeric components found in path, in order.
func versionOf(path string) []int {
	var version []int
	for _, part := range versionRegex.FindAllString(path, -1) {
		n, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		version = append(version, n)
	}
	return version
}

// compareVersions compares two version component lists; a longer list wins a shared prefix.
func compareVersions(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := cmp.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

// pkgConfigLibPath finds a shared library of pkg in the library directory pkg-config reports for it. The pattern is
// matched against the directory's files, e.g. "libtcl*.so", and the highest version wins.
func pkgConfigLibPath(pkg, pattern string) (string, bool) {
	libDir, ok := pkgConfigLibDir(pkg)
	if !ok {
		return "", false
	}

	matches, err := filepath.Glob(filepath.Join(libDir, pattern))
	if err != nil || len(matches) == 0 {
		return "", false
	}
	return preferredVersion(matches), true
}

// pkgConfigLibDir asks pkg-config for the library directory of pkg. The libdir variable is preferred; packages
// that do not define it fall back to the first -L flag.
func pkgConfigLibDir(pkg string) (string, bool) {
	if out, err := exec.Command("pkg-config", "--variable=libdir", pkg).Output(); err == nil {
		if dir := strings.TrimSpace(string(out)); dir != "" {
			return dir, true
		}
	}

	out, err := exec.Command("pkg-config", "--libs-only-L", pkg).Output()
	if err != nil {
		return "", false
	}
	for _, flag := range strings.Fields(string(out)) {
		if dir, ok := strings.CutPrefix(flag, "-L"); ok && dir != "" {
			return dir, true
		}
	}
	return "", false
}

// isFile reports whether path resolves to a regular file. Dangling symlinks are not files.
func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// isDir reports whether path resolves to a directory.
func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
