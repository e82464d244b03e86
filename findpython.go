//go:build !(unix || windows)

package tkbundle

// searchPaths returns no directories on systems which do not support the interpreter search.
func searchPaths() []string {
	return nil
}

// defaultUserFrameworks returns an empty path; framework bundles only exist on macOS.
func defaultUserFrameworks() string {
	return ""
}
