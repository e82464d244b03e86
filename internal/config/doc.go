// Package config loads tkbundle settings. Values come from built-in defaults, an optional YAML file and
// TKBUNDLE_* environment variables, in increasing order of precedence.
package config
