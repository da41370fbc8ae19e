// Package config loads and validates client configuration from YAML
// files (with ${VAR} environment expansion) or directly from the
// environment.
package config
