// Package config loads application configuration from environment variables
// and an optional YAML file, and centralizes file system path resolution.
package config
