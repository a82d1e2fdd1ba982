// Package config loads application configuration from environment
// variables (prefix EPULSE) layered over an optional YAML file, and
// supplies validated defaults for the server, security, logging, and
// dataset-source settings.
package config
