// Package config provides unified configuration loading for videoflow:
// defaults, then a YAML file, then environment variable overrides, in
// that precedence order.
package config
