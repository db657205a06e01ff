// Package config loads and saves the clock's YAML settings.
package config
