// Package config holds the settings of the proxytaster command: defaults,
// the optional YAML settings file and validation. Checker converts the
// settings into the configuration of a checker run.
package config
