package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the name looked up in the current directory.
const DefaultConfigFile = ".proxytaster.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the content of a settings file. Pointer fields tell an absent key
// from a zero value.
type File struct {
	Protocols   []string       `yaml:"protocols"`
	Precedence  []string       `yaml:"precedence"`
	Workers     *int           `yaml:"workers"`
	Timeout     *time.Duration `yaml:"timeout"`
	Endpoint    *string        `yaml:"endpoint"`
	Countries   []string       `yaml:"countries"`
	StatusCodes []int          `yaml:"status_codes"`
	Format      *string        `yaml:"format"`
	Out         *string        `yaml:"out"`
	Append      *string        `yaml:"append"`
	GeoIPDB     *string        `yaml:"geoip_db"`
	LogFormat   *string        `yaml:"log_format"`
	Verbose     *bool          `yaml:"verbose"`
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &f, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .proxytaster.yaml in the current directory
// 3. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}
