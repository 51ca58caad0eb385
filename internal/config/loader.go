package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// configFileNames is the ordered list of config file names to search for.
var configFileNames = []string{
	"rustlint.yml",
	"rustlint.yaml",
	".rustlint.yml",
	".rustlint.yaml",
}

// DefaultFileName is the name `rustlint init` writes.
const DefaultFileName = ".rustlint.yml"

// Discover returns the path of the first config file found in dir,
// following the standard search order. It returns an empty string if
// no config file is found.
func Discover(dir string) string {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load reads and parses a rustlint config file. If configPath is non-empty,
// that file is loaded directly. Otherwise, Load searches dir using
// Discover. If no config file is found, DefaultConfig is returned.
//
// Partial YAML files are supported: any fields not specified in the YAML
// retain their default values. The result is validated.
func Load(configPath, dir string) (*Config, error) {
	if configPath == "" {
		configPath = Discover(dir)
	}

	if configPath == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
		return nil, fmt.Errorf("reading config file %s: %w", configPath, err)
	}

	// Start from defaults so missing YAML fields retain non-zero defaults.
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		var ce *Error
		if errors.As(err, &ce) {
			ce.Path = configPath
		}
		return nil, err
	}
	return cfg, nil
}

// Marshal renders cfg as YAML. Map keys are sorted, so equal configs
// marshal identically.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}
