// Package config loads kitsplit.yaml, the project file that names the
// aggregate library and where its submodules live.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	kerrors "github.com/lex00/kitsplit/errors"
	"github.com/lex00/kitsplit/modules"
)

// ConfigFilename is the standard name for kitsplit configuration files
const ConfigFilename = "kitsplit.yaml"

// Config represents the kitsplit project configuration
type Config struct {
	// Lib is the aggregate library to rewrite, as written in import sources.
	Lib string `yaml:"lib"`
	// SubmoduleDir is the directory inside the installed package holding
	// one file per member.
	SubmoduleDir string `yaml:"submoduleDir,omitempty"`
	// Extension is the submodule file extension.
	Extension string `yaml:"extension,omitempty"`
	// Root is the directory the node_modules lookup starts from. Relative
	// paths are resolved against the directory of the config file.
	Root string `yaml:"root,omitempty"`
	// Paths lists the sources to process.
	Paths []string `yaml:"paths,omitempty"`
	// Exclude lists directory names skipped while walking.
	Exclude []string `yaml:"exclude,omitempty"`
	// Output is a directory receiving rewritten files; empty rewrites in
	// place.
	Output string `yaml:"output,omitempty"`
	// Report is a file receiving the rewrite report.
	Report string      `yaml:"report,omitempty"`
	Lint   *LintConfig `yaml:"lint,omitempty"`

	// dir is the directory of the file the config was loaded from.
	dir string
}

// LintConfig represents linting-related configuration
type LintConfig struct {
	Disabled    []string `yaml:"disabled,omitempty"`
	MinSeverity string   `yaml:"minSeverity,omitempty"`
}

// Default returns a config with the default submodule layout.
func Default() *Config {
	return &Config{
		SubmoduleDir: modules.DefaultSubmoduleDir,
		Extension:    modules.DefaultExtension,
	}
}

// Validate checks the settings the rewrite cannot run without.
func (c *Config) Validate() error {
	if c.Lib == "" {
		return kerrors.Configuration("lib option is required")
	}
	return nil
}

// Dir returns the directory of the loaded config file, or "" for a config
// that was not read from disk.
func (c *Config) Dir() string {
	return c.dir
}

// RootDir returns the absolute node_modules lookup root.
func (c *Config) RootDir() (string, error) {
	root := c.Root
	if root == "" {
		root = "."
	}
	if !filepath.IsAbs(root) && c.dir != "" {
		root = filepath.Join(c.dir, root)
	}
	return filepath.Abs(root)
}

// Resolver builds the submodule resolver for this config.
func (c *Config) Resolver() (*modules.Resolver, error) {
	root, err := c.RootDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}
	return modules.NewDefaultResolver(root, c.SubmoduleDir, c.Extension), nil
}

// LoadConfig loads from current directory, walking up to find kitsplit.yaml
func LoadConfig() (*Config, string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return LoadConfigFrom(cwd)
}

// LoadConfigFrom loads starting from specified directory, walking up the
// tree. A missing file is not an error; the defaults are returned with an
// empty path.
func LoadConfigFrom(startDir string) (*Config, string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	currentDir := absDir
	for {
		configPath := filepath.Join(currentDir, ConfigFilename)

		if _, err := os.Stat(configPath); err == nil {
			config, err := LoadConfigFile(configPath)
			if err != nil {
				return nil, "", err
			}
			return config, configPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return Default(), "", nil
		}
		currentDir = parentDir
	}
}

// LoadConfigFile loads from specific path. Unset layout fields take their
// defaults.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if config.SubmoduleDir == "" {
		config.SubmoduleDir = modules.DefaultSubmoduleDir
	}
	if config.Extension == "" {
		config.Extension = modules.DefaultExtension
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	config.dir = filepath.Dir(abs)
	return config, nil
}

// SaveConfigTo saves to specific path
func SaveConfigTo(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
