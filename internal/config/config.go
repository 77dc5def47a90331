package config

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration (CLI flags + config file).
type Config struct {
	Listen         string `yaml:"listen"`
	DefinitionsDir string `yaml:"definitions_dir"` // scanned by bulk imports
	SeedFile       string `yaml:"seed_file"`       // definitions applied at startup
	LogLevel       string `yaml:"log_level"`

	// internal: path to config file (from CLI flag)
	configFile string
}

// Parse reads CLI flags, then overlays config file values.
// CLI flags take precedence over config file values.
func Parse() *Config {
	c := &Config{}
	flag.StringVar(&c.configFile, "config", "", "Path to config file (YAML)")
	flag.StringVar(&c.Listen, "listen", "", "HTTP listen address")
	flag.StringVar(&c.DefinitionsDir, "definitions-dir", "", "Directory scanned by bulk imports")
	flag.StringVar(&c.SeedFile, "seed", "", "Definitions file applied at startup")
	flag.StringVar(&c.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.Parse()

	// Load config file if specified
	if c.configFile != "" {
		if err := c.loadFile(c.configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config file: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply defaults for anything still unset
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.DefinitionsDir == "" {
		c.DefinitionsDir = "definitions"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	return c
}

// loadFile reads a YAML config file. Values from the file are only applied
// if the corresponding CLI flag was not explicitly set.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	if c.Listen == "" && file.Listen != "" {
		c.Listen = file.Listen
	}
	if c.DefinitionsDir == "" && file.DefinitionsDir != "" {
		c.DefinitionsDir = file.DefinitionsDir
	}
	if c.SeedFile == "" && file.SeedFile != "" {
		c.SeedFile = file.SeedFile
	}
	if c.LogLevel == "" && file.LogLevel != "" {
		c.LogLevel = file.LogLevel
	}

	return nil
}
