// Package config loads generator settings from dispatchgen.yaml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/dispatchgen/internal/codegen"
)

// FileName is the config file looked up in a specs directory.
const FileName = "dispatchgen.yaml"

// Config is the contents of dispatchgen.yaml. Every field is optional.
type Config struct {
	// Package is the package clause of generated files.
	Package string `yaml:"package"`

	// Output is the directory generated files are written to.
	// Relative paths are resolved against the config file's directory.
	Output string `yaml:"output"`

	// Receiver, Method, EventParam, EventType and ContextParam shape the
	// generated dispatch method.
	Receiver     string `yaml:"receiver"`
	Method       string `yaml:"method"`
	EventParam   string `yaml:"event_param"`
	EventType    string `yaml:"event_type"`
	ContextParam string `yaml:"context_param"`

	// Ledger is the SQLite generation ledger. Empty disables recording.
	// Relative paths are resolved against the config file's directory.
	Ledger string `yaml:"ledger"`

	// Path is the file the config was loaded from, empty for defaults.
	Path string `yaml:"-"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	opts := codegen.DefaultOptions()
	return &Config{
		Package:      opts.Package,
		Output:       ".",
		Receiver:     opts.Receiver,
		Method:       opts.Method,
		EventParam:   opts.EventParam,
		EventType:    opts.EventType,
		ContextParam: opts.ContextParam,
	}
}

// Load reads and validates a config file.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg.Path = path
	base := filepath.Dir(path)
	if cfg.Output != "" && !filepath.IsAbs(cfg.Output) {
		cfg.Output = filepath.Join(base, cfg.Output)
	}
	if cfg.Ledger != "" && !filepath.IsAbs(cfg.Ledger) {
		cfg.Ledger = filepath.Join(base, cfg.Ledger)
	}
	return cfg, nil
}

// LoadDir loads dir/dispatchgen.yaml, or returns defaults with Output set
// to dir when the file does not exist.
func LoadDir(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
		cfg.Output = dir
		return cfg, nil
	}
	return cfg, err
}

// Parse decodes config YAML, fills defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if len(bytes.TrimSpace(data)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	cfg.applyDefaults()
	if err := cfg.Options().Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := Default()
	opts := c.Options()
	c.Package = opts.Package
	c.Receiver = opts.Receiver
	c.Method = opts.Method
	c.EventParam = opts.EventParam
	c.EventType = opts.EventType
	c.ContextParam = opts.ContextParam
	if c.Output == "" {
		c.Output = d.Output
	}
}

// Options returns the code generation options with defaults filled in.
func (c *Config) Options() codegen.Options {
	return codegen.Options{
		Package:      c.Package,
		Receiver:     c.Receiver,
		Method:       c.Method,
		EventParam:   c.EventParam,
		EventType:    c.EventType,
		ContextParam: c.ContextParam,
	}.WithDefaults()
}
