// Package config loads the engine settings from ddl.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"ddl/internal/diagfmt"
	"ddl/internal/trace"
)

// FileName is the configuration file looked up by Find.
const FileName = "ddl.toml"

type Config struct {
	Engine EngineConfig `toml:"engine"`
	Trace  TraceConfig  `toml:"trace"`
	Output OutputConfig `toml:"output"`
	Cache  CacheConfig  `toml:"cache"`
}

type EngineConfig struct {
	ErrorCap    int    `toml:"error_cap"`
	MemCap      int    `toml:"mem_cap"` // value slots
	MaxFiles    int    `toml:"max_files"`
	MaxIncludes int    `toml:"max_includes"`
	MaxFileLen  uint64 `toml:"max_file_len"` // 0 = unlimited
	Jobs        int    `toml:"jobs"`         // 0 = GOMAXPROCS
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"` // "" или "-" = stderr
}

type OutputConfig struct {
	Color string `toml:"color"`
}

type CacheConfig struct {
	Dir string `toml:"dir"` // "" = no disk cache
}

// Default returns the settings used for keys a file leaves out.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			ErrorCap:    100,
			MemCap:      1_000_000,
			MaxFiles:    1000,
			MaxIncludes: 100,
		},
		Trace:  TraceConfig{Level: "off", Format: "text"},
		Output: OutputConfig{Color: "auto"},
	}
}

// Load decodes path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if keys := meta.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(names, ", "))
	}
	if meta.IsDefined("cache", "dir") && cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
		cfg.Cache.Dir = filepath.Join(filepath.Dir(path), cfg.Cache.Dir)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks limits and enumerated settings.
func (c *Config) Validate() error {
	e := c.Engine
	switch {
	case e.ErrorCap <= 0:
		return errors.New("error_cap must be positive")
	case e.MemCap <= 0:
		return errors.New("mem_cap must be positive")
	case e.MaxFiles <= 0:
		return errors.New("max_files must be positive")
	case e.MaxIncludes < 0:
		return errors.New("max_includes must not be negative")
	case e.Jobs < 0:
		return errors.New("jobs must not be negative")
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return err
	}
	if _, err := trace.ParseFormat(c.Trace.Format); err != nil {
		return err
	}
	if _, err := diagfmt.ParseColorMode(c.Output.Color); err != nil {
		return err
	}
	return nil
}

// TraceConfig converts the [trace] section for trace.New.
func (c *Config) TraceConfig() (trace.Config, error) {
	level, err := trace.ParseLevel(c.Trace.Level)
	if err != nil {
		return trace.Config{}, err
	}
	format, err := trace.ParseFormat(c.Trace.Format)
	if err != nil {
		return trace.Config{}, err
	}
	return trace.Config{
		Level:      level,
		Mode:       trace.ModeStream,
		Format:     format,
		OutputPath: c.Trace.Output,
	}, nil
}

func (c *Config) ColorMode() diagfmt.ColorMode {
	m, _ := diagfmt.ParseColorMode(c.Output.Color)
	return m
}

// Find walks up from startDir looking for ddl.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// LoadDir loads the nearest ddl.toml above startDir, or the defaults.
func LoadDir(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}
