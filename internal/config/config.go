// Package config resolves settings from defaults, TOML files, the
// environment and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// Default values.
const (
	DefaultFile     = "tasks.json"
	DefaultTheme    = "classic"
	DefaultLogLevel = "warn"

	userDirName    = ".tada"
	userConfigName = "config.toml"
)

// Themes lists the accepted theme names.
var Themes = []string{"classic", "neon", "mono"}

// projectConfigNames are looked up in the working directory, first match wins.
var projectConfigNames = []string{"tada.toml", ".tada.toml"}

// Config holds the full configuration.
type Config struct {
	File     string `toml:"file"`
	Theme    string `toml:"theme"`
	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`
}

// Overrides carries values set explicitly on the command line.
// Empty fields are left alone.
type Overrides struct {
	File     string
	Theme    string
	LogLevel string
	LogFile  string
}

// Options controls where Load looks. Zero values use the real home
// directory, working directory and process environment.
type Options struct {
	HomeDir string
	WorkDir string
	Getenv  func(string) string
	Flags   Overrides
}

// Load builds the effective configuration:
// 1. Defaults
// 2. User config file (~/.tada/config.toml)
// 3. Project config file (tada.toml or .tada.toml in the working directory)
// 4. Environment variables (TADA_*)
// 5. CLI flags
func Load(opts Options) (*Config, error) {
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	if opts.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		opts.WorkDir = wd
	}
	if opts.HomeDir == "" {
		// A missing home only disables the user config file.
		opts.HomeDir, _ = os.UserHomeDir()
	}

	cfg := &Config{}
	setDefaults(cfg)

	if opts.HomeDir != "" {
		p := filepath.Join(opts.HomeDir, userDirName, userConfigName)
		if err := loadFileIfExists(cfg, p); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", p, err)
		}
	}

	for _, name := range projectConfigNames {
		p := filepath.Join(opts.WorkDir, name)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := loadFileIfExists(cfg, p); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", p, err)
		}
		break
	}

	loadFromEnv(cfg, opts.Getenv)
	applyOverrides(cfg, opts.Flags)

	if err := finalize(cfg, opts); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Level returns the parsed log level. Load has already validated it.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}

func setDefaults(cfg *Config) {
	cfg.File = DefaultFile
	cfg.Theme = DefaultTheme
	cfg.LogLevel = DefaultLogLevel
}

func loadFileIfExists(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func loadFromEnv(cfg *Config, getenv func(string) string) {
	if v := getenv("TADA_FILE"); v != "" {
		cfg.File = v
	}
	if v := getenv("TADA_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := getenv("TADA_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv("TADA_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
}

func applyOverrides(cfg *Config, o Overrides) {
	if o.File != "" {
		cfg.File = o.File
	}
	if o.Theme != "" {
		cfg.Theme = o.Theme
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.LogFile != "" {
		cfg.LogFile = o.LogFile
	}
}

func finalize(cfg *Config, opts Options) error {
	cfg.Theme = strings.ToLower(strings.TrimSpace(cfg.Theme))
	if !slices.Contains(Themes, cfg.Theme) {
		return fmt.Errorf("unknown theme %q (want one of %s)", cfg.Theme, strings.Join(Themes, ", "))
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	if strings.TrimSpace(cfg.File) == "" {
		return errors.New("data file path is empty")
	}
	cfg.File = absPath(expandPath(cfg.File, opts), opts.WorkDir)
	if cfg.LogFile != "" {
		cfg.LogFile = absPath(expandPath(cfg.LogFile, opts), opts.WorkDir)
	}
	return nil
}

func absPath(p, workDir string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(workDir, p)
}

// expandPath expands $VAR references and a leading ~ in paths.
func expandPath(p string, opts Options) string {
	expanded := os.Expand(p, opts.Getenv)
	if expanded == "~" {
		if opts.HomeDir != "" {
			return opts.HomeDir
		}
		return expanded
	}
	if strings.HasPrefix(expanded, "~/") && opts.HomeDir != "" {
		return filepath.Join(opts.HomeDir, expanded[2:])
	}
	return expanded
}
