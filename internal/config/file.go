package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// configDirName is the per-user and per-project configuration directory.
	configDirName = ".rshell"
	// configFileName is the configuration file inside configDirName.
	configFileName = "config.toml"
)

// File stores settings loaded from TOML configuration files.
type File struct {
	Transport     string
	TransportArgs []string
	Shell         string
	ShellArgs     []string
	LogLevel      slog.Level
	Env           map[string]string
}

type fileConfig struct {
	Transport     *string           `toml:"transport"`
	TransportArgs []string          `toml:"transport_args"`
	Shell         *string           `toml:"shell"`
	ShellArgs     []string          `toml:"shell_args"`
	LogLevel      *string           `toml:"log_level"`
	Env           map[string]string `toml:"env"`
}

// Load reads ~/.rshell/config.toml, overlays ./.rshell/config.toml and finally
// the explicit path, if given. Missing default files are skipped; a missing
// explicit file is an error.
func Load(ctx context.Context, explicit string) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := &File{LogLevel: slog.LevelWarn}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	workingDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	paths := []string{
		filepath.Join(homeDir, configDirName, configFileName),
		filepath.Join(workingDir, configDirName, configFileName),
	}

	for _, path := range paths {
		if err := overlayFromFile(cfg, path, false); err != nil {
			return nil, err
		}
	}

	if explicit != "" {
		if err := overlayFromFile(cfg, explicit, true); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func overlayFromFile(cfg *File, path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}

		return fmt.Errorf("stat config file %q: %w", path, err)
	}

	var decoded fileConfig
	if _, err := toml.DecodeFile(path, &decoded); err != nil {
		return fmt.Errorf("decode config file %q: %w", path, err)
	}

	if decoded.Transport != nil {
		cfg.Transport = strings.TrimSpace(*decoded.Transport)
	}

	if decoded.TransportArgs != nil {
		cfg.TransportArgs = decoded.TransportArgs
	}

	if decoded.Shell != nil {
		cfg.Shell = strings.TrimSpace(*decoded.Shell)
	}

	if decoded.ShellArgs != nil {
		cfg.ShellArgs = decoded.ShellArgs
	}

	if decoded.LogLevel != nil {
		level, err := ParseLogLevel(*decoded.LogLevel)
		if err != nil {
			return fmt.Errorf("parse log_level in %q: %w", path, err)
		}

		cfg.LogLevel = level
	}

	if len(decoded.Env) > 0 {
		if cfg.Env == nil {
			cfg.Env = make(map[string]string, len(decoded.Env))
		}

		maps.Copy(cfg.Env, decoded.Env)
	}

	return nil
}

// Apply copies the file settings into opts. Fields already set on opts win.
func (f *File) Apply(opts *Options) {
	if f == nil || opts == nil {
		return
	}

	if opts.TransportPath == "" {
		opts.TransportPath = f.Transport
	}

	if opts.TransportArgs == nil && f.TransportArgs != nil {
		opts.TransportArgs = append([]string(nil), f.TransportArgs...)
	}

	if opts.ShellPath == "" {
		opts.ShellPath = f.Shell
	}

	if opts.ShellArgs == nil && f.ShellArgs != nil {
		opts.ShellArgs = append([]string(nil), f.ShellArgs...)
	}

	for k, v := range f.Env {
		if opts.Env == nil {
			opts.Env = make(map[string]string, len(f.Env))
		}

		if _, ok := opts.Env[k]; !ok {
			opts.Env[k] = v
		}
	}
}

// ParseLogLevel parses a slog level name such as "debug", "info", "warn" or
// "error". Offsets like "info+2" are accepted as well.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, err
	}

	return level, nil
}
