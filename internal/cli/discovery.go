package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/wagiedev/remote-shell-go/internal/config"
	"github.com/wagiedev/remote-shell-go/internal/errors"
)

// Config holds configuration for transport discovery.
type Config struct {
	// TransportPath is an explicit transport path that skips PATH search.
	// If empty, discovery will search PATH and common locations.
	TransportPath string

	// Name is the executable name searched for. Defaults to config.DefaultTransport.
	Name string

	// Logger is an optional logger for discovery operations.
	// If nil, a no-op logger is used.
	Logger *slog.Logger
}

// Discoverer locates the transport executable.
type Discoverer interface {
	// Discover returns the path of the transport executable or a
	// *errors.TransportNotFoundError.
	Discover(ctx context.Context) (string, error)
}

type discoverer struct {
	cfg *Config
	log *slog.Logger
}

// Compile-time verification that discoverer implements Discoverer.
var _ Discoverer = (*discoverer)(nil)

// NewDiscoverer creates a new transport discoverer with the given configuration.
func NewDiscoverer(cfg *Config) Discoverer {
	if cfg == nil {
		cfg = &Config{}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &discoverer{
		cfg: cfg,
		log: log,
	}
}

// Discover locates the transport executable.
func (d *discoverer) Discover(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// If explicit path provided, use it and only it
	if d.cfg.TransportPath != "" {
		d.log.Debug("Using explicit transport path", "transport_path", d.cfg.TransportPath)

		if _, err := os.Stat(d.cfg.TransportPath); err == nil {
			return d.cfg.TransportPath, nil
		}

		d.log.Debug("Explicit transport path not found", "transport_path", d.cfg.TransportPath)

		return "", &errors.TransportNotFoundError{SearchedPaths: []string{d.cfg.TransportPath}}
	}

	name := d.cfg.Name
	if name == "" {
		name = config.DefaultTransport
	}

	searchedPaths := make([]string, 0, 3)

	if path, err := exec.LookPath(name); err == nil {
		d.log.Debug("Found transport in PATH", "name", name, "path", path)

		return path, nil
	}

	searchedPaths = append(searchedPaths, "$PATH")

	for _, dir := range []string{"/usr/bin", "/usr/local/bin"} {
		path := filepath.Join(dir, name)
		searchedPaths = append(searchedPaths, path)

		if _, err := os.Stat(path); err == nil {
			d.log.Debug("Found transport at common path", "path", path)

			return path, nil
		}
	}

	d.log.Warn("Transport not found in any searched paths", "name", name, "searched_paths", searchedPaths)

	return "", &errors.TransportNotFoundError{SearchedPaths: searchedPaths}
}
