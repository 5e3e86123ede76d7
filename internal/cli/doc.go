// Package cli provides transport discovery and command building for the
// process that carries a remote shell session.
//
// # Transport Discovery
//
// The Discoverer interface locates the transport executable:
//
//	discoverer := cli.NewDiscoverer(&cli.Config{
//	    TransportPath: "",           // Optional explicit path
//	    Logger:        slog.Default(),
//	})
//	path, err := discoverer.Discover(ctx)
//
// Discovery searches in the following order:
//  1. Explicit path in Config.TransportPath (if provided)
//  2. System PATH
//  3. Common installation directories (/usr/bin, /usr/local/bin)
//
// # Command Building
//
// The package provides functions to build the transport arguments and
// environment:
//
//	args := cli.BuildArgs("host1", options) // [host1 /bin/bash --noediting]
//	env := cli.BuildEnvironment(options)
package cli
