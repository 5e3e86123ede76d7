package rshell

import (
	"context"
	"fmt"
)

// WithSession manages session lifecycle with automatic cleanup.
//
// It opens a session to destination, runs fn and always closes the session
// afterwards. An error from fn takes precedence; a Close error is returned
// only when fn succeeded.
//
//	err := rshell.WithSession(ctx, "host1", func(s *rshell.Session) error {
//	    return s.SubmitAll("uptime", "df -h")
//	})
func WithSession(ctx context.Context, destination string, fn func(*Session) error, opts ...Option) (err error) {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s, err := Open(ctx, destination, opts...)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}

	defer func() {
		if closeErr := s.Close(); closeErr != nil {
			if err == nil {
				err = fmt.Errorf("close session: %w", closeErr)

				return
			}

			options := applyOptions(opts)
			if options.Logger != nil {
				options.Logger.Warn("failed to close session", "error", closeErr)
			}
		}
	}()

	return fn(s)
}
