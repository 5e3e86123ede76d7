package rshell

import (
	"context"

	"github.com/wagiedev/remote-shell-go/internal/session"
)

// Session is an open remote shell. See Open.
type Session = session.Session

// State is the lifecycle state of a Session.
type State = session.State

// Session states.
const (
	StateOpen    = session.StateOpen
	StateClosing = session.StateClosing
	StateClosed  = session.StateClosed
)

// Open spawns the transport against destination and returns a Session ready
// for Submit.
//
// Returns a *LaunchError if the destination is invalid, the transport cannot
// be found or started, or its stdin cannot be captured. The context only
// bounds the launch.
func Open(ctx context.Context, destination string, opts ...Option) (*Session, error) {
	return session.Open(ctx, destination, applyOptions(opts))
}
