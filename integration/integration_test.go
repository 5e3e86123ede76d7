//go:build integration

package integration

import (
	"os"
	"testing"
)

// destination returns the ssh destination to test against, or skips the test
// when none is configured. The destination must accept non-interactive logins
// (keys or an agent, no password prompt).
func destination(t *testing.T) string {
	t.Helper()

	d := os.Getenv("RSHELL_INTEGRATION_DESTINATION")
	if d == "" {
		t.Skip("RSHELL_INTEGRATION_DESTINATION not set")
	}

	return d
}
