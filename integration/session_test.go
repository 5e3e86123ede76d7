//go:build integration

package integration

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	rshell "github.com/wagiedev/remote-shell-go"
)

var batchMode = rshell.WithTransportArgs("-o", "BatchMode=yes", "-o", "ConnectTimeout=10")

// TestSession_OutputInOrder sends numbered echos and checks they come back in
// submission order.
func TestSession_OutputInOrder(t *testing.T) {
	host := destination(t)

	var stdout bytes.Buffer

	s, err := rshell.Open(context.Background(), host, batchMode, rshell.WithStdout(&stdout))
	if _, ok := errors.AsType[*rshell.TransportNotFoundError](err); ok {
		t.Skip("ssh not installed")
	}

	require.NoError(t, err)

	want := make([]string, 0, 20)

	for i := range 20 {
		line := fmt.Sprintf("line-%02d", i)
		want = append(want, line)

		require.NoError(t, s.Submit("echo "+line))
	}

	require.NoError(t, s.Submit("exit 0"))
	require.NoError(t, s.Close())

	require.Equal(t, 0, s.ExitCode())
	require.Equal(t, strings.Join(want, "\n")+"\n", stdout.String())
}

// TestSession_StatePersists checks that commands share one shell.
func TestSession_StatePersists(t *testing.T) {
	host := destination(t)

	var stdout bytes.Buffer

	err := rshell.WithSession(context.Background(), host, func(s *rshell.Session) error {
		return s.SubmitAll("cd /", "RSHELL_MARK=kept", "echo \"$PWD $RSHELL_MARK\"")
	}, batchMode, rshell.WithStdout(&stdout))
	require.NoError(t, err)

	require.Equal(t, "/ kept\n", stdout.String())
}

// TestSession_RemoteExitStatus checks that a non-zero exit is reported
// through ExitCode, not as a Close error.
func TestSession_RemoteExitStatus(t *testing.T) {
	host := destination(t)

	s, err := rshell.Open(context.Background(), host, batchMode, rshell.WithStdout(&bytes.Buffer{}))
	require.NoError(t, err)

	require.NoError(t, s.Submit("exit 7"))
	require.NoError(t, s.Close())
	require.Equal(t, 7, s.ExitCode())
}

// TestSession_WriteFailureAfterRemoteExit checks that commands sent after the
// remote shell exited eventually fail to be delivered.
func TestSession_WriteFailureAfterRemoteExit(t *testing.T) {
	host := destination(t)

	s, err := rshell.Open(context.Background(), host, batchMode, rshell.WithStdout(&bytes.Buffer{}))
	require.NoError(t, err)

	require.NoError(t, s.Submit("exit 0"))

	require.Eventually(t, func() bool {
		err := s.Submit("echo unreachable")
		_, ok := errors.AsType[*rshell.WriteFailure](err)

		return ok
	}, 30*time.Second, 200*time.Millisecond)

	require.NoError(t, s.Close())
}
