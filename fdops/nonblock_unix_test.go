//go:build linux || darwin
// +build linux darwin

// File: fdops/nonblock_unix_test.go
// Author: momentics <momentics@gmail.com>

package fdops

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func newPipe(t *testing.T) (rfd, wfd uintptr) {
	t.Helper()
	var p [2]int
	require.NoError(t, unix.Pipe(p[:]))
	t.Cleanup(func() {
		unix.Close(p[0])
		unix.Close(p[1])
	})
	return uintptr(p[0]), uintptr(p[1])
}

func TestNonblockRoundTrip(t *testing.T) {
	r := require.New(t)
	rfd, _ := newPipe(t)

	on, err := GetNonblock(rfd)
	r.NoError(err)
	r.False(on, "fresh pipe must start blocking")

	// Toggle repeatedly in both directions; the flag must round-trip
	// every time since it is queried live, never cached.
	for i := 0; i < 3; i++ {
		r.NoError(SetNonblock(rfd, true))
		on, err = GetNonblock(rfd)
		r.NoError(err)
		r.True(on)

		r.NoError(SetNonblock(rfd, false))
		on, err = GetNonblock(rfd)
		r.NoError(err)
		r.False(on)
	}
}

func TestSetNonblockIdempotent(t *testing.T) {
	r := require.New(t)
	_, wfd := newPipe(t)

	r.NoError(SetNonblock(wfd, true))
	r.NoError(SetNonblock(wfd, true))
	on, err := GetNonblock(wfd)
	r.NoError(err)
	r.True(on)
}

func TestSetNonblockPreservesOtherFlags(t *testing.T) {
	r := require.New(t)

	f, err := os.OpenFile(t.TempDir()+"/append", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	r.NoError(err)
	defer f.Close()

	r.NoError(SetNonblock(f.Fd(), true))
	flags, err := unix.FcntlInt(f.Fd(), unix.F_GETFL, 0)
	r.NoError(err)
	r.NotZero(flags&unix.O_APPEND, "O_APPEND must survive the toggle")
	r.NotZero(flags & unix.O_NONBLOCK)
}

func TestNonblockClosedDescriptor(t *testing.T) {
	r := require.New(t)

	var p [2]int
	r.NoError(unix.Pipe(p[:]))
	r.NoError(unix.Close(p[0]))
	r.NoError(unix.Close(p[1]))

	_, err := GetNonblock(uintptr(p[0]))
	r.Error(err)
	r.Error(SetNonblock(uintptr(p[0]), true))
}

func TestDuplicateStandardStreams(t *testing.T) {
	r := require.New(t)

	for _, tc := range []struct {
		name string
		dup  func() (*os.File, error)
		orig uintptr
	}{
		{"stdin", DuplicateStdin, os.Stdin.Fd()},
		{"stdout", DuplicateStdout, os.Stdout.Fd()},
		{"stderr", DuplicateStderr, os.Stderr.Fd()},
	} {
		f, err := tc.dup()
		r.NoError(err, tc.name)
		r.NotEqual(tc.orig, f.Fd(), "%s duplicate must have its own descriptor", tc.name)

		// FD_CLOEXEC lives on the descriptor, not the shared file
		// description, so it must be set on the duplicate only.
		fdFlags, err := unix.FcntlInt(f.Fd(), unix.F_GETFD, 0)
		r.NoError(err)
		r.NotZero(fdFlags&unix.FD_CLOEXEC, "%s duplicate must be close-on-exec", tc.name)

		// Independent lifetime: closing the duplicate must leave the
		// original stream usable.
		r.NoError(f.Close())
		_, err = GetNonblock(tc.orig)
		r.NoError(err, "%s must survive closing its duplicate", tc.name)
	}
}
