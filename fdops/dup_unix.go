//go:build linux || darwin
// +build linux darwin

// File: fdops/dup_unix.go
// Author: momentics <momentics@gmail.com>
//
// Close-on-exec duplication of the standard streams. Each helper hands
// back an *os.File over a fresh descriptor, so wrapping or closing it
// cannot disturb other consumers of os.Stdin/Stdout/Stderr or their
// buffered wrappers. Status flags (O_NONBLOCK) still live on the shared
// open file description, as with any dup(2).

package fdops

import (
	"os"

	"golang.org/x/sys/unix"
)

// DuplicateStdin returns an owned close-on-exec duplicate of standard
// input with a lifetime independent of os.Stdin.
func DuplicateStdin() (*os.File, error) {
	return duplicate(unix.Stdin, "/dev/stdin")
}

// DuplicateStdout returns an owned close-on-exec duplicate of standard
// output.
func DuplicateStdout() (*os.File, error) {
	return duplicate(unix.Stdout, "/dev/stdout")
}

// DuplicateStderr returns an owned close-on-exec duplicate of standard
// error.
func DuplicateStderr() (*os.File, error) {
	return duplicate(unix.Stderr, "/dev/stderr")
}

func duplicate(fd int, name string) (*os.File, error) {
	nfd, err := unix.FcntlInt(uintptr(fd), unix.F_DUPFD_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}
	return os.NewFile(uintptr(nfd), name), nil
}
