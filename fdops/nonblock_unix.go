//go:build linux || darwin
// +build linux darwin

// File: fdops/nonblock_unix.go
// Author: momentics <momentics@gmail.com>
//
// O_NONBLOCK control via fcntl(2) for Unix-like systems.

package fdops

import (
	"golang.org/x/sys/unix"
)

// GetNonblock reports whether O_NONBLOCK is currently set on fd. The
// flag word is read live with fcntl(F_GETFL); a failed query (closed or
// invalid descriptor) returns the raw OS error.
func GetNonblock(fd uintptr) (bool, error) {
	flags, err := unix.FcntlInt(fd, unix.F_GETFL, 0)
	if err != nil {
		return false, err
	}
	return flags&unix.O_NONBLOCK != 0, nil
}

// SetNonblock sets or clears O_NONBLOCK on fd, preserving all other
// status flags. The operation is a read-modify-write pair of fcntl
// calls and is only correct under exclusive access to the descriptor.
// OS failures propagate immediately; none of them are retriable.
func SetNonblock(fd uintptr, enable bool) error {
	flags, err := unix.FcntlInt(fd, unix.F_GETFL, 0)
	if err != nil {
		return err
	}
	if enable {
		flags |= unix.O_NONBLOCK
	} else {
		flags &^= unix.O_NONBLOCK
	}
	if _, err := unix.FcntlInt(fd, unix.F_SETFL, flags); err != nil {
		return err
	}
	return nil
}
