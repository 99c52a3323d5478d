//go:build !linux
// +build !linux

// File: reactor/reactor_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for platforms without epoll support.

package reactor

import "errors"

// Reactor is unavailable on this platform.
type Reactor struct{}

// New returns an error for unsupported platforms.
func New() (*Reactor, error) {
	return nil, errors.New("reactor: this platform is not supported")
}
