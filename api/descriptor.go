// File: api/descriptor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Capability contracts for descriptor-bearing values. A value only needs
// Descriptor to be wrapped; read/write/flush support is probed separately
// so one adapter type serves files, pipes, sockets and one-directional
// stream duplicates alike.

package api

// Descriptor is any value backed by an OS-level file descriptor.
// *os.File and the fdops stream duplicates satisfy it directly.
//
// The descriptor and its flag state must be exclusively owned by the
// holder for the wrapper's lifetime: the adapter mutates O_NONBLOCK and
// promises nothing if another handle races it.
type Descriptor interface {
	Fd() uintptr
}

// Flusher is the optional flush capability of a wrapped value. Flush
// delegates synchronously and never suspends.
type Flusher interface {
	Flush() error
}

// Readiness is one registered descriptor's readiness signal. Tokens are
// delivered on buffered channels, one per direction; a receive means the
// reactor observed a not-ready to ready transition since the last receive.
// Delivery may coalesce: a single token can stand for several OS events.
type Readiness interface {
	// ReadReady yields a token when the descriptor became readable.
	ReadReady() <-chan struct{}

	// WriteReady yields a token when the descriptor became writable.
	WriteReady() <-chan struct{}

	// Close withdraws the registration from its registrar.
	Close() error
}

// ReadinessRegistrar tracks descriptors for readiness. Register returns
// the raw OS error unchanged on failure so callers can match on errno;
// in particular the EPERM-on-register signature of unpollable regular
// files is detected by the caller, not translated here.
type ReadinessRegistrar interface {
	Register(fd uintptr) (Readiness, error)
	Close() error
}
