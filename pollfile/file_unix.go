//go:build linux || darwin
// +build linux darwin

// File: pollfile/file_unix.go
// Author: momentics <momentics@gmail.com>
//
// Pollable-file adapter. Wraps an owned descriptor-bearing value,
// registers it with a readiness registrar, and gates read/write on the
// registration's direction channels. EPERM on registration selects the
// always-ready fallback for descriptors the poller cannot track.

package pollfile

import (
	"context"
	"errors"
	"io"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/momentics/pollio/api"
	"github.com/momentics/pollio/fdops"
)

// File wraps a descriptor-bearing value T. The wrapped value is moved
// into the File: the File is its sole holder until Release or Close.
//
// Read and write capabilities are probed from the wrapped value at
// construction; an unsupported direction reports api.ErrNotSupported.
// One reader task and one writer task may run concurrently (the
// directions gate on independent readiness channels); two concurrent
// readers are not supported.
type File[T api.Descriptor] struct {
	inner   T
	fd      uintptr
	reader  io.Reader
	writer  io.Writer
	flusher api.Flusher
	forced  bool

	// mu guards reg and closed. reg is written exactly once, during
	// construction, and read from the I/O paths and the synchronous
	// introspection path.
	mu     sync.RWMutex
	reg    api.Readiness
	closed bool
}

// NewNonblocking wraps inner, forces nonblocking mode on (idempotent if
// already on) and registers the descriptor with registrar.
//
// If registration fails with EPERM — the signature of a descriptor type
// the poller cannot track, in practice a regular file — the adapter
// reverts nonblocking mode and substitutes a permanently-ready synthetic
// registration: construction still succeeds and I/O proceeds as direct
// blocking-equivalent calls. Any other registration failure reverts the
// flag and fails construction; no partial adapter is produced.
//
// The EPERM heuristic is Linux-specific and deliberately narrow; other
// errnos are never treated as "unpollable".
func NewNonblocking[T api.Descriptor](inner T, registrar api.ReadinessRegistrar) (*File[T], error) {
	fd := inner.Fd()
	if err := fdops.SetNonblock(fd, true); err != nil {
		return nil, err
	}
	f, err := wrap(inner, fd, registrar, true)
	if err != nil {
		// Failed construction leaves the descriptor as it was found.
		fdops.SetNonblock(fd, false)
		return nil, err
	}
	return f, nil
}

// NewRaw wraps inner without touching the nonblocking flag; the caller
// attests the descriptor is already in nonblocking mode. Registration
// and the EPERM fallback behave as in NewNonblocking, except the
// fallback does not revert a flag this adapter never set.
func NewRaw[T api.Descriptor](inner T, registrar api.ReadinessRegistrar) (*File[T], error) {
	return wrap(inner, inner.Fd(), registrar, false)
}

func wrap[T api.Descriptor](inner T, fd uintptr, registrar api.ReadinessRegistrar, forced bool) (*File[T], error) {
	reg, err := registrar.Register(fd)
	switch {
	case err == nil:
	case errors.Is(err, unix.EPERM):
		// Unpollable descriptor. Nonblocking mode has no meaning for a
		// descriptor the poller cannot track, and leaving it set would
		// turn plain reads into would-block errors, so restore the
		// state the descriptor would have without this wrapper.
		if forced {
			if rerr := fdops.SetNonblock(fd, false); rerr != nil {
				return nil, rerr
			}
		}
		reg = nil
	default:
		return nil, err
	}

	f := &File[T]{
		inner:  inner,
		fd:     fd,
		forced: forced,
		reg:    reg,
	}
	f.reader, _ = any(inner).(io.Reader)
	f.writer, _ = any(inner).(io.Writer)
	f.flusher, _ = any(inner).(api.Flusher)
	return f, nil
}

// Read reads into p. In polled mode one underlying read attempt is made
// per readiness token; a would-block result (a legitimate race between
// notification and actual data) parks the calling task on the read
// channel and retries. In fallback mode the read happens directly and
// may block at the OS level. All non-would-block errors pass through
// unchanged.
func (f *File[T]) Read(ctx context.Context, p []byte) (int, error) {
	if f.reader == nil {
		return 0, api.ErrNotSupported
	}
	reg, err := f.registration()
	if err != nil {
		return 0, err
	}
	if reg == nil {
		return f.reader.Read(p)
	}
	for {
		n, err := f.reader.Read(p)
		if err == nil || !wouldBlock(err) {
			return n, err
		}
		select {
		case <-reg.ReadReady():
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

// Write writes p. In polled mode partial progress is carried across
// readiness waits until the buffer drains or a real error occurs; in
// fallback mode the write delegates directly.
func (f *File[T]) Write(ctx context.Context, p []byte) (int, error) {
	if f.writer == nil {
		return 0, api.ErrNotSupported
	}
	reg, err := f.registration()
	if err != nil {
		return 0, err
	}
	if reg == nil {
		return f.writer.Write(p)
	}
	total := 0
	for {
		n, err := f.writer.Write(p[total:])
		total += n
		if err == nil {
			return total, nil
		}
		if !wouldBlock(err) {
			return total, err
		}
		select {
		case <-reg.WriteReady():
		case <-ctx.Done():
			return total, ctx.Err()
		}
	}
}

// Flush delegates to the wrapped value when it supports flushing and is
// a no-op otherwise. Flush never suspends.
func (f *File[T]) Flush() error {
	if f.flusher == nil {
		return nil
	}
	return f.flusher.Flush()
}

// Fd returns the raw descriptor for diagnostics or manual flag queries.
func (f *File[T]) Fd() uintptr {
	return f.fd
}

// Inner exposes the wrapped value, e.g. to seek on a seekable value
// without reconstructing the adapter. The adapter remains the owner;
// concurrent I/O through the adapter while the caller drives the inner
// value directly is the caller's race to manage.
func (f *File[T]) Inner() T {
	return f.inner
}

// Registered reports whether the descriptor is tracked by the reactor
// (false means the EPERM fallback path was taken).
func (f *File[T]) Registered() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.reg != nil
}

// Release withdraws the registration, restores the flag state this
// adapter established, and moves the wrapped value back to the caller
// without closing it.
func (f *File[T]) Release() (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return f.inner, api.ErrFileClosed
	}
	f.closed = true

	var err error
	if f.reg != nil {
		err = f.reg.Close()
		if f.forced {
			// Fallback mode already reverted at construction; only the
			// polled path still carries the flag this adapter set.
			if ferr := fdops.SetNonblock(f.fd, false); err == nil {
				err = ferr
			}
		}
	}
	return f.inner, err
}

// Close releases the adapter and closes the wrapped value when it is an
// io.Closer (ownership-on-drop: dropping the adapter closes the
// descriptor it owns).
func (f *File[T]) Close() error {
	inner, err := f.Release()
	if errors.Is(err, api.ErrFileClosed) {
		return err
	}
	if c, ok := any(inner).(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (f *File[T]) registration() (api.Readiness, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return nil, api.ErrFileClosed
	}
	return f.reg, nil
}

func wouldBlock(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK)
}
