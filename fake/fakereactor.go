// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

// Package fake provides test doubles for the api contracts: a
// scriptable registrar and registrations whose readiness is driven by
// the test instead of the OS.
package fake

import (
	"sync"

	"github.com/gammazero/deque"

	"github.com/momentics/pollio/api"
)

// Reactor is a test api.ReadinessRegistrar. Set RegisterErr to make
// every Register call fail with that error (unix.EPERM reproduces the
// unpollable-descriptor fallback deterministically).
type Reactor struct {
	RegisterErr error

	mu     sync.Mutex
	regs   []*Registration
	closed bool
}

// Register hands out a fresh scriptable Registration, or RegisterErr.
func (f *Reactor) Register(fd uintptr) (api.Readiness, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, api.ErrReactorClosed
	}
	if f.RegisterErr != nil {
		return nil, f.RegisterErr
	}
	g := &Registration{
		fd:         fd,
		readReady:  make(chan struct{}, 1),
		writeReady: make(chan struct{}, 1),
	}
	f.regs = append(f.regs, g)
	return g, nil
}

// Registrations returns every registration handed out so far.
func (f *Reactor) Registrations() []*Registration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*Registration(nil), f.regs...)
}

// Close marks the reactor closed; further Register calls fail.
func (f *Reactor) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Registration is a scriptable api.Readiness. Tests call Signal to
// deliver readiness; events queue in FIFO order and coalesce on the
// buffered direction channels exactly like the production reactor.
type Registration struct {
	fd         uintptr
	readReady  chan struct{}
	writeReady chan struct{}

	mu      sync.Mutex
	pending deque.Deque[api.EventType]
	closed  bool
}

// Fd returns the descriptor this registration was created for.
func (g *Registration) Fd() uintptr { return g.fd }

// Signal queues ev and flushes the pending event script in order.
func (g *Registration) Signal(ev api.EventType) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.pending.PushBack(ev)
	for g.pending.Len() > 0 {
		e := g.pending.PopFront()
		if e&(api.EventRead|api.EventError) != 0 {
			notify(g.readReady)
		}
		if e&(api.EventWrite|api.EventError) != 0 {
			notify(g.writeReady)
		}
	}
}

func (g *Registration) ReadReady() <-chan struct{} { return g.readReady }

func (g *Registration) WriteReady() <-chan struct{} { return g.writeReady }

// Close makes the registration inert.
func (g *Registration) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	return nil
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
