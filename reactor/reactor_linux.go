//go:build linux
// +build linux

// File: reactor/reactor_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux epoll(7)-based readiness reactor. Descriptors are registered
// edge-triggered for both directions; a background goroutine waits on
// the epoll set and forwards each observed event, in OS order, to the
// matching registration's direction channels.

package reactor

import (
	"sync"

	"github.com/eapache/queue"
	"golang.org/x/sys/unix"

	"github.com/momentics/pollio/api"
)

// Reactor is an epoll-backed api.ReadinessRegistrar. A single Reactor
// serves any number of registrations; the zero value is not usable,
// construct with New.
type Reactor struct {
	epfd  int
	wakeR int
	wakeW int

	mu     sync.Mutex
	regs   map[int32]*registration
	closed bool

	// dispatch preserves the order EpollWait reported events in; it is
	// touched only by the wait loop goroutine.
	dispatch *queue.Queue

	done chan struct{}
}

// New creates a Reactor and starts its wait loop. The epoll descriptor
// and the internal wake pipe are close-on-exec.
func New() (*Reactor, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}

	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		unix.Close(epfd)
		return nil, err
	}

	// The wake pipe is level-triggered on purpose: a pending wake byte
	// must keep the loop runnable until it is drained.
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(p[0])}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, p[0], &ev); err != nil {
		unix.Close(p[0])
		unix.Close(p[1])
		unix.Close(epfd)
		return nil, err
	}

	r := &Reactor{
		epfd:     epfd,
		wakeR:    p[0],
		wakeW:    p[1],
		regs:     make(map[int32]*registration),
		dispatch: queue.New(),
		done:     make(chan struct{}),
	}
	go r.loop()
	return r, nil
}

// Register adds fd to the epoll set for both directions, edge-triggered.
// Failures return the raw errno-bearing error unchanged; callers match
// on it (the pollfile adapter treats EPERM as the unpollable-descriptor
// signature).
func (r *Reactor) Register(fd uintptr) (api.Readiness, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, api.ErrReactorClosed
	}

	ev := unix.EpollEvent{
		Events: unix.EPOLLIN | unix.EPOLLOUT | unix.EPOLLRDHUP | unix.EPOLLET,
		Fd:     int32(fd),
	}
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, int(fd), &ev); err != nil {
		return nil, err
	}

	g := &registration{
		fd:         int32(fd),
		owner:      r,
		readReady:  make(chan struct{}, 1),
		writeReady: make(chan struct{}, 1),
	}
	r.regs[int32(fd)] = g
	return g, nil
}

// Close stops the wait loop and releases the epoll set. Registrations
// still held by callers become inert; their channels never fire again.
func (r *Reactor) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	var b [1]byte
	unix.Write(r.wakeW, b[:])
	<-r.done

	unix.Close(r.wakeR)
	unix.Close(r.wakeW)
	unix.Close(r.epfd)
	return nil
}

func (r *Reactor) unregister(g *registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.regs[g.fd]; !ok {
		return nil
	}
	delete(r.regs, g.fd)
	if r.closed {
		return nil
	}
	return unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, int(g.fd), nil)
}

func (r *Reactor) loop() {
	defer close(r.done)

	events := make([]unix.EpollEvent, maxEvents)
	for {
		n, err := unix.EpollWait(r.epfd, events, -1)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return
		}

		woken := false
		for i := 0; i < n; i++ {
			if int(events[i].Fd) == r.wakeR {
				woken = true
				r.drainWake()
				continue
			}
			r.dispatch.Add(api.Event{
				Fd:     uintptr(events[i].Fd),
				Events: translate(events[i].Events),
			})
		}

		r.flush()

		if woken {
			r.mu.Lock()
			closed := r.closed
			r.mu.Unlock()
			if closed {
				return
			}
		}
	}
}

// flush drains the dispatch queue in arrival order, handing each event
// to its registration's direction channels.
func (r *Reactor) flush() {
	for r.dispatch.Length() > 0 {
		ev := r.dispatch.Remove().(api.Event)

		r.mu.Lock()
		g := r.regs[int32(ev.Fd)]
		r.mu.Unlock()
		if g == nil {
			continue
		}

		if ev.Events&(api.EventRead|api.EventError) != 0 {
			notify(g.readReady)
		}
		if ev.Events&(api.EventWrite|api.EventError) != 0 {
			notify(g.writeReady)
		}
	}
}

func (r *Reactor) drainWake() {
	var b [64]byte
	for {
		if _, err := unix.Read(r.wakeR, b[:]); err != nil {
			return
		}
	}
}

func translate(events uint32) api.EventType {
	var t api.EventType
	if events&unix.EPOLLIN != 0 {
		t |= api.EventRead
	}
	if events&unix.EPOLLOUT != 0 {
		t |= api.EventWrite
	}
	if events&(unix.EPOLLERR|unix.EPOLLHUP|unix.EPOLLRDHUP) != 0 {
		t |= api.EventError
	}
	return t
}

// registration is one tracked descriptor. It satisfies api.Readiness.
type registration struct {
	fd         int32
	owner      *Reactor
	readReady  chan struct{}
	writeReady chan struct{}

	closeOnce sync.Once
	closeErr  error
}

func (g *registration) ReadReady() <-chan struct{} { return g.readReady }

func (g *registration) WriteReady() <-chan struct{} { return g.writeReady }

// Close removes the descriptor from the epoll set. Safe to call more
// than once; after the first call the readiness channels never fire.
func (g *registration) Close() error {
	g.closeOnce.Do(func() {
		g.closeErr = g.owner.unregister(g)
	})
	return g.closeErr
}
