// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package pollfile adapts descriptor-bearing values (pipes, sockets,
// terminals, standard-stream duplicates, regular files) for use with a
// readiness reactor.
//
// The adapter forces the descriptor into nonblocking mode and registers
// it with a reactor; reads and writes then park on readiness channels
// instead of blocking an OS thread. Regular files are the documented
// platform quirk: epoll refuses them with EPERM, so the adapter reverts
// the nonblocking flag and falls back to direct blocking-equivalent
// calls behind the same API. Callers never see the difference beyond
// the OS-level blocking trade-off.
//
// An adapter owns its descriptor's flag state for its whole lifetime;
// sharing the descriptor with another flag mutator voids every promise
// made here.
package pollfile
