// File: reactor/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral pieces of the readiness reactor.

package reactor

// maxEvents bounds how many OS events one wait cycle drains before
// dispatching. Bursts beyond this are picked up on the next cycle.
const maxEvents = 128

// notify delivers one coalescing readiness token. The channel is
// buffered with capacity 1; when a token is already pending the new
// event folds into it, which at worst costs the waiter one extra
// would-block retry.
func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
