// File: api/events.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// EventType is a bitmask of readiness directions reported for one
// descriptor.
type EventType uint32

const (
	// EventRead signals read-readiness.
	EventRead EventType = 1 << iota
	// EventWrite signals write-readiness.
	EventWrite
	// EventError signals an error or hangup condition; it wakes both
	// directions so the next I/O attempt surfaces the real error.
	EventError
)

// Event is one readiness notification as observed by a reactor.
type Event struct {
	Fd     uintptr
	Events EventType
}
