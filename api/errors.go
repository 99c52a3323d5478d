// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error values for the pollio library. I/O errors from wrapped
// values are never translated into these; they pass through unchanged so
// caller-side errno matching keeps working.

package api

import "fmt"

// Common errors used across the library.
var (
	ErrNotSupported    = fmt.Errorf("operation not supported")
	ErrReactorClosed   = fmt.Errorf("reactor is closed")
	ErrFileClosed      = fmt.Errorf("file is closed")
	ErrNotRegistered   = fmt.Errorf("descriptor is not registered")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
