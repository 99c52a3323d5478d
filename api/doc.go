// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package api defines the contracts shared between the pollio packages:
// descriptor capabilities, readiness registration, and the common error
// taxonomy. Implementations live in reactor (production) and fake (tests).
package api
