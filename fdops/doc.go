// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package fdops provides low-level descriptor flag operations: live
// querying and toggling of O_NONBLOCK, and close-on-exec duplication of
// the standard streams.
//
// Flag state is never cached; every query goes to the OS so external
// mutation cannot diverge from what callers observe. The get/modify/set
// sequence in SetNonblock is not atomic against other holders of the
// same descriptor; correctness requires exclusive access to the
// descriptor's flag state.
package fdops
