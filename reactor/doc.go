// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor provides the readiness-notification reactor the pollio
// adapter registers descriptors with: epoll on Linux, unsupported elsewhere.
package reactor
