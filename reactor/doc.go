// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor provides the OS readiness-polling primitive behind the
// echo reactor: an edge-capable epoll poller on Linux and a stub elsewhere.
package reactor
