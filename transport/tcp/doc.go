// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package tcp implements non-blocking TCP listeners and streams on raw
// descriptors, suitable for registration with an edge-triggered poller.
// Would-block conditions surface as api.ErrWouldBlock.
package tcp
