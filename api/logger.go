// File: api/logger.go
// Author: momentics <momentics@gmail.com>

package api

// Logger is the logging surface used by the reactor. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...any)
}
