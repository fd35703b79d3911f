// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity. Platform-specific implementations are located
// in separate files (affinity_linux.go, affinity_stub.go) guarded by build tags.

package affinity

import "runtime"

// Pin locks the calling goroutine to its OS thread and, when cpuID >= 0,
// binds that thread to the given logical CPU. The returned func undoes the
// thread lock.
func Pin(cpuID int) (unpin func(), err error) {
	runtime.LockOSThread()
	if cpuID >= 0 {
		if err := setAffinityPlatform(cpuID); err != nil {
			runtime.UnlockOSThread()
			return func() {}, err
		}
	}
	return runtime.UnlockOSThread, nil
}
