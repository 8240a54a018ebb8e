//go:build !tinygo

package kernel

import "runtime/debug"

// captureStack grabs the panicking goroutine's stack for the recovery
// screen. The TinyGo build returns nil instead.
func captureStack() []byte {
	return debug.Stack()
}
