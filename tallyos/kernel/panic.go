package kernel

import (
	"sync"
	"sync/atomic"
)

// PanicInfo describes a task panic captured by the kernel.
type PanicInfo struct {
	TaskID TaskID
	Value  any
	Stack  []byte
}

// PanicHandler is invoked once, on the first task panic.
type PanicHandler func(PanicInfo)

var (
	panicActive  atomic.Bool
	panicOnce    sync.Once
	panicHandler atomic.Value
)

// InPanicMode reports whether a task panic has been captured.
func InPanicMode() bool {
	return panicActive.Load()
}

// SetPanicHandler installs the handler called on the first task panic.
// Only one handler is active; later calls replace it until a panic fires.
func SetPanicHandler(h PanicHandler) {
	if h == nil {
		return
	}
	panicHandler.Store(h)
}

func triggerPanic(info PanicInfo) {
	panicOnce.Do(func() {
		panicActive.Store(true)
		info.Stack = captureStack()
		if h, ok := panicHandler.Load().(PanicHandler); ok && h != nil {
			h(info)
		}
	})
}
