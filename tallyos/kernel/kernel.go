// Package kernel is a small message-passing core. Tasks run as
// goroutines, talk through fixed-size mailboxes addressed by
// capabilities, and share one base tick for timing. There is no
// scheduler of its own; the Go runtime preempts.
package kernel

import "sync"

const (
	maxEndpoints = 32
	mailboxSlots = 8
)

type TaskID uint8

// Task is a unit of execution. Run is started on its own goroutine and
// should block in Context receive or tick waits rather than spin.
type Task interface {
	Run(*Context)
}

// Kernel routes messages between task goroutines and fans the base
// tick out to waiters.
type Kernel struct {
	mu            sync.Mutex
	endpoints     [maxEndpoints]chan Message
	endpointCount Endpoint
	taskCount     TaskID

	tickMu   sync.Mutex
	tickCond *sync.Cond
	tick     uint64
}

// New creates an empty kernel.
func New() *Kernel {
	k := &Kernel{}
	k.tickCond = sync.NewCond(&k.tickMu)
	return k
}

// NewEndpoint allocates a mailbox and returns the full capability for
// it, or the zero capability once the endpoint table is full.
func (k *Kernel) NewEndpoint(rights Rights) Capability {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.endpointCount >= maxEndpoints {
		return Capability{}
	}
	ep := k.endpointCount
	k.endpointCount++
	k.endpoints[ep] = make(chan Message, mailboxSlots)
	return Capability{ep: ep, rights: rights}
}

// AddTask starts the task on its own goroutine. A panic inside the
// task is routed to the panic handler instead of crashing the process.
func (k *Kernel) AddTask(t Task) TaskID {
	k.mu.Lock()
	id := k.taskCount
	k.taskCount++
	k.mu.Unlock()

	ctx := &Context{k: k, taskID: id}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				triggerPanic(PanicInfo{TaskID: id, Value: r})
			}
		}()
		t.Run(ctx)
	}()
	return id
}

// TickTo advances the kernel tick to seq and wakes every tick waiter.
// Stale or repeated seq values are ignored, so multiple tick sources
// cannot move time backwards.
func (k *Kernel) TickTo(seq uint64) {
	k.tickMu.Lock()
	if seq > k.tick {
		k.tick = seq
		k.tickCond.Broadcast()
	}
	k.tickMu.Unlock()
}

func (k *Kernel) nowTick() uint64 {
	k.tickMu.Lock()
	t := k.tick
	k.tickMu.Unlock()
	return t
}

func (k *Kernel) waitTick(after uint64) uint64 {
	k.tickMu.Lock()
	for k.tick <= after {
		k.tickCond.Wait()
	}
	t := k.tick
	k.tickMu.Unlock()
	return t
}

func (k *Kernel) send(from, to Endpoint, kind uint16, payload []byte, xfer Capability) (res SendResult) {
	if len(payload) > MaxMessageBytes {
		return SendErrPayloadTooLarge
	}

	k.mu.Lock()
	var ch chan Message
	if to < k.endpointCount {
		ch = k.endpoints[to]
	}
	k.mu.Unlock()
	if ch == nil {
		return SendErrNoEndpoint
	}

	msg := Message{From: from, To: to, Kind: kind, Len: uint16(len(payload)), Cap: xfer}
	copy(msg.Data[:], payload)

	// A send on a closed mailbox panics; report it as a missing
	// endpoint instead.
	defer func() {
		if recover() != nil {
			res = SendErrNoEndpoint
		}
	}()

	select {
	case ch <- msg:
		return SendOK
	default:
		return SendErrQueueFull
	}
}
