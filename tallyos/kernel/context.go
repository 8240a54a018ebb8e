package kernel

// Context is the per-task handle through which a task talks to the kernel.
type Context struct {
	k      *Kernel
	taskID TaskID
}

// TaskID returns the ID of the running task.
func (c *Context) TaskID() TaskID {
	return c.taskID
}

// RecvChan returns the mailbox channel behind cap, or nil if the capability
// does not carry the receive right. The channel can be used directly in
// select loops alongside tick or done channels.
func (c *Context) RecvChan(cap Capability) <-chan Message {
	if !cap.valid() || !cap.canRecv() {
		return nil
	}
	c.k.mu.Lock()
	defer c.k.mu.Unlock()
	if cap.ep >= c.k.endpointCount {
		return nil
	}
	return c.k.endpoints[cap.ep]
}

// Recv blocks until a message arrives on cap's endpoint.
// ok is false if the capability is unusable or the endpoint is closed.
func (c *Context) Recv(cap Capability) (Message, bool) {
	ch := c.RecvChan(cap)
	if ch == nil {
		return Message{}, false
	}
	msg, ok := <-ch
	return msg, ok
}

// TryRecv returns a pending message without blocking.
func (c *Context) TryRecv(cap Capability) (Message, bool) {
	ch := c.RecvChan(cap)
	if ch == nil {
		return Message{}, false
	}
	select {
	case msg, ok := <-ch:
		if !ok {
			return Message{}, false
		}
		return msg, true
	default:
		return Message{}, false
	}
}

// BlockOnTick parks the task until the kernel tick advances past the value
// observed at call time, then returns.
func (c *Context) BlockOnTick() {
	c.k.waitTick(c.k.nowTick())
}

// NowTick returns the current kernel tick.
func (c *Context) NowTick() uint64 {
	return c.k.nowTick()
}

// WaitTick blocks until the kernel tick is greater than after and returns
// the new tick value.
func (c *Context) WaitTick(after uint64) uint64 {
	return c.k.waitTick(after)
}

// Send sends a message from one capability to another.
func (c *Context) Send(from Capability, to Capability, kind uint16, payload []byte) SendResult {
	return c.SendCapResult(from, to, kind, payload, Capability{})
}

// SendCap sends a message carrying a transferred capability.
func (c *Context) SendCap(from Capability, to Capability, kind uint16, payload []byte, xfer Capability) SendResult {
	return c.SendCapResult(from, to, kind, payload, xfer)
}

// SendCapResult is the full-form send: explicit source, destination, and an
// optional capability to transfer.
func (c *Context) SendCapResult(from Capability, to Capability, kind uint16, payload []byte, xfer Capability) SendResult {
	if !from.valid() {
		return SendErrInvalidFromCap
	}
	if !from.canSend() {
		return SendErrFromNoSendRight
	}
	if !to.valid() {
		return SendErrInvalidToCap
	}
	if !to.canSend() {
		return SendErrToNoSendRight
	}
	return c.k.send(from.ep, to.ep, kind, payload, xfer)
}

// SendTo sends a message without identifying a source endpoint.
func (c *Context) SendTo(to Capability, kind uint16, payload []byte) SendResult {
	return c.SendToCapResult(to, kind, payload, Capability{})
}

// SendToCap sends a sourceless message carrying a transferred capability.
func (c *Context) SendToCap(to Capability, kind uint16, payload []byte, xfer Capability) SendResult {
	return c.SendToCapResult(to, kind, payload, xfer)
}

// SendToCapResult is the sourceless full-form send. From is left zero in the
// delivered message.
func (c *Context) SendToCapResult(to Capability, kind uint16, payload []byte, xfer Capability) SendResult {
	if !to.valid() {
		return SendErrInvalidToCap
	}
	if !to.canSend() {
		return SendErrToNoSendRight
	}
	return c.k.send(0, to.ep, kind, payload, xfer)
}

// NewEndpoint allocates a fresh endpoint on behalf of the task.
func (c *Context) NewEndpoint(rights Rights) Capability {
	return c.k.NewEndpoint(rights)
}
