package kernel

// SendToCapRetry sends like SendToCap but retries while the destination
// mailbox is full, blocking on the kernel tick between attempts. limit
// caps the number of retries after the first attempt; limit 0 means a
// single attempt. Any result other than SendErrQueueFull is returned
// immediately.
func (c *Context) SendToCapRetry(to Capability, kind uint16, payload []byte, xfer Capability, limit int) SendResult {
	res := c.SendToCapResult(to, kind, payload, xfer)
	for i := 0; i < limit && res == SendErrQueueFull; i++ {
		c.BlockOnTick()
		res = c.SendToCapResult(to, kind, payload, xfer)
	}
	return res
}
