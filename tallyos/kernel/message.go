package kernel

// Rights select which operations a capability permits.
type Rights uint8

const (
	RightSend Rights = 1 << iota
	RightRecv
)

// Endpoint identifies a mailbox inside the kernel.
type Endpoint uint8

// Capability grants access to an endpoint. It has no exported fields,
// so a holder cannot widen its rights; new capabilities come only from
// NewEndpoint and Restrict, or arrive attached to a message.
type Capability struct {
	ep     Endpoint
	rights Rights
}

func (c Capability) valid() bool   { return c.rights != 0 }
func (c Capability) canSend() bool { return c.rights&RightSend != 0 }
func (c Capability) canRecv() bool { return c.rights&RightRecv != 0 }

// Valid reports whether the capability grants anything at all.
func (c Capability) Valid() bool { return c.valid() }

// Restrict narrows the capability to at most the given rights. An
// empty intersection yields the zero capability.
func (c Capability) Restrict(rights Rights) Capability {
	r := c.rights & rights
	if r == 0 {
		return Capability{}
	}
	return Capability{ep: c.ep, rights: r}
}

// MaxMessageBytes bounds a message payload. Anything larger belongs in
// shared memory with a notify message, not in mailbox copies.
const MaxMessageBytes = 128

// Message is the fixed-size envelope that travels between mailboxes.
// A capability can ride along in Cap to hand access to the receiver.
type Message struct {
	From Endpoint
	To   Endpoint
	Kind uint16
	Len  uint16
	Data [MaxMessageBytes]byte
	Cap  Capability
}

// Payload returns the used portion of Data. Len is clamped so a
// corrupted length cannot index past the array.
func (m *Message) Payload() []byte {
	n := int(m.Len)
	if n > MaxMessageBytes {
		n = MaxMessageBytes
	}
	return m.Data[:n]
}

// SendResult describes the outcome of a send attempt.
type SendResult uint8

const (
	SendOK SendResult = iota
	SendErrInvalidFromCap
	SendErrInvalidToCap
	SendErrFromNoSendRight
	SendErrToNoSendRight
	SendErrNoEndpoint
	SendErrPayloadTooLarge
	SendErrQueueFull
)

var sendResultNames = [...]string{
	SendOK:                 "ok",
	SendErrInvalidFromCap:  "invalid from capability",
	SendErrInvalidToCap:    "invalid to capability",
	SendErrFromNoSendRight: "from capability has no send right",
	SendErrToNoSendRight:   "to capability has no send right",
	SendErrNoEndpoint:      "no such endpoint",
	SendErrPayloadTooLarge: "payload too large",
	SendErrQueueFull:       "queue full",
}

func (r SendResult) String() string {
	if int(r) < len(sendResultNames) {
		return sendResultNames[r]
	}
	return "unknown"
}
