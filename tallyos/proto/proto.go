// Package proto defines the message kinds and payload encodings that
// travel between the input service, the power manager and the
// calculator task. Payloads are tiny fixed layouts; nothing here
// allocates beyond the payload slice itself.
package proto

// Kind identifies the message type carried in kernel.Message.Kind.
type Kind uint16

const (
	MsgLogLine Kind = iota + 1
	MsgKeyInput
	MsgPointer
	MsgAppControl
	MsgAppShutdown
)

func (k Kind) String() string {
	switch k {
	case MsgLogLine:
		return "log_line"
	case MsgKeyInput:
		return "key_input"
	case MsgPointer:
		return "pointer"
	case MsgAppControl:
		return "app_control"
	case MsgAppShutdown:
		return "app_shutdown"
	default:
		return "unknown"
	}
}
