// Package logger is the client side of the log service. Tasks hold a
// send capability to the service mailbox and submit one line per call.
package logger

import (
	"fmt"

	"tally/tallyos/kernel"
	"tally/tallyos/proto"
)

// Log sends one line to the log service. Lines longer than a message
// payload are truncated. Delivery is best-effort: on a full mailbox the
// line is dropped and the result says so.
func Log(ctx *kernel.Context, logCap kernel.Capability, line string) kernel.SendResult {
	if ctx == nil {
		return kernel.SendErrInvalidFromCap
	}
	b := []byte(line)
	if len(b) > kernel.MaxMessageBytes {
		b = b[:kernel.MaxMessageBytes]
	}
	return ctx.SendToCapResult(logCap, uint16(proto.MsgLogLine), proto.LogLinePayload(b), kernel.Capability{})
}

// Logf formats and sends one line to the log service.
func Logf(ctx *kernel.Context, logCap kernel.Capability, format string, args ...any) kernel.SendResult {
	return Log(ctx, logCap, fmt.Sprintf(format, args...))
}
