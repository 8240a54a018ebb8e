// Package logger drains log-line messages to the HAL logger.
package logger

import (
	"tally/hal"
	"tally/tallyos/kernel"
	"tally/tallyos/proto"
)

type Service struct {
	log hal.Logger
	ep  kernel.Capability
}

func New(log hal.Logger, ep kernel.Capability) *Service {
	return &Service{log: log, ep: ep}
}

func (s *Service) Run(ctx *kernel.Context) {
	ch := ctx.RecvChan(s.ep)
	if ch == nil {
		return
	}
	for msg := range ch {
		if s.log == nil || msg.Kind != uint16(proto.MsgLogLine) {
			continue
		}
		s.log.WriteLineBytes(msg.Payload())
	}
}
