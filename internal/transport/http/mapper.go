package http

import (
	"github.com/vovakirdan/roomchat-server/internal/core"
	"github.com/vovakirdan/roomchat-server/internal/proto"
	"github.com/vovakirdan/roomchat-server/internal/session"
)

func outboundFromEvent(event *core.Event) proto.Outbound {
	return proto.Outbound{
		Type:  proto.OutboundTypeEvent,
		Event: event.Name,
		Data:  event.Data,
	}
}

func outboundFromAck(inbound proto.Inbound, ack *session.Ack) proto.Outbound {
	return proto.Outbound{
		Type:  proto.OutboundTypeAck,
		ID:    inbound.ID,
		Event: inbound.Type,
		Data:  ack.Payload(),
	}
}

func protocolError(id, code, msg string) proto.Outbound {
	return proto.Outbound{
		Type:  proto.OutboundTypeError,
		ID:    id,
		Error: &proto.Error{Code: code, Msg: msg},
	}
}

// rejection answers an envelope the router never saw. A request carrying an
// id gets an error ack so the id still resolves; anything else gets an error
// frame.
func rejection(inbound proto.Inbound, code, msg string) proto.Outbound {
	if inbound.ID == "" || inbound.Type == proto.InboundTyping {
		return protocolError(inbound.ID, code, msg)
	}
	return proto.Outbound{
		Type:  proto.OutboundTypeAck,
		ID:    inbound.ID,
		Event: inbound.Type,
		Data: proto.ErrorAck{
			Status:  proto.StatusError,
			Code:    code,
			Message: msg,
		},
	}
}
