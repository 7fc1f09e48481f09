package session

import (
	"github.com/vovakirdan/roomchat-server/internal/core"
	"github.com/vovakirdan/roomchat-server/internal/proto"
)

// Ack is the single response to a request-style event: either Result or Err
// is set, never both.
type Ack struct {
	Result any
	Err    *core.CoreError
}

// OK reports whether the request succeeded.
func (a *Ack) OK() bool {
	return a.Err == nil
}

// Payload returns the wire form of the ack.
func (a *Ack) Payload() any {
	if a.Err != nil {
		return proto.ErrorAck{
			Status:  proto.StatusError,
			Code:    a.Err.Code,
			Message: a.Err.Message,
		}
	}
	return a.Result
}

func success(result any) *Ack {
	return &Ack{Result: result}
}

func failure(err error) *Ack {
	return &Ack{Err: core.AsCoreError(err)}
}

func statusOK() *Ack {
	return success(proto.StatusAck{Status: proto.StatusOK})
}
