package services

import (
	"context"

	"github.com/api-sage/card-payment-engine/src/internal/logger"
	"github.com/api-sage/card-payment-engine/src/internal/wire"
)

// MessageBroadcaster forwards network messages to peer nodes.
type MessageBroadcaster interface {
	Broadcast(ctx context.Context, msg *wire.Message) error
}

// broadcast is best effort. The engine has already committed the change, so
// a peer failure is logged and never surfaces to the caller.
func broadcast(ctx context.Context, b MessageBroadcaster, msg *wire.Message, fields logger.Fields) {
	if b == nil {
		return
	}
	if err := b.Broadcast(ctx, msg); err != nil {
		if fields == nil {
			fields = logger.Fields{}
		}
		fields["mti"] = msg.MTI
		logger.Error("network broadcast failed", err, fields)
	}
}
