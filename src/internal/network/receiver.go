package network

import (
	"io"
	"net/http"
	"time"

	"github.com/api-sage/card-payment-engine/src/internal/logger"
	"github.com/api-sage/card-payment-engine/src/internal/wire"
)

const maxMessageBytes = 1 << 20

// Receiver answers inbound wire messages with a network management response.
type Receiver struct {
	now func() time.Time
}

func NewReceiver(now func() time.Time) *Receiver {
	if now == nil {
		now = time.Now
	}
	return &Receiver{now: now}
}

func (rc *Receiver) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxMessageBytes))
	if err != nil {
		http.Error(w, "unable to read message", http.StatusBadRequest)
		return
	}

	msg, err := wire.Decode(body)
	if err != nil {
		logger.Error("network receive: decode failed", err, logger.Fields{"bytes": len(body)})
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	logger.Info("network receive", logger.Fields{
		"mti":    msg.MTI,
		"fields": len(msg.Fields()),
	})

	out, err := wire.EchoResponse(msg, rc.now()).Encode()
	if err != nil {
		logger.Error("network receive: encode response failed", err, nil)
		http.Error(w, "unable to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}
