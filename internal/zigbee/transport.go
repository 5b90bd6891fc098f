package zigbee

import (
	"context"
	"encoding/hex"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Transport delivers an encoded frame to a luminaire. The frame is opaque
// to the transport; delivery, retries and acknowledgements are entirely
// its concern, not the codec's.
type Transport interface {
	Send(ctx context.Context, target uuid.UUID, frame []byte) error
}

// LogTransport is a stand-in transport that logs outgoing frames instead
// of radiating them. Used when no mesh radio is attached.
type LogTransport struct{}

// Send logs the frame in hex and reports success.
func (LogTransport) Send(_ context.Context, target uuid.UUID, frame []byte) error {
	log.Debug().
		Str("light", target.String()).
		Str("frame", hex.EncodeToString(frame)).
		Msg("Zigbee frame out")
	return nil
}
