package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/r3labs/sse/v2"
	"github.com/rs/zerolog/log"

	"github.com/luxbridge/luxd/internal/eventbus"
)

const eventStreamID = "clip"

// eventEnvelope is the CLIP event stream frame: a batch of one or more
// resource changes with a shared creation time.
type eventEnvelope struct {
	CreationTime string `json:"creationtime"`
	ID           string `json:"id"`
	Type         string `json:"type"`
	Data         []any  `json:"data"`
}

// Events bridges the internal event bus onto the SSE event stream
// clients consume at /eventstream/clip/v2.
type Events struct {
	server *sse.Server
}

// NewEvents creates the SSE stream.
func NewEvents() *Events {
	server := sse.New()
	server.AutoReplay = false
	server.CreateStream(eventStreamID)
	return &Events{server: server}
}

// Attach subscribes the stream to all resource lifecycle events.
func (e *Events) Attach(bus *eventbus.Bus) {
	bus.SubscribeAll(e.forward)
}

func (e *Events) forward(ev eventbus.Event) {
	data := []any{}
	if ev.Data != nil {
		data = append(data, ev.Data)
	}

	payload, err := json.Marshal([]eventEnvelope{{
		CreationTime: time.Now().UTC().Format("2006-01-02T15:04:05Z"),
		ID:           uuid.New().String(),
		Type:         string(ev.Type),
		Data:         data,
	}})
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal event stream frame")
		return
	}

	e.server.Publish(eventStreamID, &sse.Event{Data: payload})
}

// ServeHTTP serves the stream. Clients connect without a stream query
// parameter, so it is pinned here.
func (e *Events) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	q.Set("stream", eventStreamID)
	r.URL.RawQuery = q.Encode()
	e.server.ServeHTTP(w, r)
}

// Close shuts down the stream and disconnects subscribers.
func (e *Events) Close() {
	e.server.Close()
}
