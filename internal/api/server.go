// Package api serves the bridge's HTTP surface: the legacy v1 API, the
// CLIP v2 resource API and the SSE event stream. Handlers translate
// resource updates into zigbee frames and hand them to the transport.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/luxbridge/luxd/internal/eventbus"
	"github.com/luxbridge/luxd/internal/hue"
	"github.com/luxbridge/luxd/internal/resource"
	"github.com/luxbridge/luxd/internal/zigbee"
)

// Server is the bridge HTTP server.
type Server struct {
	addr       string
	name       string
	mac        net.HardwareAddr
	store      *resource.Store
	bus        *eventbus.Bus
	transport  zigbee.Transport
	events     *Events
	httpServer *http.Server
}

// NewServer creates the bridge API server. The SSE stream is attached to
// the bus immediately so no update events are missed before Run.
func NewServer(host string, port int, name string, mac net.HardwareAddr, store *resource.Store, bus *eventbus.Bus, transport zigbee.Transport) *Server {
	s := &Server{
		addr:      fmt.Sprintf("%s:%d", host, port),
		name:      name,
		mac:       mac,
		store:     store,
		bus:       bus,
		transport: transport,
		events:    NewEvents(),
	}
	s.events.Attach(bus)
	return s
}

// Router builds the route table. Exposed for tests.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	// Legacy v1 API
	r.HandleFunc("/api", s.handleNewUser).Methods(http.MethodPost)
	r.HandleFunc("/api/config", s.handleShortConfig).Methods(http.MethodGet)
	r.HandleFunc("/api/{user}/config", s.handleShortConfig).Methods(http.MethodGet)
	r.HandleFunc("/api/{user}/lights", s.legacyAuth(s.handleV1Lights)).Methods(http.MethodGet)
	r.HandleFunc("/api/{user}/lights/{id}", s.legacyAuth(s.handleV1Light)).Methods(http.MethodGet)
	r.HandleFunc("/api/{user}/lights/{id}/state", s.legacyAuth(s.handleV1LightState)).Methods(http.MethodPut)

	// CLIP v2 API
	r.HandleFunc("/clip/v2/resource", s.clipAuth(s.handleClipAll)).Methods(http.MethodGet)
	r.HandleFunc("/clip/v2/resource/{rtype}", s.clipAuth(s.handleClipList)).Methods(http.MethodGet)
	r.HandleFunc("/clip/v2/resource/{rtype}/{rid}", s.clipAuth(s.handleClipGet)).Methods(http.MethodGet)
	r.HandleFunc("/clip/v2/resource/light/{rid}", s.clipAuth(s.handleClipLightPut)).Methods(http.MethodPut)
	r.HandleFunc("/clip/v2/resource/grouped_light/{rid}", s.clipAuth(s.handleClipGroupedLightPut)).Methods(http.MethodPut)
	r.HandleFunc("/clip/v2/resource/scene/{rid}", s.clipAuth(s.handleClipScenePut)).Methods(http.MethodPut)

	// Event stream
	r.Handle("/eventstream/clip/v2", s.events).Methods(http.MethodGet)

	return r
}

// Run starts the API server. It blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: s.Router(),
	}

	log.Info().Str("addr", s.addr).Msg("Starting bridge API server")

	// Handle graceful shutdown
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("API server shutdown error")
		}
		s.events.Close()
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

// applyLightUpdate is the shared path both API generations funnel into:
// encode the zigbee frame first (validation is atomic, a rejected update
// changes nothing), send it, then fold the update into the stored
// resource and publish the change.
func (s *Server) applyLightUpdate(ctx context.Context, rec resource.Record, upd hue.LightUpdate) (hue.Light, error) {
	var light hue.Light
	if err := json.Unmarshal(rec.Payload, &light); err != nil {
		return hue.Light{}, fmt.Errorf("corrupt light resource %s: %w", rec.ID, err)
	}

	zb, err := upd.ZigbeeUpdate(light.GamutOf())
	if err != nil {
		return hue.Light{}, err
	}
	frame, err := zb.Bytes()
	if err != nil {
		return hue.Light{}, err
	}

	if err := s.transport.Send(ctx, rec.ID, frame); err != nil {
		return hue.Light{}, fmt.Errorf("transport send failed: %w", err)
	}

	upd.Apply(&light)
	payload, err := json.Marshal(light)
	if err != nil {
		return hue.Light{}, err
	}
	if err := s.store.Update(rec.ID, payload); err != nil {
		return hue.Light{}, err
	}

	s.bus.Publish(eventbus.Event{
		Type:  eventbus.EventTypeUpdate,
		RType: hue.RTypeLight,
		ID:    rec.ID,
		Data:  light,
	})

	return light, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
