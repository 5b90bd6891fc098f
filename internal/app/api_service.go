package app

import (
	"context"
	"net"

	"github.com/rs/zerolog/log"

	"github.com/luxbridge/luxd/internal/api"
	"github.com/luxbridge/luxd/internal/config"
	"github.com/luxbridge/luxd/internal/eventbus"
	"github.com/luxbridge/luxd/internal/resource"
	"github.com/luxbridge/luxd/internal/zigbee"
)

// APIService wraps the bridge HTTP server.
type APIService struct {
	cfg    *config.Config
	server *api.Server
}

// NewAPIService creates a new APIService.
func NewAPIService(cfg *config.Config, mac net.HardwareAddr, store *resource.Store, bus *eventbus.Bus, transport zigbee.Transport) *APIService {
	server := api.NewServer(cfg.API.Host, cfg.API.Port, cfg.Bridge.Name, mac, store, bus, transport)
	return &APIService{
		cfg:    cfg,
		server: server,
	}
}

// Start begins serving the API.
func (s *APIService) Start(ctx context.Context) {
	go func() {
		if err := s.server.Run(ctx, s.cfg.ShutdownTimeout.Duration()); err != nil {
			log.Error().Err(err).Msg("API server error")
		}
	}()
}
