package app

import (
	"context"
	"net"

	"github.com/rs/zerolog/log"

	"github.com/luxbridge/luxd/internal/config"
	"github.com/luxbridge/luxd/internal/hue"
	"github.com/luxbridge/luxd/internal/mdns"
)

// MDNSService manages the discovery advertisement lifecycle.
type MDNSService struct {
	cfg        *config.Config
	mac        net.HardwareAddr
	advertiser *mdns.Advertiser
}

// NewMDNSService creates a new MDNSService.
func NewMDNSService(cfg *config.Config, mac net.HardwareAddr) *MDNSService {
	return &MDNSService{cfg: cfg, mac: mac}
}

// Start begins advertising if enabled. The advertisement runs until
// Close is called during shutdown.
func (s *MDNSService) Start(_ context.Context) error {
	if !s.cfg.MDNS.IsEnabled() {
		log.Debug().Msg("mDNS advertisement disabled")
		return nil
	}

	adv, err := mdns.Advertise(
		s.cfg.Bridge.Name,
		hue.BridgeIDFromMAC(s.mac),
		hue.BridgeModelID,
		s.cfg.API.Port,
	)
	if err != nil {
		return err
	}
	s.advertiser = adv
	return nil
}

// Close stops the advertisement.
func (s *MDNSService) Close() {
	if s.advertiser == nil {
		return
	}
	if err := s.advertiser.Shutdown(); err != nil {
		log.Warn().Err(err).Msg("mDNS shutdown error")
	}
	s.advertiser = nil
}
