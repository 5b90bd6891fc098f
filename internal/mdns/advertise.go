// Package mdns advertises the bridge on the local network so Hue apps
// can discover it without a cloud lookup.
package mdns

import (
	"fmt"
	"strings"

	"github.com/hashicorp/mdns"
	"github.com/rs/zerolog/log"
)

// Advertiser announces the bridge as a _hue._tcp service.
type Advertiser struct {
	server *mdns.Server
}

// Advertise starts announcing the bridge. bridgeID is the 16-character
// id derived from the MAC; modelID the hardware model the emulator
// mimics.
func Advertise(name, bridgeID, modelID string, port int) (*Advertiser, error) {
	txt := []string{
		"bridgeid=" + strings.ToLower(bridgeID),
		"modelid=" + modelID,
	}

	service, err := mdns.NewMDNSService(name, "_hue._tcp", "", "", port, nil, txt)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}

	log.Info().
		Str("service", "_hue._tcp").
		Str("bridgeid", bridgeID).
		Int("port", port).
		Msg("mDNS advertisement started")

	return &Advertiser{server: server}, nil
}

// Shutdown stops the advertisement.
func (a *Advertiser) Shutdown() error {
	return a.server.Shutdown()
}
