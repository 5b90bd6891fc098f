package app

import (
	"context"
	"net"

	"github.com/luxbridge/luxd/internal/config"
	"github.com/luxbridge/luxd/internal/db"
	"github.com/luxbridge/luxd/internal/eventbus"
	"github.com/luxbridge/luxd/internal/resource"
	"github.com/luxbridge/luxd/internal/zigbee"
)

// Services is a container for all application services.
// It manages service initialization order and dependencies.
type Services struct {
	cfg *config.Config
	mac net.HardwareAddr

	// Core infrastructure
	DB        *db.DB
	Store     *resource.Store
	Bus       *eventbus.Bus
	Transport zigbee.Transport

	// High-level services
	API  *APIService
	MDNS *MDNSService
}

// NewServices creates all services with proper dependency injection.
func NewServices(cfg *config.Config) (*Services, error) {
	s := &Services{cfg: cfg}

	mac, err := cfg.Bridge.HardwareAddr()
	if err != nil {
		return nil, err
	}
	s.mac = mac

	// Initialize database
	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	s.DB = database

	// Initialize resource store and load persisted state
	s.Store = resource.NewStore(database)
	if err := s.Store.Load(); err != nil {
		s.Close()
		return nil, err
	}

	// Seed configured resources missing from the datastore
	if err := seedResources(s.Store, cfg, mac); err != nil {
		s.Close()
		return nil, err
	}

	// Initialize event bus
	s.Bus = eventbus.NewWithConfig(cfg.EventBus.GetWorkers(), cfg.EventBus.GetQueueSize())

	// No mesh radio attached; frames are logged instead of radiated.
	s.Transport = zigbee.LogTransport{}

	// Initialize API service (attaches the event stream to the bus)
	s.API = NewAPIService(cfg, mac, s.Store, s.Bus, s.Transport)

	// Initialize mDNS advertisement service
	s.MDNS = NewMDNSService(cfg, mac)

	return s, nil
}

// Start starts all services in the correct order.
func (s *Services) Start(ctx context.Context) error {
	s.API.Start(ctx)
	return s.MDNS.Start(ctx)
}

// Stop gracefully stops all services.
func (s *Services) Stop() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout.Duration())
	defer cancel()
	if s.Bus != nil {
		s.Bus.Close(shutdownCtx)
	}

	s.Close()
	return nil
}

// Close releases all resources.
func (s *Services) Close() {
	if s.MDNS != nil {
		s.MDNS.Close()
	}
	if s.DB != nil {
		s.DB.Close()
	}
}

