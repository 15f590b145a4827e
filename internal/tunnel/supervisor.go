// Package tunnel supervises the single active VPN connection: parsing a
// client config, bringing up the WireGuard engine, pinning and installing
// routes, and tearing everything down again. Connection state is
// runtime-only — nothing here is persisted across process restarts.
package tunnel

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/november1306/createmyvpn/internal/routing"
	"github.com/november1306/createmyvpn/internal/wgconfig"
	"github.com/november1306/createmyvpn/internal/wgerr"
	"github.com/november1306/createmyvpn/internal/wireguard"
)

// engineHandle is the subset of *wireguard.Engine the supervisor drives.
// Declaring it here (rather than depending on the concrete type directly)
// lets tests substitute a fake that never opens a real TUN device.
type engineHandle interface {
	Name() string
	Configure(cfg *wgconfig.ParsedConfig) error
	Up() error
	Close() error
}

// newRouter and newEngine are indirections over the real constructors so
// tests can substitute fakes without creating a real TUN device or
// touching the host routing table.
var (
	newRouter = func() routing.Controller { return routing.New() }
	newEngine = func() (engineHandle, error) { return wireguard.New() }
)

// activeTunnel holds everything needed to tear down one connection.
type activeTunnel struct {
	sessionID string
	engine    engineHandle
	router    routing.Controller
	serverIP  string
	gateway   string
}

// Supervisor owns the process-wide tunnel state. Exactly one tunnel may be
// active at a time; a second Connect tears down the first (spec invariant:
// connecting while already connected replaces, never layers).
type Supervisor struct {
	mu     sync.Mutex
	active *activeTunnel
}

// New returns an idle Supervisor.
func New() *Supervisor { return &Supervisor{} }

// Connect parses configText, tears down any existing tunnel, then brings
// up a new one: gateway capture, TUN device, address assignment, WireGuard
// configuration, Up, and route installation, in that order. A full-tunnel
// config with no discoverable gateway fails with a RoutingError before any
// TUN device or WireGuard session is created.
func (s *Supervisor) Connect(configText string) error {
	cfg, err := wgconfig.Parse(configText)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.disconnectLocked()

	sessionID := uuid.NewString()
	log := slog.With("session", sessionID)

	log.Info("starting tunnel", "endpoint", cfg.Endpoint.String(), "full_tunnel", cfg.FullTunnel())

	router := newRouter()
	gateway := router.CaptureGateway()
	log.Info("captured default gateway", "gateway", gateway)

	// Full-tunnel routing with no discovered gateway can never work: the
	// endpoint-pin route has nothing to pin to, so WireGuard's own
	// handshake packets would loop through the TUN once routes were
	// installed. Fail here, before any TUN device or WireGuard session is
	// created — not after, once Install() finally notices.
	if cfg.FullTunnel() && gateway == "" {
		return wgerr.Routing("cannot set up full-tunnel VPN routing: the system's default gateway could not be detected")
	}

	engine, err := newEngine()
	if err != nil {
		return err
	}
	if err := router.AssignAddress(engine.Name(), cfg.LocalAddress); err != nil {
		_ = engine.Close()
		return err
	}
	if err := engine.Configure(cfg); err != nil {
		_ = engine.Close()
		return err
	}
	if err := engine.Up(); err != nil {
		_ = engine.Close()
		return err
	}

	serverIP := cfg.Endpoint.IP.String()
	if err := router.Install(engine.Name(), serverIP, gateway, cfg.AllowedIPs); err != nil {
		_ = engine.Close()
		return err
	}

	s.active = &activeTunnel{
		sessionID: sessionID,
		engine:    engine,
		router:    router,
		serverIP:  serverIP,
		gateway:   gateway,
	}
	log.Info("tunnel established", "local_address", cfg.LocalAddress)
	return nil
}

// Disconnect tears down the active tunnel, if any. Calling it with no
// active tunnel is a no-op, matching the supervised-singleton contract.
func (s *Supervisor) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disconnectLocked()
	return nil
}

func (s *Supervisor) disconnectLocked() {
	if s.active == nil {
		return
	}
	t := s.active
	s.active = nil

	log := slog.With("session", t.sessionID)
	log.Info("stopping tunnel")

	t.router.Uninstall(t.engine.Name(), t.serverIP, t.gateway)
	if err := t.engine.Close(); err != nil {
		log.Warn("error closing WireGuard engine", "error", err)
	}
	log.Info("tunnel stopped")
}

// IsActive reports whether a tunnel is currently up.
func (s *Supervisor) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active != nil
}

