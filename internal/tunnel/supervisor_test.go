package tunnel

import (
	"strings"
	"testing"

	"github.com/november1306/createmyvpn/internal/routing"
)

const testConfig = `[Interface]
PrivateKey = yAnz5TF+lXXJte14tji3zlMNq+hd2rYUIgJBgB3fBmk=
Address = 10.8.0.2/32
DNS = 1.1.1.1

[Peer]
PublicKey = xTIBA5rboUvnH4htodjb6e697QjLERt1NAB4mZqp8Dg=
Endpoint = 1.2.3.4:51820
AllowedIPs = 0.0.0.0/0
PersistentKeepalive = 25
`

func TestSupervisor_IsActive_InitiallyFalse(t *testing.T) {
	s := New()
	if s.IsActive() {
		t.Error("IsActive() = true on a freshly constructed Supervisor")
	}
}

func TestSupervisor_Disconnect_NoopWhenIdle(t *testing.T) {
	s := New()
	if err := s.Disconnect(); err != nil {
		t.Errorf("Disconnect() on idle supervisor = %v, want nil", err)
	}
}

func TestSupervisor_Connect_RejectsMalformedConfig(t *testing.T) {
	s := New()
	if err := s.Connect("not a valid config"); err == nil {
		t.Fatal("expected error for malformed config")
	}
	if s.IsActive() {
		t.Error("IsActive() = true after a failed Connect")
	}
}

// Creating the TUN device requires elevated privileges this test
// environment does not have. Connect is expected to fail with a
// TunCreateError, IOError or RoutingError rather than panic or hang; that's
// what we assert here, mirroring how the rest of this codebase tests
// privileged operations.
func TestSupervisor_Connect_FailsGracefullyWithoutPrivileges(t *testing.T) {
	s := New()
	err := s.Connect(testConfig)
	if err == nil {
		// Running as root/Administrator in CI: tear the tunnel back down.
		if derr := s.Disconnect(); derr != nil {
			t.Errorf("Disconnect() after successful Connect = %v", derr)
		}
		return
	}
	switch {
	case strings.Contains(err.Error(), "TunCreateError"),
		strings.Contains(err.Error(), "IOError"),
		strings.Contains(err.Error(), "RoutingError"):
		// testConfig is full-tunnel, so a test environment with no
		// discoverable default gateway fails before TUN creation is ever
		// attempted; one with a gateway but no privileges fails at TUN
		// creation itself. Both are acceptable here.
	default:
		t.Errorf("Connect() error = %v, want a TunCreateError, IOError, or RoutingError", err)
	}
	if s.IsActive() {
		t.Error("IsActive() = true after a failed Connect")
	}
}

// fakeRouter is a routing.Controller that never touches the host routing
// table, letting Connect's ordering be tested without root/Administrator.
type fakeRouter struct {
	gateway string
}

func (f fakeRouter) AssignAddress(tunName, localAddress string) error { return nil }
func (f fakeRouter) CaptureGateway() string                          { return f.gateway }
func (f fakeRouter) Install(tunName, serverIP, gateway string, cidrs []string) error {
	return nil
}
func (f fakeRouter) Uninstall(tunName, serverIP, gateway string) {}

// S7 — a full-tunnel config with no discoverable gateway must fail with a
// RoutingError before the engine is ever constructed, not after.
func TestSupervisor_Connect_FullTunnelWithoutGateway_NeverCreatesEngine(t *testing.T) {
	origRouter, origEngine := newRouter, newEngine
	defer func() { newRouter, newEngine = origRouter, origEngine }()

	newRouter = func() routing.Controller { return fakeRouter{gateway: ""} }
	engineCreated := false
	newEngine = func() (engineHandle, error) {
		engineCreated = true
		t.Fatal("engine constructor called despite no discoverable gateway")
		return nil, nil
	}

	s := New()
	err := s.Connect(testConfig)
	if err == nil {
		t.Fatal("expected a RoutingError, got nil")
	}
	if !strings.Contains(err.Error(), "RoutingError") {
		t.Errorf("Connect() error = %v, want a RoutingError", err)
	}
	if engineCreated {
		t.Error("engine was constructed before the gateway check could fail")
	}
	if s.IsActive() {
		t.Error("IsActive() = true after a failed Connect")
	}
}
