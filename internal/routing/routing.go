// Package routing captures and restores the host's routing table around a
// tunnel session: it discovers the pre-VPN default gateway, pins the
// WireGuard server's own endpoint to that gateway (so handshake packets
// never loop through the TUN), and pushes the peer's AllowedIPs onto the
// tunnel interface.
package routing

import (
	"log/slog"
	"net"
	"strings"

	"github.com/november1306/createmyvpn/internal/wgerr"
)

// Controller installs and removes the routes for one tunnel session. Each
// OS ships its own implementation behind this interface; see
// routing_linux.go, routing_darwin.go, routing_windows.go.
type Controller interface {
	// AssignAddress gives the TUN interface its point-to-point local
	// address with a /32 netmask and brings the interface up.
	// golang.zx2c4.com/wireguard/tun creates the interface but never
	// assigns it an address — that step is always a platform-specific
	// shell-out, so it lives here alongside the rest of the route plumbing.
	AssignAddress(tunName, localAddress string) error

	// CaptureGateway returns the host's current default gateway IP, or ""
	// if none could be discovered.
	CaptureGateway() string

	// Install pins serverIP to gateway (if non-empty) and routes cidrs onto
	// the named TUN interface, splitting "0.0.0.0/0" into two /1 routes so
	// it never outranks the server pin. Returns a RoutingError if cidrs
	// requires full-tunnel routing and gateway is empty.
	Install(tunName, serverIP, gateway string, cidrs []string) error

	// Uninstall removes the two full-tunnel /1 halves and, when gateway is
	// non-empty, the server pin. Other AllowedIPs routes that Install added
	// are not deleted by it. Best-effort: the result of each delete command
	// is discarded, so failures are neither returned nor logged.
	Uninstall(tunName, serverIP, gateway string)
}

// New returns the Controller for the running OS.
func New() Controller { return newPlatformController() }

const (
	fullTunnelCIDR = "0.0.0.0/0"
	lowerHalf      = "0.0.0.0/1"
	upperHalf      = "128.0.0.0/1"
)

func isFullTunnel(cidrs []string) bool {
	for _, c := range cidrs {
		if c == fullTunnelCIDR {
			return true
		}
	}
	return false
}

// splitCIDRs expands 0.0.0.0/0 into the two /1 halves used by every
// platform to avoid out-ranking the per-server pin route, and leaves every
// other entry untouched.
func splitCIDRs(cidrs []string) []string {
	out := make([]string, 0, len(cidrs)+1)
	for _, c := range cidrs {
		if c == fullTunnelCIDR {
			out = append(out, lowerHalf, upperHalf)
			continue
		}
		out = append(out, c)
	}
	return out
}

// noGatewayError builds the RoutingError returned when full-tunnel routing
// is requested but no default gateway could be discovered.
func noGatewayError() error {
	return wgerr.Routing("cannot set up full-tunnel VPN routing: the system's default gateway could not be detected")
}

// serverHost strips any port suffix from an endpoint string ("1.2.3.4:51820"),
// returning just the IP, for use as a route destination.
func serverHost(endpoint string) string {
	host, _, err := net.SplitHostPort(endpoint)
	if err != nil {
		return endpoint
	}
	return host
}

// logIgnoredRouteError logs a non-fatal route command failure at warn
// level, unless it matches one of the "route already present" idioms each
// platform's route tool uses for an add that's a harmless no-op.
func logIgnoredRouteError(op, detail, stderr string) {
	lower := strings.ToLower(stderr)
	if strings.Contains(lower, "file exists") || strings.Contains(lower, "already exists") {
		return
	}
	slog.Warn("route command reported an error", "op", op, "detail", detail, "stderr", strings.TrimSpace(stderr))
}
