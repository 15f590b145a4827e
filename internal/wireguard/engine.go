// Package wireguard wraps golang.zx2c4.com/wireguard's userspace device
// into the protocol engine + TUN + UDP transport described by the tunnel
// spec (see SPEC_FULL.md §4.4–4.6 for why device.Device plays that role).
package wireguard

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.zx2c4.com/wireguard/conn"
	"golang.zx2c4.com/wireguard/device"
	"golang.zx2c4.com/wireguard/tun"

	"github.com/november1306/createmyvpn/internal/wgconfig"
	"github.com/november1306/createmyvpn/internal/wgerr"
)

const (
	// InterfaceName is the TUN interface name used by the tunnel (spec.md §4.5).
	InterfaceName = "createmyvpn0"
	// MTU is the TUN interface MTU (spec.md §4.5).
	MTU = 1420
	// TimerIntervalMS documents the WireGuard timer tick spec.md requires;
	// device.Device services its own handshake/keepalive timers internally
	// at this cadence, so nothing in this package drives it directly.
	TimerIntervalMS = 200
)

// Engine owns the TUN device and the WireGuard session built on top of it.
// It is not safe for concurrent use; the tunnel supervisor owns it
// exclusively for the lifetime of one connection.
type Engine struct {
	dev  *device.Device
	tun  tun.Device
	name string
}

// New creates the TUN interface and the WireGuard device bound to it. The
// device is unconfigured (no keys, no peer) and not yet Up.
func New() (*Engine, error) {
	tunDevice, err := createTUN(InterfaceName, MTU)
	if err != nil {
		return nil, err
	}

	logger := device.NewLogger(device.LogLevelVerbose, fmt.Sprintf("(%s) ", InterfaceName))
	dev := device.NewDevice(tunDevice, conn.NewDefaultBind(), logger)

	return &Engine{dev: dev, tun: tunDevice, name: InterfaceName}, nil
}

// Configure applies the parsed client config to the device via WireGuard's
// UAPI text protocol: private key, peer public key, endpoint, allowed IPs,
// and persistent keepalive. Key material is never logged.
func (e *Engine) Configure(cfg *wgconfig.ParsedConfig) error {
	var b strings.Builder
	fmt.Fprintf(&b, "private_key=%s\n", hex.EncodeToString(cfg.PrivateKey[:]))
	fmt.Fprintf(&b, "public_key=%s\n", hex.EncodeToString(cfg.PeerPublicKey[:]))
	fmt.Fprintf(&b, "endpoint=%s\n", cfg.Endpoint.String())
	for _, cidr := range cfg.AllowedIPs {
		fmt.Fprintf(&b, "allowed_ip=%s\n", cidr)
	}
	fmt.Fprintf(&b, "persistent_keepalive_interval=%d\n", cfg.KeepaliveOrDefault())

	if err := e.dev.IpcSet(b.String()); err != nil {
		return wgerr.Protocol(err)
	}
	return nil
}

// Up brings the device up, starting its internal handshake/keepalive
// timers and TUN/bind pump goroutines (spec.md §4.9's event loop, realized
// by the upstream library — see SPEC_FULL.md §4.4).
func (e *Engine) Up() error {
	if err := e.dev.Up(); err != nil {
		return wgerr.IO(err, "failed to bring up WireGuard device")
	}
	return nil
}

// Close tears down the device and the TUN interface. Safe to call multiple
// times and on a partially-initialized Engine.
func (e *Engine) Close() error {
	var firstErr error
	if e.dev != nil {
		func() {
			defer func() {
				if r := recover(); r != nil {
					firstErr = fmt.Errorf("panic closing WireGuard device: %v", r)
				}
			}()
			e.dev.Close()
		}()
	}
	if e.tun != nil {
		if err := e.tun.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close TUN interface: %w", err)
		}
	}
	return firstErr
}

// Name returns the TUN interface name this engine created.
func (e *Engine) Name() string { return e.name }
