//go:build !windows

package wireguard

import (
	"golang.zx2c4.com/wireguard/tun"

	"github.com/november1306/createmyvpn/internal/wgerr"
)

// createTUN creates the TUN device on Linux/macOS via the upstream library,
// which opens /dev/net/tun (Linux) or a utun interface (macOS).
func createTUN(name string, mtu int) (tun.Device, error) {
	dev, err := tun.CreateTUN(name, mtu)
	if err != nil {
		return nil, wgerr.TunCreate(err)
	}
	return dev, nil
}
