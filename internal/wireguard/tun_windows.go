//go:build windows

package wireguard

import (
	"os"
	"path/filepath"

	"golang.zx2c4.com/wireguard/tun"

	"github.com/november1306/createmyvpn/internal/wgerr"
)

// createTUN creates the TUN device on Windows via wintun. The underlying
// library loads "wintun.dll" by searching next to the executable, but its
// failure mode when the DLL is simply absent is an opaque LoadLibrary
// error — so we check for the file ourselves first and raise the
// actionable MissingWintunDLL error before ever calling CreateTUN.
func createTUN(name string, mtu int) (tun.Device, error) {
	exePath, err := os.Executable()
	if err != nil {
		return nil, wgerr.TunCreate(err)
	}
	exeDir := filepath.Dir(exePath)
	dllPath := filepath.Join(exeDir, "wintun.dll")

	if _, err := os.Stat(dllPath); err != nil {
		if os.IsNotExist(err) {
			return nil, wgerr.MissingWintunDLL(exeDir)
		}
		return nil, wgerr.TunCreate(err)
	}

	dev, err := tun.CreateTUN(name, mtu)
	if err != nil {
		return nil, wgerr.TunCreate(err)
	}
	return dev, nil
}
