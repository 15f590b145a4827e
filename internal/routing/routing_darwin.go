//go:build darwin

package routing

import (
	"os/exec"
	"strings"

	"github.com/november1306/createmyvpn/internal/wgerr"
)

func newPlatformController() Controller { return darwinController{} }

type darwinController struct{}

// AssignAddress mirrors the "ipconfig set <if> MANUAL <ip> <mask>" idiom
// used to bring up a utun interface point-to-point before routes can use it.
func (darwinController) AssignAddress(tunName, localAddress string) error {
	if out, err := exec.Command("/usr/sbin/ipconfig", "set", tunName, "MANUAL", localAddress, "255.255.255.255").CombinedOutput(); err != nil {
		return wgerr.IO(err, "failed to assign address to %s: %s", tunName, strings.TrimSpace(string(out)))
	}
	return nil
}

func (darwinController) CaptureGateway() string {
	out := runCapture("route", "-n", "get", "default")
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "gateway:"); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

func (darwinController) Install(tunName, serverIP, gateway string, cidrs []string) error {
	if gateway != "" {
		_ = exec.Command("route", "add", serverIP+"/32", gateway).Run()
	} else if isFullTunnel(cidrs) {
		return noGatewayError()
	}

	if isFullTunnel(cidrs) {
		_ = exec.Command("route", "add", "-net", lowerHalf, "-interface", tunName).Run()
		_ = exec.Command("route", "add", "-net", upperHalf, "-interface", tunName).Run()
	}
	for _, cidr := range cidrs {
		if cidr == fullTunnelCIDR {
			continue
		}
		_ = exec.Command("route", "add", "-net", cidr, "-interface", tunName).Run()
	}
	return nil
}

func (darwinController) Uninstall(tunName, serverIP, gateway string) {
	_ = exec.Command("route", "delete", "-net", lowerHalf).Run()
	_ = exec.Command("route", "delete", "-net", upperHalf).Run()
	if gateway != "" {
		_ = exec.Command("route", "delete", serverIP+"/32", gateway).Run()
	}
}

func runCapture(name string, args ...string) string {
	out, _ := exec.Command(name, args...).CombinedOutput()
	return string(out)
}
