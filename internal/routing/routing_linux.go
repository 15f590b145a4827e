//go:build linux

package routing

import (
	"os/exec"
	"strings"

	"github.com/november1306/createmyvpn/internal/wgerr"
)

func newPlatformController() Controller { return linuxController{} }

type linuxController struct{}

func (linuxController) AssignAddress(tunName, localAddress string) error {
	logIgnoredRouteError("addr add", localAddress,
		runCapture("ip", "addr", "add", localAddress+"/32", "dev", tunName))
	if out, err := exec.Command("ip", "link", "set", "up", "dev", tunName).CombinedOutput(); err != nil {
		return wgerr.IO(err, "failed to bring up %s: %s", tunName, strings.TrimSpace(string(out)))
	}
	return nil
}

// CaptureGateway tries "ip route show default" first, falling back to
// "ip route get 8.8.8.8" for WSL2 and other non-standard setups that don't
// surface a plain default route.
func (linuxController) CaptureGateway() string {
	if gw := parseViaField(runCapture("ip", "route", "show", "default")); gw != "" {
		return gw
	}
	return parseViaField(runCapture("ip", "route", "get", "8.8.8.8"))
}

func parseViaField(output string) string {
	fields := strings.Fields(output)
	for i := 0; i+1 < len(fields); i++ {
		if fields[i] == "via" {
			return fields[i+1]
		}
	}
	return ""
}

func (linuxController) Install(tunName, serverIP, gateway string, cidrs []string) error {
	if gateway != "" {
		logIgnoredRouteError("route add (server pin)", serverIP, runCapture("ip", "route", "add", serverIP, "via", gateway))
	} else if isFullTunnel(cidrs) {
		return noGatewayError()
	}

	for _, cidr := range splitCIDRs(cidrs) {
		logIgnoredRouteError("route add", cidr, runCapture("ip", "route", "add", cidr, "dev", tunName))
	}
	return nil
}

func (linuxController) Uninstall(tunName, serverIP, gateway string) {
	for _, half := range []string{lowerHalf, upperHalf} {
		_ = exec.Command("ip", "route", "del", half, "dev", tunName).Run()
	}
	if gateway != "" {
		_ = exec.Command("ip", "route", "del", serverIP, "via", gateway).Run()
	}
}

// runCapture runs name with args and returns combined stdout+stderr text,
// swallowing the exec error itself — callers only care about the text.
func runCapture(name string, args ...string) string {
	out, _ := exec.Command(name, args...).CombinedOutput()
	return string(out)
}
