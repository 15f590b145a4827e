//go:build windows

package routing

import (
	"fmt"
	"net"
	"os/exec"
	"strconv"
	"strings"

	"github.com/november1306/createmyvpn/internal/wgerr"
)

func newPlatformController() Controller { return windowsController{} }

type windowsController struct{}

// AssignAddress sets the wintun adapter's static address via netsh, the
// standard way to configure a Windows adapter that has no DHCP client of
// its own.
func (windowsController) AssignAddress(tunName, localAddress string) error {
	cmd := fmt.Sprintf(`netsh interface ip set address name="%s" static %s 255.255.255.255`, tunName, localAddress)
	out, err := exec.Command("cmd", "/C", cmd).CombinedOutput()
	if err != nil {
		return wgerr.IO(err, "failed to assign address to %s: %s", tunName, strings.TrimSpace(string(out)))
	}
	return nil
}

// CaptureGateway queries the lowest-metric default route via PowerShell,
// since Windows has no plain-text equivalent of "ip route show default".
func (windowsController) CaptureGateway() string {
	out := powershell(
		"(Get-NetRoute -DestinationPrefix '0.0.0.0/0' | " +
			"Sort-Object RouteMetric | Select-Object -First 1).NextHop",
	)
	gw := strings.TrimSpace(out)
	if gw == "" || gw == "0.0.0.0" {
		return ""
	}
	return gw
}

// tunInterfaceIndex resolves the Windows interface index for the named
// adapter, needed so "route add ... IF <idx>" targets the tunnel and not
// whatever adapter happens to own the lowest metric.
func tunInterfaceIndex(name string) (uint32, bool) {
	out := powershell(fmt.Sprintf(
		"(Get-NetAdapter -Name '%s' -ErrorAction SilentlyContinue).ifIndex", name))
	idx, err := strconv.ParseUint(strings.TrimSpace(out), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(idx), true
}

func (windowsController) Install(tunName, serverIP, gateway string, cidrs []string) error {
	if gateway != "" {
		logIgnoredRouteError("route add (server pin)", serverIP,
			runCapture("route", "add", serverIP, "mask", "255.255.255.255", gateway))
	} else if isFullTunnel(cidrs) {
		return noGatewayError()
	}

	routed := splitCIDRs(cidrs)
	if len(routed) == 0 {
		return nil
	}

	idx, ok := tunInterfaceIndex(tunName)
	if !ok {
		return nil // can't resolve the adapter index; leave routing to the server pin alone
	}
	idxStr := strconv.FormatUint(uint64(idx), 10)
	for _, cidr := range routed {
		network, mask, ok := networkAndMask(cidr)
		if !ok {
			continue
		}
		logIgnoredRouteError("route add", cidr,
			runCapture("route", "add", network, "mask", mask, "0.0.0.0", "metric", "6", "IF", idxStr))
	}
	return nil
}

// networkAndMask converts a CIDR such as "10.0.0.0/8" into the network and
// dotted-decimal netmask form Windows' route command expects in place of
// CIDR notation.
func networkAndMask(cidr string) (network, mask string, ok bool) {
	_, ipnet, err := net.ParseCIDR(cidr)
	if err != nil {
		return "", "", false
	}
	return ipnet.IP.String(), net.IP(ipnet.Mask).String(), true
}

func (windowsController) Uninstall(tunName, serverIP, gateway string) {
	_ = exec.Command("route", "delete", "0.0.0.0", "mask", "128.0.0.0").Run()
	_ = exec.Command("route", "delete", "128.0.0.0", "mask", "128.0.0.0").Run()
	_ = exec.Command("route", "delete", serverIP, "mask", "255.255.255.255").Run()
}

func powershell(script string) string {
	out, _ := exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script).Output()
	return string(out)
}

func runCapture(name string, args ...string) string {
	out, _ := exec.Command(name, args...).CombinedOutput()
	return string(out)
}
