// Package wgerr defines the error taxonomy shared by the tunnel engine:
// config parsing, TUN creation, routing, protocol, and I/O failures are
// each a distinct kind so callers (and tests) can discriminate on them
// with errors.Is/errors.As instead of matching message substrings.
package wgerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies which part of the system raised an error.
type Kind int

const (
	// KindConfig marks a malformed or incomplete client configuration.
	KindConfig Kind = iota
	// KindTunCreate marks a failure to create the TUN device.
	KindTunCreate
	// KindRouting marks a failure to discover or install routes.
	KindRouting
	// KindProtocol marks a fatal WireGuard handshake/crypto failure.
	KindProtocol
	// KindIO marks a UDP bind/connect or TUN read/write startup failure.
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "ConfigError"
	case KindTunCreate:
		return "TunCreateError"
	case KindRouting:
		return "RoutingError"
	case KindProtocol:
		return "ProtocolError"
	case KindIO:
		return "IOError"
	default:
		return "Error"
	}
}

// Error wraps an underlying cause with a Kind and an optional remediation
// hint shown to the user when the cause is a known host-environment issue.
type Error struct {
	Kind      Kind
	Message   string
	Remedy    string
	Cause     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	if e.Remedy != "" {
		b.WriteString("\n\n")
		b.WriteString(e.Remedy)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error with the same Kind, so
// errors.Is(err, wgerr.Config("")) style checks work without exposing Kind
// comparison to callers directly.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

func newf(kind Kind, remedy, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Remedy: remedy}
}

func wrapf(kind Kind, cause error, remedy, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Remedy: remedy, Cause: cause}
}

// Config builds a ConfigError with no remediation text (the message alone
// describes what's missing or malformed).
func Config(format string, args ...any) *Error {
	return newf(KindConfig, "", format, args...)
}

// TunCreate classifies a raw OS error from TUN creation into one of the
// distinct sub-cases spec'd in the error taxonomy, picking remediation text
// by matching substrings of the OS error text. This substring matching is
// fragile by nature (see DESIGN.md) but the distinction it produces —
// permission vs. driver-missing vs. driver-untrusted vs. generic — is load
// bearing for what we tell the user.
func TunCreate(cause error) *Error {
	msg := cause.Error()
	switch {
	case strings.Contains(msg, "operation not permitted") || strings.Contains(msg, "Operation not permitted") ||
		strings.Contains(msg, "access is denied") || strings.Contains(msg, "Access is denied") ||
		strings.Contains(msg, "permission denied"):
		return wrapf(KindTunCreate, cause,
			"Grant the capability needed to create a TUN device, then try again:\n"+
				"  Linux:   sudo setcap cap_net_admin+ep <path-to-binary>\n"+
				"  Windows: re-run as Administrator",
			"cannot create TUN device — permission denied")
	case strings.Contains(msg, "no such file") || strings.Contains(msg, "No such file") || strings.Contains(msg, "os error 2"):
		return wrapf(KindTunCreate, cause,
			"Load the TUN kernel module, then try again:\n"+
				"  sudo modprobe tun\n"+
				"To make it persistent across reboots:\n"+
				"  echo 'tun' | sudo tee /etc/modules-load.d/tun.conf",
			"cannot create TUN device — /dev/net/tun not found")
	case strings.Contains(msg, "not signed") || strings.Contains(msg, "not trusted") || strings.Contains(msg, "Signer") ||
		strings.Contains(msg, "untrusted"):
		return wrapf(KindTunCreate, cause,
			"Replace wintun.dll next to the executable with the official WireGuard LLC-signed build:\n"+
				"  1. Download from https://www.wintun.net\n"+
				"  2. Extract wintun/bin/amd64/wintun.dll from the ZIP\n"+
				"  3. Place it next to the executable and restart",
			"cannot create TUN device — the wintun.dll present is not accepted")
	default:
		return wrapf(KindTunCreate, cause, "", "failed to create TUN device")
	}
}

// MissingWintunDLL reports that wintun.dll was not found next to the
// executable before a TUN creation attempt was even made.
func MissingWintunDLL(dir string) *Error {
	return newf(KindTunCreate,
		fmt.Sprintf(
			"This build bundles the WinTUN driver DLL to create a VPN tunnel.\n"+
				"1. Download the WinTUN ZIP from https://www.wintun.net\n"+
				"2. Extract wintun/bin/amd64/wintun.dll from the ZIP\n"+
				"3. Place wintun.dll in: %s\n"+
				"4. Restart and try connecting again.", dir),
		"wintun.dll not found next to the executable")
}

// Routing builds a RoutingError — only raised when full-tunnel routing is
// requested but the original default gateway could not be discovered.
func Routing(format string, args ...any) *Error {
	return newf(KindRouting,
		"Check that a default route exists on this host before connecting full-tunnel.",
		format, args...)
}

// Protocol builds a ProtocolError for a fatal handshake/crypto failure.
func Protocol(cause error) *Error {
	return wrapf(KindProtocol, cause, "", "WireGuard protocol error")
}

// IO builds an IOError for a UDP bind/connect or TUN read/write startup
// failure (in-loop per-packet errors are logged, never wrapped here).
func IO(cause error, format string, args ...any) *Error {
	return wrapf(KindIO, cause, "", format, args...)
}
