// Package wgconfig parses and renders WireGuard client/server .conf text.
//
// Parsing never touches the network or filesystem: callers read the config
// text themselves (from a file, a registration response, wherever) and pass
// it to Parse.
package wgconfig

import (
	"encoding/base64"
	"net"
	"strconv"
	"strings"

	"github.com/november1306/createmyvpn/internal/wgerr"
)

// ParsedConfig is the structured form of a client configuration.
type ParsedConfig struct {
	PrivateKey          [32]byte
	LocalAddress        string // stripped of any CIDR suffix
	DNS                 string // informational only, empty if absent
	PeerPublicKey       [32]byte
	Endpoint            *net.UDPAddr
	AllowedIPs          []string // order preserved
	PersistentKeepalive *uint16  // nil if absent or unparseable
}

// FullTunnel reports whether AllowedIPs contains the full-tunnel marker.
func (c *ParsedConfig) FullTunnel() bool {
	for _, ip := range c.AllowedIPs {
		if ip == "0.0.0.0/0" {
			return true
		}
	}
	return false
}

// KeepaliveOrDefault returns PersistentKeepalive, or 25 whenever it was
// absent or unparseable, regardless of AllowedIPs (matches the client
// renderer's default, spec.md §3).
func (c *ParsedConfig) KeepaliveOrDefault() uint16 {
	if c.PersistentKeepalive != nil {
		return *c.PersistentKeepalive
	}
	return 25
}

// Parse parses WireGuard INI-style client config text into a ParsedConfig.
// Recognised sections are [Interface] and [Peer]; blank lines, lines
// starting with '#', and lines without '=' are skipped. Section headers
// reset the current section.
func Parse(conf string) (*ParsedConfig, error) {
	var (
		privateKeyB64 string
		address       string
		dns           string
		publicKeyB64  string
		endpointStr   string
		allowedIPs    []string
		keepalive     *uint16
	)

	section := ""
	for _, rawLine := range strings.Split(conf, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			section = line
			continue
		}

		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)

		switch section {
		case "[Interface]":
			switch key {
			case "PrivateKey":
				privateKeyB64 = val
			case "Address":
				address, _, _ = strings.Cut(val, "/")
			case "DNS":
				dns = val
			}
		case "[Peer]":
			switch key {
			case "PublicKey":
				publicKeyB64 = val
			case "Endpoint":
				endpointStr = val
			case "AllowedIPs":
				allowedIPs = nil
				for _, cidr := range strings.Split(val, ",") {
					allowedIPs = append(allowedIPs, strings.TrimSpace(cidr))
				}
			case "PersistentKeepalive":
				if n, err := strconv.ParseUint(val, 10, 16); err == nil {
					v := uint16(n)
					keepalive = &v
				}
			}
		}
	}

	if privateKeyB64 == "" {
		return nil, wgerr.Config("config missing [Interface] PrivateKey")
	}
	if address == "" {
		return nil, wgerr.Config("config missing [Interface] Address")
	}
	if publicKeyB64 == "" {
		return nil, wgerr.Config("config missing [Peer] PublicKey")
	}
	if endpointStr == "" {
		return nil, wgerr.Config("config missing [Peer] Endpoint")
	}

	privateKey, err := DecodeKey(privateKeyB64)
	if err != nil {
		return nil, err
	}
	publicKey, err := DecodeKey(publicKeyB64)
	if err != nil {
		return nil, err
	}

	endpoint, err := parseEndpoint(endpointStr)
	if err != nil {
		return nil, wgerr.Config("invalid endpoint address %q: %v", endpointStr, err)
	}

	return &ParsedConfig{
		PrivateKey:          privateKey,
		LocalAddress:        address,
		DNS:                 dns,
		PeerPublicKey:       publicKey,
		Endpoint:            endpoint,
		AllowedIPs:          allowedIPs,
		PersistentKeepalive: keepalive,
	}, nil
}

// parseEndpoint parses a literal "IPv4:port" endpoint without ever
// resolving a hostname — the endpoint is always given as a literal address
// (spec Non-goals: no DNS resolution of the endpoint).
func parseEndpoint(s string) (*net.UDPAddr, error) {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return nil, err
	}
	ip := net.ParseIP(host)
	if ip == nil || ip.To4() == nil {
		return nil, wgerr.Config("endpoint host %q is not a literal IPv4 address", host)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return nil, err
	}
	return &net.UDPAddr{IP: ip.To4(), Port: int(port)}, nil
}

// DecodeKey base64-decodes a WireGuard key and enforces exact 32-byte length.
func DecodeKey(b64 string) ([32]byte, error) {
	var out [32]byte
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return out, wgerr.Config("failed to decode WireGuard key: %v", err)
	}
	if len(raw) != 32 {
		return out, wgerr.Config("WireGuard key must be exactly 32 bytes, got %d", len(raw))
	}
	copy(out[:], raw)
	return out, nil
}
