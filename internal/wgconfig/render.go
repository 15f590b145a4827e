package wgconfig

import "fmt"

// ServerRenderInput feeds RenderServerConfig.
type ServerRenderInput struct {
	ServerPrivateKey string
	ClientPublicKey  string
	ListenPort       uint16
	ExternalIface    string // e.g. "eth0", used in the NAT PostUp/PostDown rules
	WGIface          string // e.g. "wg0"
}

// ClientRenderInput feeds RenderClientConfig.
type ClientRenderInput struct {
	ClientPrivateKey string
	ServerPublicKey  string
	EndpointIP       string
	EndpointPort     uint16
}

// RenderServerConfig renders the server-side wg0.conf text: the Interface
// section (address, listen port, private key, NAT masquerading PostUp/
// PostDown rules) and a Peer entry for the single client.
func RenderServerConfig(in ServerRenderInput) string {
	iface := in.WGIface
	if iface == "" {
		iface = "wg0"
	}
	ext := in.ExternalIface
	if ext == "" {
		ext = "eth0"
	}
	return fmt.Sprintf(`[Interface]
Address = 10.8.0.1/24
ListenPort = %d
PrivateKey = %s

# NAT masquerading rules
PostUp = iptables -t nat -A POSTROUTING -o %s -j MASQUERADE
PostUp = iptables -A FORWARD -i %s -j ACCEPT
PostUp = iptables -A FORWARD -o %s -j ACCEPT
PostDown = iptables -t nat -D POSTROUTING -o %s -j MASQUERADE
PostDown = iptables -D FORWARD -i %s -j ACCEPT
PostDown = iptables -D FORWARD -o %s -j ACCEPT

[Peer]
PublicKey = %s
AllowedIPs = 10.8.0.2/32
`, in.ListenPort, in.ServerPrivateKey, ext, iface, iface, ext, iface, iface, in.ClientPublicKey)
}

// RenderClientConfig renders the client-side .conf text that Parse can
// round-trip exactly (spec.md §8 S5).
func RenderClientConfig(in ClientRenderInput) string {
	return fmt.Sprintf(`[Interface]
PrivateKey = %s
Address = 10.8.0.2/32
DNS = 1.1.1.1

[Peer]
PublicKey = %s
Endpoint = %s:%d
AllowedIPs = 0.0.0.0/0
PersistentKeepalive = 25
`, in.ClientPrivateKey, in.ServerPublicKey, in.EndpointIP, in.EndpointPort)
}
