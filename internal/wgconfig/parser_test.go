package wgconfig

import (
	"strings"
	"testing"
)

const validConfig = `[Interface]
PrivateKey = yAnz5TF+lXXJte14tji3zlMNq+hd2rYUIgJBgB3fBmk=
Address = 10.8.0.2/32
DNS = 1.1.1.1

[Peer]
PublicKey = xTIBA5rboUvnH4htodjb6e697QjLERt1NAB4mZqp8Dg=
Endpoint = 1.2.3.4:51820
AllowedIPs = 0.0.0.0/0
PersistentKeepalive = 25
`

// S1 — Parser happy path.
func TestParse_HappyPath(t *testing.T) {
	cfg, err := Parse(validConfig)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if cfg.LocalAddress != "10.8.0.2" {
		t.Errorf("LocalAddress = %q, want 10.8.0.2", cfg.LocalAddress)
	}
	if cfg.Endpoint.String() != "1.2.3.4:51820" {
		t.Errorf("Endpoint = %q, want 1.2.3.4:51820", cfg.Endpoint.String())
	}
	if len(cfg.AllowedIPs) != 1 || cfg.AllowedIPs[0] != "0.0.0.0/0" {
		t.Errorf("AllowedIPs = %v, want [0.0.0.0/0]", cfg.AllowedIPs)
	}
	if cfg.PersistentKeepalive == nil || *cfg.PersistentKeepalive != 25 {
		t.Errorf("PersistentKeepalive = %v, want 25", cfg.PersistentKeepalive)
	}
	if cfg.DNS != "1.1.1.1" {
		t.Errorf("DNS = %q, want 1.1.1.1", cfg.DNS)
	}
	if !cfg.FullTunnel() {
		t.Error("FullTunnel() = false, want true")
	}
}

// S2 — Multiple AllowedIPs, order preserved and surrounding whitespace trimmed.
func TestParse_MultipleAllowedIPs(t *testing.T) {
	conf := strings.Replace(validConfig, "AllowedIPs = 0.0.0.0/0", "AllowedIPs = 10.0.0.0/8, 192.168.1.0/24", 1)
	cfg, err := Parse(conf)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	want := []string{"10.0.0.0/8", "192.168.1.0/24"}
	if len(cfg.AllowedIPs) != len(want) {
		t.Fatalf("AllowedIPs = %v, want %v", cfg.AllowedIPs, want)
	}
	for i := range want {
		if cfg.AllowedIPs[i] != want[i] {
			t.Errorf("AllowedIPs[%d] = %q, want %q", i, cfg.AllowedIPs[i], want[i])
		}
	}
	if cfg.FullTunnel() {
		t.Error("FullTunnel() = true, want false")
	}
}

// S3 — Missing PrivateKey.
func TestParse_MissingPrivateKey(t *testing.T) {
	conf := "[Interface]\nAddress = 10.8.0.2/32\n\n[Peer]\nPublicKey = xTIBA5rboUvnH4htodjb6e697QjLERt1NAB4mZqp8Dg=\nEndpoint = 1.2.3.4:51820\nAllowedIPs = 0.0.0.0/0\n"
	_, err := Parse(conf)
	if err == nil {
		t.Fatal("expected error for missing PrivateKey")
	}
	if !strings.Contains(err.Error(), "PrivateKey") {
		t.Errorf("error %q does not mention PrivateKey", err.Error())
	}
}

// S4 — Malformed Endpoint.
func TestParse_MalformedEndpoint(t *testing.T) {
	conf := strings.Replace(validConfig, "1.2.3.4:51820", "not-an-address", 1)
	if _, err := Parse(conf); err == nil {
		t.Fatal("expected error for malformed endpoint")
	}
}

func TestParse_MissingEndpoint(t *testing.T) {
	conf := "[Interface]\nPrivateKey = yAnz5TF+lXXJte14tji3zlMNq+hd2rYUIgJBgB3fBmk=\nAddress = 10.8.0.2/32\n\n[Peer]\nPublicKey = xTIBA5rboUvnH4htodjb6e697QjLERt1NAB4mZqp8Dg=\nAllowedIPs = 0.0.0.0/0\n"
	_, err := Parse(conf)
	if err == nil {
		t.Fatal("expected error for missing Endpoint")
	}
	if !strings.Contains(err.Error(), "Endpoint") {
		t.Errorf("error %q does not mention Endpoint", err.Error())
	}
}

func TestParse_StripsCIDRFromAddress(t *testing.T) {
	conf := strings.Replace(validConfig, "10.8.0.2/32", "10.0.0.5/24", 1)
	cfg, err := Parse(conf)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if cfg.LocalAddress != "10.0.0.5" {
		t.Errorf("LocalAddress = %q, want 10.0.0.5", cfg.LocalAddress)
	}
}

func TestParse_OptionalDNSMissing(t *testing.T) {
	conf := strings.Replace(validConfig, "DNS = 1.1.1.1\n", "", 1)
	cfg, err := Parse(conf)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if cfg.DNS != "" {
		t.Errorf("DNS = %q, want empty", cfg.DNS)
	}
}

func TestParse_IgnoresCommentsAndBlankLines(t *testing.T) {
	conf := "# comment\n\n" + validConfig
	cfg, err := Parse(conf)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if cfg.LocalAddress != "10.8.0.2" {
		t.Errorf("LocalAddress = %q, want 10.8.0.2", cfg.LocalAddress)
	}
}

func TestParse_KeepaliveUnparsableYieldsNone(t *testing.T) {
	conf := strings.Replace(validConfig, "PersistentKeepalive = 25", "PersistentKeepalive = not-a-number", 1)
	cfg, err := Parse(conf)
	if err != nil {
		t.Fatalf("Parse() should not fail on bad keepalive: %v", err)
	}
	if cfg.PersistentKeepalive != nil {
		t.Errorf("PersistentKeepalive = %v, want nil", cfg.PersistentKeepalive)
	}
	if cfg.KeepaliveOrDefault() != 25 {
		t.Errorf("KeepaliveOrDefault() = %d, want 25", cfg.KeepaliveOrDefault())
	}
}

// Invariant 2: decode_key(encode(bytes32)) == bytes32; wrong length errors.
func TestDecodeKey(t *testing.T) {
	t.Run("valid 32 bytes", func(t *testing.T) {
		b64 := "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA="
		bytes, err := DecodeKey(b64)
		if err != nil {
			t.Fatalf("DecodeKey() failed: %v", err)
		}
		for _, b := range bytes {
			if b != 0 {
				t.Fatal("expected all-zero bytes")
			}
		}
	})

	t.Run("invalid base64 errors", func(t *testing.T) {
		if _, err := DecodeKey("not-valid-base64!!!"); err == nil {
			t.Error("expected error for invalid base64")
		}
	})

	t.Run("wrong length errors", func(t *testing.T) {
		_, err := DecodeKey("AAAAAAAAAAAAAAAAAAAAAA==") // 16 bytes
		if err == nil {
			t.Fatal("expected error for wrong length")
		}
		if !strings.Contains(err.Error(), "32 bytes") {
			t.Errorf("error %q does not mention 32 bytes", err.Error())
		}
	})
}
