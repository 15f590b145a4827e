// Package wgcrypto generates WireGuard-compatible Curve25519 key pairs.
package wgcrypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/curve25519"
)

// KeyPair is a base64-encoded Curve25519 private/public key pair in
// WireGuard's on-disk format.
type KeyPair struct {
	PrivateKey string
	PublicKey  string
}

// Generate produces a new WireGuard-compatible key pair using crypto/rand.
func Generate() (KeyPair, error) {
	var private [32]byte
	if _, err := rand.Read(private[:]); err != nil {
		return KeyPair{}, fmt.Errorf("failed to generate random bytes: %w", err)
	}

	// Clamp per Curve25519 / WireGuard requirements.
	private[0] &= 248
	private[31] &= 127
	private[31] |= 64

	public, err := curve25519.X25519(private[:], curve25519.Basepoint)
	if err != nil {
		return KeyPair{}, fmt.Errorf("failed to derive public key: %w", err)
	}

	return KeyPair{
		PrivateKey: base64.StdEncoding.EncodeToString(private[:]),
		PublicKey:  base64.StdEncoding.EncodeToString(public),
	}, nil
}

// PublicFromPrivate derives the base64 public key for a base64 private key.
func PublicFromPrivate(privateKeyB64 string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(privateKeyB64)
	if err != nil {
		return "", fmt.Errorf("invalid private key base64: %w", err)
	}
	if len(raw) != 32 {
		return "", fmt.Errorf("private key must be exactly 32 bytes, got %d", len(raw))
	}

	public, err := curve25519.X25519(raw, curve25519.Basepoint)
	if err != nil {
		return "", fmt.Errorf("failed to derive public key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(public), nil
}
