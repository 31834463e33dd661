// Package keys encodes chain-account private keys for at-rest storage.
//
// Keys are kept either as plain 0x-hex or sealed with AES-256-GCM under a
// subkey derived from an operator-supplied master key.
package keys

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/crypto/hkdf"
)

// PrivateKeySize is the length of an ed25519 seed.
const PrivateKeySize = 32

const (
	sealedPrefix = "aesgcm:"
	hkdfInfo     = "pesto-chain-account-v1"
)

var (
	// ErrInvalidKeyMaterial is returned when encoded key material cannot be decoded.
	ErrInvalidKeyMaterial = errors.New("invalid key material")
	// ErrSealedKey is returned when a sealed key is read without a master key.
	ErrSealedKey = errors.New("key is sealed and no master key is configured")
)

// Codec converts private key bytes to and from their persisted string form.
type Codec interface {
	Encode(privateKey []byte) (string, error)
	Decode(encoded string) ([]byte, error)
}

// HexCodec stores keys as 0x-prefixed hex.
type HexCodec struct{}

// Encode returns the 0x-hex form of privateKey.
func (HexCodec) Encode(privateKey []byte) (string, error) {
	if len(privateKey) != PrivateKeySize {
		return "", fmt.Errorf("%w: private key must be %d bytes", ErrInvalidKeyMaterial, PrivateKeySize)
	}
	return hexutil.Encode(privateKey), nil
}

// Decode accepts hex with or without the 0x prefix.
func (HexCodec) Decode(encoded string) ([]byte, error) {
	if strings.HasPrefix(encoded, sealedPrefix) {
		return nil, ErrSealedKey
	}
	return DecodeHexKey(encoded)
}

// DecodeHexKey parses a 32-byte hex private key, 0x prefix optional.
func DecodeHexKey(encoded string) ([]byte, error) {
	s := strings.TrimSpace(encoded)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	raw, err := hexutil.Decode(strings.ToLower(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyMaterial, err)
	}
	if len(raw) != PrivateKeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeyMaterial, len(raw), PrivateKeySize)
	}
	return raw, nil
}

// SealedCodec seals keys with AES-256-GCM. Output is "aesgcm:" + base64(nonce || ciphertext || tag).
// Plain hex input is still accepted by Decode so stores written before sealing was enabled stay readable.
type SealedCodec struct {
	aead cipher.AEAD
}

// NewSealedCodec derives an AES-256 subkey from masterKey with HKDF-SHA256.
func NewSealedCodec(masterKey []byte) (*SealedCodec, error) {
	if len(masterKey) != 32 {
		return nil, fmt.Errorf("master key must be 32 bytes (AES-256)")
	}

	subkey := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, masterKey, nil, []byte(hkdfInfo)), subkey); err != nil {
		return nil, fmt.Errorf("failed to derive subkey: %w", err)
	}

	block, err := aes.NewCipher(subkey)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return &SealedCodec{aead: gcm}, nil
}

// Encode seals privateKey under a fresh random nonce.
func (c *SealedCodec) Encode(privateKey []byte) (string, error) {
	if len(privateKey) != PrivateKeySize {
		return "", fmt.Errorf("%w: private key must be %d bytes", ErrInvalidKeyMaterial, PrivateKeySize)
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, privateKey, nil)
	return sealedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decode opens a sealed key, or parses plain hex.
func (c *SealedCodec) Decode(encoded string) ([]byte, error) {
	if !strings.HasPrefix(encoded, sealedPrefix) {
		return DecodeHexKey(encoded)
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(encoded, sealedPrefix))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyMaterial, err)
	}
	nonceSize := c.aead.NonceSize()
	if len(raw) < nonceSize {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrInvalidKeyMaterial)
	}
	nonce, ciphertext := raw[:nonceSize], raw[nonceSize:]

	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	if len(plaintext) != PrivateKeySize {
		return nil, fmt.Errorf("%w: decrypted key has wrong size %d", ErrInvalidKeyMaterial, len(plaintext))
	}
	return plaintext, nil
}

// GenerateMasterKey generates a new random 32-byte master key.
func GenerateMasterKey() ([]byte, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("failed to generate master key: %w", err)
	}
	return key, nil
}

// MasterKeyFromBase64 decodes a base64-encoded master key
func MasterKeyFromBase64(encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode master key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("master key must be 32 bytes, got %d", len(key))
	}
	return key, nil
}
