package keys

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func testKey() []byte {
	key := make([]byte, PrivateKeySize)
	for i := range key {
		key[i] = byte(i + 1)
	}
	return key
}

func TestHexCodec_RoundTrip(t *testing.T) {
	var c HexCodec

	encoded, err := c.Encode(testKey())
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !strings.HasPrefix(encoded, "0x") || len(encoded) != 2+2*PrivateKeySize {
		t.Fatalf("unexpected encoding %q", encoded)
	}

	decoded, err := c.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !bytes.Equal(decoded, testKey()) {
		t.Fatalf("round trip mismatch")
	}

	// Prefix is optional and case does not matter.
	decoded, err = c.Decode(strings.ToUpper(strings.TrimPrefix(encoded, "0x")))
	if err != nil || !bytes.Equal(decoded, testKey()) {
		t.Fatalf("expected unprefixed upper-case hex to decode, err=%v", err)
	}
}

func TestHexCodec_Invalid(t *testing.T) {
	var c HexCodec

	for _, in := range []string{"", "0x", "0x1234", "zz", "0x" + strings.Repeat("g", 64)} {
		if _, err := c.Decode(in); !errors.Is(err, ErrInvalidKeyMaterial) {
			t.Fatalf("Decode(%q): expected ErrInvalidKeyMaterial, got %v", in, err)
		}
	}
	if _, err := c.Encode([]byte{1, 2, 3}); !errors.Is(err, ErrInvalidKeyMaterial) {
		t.Fatalf("expected short key to be rejected, got %v", err)
	}
	if _, err := c.Decode(sealedPrefix + "AAAA"); !errors.Is(err, ErrSealedKey) {
		t.Fatalf("expected ErrSealedKey, got %v", err)
	}
}

func TestSealedCodec_RoundTrip(t *testing.T) {
	master, err := GenerateMasterKey()
	if err != nil {
		t.Fatalf("GenerateMasterKey() error = %v", err)
	}
	c, err := NewSealedCodec(master)
	if err != nil {
		t.Fatalf("NewSealedCodec() error = %v", err)
	}

	a, err := c.Encode(testKey())
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	b, _ := c.Encode(testKey())
	if a == b {
		t.Fatalf("expected fresh nonce per encoding")
	}
	if strings.Contains(a, "0102030405") {
		t.Fatalf("sealed output leaks plaintext")
	}

	decoded, err := c.Decode(a)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !bytes.Equal(decoded, testKey()) {
		t.Fatalf("round trip mismatch")
	}
}

func TestSealedCodec_WrongMasterKey(t *testing.T) {
	m1, _ := GenerateMasterKey()
	m2, _ := GenerateMasterKey()
	c1, _ := NewSealedCodec(m1)
	c2, _ := NewSealedCodec(m2)

	sealed, err := c1.Encode(testKey())
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if _, err := c2.Decode(sealed); err == nil {
		t.Fatalf("expected decryption with another master key to fail")
	}
}

func TestSealedCodec_ReadsPlainHex(t *testing.T) {
	m, _ := GenerateMasterKey()
	c, _ := NewSealedCodec(m)

	plain, _ := HexCodec{}.Encode(testKey())
	decoded, err := c.Decode(plain)
	if err != nil {
		t.Fatalf("Decode(plain) error = %v", err)
	}
	if !bytes.Equal(decoded, testKey()) {
		t.Fatalf("plain hex mismatch")
	}
}

func TestMasterKeyFromBase64(t *testing.T) {
	if _, err := NewSealedCodec(make([]byte, 16)); err == nil {
		t.Fatalf("expected short master key to be rejected")
	}
	if _, err := MasterKeyFromBase64("not base64!"); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := MasterKeyFromBase64("AAAA"); err == nil {
		t.Fatalf("expected size error")
	}
	key, err := MasterKeyFromBase64("AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8=")
	if err != nil || len(key) != 32 {
		t.Fatalf("expected valid 32-byte key, err=%v", err)
	}
}
