package ledger

import (
	"bytes"
	"crypto/ed25519"
	"testing"
)

func TestGenerateAccount_DeterministicFromEntropy(t *testing.T) {
	entropy := bytes.Repeat([]byte{7}, 64)

	a, err := GenerateAccount(bytes.NewReader(entropy))
	if err != nil {
		t.Fatalf("GenerateAccount() error = %v", err)
	}
	b, err := GenerateAccount(bytes.NewReader(entropy))
	if err != nil {
		t.Fatalf("GenerateAccount() error = %v", err)
	}
	if a.Address != b.Address {
		t.Fatalf("same entropy must yield the same address")
	}
	if !ValidateAddress(a.Address) {
		t.Fatalf("derived address %q is malformed", a.Address)
	}
}

func TestAccountFromSeed_RoundTrip(t *testing.T) {
	a, err := GenerateAccount(bytes.NewReader(bytes.Repeat([]byte{3}, 64)))
	if err != nil {
		t.Fatalf("GenerateAccount() error = %v", err)
	}

	restored, err := AccountFromSeed(a.Seed())
	if err != nil {
		t.Fatalf("AccountFromSeed() error = %v", err)
	}
	if restored.Address != a.Address {
		t.Fatalf("restored address %s != %s", restored.Address, a.Address)
	}

	msg := []byte("signing message")
	if !ed25519.Verify(a.PublicKey, msg, restored.Sign(msg)) {
		t.Fatalf("restored key does not sign for the original public key")
	}
}

func TestAccountFromSeed_BadLength(t *testing.T) {
	if _, err := AccountFromSeed([]byte{1, 2, 3}); err == nil {
		t.Fatalf("expected error for short seed")
	}
}

func TestDeriveAddress_KnownVector(t *testing.T) {
	// All-zero seed; address is sha3-256(pubkey || 0x00).
	acct, err := AccountFromSeed(make([]byte, ed25519.SeedSize))
	if err != nil {
		t.Fatalf("AccountFromSeed() error = %v", err)
	}
	if acct.Address != DeriveAddress(acct.PublicKey) {
		t.Fatalf("address not derived from public key")
	}
	if len(acct.Address) != 66 {
		t.Fatalf("expected 66-char address, got %d", len(acct.Address))
	}
}

func TestLookupToken(t *testing.T) {
	tests := []struct {
		coinType string
		want     TokenInfo
	}{
		{NativeCoinType, TokenInfo{"APT", "Aptos", 8}},
		{"0xf22b::asset::USDC", TokenInfo{"ASSET", "ASSET", 8}},
		{"0xf22b::usdc::USDC", TokenInfo{"USDC", "USD Coin", 6}},
		{"0xf22b::usdt::Tether", TokenInfo{"USDT", "Tether", 6}},
		{"0xae::wbtc::WBTC", TokenInfo{"wBTC", "Wrapped Bitcoin", 8}},
		{"0xab::moon::Moon", TokenInfo{"MOON", "MOON", 8}},
	}
	for _, tt := range tests {
		if got := LookupToken(tt.coinType); got != tt.want {
			t.Fatalf("LookupToken(%s) = %+v, want %+v", tt.coinType, got, tt.want)
		}
	}
}

func TestCoinTypeOfAndValue(t *testing.T) {
	r := Resource{
		Type: CoinStoreType("0xf22b::usdc::USDC"),
		Data: []byte(`{"coin":{"value":"1500000"},"frozen":false}`),
	}
	ct, ok := CoinTypeOf(r.Type)
	if !ok || ct != "0xf22b::usdc::USDC" {
		t.Fatalf("CoinTypeOf() = %q, %v", ct, ok)
	}
	v, ok := CoinValue(r)
	if !ok || v != 1_500_000 {
		t.Fatalf("CoinValue() = %d, %v", v, ok)
	}

	if _, ok := CoinValue(Resource{Type: "0x1::account::Account", Data: []byte(`{}`)}); ok {
		t.Fatalf("non coin store must not report a value")
	}
}
