package ledger

import (
	"crypto/ed25519"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/crypto/sha3"
)

// ed25519Scheme is the authentication scheme byte appended to a single-signer public key.
const ed25519Scheme = 0x00

// Account is a chain key pair and the address derived from it.
type Account struct {
	Address    string
	PublicKey  ed25519.PublicKey
	PrivateKey ed25519.PrivateKey
}

// GenerateAccount creates a new account from entropy read from rand.
func GenerateAccount(rand io.Reader) (*Account, error) {
	_, priv, err := ed25519.GenerateKey(rand)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ed25519 key: %w", err)
	}
	return accountFromKey(priv), nil
}

// AccountFromSeed restores an account from its 32-byte private key seed.
func AccountFromSeed(seed []byte) (*Account, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("private key must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return accountFromKey(ed25519.NewKeyFromSeed(seed)), nil
}

func accountFromKey(priv ed25519.PrivateKey) *Account {
	pub := priv.Public().(ed25519.PublicKey)
	return &Account{
		Address:    DeriveAddress(pub),
		PublicKey:  pub,
		PrivateKey: priv,
	}
}

// DeriveAddress returns 0x + hex(sha3-256(publicKey || scheme)).
func DeriveAddress(pub ed25519.PublicKey) string {
	h := sha3.New256()
	h.Write(pub)
	h.Write([]byte{ed25519Scheme})
	return hexutil.Encode(h.Sum(nil))
}

// Seed returns the 32-byte private key seed.
func (a *Account) Seed() []byte {
	return a.PrivateKey.Seed()
}

// PublicKeyHex returns the 0x-hex public key.
func (a *Account) PublicKeyHex() string {
	return hexutil.Encode(a.PublicKey)
}

// Sign signs message with the account key.
func (a *Account) Sign(message []byte) []byte {
	return ed25519.Sign(a.PrivateKey, message)
}
