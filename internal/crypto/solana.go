package crypto

import (
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

const (
	SeedSize       = ed25519.SeedSize
	PrivateKeySize = ed25519.PrivateKeySize
)

var ErrKeyMismatch = errors.New("public key does not match secret")

// Keypair is an ed25519 key pair as used by Solana accounts.
// The zero value is not usable; build it with NewKeypair or FromSeed.
type Keypair struct {
	priv solana.PrivateKey // seed(32) || pub(32)
}

// NewKeypair draws a fresh keypair from crypto/rand. Safe for concurrent use.
func NewKeypair() (Keypair, error) {
	priv, err := solana.NewRandomPrivateKey()
	if err != nil {
		return Keypair{}, err
	}
	return Keypair{priv: priv}, nil
}

// FromSeed rebuilds a keypair from its 32-byte seed.
func FromSeed(seed []byte) (Keypair, error) {
	if len(seed) != SeedSize {
		return Keypair{}, fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	return Keypair{priv: solana.PrivateKey(ed25519.NewKeyFromSeed(seed))}, nil
}

// FromBytes accepts either a 32-byte seed or a 64-byte seed||pub secret.
func FromBytes(b []byte) (Keypair, error) {
	switch len(b) {
	case SeedSize:
		return FromSeed(b)
	case PrivateKeySize:
		kp, err := FromSeed(b[:SeedSize])
		if err != nil {
			return Keypair{}, err
		}
		pub := kp.PublicKey()
		if string(pub[:]) != string(b[SeedSize:]) {
			return Keypair{}, ErrKeyMismatch
		}
		return kp, nil
	default:
		return Keypair{}, fmt.Errorf("secret must be %d or %d bytes, got %d", SeedSize, PrivateKeySize, len(b))
	}
}

// FromBase58 parses a base58 encoded 64-byte secret (Phantom / solana-go export format).
func FromBase58(s string) (Keypair, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Keypair{}, fmt.Errorf("decode base58 secret: %w", err)
	}
	return FromBytes(b)
}

func (k Keypair) PublicKey() solana.PublicKey {
	return k.priv.PublicKey()
}

// Address is the canonical text form of the public key.
func (k Keypair) Address() string {
	pub := k.priv.PublicKey()
	return EncodeAddress(pub[:])
}

// Seed returns a copy of the 32-byte secret seed.
func (k Keypair) Seed() []byte {
	out := make([]byte, SeedSize)
	copy(out, k.priv[:SeedSize])
	return out
}

// Bytes returns a copy of the full 64-byte secret.
func (k Keypair) Bytes() []byte {
	out := make([]byte, len(k.priv))
	copy(out, k.priv)
	return out
}

func (k Keypair) SecretBase58() string {
	return base58.Encode(k.priv)
}

// KeygenJSON renders the secret the way solana-keygen stores key files:
// a JSON array of the 64 secret bytes.
func (k Keypair) KeygenJSON() ([]byte, error) {
	nums := make([]int, len(k.priv))
	for i, b := range k.priv {
		nums[i] = int(b)
	}
	return json.Marshal(nums)
}

// EncodeAddress maps raw public key bytes to base58 (bitcoin alphabet).
func EncodeAddress(pub []byte) string {
	return base58.Encode(pub)
}

// InvalidAlphabetIndex returns the byte offset of the first character of s
// that base58 can never produce, or -1 when every character is valid.
func InvalidAlphabetIndex(s string) int {
	for i, r := range s {
		if r > 0x7f {
			return i
		}
		if _, err := base58.Decode(string(r)); err != nil {
			return i
		}
	}
	return -1
}
