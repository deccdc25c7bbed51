package mnemonic

import (
	"errors"

	"VanityGrind/internal/crypto"

	bip39 "github.com/tyler-smith/go-bip39"
)

var ErrInvalidMnemonic = errors.New("invalid mnemonic")

type Derived struct {
	Mnemonic string
	Keypair  crypto.Keypair
}

func NewMnemonic(strength int) (string, error) {
	if strength == 0 {
		strength = 128 // 12 words
	}
	entropy, err := bip39.NewEntropy(strength)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

// Derive follows the solana-keygen convention: the ed25519 seed is the
// first 32 bytes of the BIP-39 seed, no derivation path.
func Derive(mn, passphrase string) (crypto.Keypair, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mn, passphrase)
	if err != nil {
		return crypto.Keypair{}, errors.Join(ErrInvalidMnemonic, err)
	}
	return crypto.FromSeed(seed[:crypto.SeedSize])
}

// Generate draws a fresh mnemonic and derives its keypair.
func Generate(strength int, passphrase string) (Derived, error) {
	mn, err := NewMnemonic(strength)
	if err != nil {
		return Derived{}, err
	}
	kp, err := Derive(mn, passphrase)
	if err != nil {
		return Derived{}, err
	}
	return Derived{Mnemonic: mn, Keypair: kp}, nil
}
