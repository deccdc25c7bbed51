package keystore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"VanityGrind/internal/crypto"

	gethks "github.com/ethereum/go-ethereum/accounts/keystore"
)

const version = 3

// Scrypt cost presets. Light ones are meant for tests only.
const (
	StandardScryptN = gethks.StandardScryptN
	StandardScryptP = gethks.StandardScryptP
	LightScryptN    = gethks.LightScryptN
	LightScryptP    = gethks.LightScryptP
)

var ErrAddressMismatch = errors.New("decrypted key does not match keystore address")

// EncryptedKey is a Web3 Secret Storage (V3) document holding an ed25519 seed.
// Keys drawn from a mnemonic also carry the phrase, sealed under the same password.
type EncryptedKey struct {
	Address  string             `json:"address"`
	Crypto   gethks.CryptoJSON  `json:"crypto"`
	Mnemonic *gethks.CryptoJSON `json:"mnemonic,omitempty"`
	Version  int                `json:"version"`
}

// EncryptKeypair seals the 32-byte seed of kp with scrypt and AES-128-CTR.
func EncryptKeypair(kp crypto.Keypair, password string, scryptN, scryptP int) ([]byte, error) {
	return EncryptWithMnemonic(kp, "", password, scryptN, scryptP)
}

// EncryptWithMnemonic seals the seed and, when mnemonic is not empty, the
// phrase it was derived from.
func EncryptWithMnemonic(kp crypto.Keypair, mnemonic, password string, scryptN, scryptP int) ([]byte, error) {
	cj, err := gethks.EncryptDataV3(kp.Seed(), []byte(password), scryptN, scryptP)
	if err != nil {
		return nil, fmt.Errorf("encrypt seed: %w", err)
	}
	ek := EncryptedKey{
		Address: kp.Address(),
		Crypto:  cj,
		Version: version,
	}
	if mnemonic != "" {
		mj, err := gethks.EncryptDataV3([]byte(mnemonic), []byte(password), scryptN, scryptP)
		if err != nil {
			return nil, fmt.Errorf("encrypt mnemonic: %w", err)
		}
		ek.Mnemonic = &mj
	}
	return json.Marshal(ek)
}

// DecryptKeypair opens a document written by EncryptKeypair or EncryptWithMnemonic.
func DecryptKeypair(blob []byte, password string) (crypto.Keypair, error) {
	kp, _, err := DecryptWithMnemonic(blob, password)
	return kp, err
}

// DecryptWithMnemonic returns the keypair and the sealed mnemonic, which is
// empty for keys that were not drawn from one.
func DecryptWithMnemonic(blob []byte, password string) (crypto.Keypair, string, error) {
	var ek EncryptedKey
	if err := json.Unmarshal(blob, &ek); err != nil {
		return crypto.Keypair{}, "", fmt.Errorf("invalid keystore json: %w", err)
	}
	if ek.Version != version {
		return crypto.Keypair{}, "", fmt.Errorf("unsupported keystore version %d", ek.Version)
	}
	seed, err := gethks.DecryptDataV3(ek.Crypto, password)
	if err != nil {
		return crypto.Keypair{}, "", err
	}
	kp, err := crypto.FromSeed(seed)
	if err != nil {
		return crypto.Keypair{}, "", err
	}
	if ek.Address != "" && ek.Address != kp.Address() {
		return crypto.Keypair{}, "", fmt.Errorf("%w: %s", ErrAddressMismatch, ek.Address)
	}
	if ek.Mnemonic == nil {
		return kp, "", nil
	}
	mn, err := gethks.DecryptDataV3(*ek.Mnemonic, password)
	if err != nil {
		return crypto.Keypair{}, "", fmt.Errorf("decrypt mnemonic: %w", err)
	}
	return kp, string(mn), nil
}

// WriteKeyFile stores a single key file readable only by the owner.
func WriteKeyFile(path string, blob []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, blob, 0o600)
}
