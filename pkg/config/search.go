package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"VanityGrind/internal/crypto"

	"gopkg.in/yaml.v3"
)

// SearchConfig is a saved search profile (configs/search.yaml).
type SearchConfig struct {
	Prefix     string        `yaml:"prefix"`
	Source     string        `yaml:"source"` // private|mnemonics
	Words      int           `yaml:"words"`  // 12|24, mnemonic source only
	Passphrase string        `yaml:"passphrase"`
	Encrypt    bool          `yaml:"encrypt"`
	Timeout    time.Duration `yaml:"timeout"`
}

func Load(path string) (*SearchConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %q: %w", path, err)
	}
	defer f.Close()

	var cfg SearchConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode yaml %q: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation %q: %w", path, err)
	}

	return &cfg, nil
}

func (c *SearchConfig) Validate() error {
	if c == nil {
		return errors.New("nil config")
	}
	if i := crypto.InvalidAlphabetIndex(c.Prefix); i >= 0 {
		return fmt.Errorf("prefix: %q at position %d is not a base58 character", c.Prefix[i:i+1], i)
	}
	switch c.Source {
	case "", "private", "mnemonics":
	default:
		return errors.New("source must be one of: private, mnemonics")
	}
	switch c.Words {
	case 0, 12, 24:
	default:
		return errors.New("words must be 12 or 24")
	}
	if c.Timeout < 0 {
		return errors.New("timeout must be >= 0")
	}
	return nil
}

// WordsStrength converts the word count to BIP-39 entropy bits.
func (c *SearchConfig) WordsStrength() int {
	if c.Words == 24 {
		return 256
	}
	return 128
}
