package generator

import (
	"time"

	"VanityGrind/internal/crypto"
)

// Source selects how workers draw candidate keypairs.
type Source string

const (
	SourcePrivKey  Source = "private"
	SourceMnemonic Source = "mnemonics"
)

// Candidate is one generated keypair. Mnemonic is set only for the mnemonic source.
type Candidate struct {
	Keypair  crypto.Keypair
	Mnemonic string
}

// KeyGen produces a fresh, independent candidate per call and must be safe
// for concurrent use.
type KeyGen func() (Candidate, error)

// Options configures one Run.
type Options struct {
	Prefix string
	Source Source

	WordsStrength int    // for mnemonic, 128=12 words
	Passphrase    string // BIP-39 passphrase (not encryption!)

	Workers          int           // <= 0 means runtime.NumCPU()
	Timeout          time.Duration // 0 means no deadline
	ProgressInterval time.Duration // 0 means 10s, < 0 disables

	// KeyGen overrides the generator picked from Source.
	KeyGen KeyGen
}

// Result is the single discovered keypair of a run.
type Result struct {
	Keypair  crypto.Keypair
	Address  string
	Mnemonic string
	Worker   int
	Elapsed  time.Duration // since the winning worker started
	Attempts uint64        // across all workers
}
