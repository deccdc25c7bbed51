package patterns

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"VanityGrind/internal/crypto"
)

// alphabetSize is the number of symbols base58 can emit.
const alphabetSize = 58

var ErrInvalidPrefix = errors.New("invalid prefix")

// Matcher holds the search target. It is immutable and safe to share
// between workers.
type Matcher struct {
	prefix string
}

// NewPrefix validates prefix against the address alphabet. Matching is
// case-sensitive; the empty prefix matches every address.
func NewPrefix(prefix string) (*Matcher, error) {
	if i := crypto.InvalidAlphabetIndex(prefix); i >= 0 {
		return nil, fmt.Errorf("%w: %q at position %d is not a base58 character", ErrInvalidPrefix, prefix[i:i+1], i)
	}
	return &Matcher{prefix: prefix}, nil
}

// Prefix returns the validated search prefix.
func (m *Matcher) Prefix() string { return m.prefix }

// Match reports whether addr starts with the prefix.
func (m *Matcher) Match(addr string) bool {
	return strings.HasPrefix(addr, m.prefix)
}

// ExpectedAttempts is the mean number of keypairs to draw before a match,
// ignoring the bias of the leading base58 digit.
func (m *Matcher) ExpectedAttempts() float64 {
	return math.Pow(alphabetSize, float64(len(m.prefix)))
}
