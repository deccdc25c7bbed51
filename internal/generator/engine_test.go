package generator

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"VanityGrind/internal/crypto"
	"VanityGrind/internal/mnemonic"
	"VanityGrind/internal/patterns"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seqKeyGen derives keypairs from an increasing counter so tests can tell
// which draw won.
func seqKeyGen(t *testing.T, calls *atomic.Uint64) KeyGen {
	t.Helper()
	return func() (Candidate, error) {
		n := calls.Add(1)
		seed := make([]byte, crypto.SeedSize)
		binary.BigEndian.PutUint64(seed, n)
		kp, err := crypto.FromSeed(seed)
		return Candidate{Keypair: kp}, err
	}
}

func quiet(opt Options) Options {
	opt.ProgressInterval = -1
	return opt
}

func TestRunFindsPrefix(t *testing.T) {
	for _, prefix := range []string{"", "A", "z", "9"} {
		t.Run("prefix="+prefix, func(t *testing.T) {
			res, err := Run(context.Background(), quiet(Options{Prefix: prefix, Workers: 4}))
			require.NoError(t, err)
			require.NotNil(t, res)
			assert.True(t, strings.HasPrefix(res.Address, prefix), res.Address)
			assert.Equal(t, res.Keypair.Address(), res.Address)
			assert.GreaterOrEqual(t, res.Attempts, uint64(1))
		})
	}
}

func TestRunTwoCharPrefix(t *testing.T) {
	res, err := Run(context.Background(), quiet(Options{Prefix: "AB", Workers: runtime.NumCPU()}))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Address, "AB"), res.Address)
}

func TestExactlyOneResultPerWorkerCount(t *testing.T) {
	for _, n := range []int{1, 2, 8, 64} {
		t.Run(fmt.Sprintf("workers=%d", n), func(t *testing.T) {
			// every keypair matches the empty prefix: all workers race for the flag
			m, err := patterns.NewPrefix("")
			require.NoError(t, err)
			var calls atomic.Uint64
			s := newSearch(m, seqKeyGen(t, &calls))

			s.runWorkers(context.Background(), n)

			results, faults := s.outcome()
			assert.Len(t, results, 1, "workers=%d", n)
			assert.Empty(t, faults)
			assert.True(t, s.found.Load())
		})
	}
}

func TestRunWithOneCharPrefixAcrossWorkerCounts(t *testing.T) {
	for _, n := range []int{1, 2, 8, 64} {
		res, err := Run(context.Background(), quiet(Options{Prefix: "A", Workers: n}))
		require.NoError(t, err, "workers=%d", n)
		assert.True(t, strings.HasPrefix(res.Address, "A"))
		assert.Less(t, res.Worker, n)
	}
}

func TestRunJoinsAllWorkers(t *testing.T) {
	var calls, inflight atomic.Int64
	gen := func() (Candidate, error) {
		inflight.Add(1)
		defer inflight.Add(-1)
		calls.Add(1)
		kp, err := crypto.NewKeypair()
		return Candidate{Keypair: kp}, err
	}

	// warm up lazily started runtime goroutines before counting
	_, err := Run(context.Background(), quiet(Options{Prefix: "", Workers: 2, KeyGen: gen}))
	require.NoError(t, err)
	before := runtime.NumGoroutine()

	res, err := Run(context.Background(), quiet(Options{Prefix: "B", Workers: 64, KeyGen: gen}))
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Zero(t, inflight.Load())
	seen := calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, seen, calls.Load(), "keygen called after Run returned")
	assert.LessOrEqual(t, runtime.NumGoroutine(), before)
}

func TestRunEmptyPrefixReturnsFirstKeypair(t *testing.T) {
	var calls atomic.Uint64
	res, err := Run(context.Background(), quiet(Options{Prefix: "", Workers: 1, KeyGen: seqKeyGen(t, &calls)}))
	require.NoError(t, err)

	seed := make([]byte, crypto.SeedSize)
	binary.BigEndian.PutUint64(seed, 1)
	first, err := crypto.FromSeed(seed)
	require.NoError(t, err)

	assert.Equal(t, first.Address(), res.Address)
	assert.Equal(t, uint64(1), res.Attempts)
	assert.Equal(t, uint64(1), calls.Load())
}

func TestRunRejectsInvalidPrefix(t *testing.T) {
	var calls atomic.Uint64
	for _, p := range []string{"0", "O", "I", "l", "an0a"} {
		res, err := Run(context.Background(), quiet(Options{Prefix: p, KeyGen: seqKeyGen(t, &calls)}))
		require.ErrorIs(t, err, ErrInvalidPrefix, p)
		assert.Nil(t, res)
	}
	assert.Zero(t, calls.Load())
}

func TestRunAllWorkersFault(t *testing.T) {
	boom := errors.New("entropy source unavailable")
	gen := func() (Candidate, error) { return Candidate{}, boom }

	res, err := Run(context.Background(), quiet(Options{Prefix: "A", Workers: 3, KeyGen: gen}))
	require.Nil(t, res)
	require.ErrorIs(t, err, ErrSearchAborted)
	require.ErrorIs(t, err, boom)

	var fault *WorkerFault
	require.ErrorAs(t, err, &fault)

	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok)
	assert.Len(t, joined.Unwrap(), 1+3)
}

func TestRunPanickingWorkerIsReported(t *testing.T) {
	gen := func() (Candidate, error) { panic("rng exploded") }

	_, err := Run(context.Background(), quiet(Options{Prefix: "A", Workers: 2, KeyGen: gen}))
	require.ErrorIs(t, err, ErrSearchAborted)

	var fault *WorkerFault
	require.ErrorAs(t, err, &fault)
	assert.Contains(t, fault.Error(), "rng exploded")
}

func TestRunSurvivesPartialFaults(t *testing.T) {
	var failures atomic.Int64
	gen := func() (Candidate, error) {
		if failures.Add(1) <= 3 {
			return Candidate{}, errors.New("transient")
		}
		kp, err := crypto.NewKeypair()
		return Candidate{Keypair: kp}, err
	}

	res, err := Run(context.Background(), quiet(Options{Prefix: "C", Workers: 4, KeyGen: gen}))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Address, "C"))
}

func TestRunTimeout(t *testing.T) {
	start := time.Now()
	res, err := Run(context.Background(), quiet(Options{Prefix: "zzzzzzzzzzzz", Workers: 2, Timeout: 50 * time.Millisecond}))
	require.Nil(t, res)
	require.ErrorIs(t, err, ErrSearchCancelled)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRunContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Uint64
	inner := seqKeyGen(t, &calls)
	gen := func() (Candidate, error) {
		if calls.Load() >= 100 {
			cancel()
		}
		return inner()
	}

	_, err := Run(ctx, quiet(Options{Prefix: "zzzzzzzzzzzz", Workers: 4, KeyGen: gen}))
	require.ErrorIs(t, err, ErrSearchCancelled)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFlagNeverResets(t *testing.T) {
	m, err := patterns.NewPrefix("A")
	require.NoError(t, err)
	var calls atomic.Uint64
	s := newSearch(m, seqKeyGen(t, &calls))

	done := make(chan struct{})
	var regressed atomic.Bool
	go func() {
		seenTrue := false
		for {
			select {
			case <-done:
				return
			default:
			}
			v := s.found.Load()
			if seenTrue && !v {
				regressed.Store(true)
			}
			seenTrue = seenTrue || v
		}
	}()

	s.runWorkers(context.Background(), 8)
	time.Sleep(10 * time.Millisecond)
	close(done)

	assert.True(t, s.found.Load())
	assert.False(t, regressed.Load())
}

func TestRunMnemonicSource(t *testing.T) {
	res, err := Run(context.Background(), quiet(Options{Prefix: "", Source: SourceMnemonic, WordsStrength: 128, Workers: 2}))
	require.NoError(t, err)
	require.NotEmpty(t, res.Mnemonic)

	kp, err := mnemonic.Derive(res.Mnemonic, "")
	require.NoError(t, err)
	assert.Equal(t, res.Address, kp.Address())
}

func TestRunUnknownSource(t *testing.T) {
	_, err := Run(context.Background(), quiet(Options{Prefix: "A", Source: "hardware"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown source")
}

func TestHumanDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{1500 * time.Microsecond, "1.5ms"},
		{42 * time.Second, "42s"},
		{3*time.Minute + 7*time.Second, "3m07s"},
		{2*time.Hour + 5*time.Minute + 9*time.Second, "2h05m09s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HumanDuration(tt.in))
	}
}
