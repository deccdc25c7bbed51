package generator

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"VanityGrind/internal/crypto"
	"VanityGrind/internal/mnemonic"
	"VanityGrind/internal/patterns"
	"VanityGrind/pkg/logx"
)

const defaultProgressInterval = 10 * time.Second

// Run searches for a keypair whose address starts with opt.Prefix.
// It blocks until a worker finds one, every worker has failed, or ctx is done,
// and never returns before all workers have exited.
func Run(ctx context.Context, opt Options) (*Result, error) {
	matcher, err := patterns.NewPrefix(opt.Prefix)
	if err != nil {
		return nil, err
	}
	gen, err := keyGenFor(opt)
	if err != nil {
		return nil, err
	}

	workers := opt.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}

	var cancel context.CancelFunc
	if opt.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, opt.Timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	app := logx.S()
	app.Infow("search started",
		"prefix", opt.Prefix,
		"source", sourceName(opt),
		"workers", workers,
		"expected_attempts", fmt.Sprintf("%.0f", matcher.ExpectedAttempts()),
	)

	s := newSearch(matcher, gen)

	interval := opt.ProgressInterval
	if interval == 0 {
		interval = defaultProgressInterval
	}
	stopStatus := make(chan struct{})
	statusDone := make(chan struct{})
	go func() {
		defer close(statusDone)
		if interval < 0 {
			<-stopStatus
			return
		}
		s.reportProgress(interval, stopStatus)
	}()

	s.runWorkers(ctx, workers)
	close(stopStatus)
	<-statusDone

	results, faults := s.outcome()
	attempts := s.attempts.Load()

	if len(results) > 0 {
		res := results[0]
		res.Attempts = attempts
		app.Infow("match found",
			"address", res.Address,
			"worker", res.Worker,
			"attempts", attempts,
			"elapsed", HumanDuration(res.Elapsed),
		)
		return &res, nil
	}

	if err := ctx.Err(); err != nil {
		app.Warnw("search stopped", "reason", err, "attempts", attempts, "elapsed", HumanDuration(time.Since(s.start)))
		return nil, fmt.Errorf("%w: %w", ErrSearchCancelled, err)
	}

	app.Errorw("search aborted", "faults", len(faults), "attempts", attempts)
	return nil, errors.Join(append([]error{ErrSearchAborted}, faults...)...)
}

func keyGenFor(opt Options) (KeyGen, error) {
	if opt.KeyGen != nil {
		return opt.KeyGen, nil
	}
	switch opt.Source {
	case SourcePrivKey, "":
		return func() (Candidate, error) {
			kp, err := crypto.NewKeypair()
			return Candidate{Keypair: kp}, err
		}, nil
	case SourceMnemonic:
		strength, pass := opt.WordsStrength, opt.Passphrase
		return func() (Candidate, error) {
			d, err := mnemonic.Generate(strength, pass)
			return Candidate{Keypair: d.Keypair, Mnemonic: d.Mnemonic}, err
		}, nil
	default:
		return nil, fmt.Errorf("unknown source: %s", opt.Source)
	}
}

func sourceName(opt Options) string {
	if opt.KeyGen != nil {
		return "custom"
	}
	if opt.Source == "" {
		return string(SourcePrivKey)
	}
	return string(opt.Source)
}

// search is the state shared by one run's workers. found is the only flag
// workers coordinate on; it goes false->true once and never back.
type search struct {
	matcher *patterns.Matcher
	keygen  KeyGen
	start   time.Time

	found    atomic.Bool
	attempts atomic.Uint64

	mu      sync.Mutex
	results []Result
	faults  []error
}

func newSearch(m *patterns.Matcher, gen KeyGen) *search {
	return &search{matcher: m, keygen: gen, start: time.Now()}
}

func (s *search) runWorkers(ctx context.Context, workers int) {
	// cancellation stops workers through the same flag a match does
	stop := context.AfterFunc(ctx, func() { s.found.Store(true) })
	defer stop()

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(id int) {
			defer wg.Done()
			s.worker(id)
		}(i)
	}
	wg.Wait()
}

func (s *search) outcome() ([]Result, []error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results, s.faults
}

func (s *search) reportProgress(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			elapsed := now.Sub(s.start)
			n := s.attempts.Load()
			rate := 0.0
			if elapsed > 0 {
				rate = float64(n) / elapsed.Seconds()
			}
			logx.S().Infow("progress",
				"attempts", n,
				"rate_keys_per_sec", fmt.Sprintf("%.2f", rate),
				"elapsed", HumanDuration(elapsed),
			)
		}
	}
}

// =============================== WORKERS ===============================

func (s *search) worker(id int) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.fault(id, fmt.Errorf("panic: %v", r))
		}
	}()

	for !s.found.Load() {
		c, err := s.keygen()
		s.attempts.Add(1)
		if err != nil {
			s.fault(id, fmt.Errorf("generate keypair: %w", err))
			return
		}

		addr := c.Keypair.Address()
		if !s.matcher.Match(addr) {
			continue
		}

		// a lost race means another worker already owns the result
		if !s.found.CompareAndSwap(false, true) {
			return
		}
		s.mu.Lock()
		s.results = append(s.results, Result{
			Keypair:  c.Keypair,
			Address:  addr,
			Mnemonic: c.Mnemonic,
			Worker:   id,
			Elapsed:  time.Since(start),
		})
		s.mu.Unlock()
		return
	}
}

func (s *search) fault(id int, err error) {
	f := &WorkerFault{Worker: id, Err: err}
	logx.S().Errorw("worker stopped", "worker", id, "err", err)
	s.mu.Lock()
	s.faults = append(s.faults, f)
	s.mu.Unlock()
}

// ------------------------------- helpers ------------------------------------

// HumanDuration renders d compactly for logs and reports: sub-second values
// keep microsecond precision, longer ones read like "3m07s" or "2h05m09s".
func HumanDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Microsecond).String()
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
}
