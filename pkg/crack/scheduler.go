package crack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hardwaylabs/jwt-hack/pkg/token"
)

// ErrUnsupportedAlgorithm is returned when a token does not declare one of
// the HMAC variants. Asymmetric secrets and alg=none are not brute-forceable
// by this engine.
var ErrUnsupportedAlgorithm = errors.New("unsupported algorithm for cracking")

// Outcome classifies how a run ended.
type Outcome int

const (
	// OutcomeFound means a candidate reproduced the signature.
	OutcomeFound Outcome = iota
	// OutcomeExhausted means the keyspace was fully searched without a
	// match. This is a completed run, not an error.
	OutcomeExhausted
)

// Result carries the outcome of a run. Attempts is the number of oracle
// evaluations performed across all workers at termination; under
// concurrent cancellation a few in-flight evaluations may or may not be
// counted, so treat it as approximate on Found runs. On Exhausted runs it
// equals the keyspace size exactly.
type Result struct {
	Outcome  Outcome
	Secret   []byte
	Attempts uint64
	Elapsed  time.Duration
}

// Options tunes a Scheduler.
type Options struct {
	// Workers is the pool size; zero or negative means all available CPUs.
	Workers int
	// Progress, when non-nil, is called for every oracle evaluation with
	// the candidate and the running attempt count. It is advisory output
	// only and must not block for long.
	Progress func(candidate []byte, attempts uint64)
}

// Scheduler drives a search of one candidate source against one token
// using a fixed-size worker pool. Workers pull from a single shared queue,
// which load-balances naturally when candidates have unequal hashing cost.
// Schedulers are single-use.
type Scheduler struct {
	tok      *token.Token
	alg      token.Algorithm
	src      Source
	workers  int
	progress func([]byte, uint64)
}

// New validates the token's algorithm and builds a scheduler. The
// algorithm is resolved to an HMAC variant once, here, not per candidate.
func New(tok *token.Token, src Source, opts Options) (*Scheduler, error) {
	alg, ok := tok.HMACAlgorithm()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, tok.Alg)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Scheduler{
		tok:      tok,
		alg:      alg,
		src:      src,
		workers:  workers,
		progress: opts.Progress,
	}, nil
}

// Run searches until a match is found, the source is exhausted, the source
// fails, or ctx is cancelled. Exactly one Result is produced per run.
// Cancellation is cooperative: after the first confirmed match every
// worker stops at the top of its next iteration. If two candidates both
// reproduce the signature (a collision in the secret space), whichever is
// confirmed first wins; that nondeterminism is accepted.
func (s *Scheduler) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan []byte, 4*s.workers)

	var (
		attempts atomic.Uint64

		mu     sync.Mutex
		secret []byte
		found  bool
		srcErr error
	)

	// Single producer owns the source; workers only ever borrow one
	// candidate at a time off the queue.
	go func() {
		defer close(jobs)
		for {
			candidate, err := s.src.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				// A skipped candidate could turn into a false
				// Exhausted, so a read failure aborts the run.
				mu.Lock()
				srcErr = err
				mu.Unlock()
				cancel()
				return
			}
			select {
			case jobs <- candidate:
			case <-runCtx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for candidate := range jobs {
				select {
				case <-runCtx.Done():
					return
				default:
				}
				n := attempts.Add(1)
				if s.progress != nil {
					s.progress(candidate, n)
				}
				if Verify(candidate, s.tok.SigningInput, s.alg, s.tok.Signature) {
					mu.Lock()
					if !found {
						found = true
						secret = candidate
					}
					mu.Unlock()
					cancel()
					return
				}
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()

	result := &Result{
		Attempts: attempts.Load(),
		Elapsed:  time.Since(start),
	}

	// A confirmed match always wins, even when the producer failed or the
	// caller cancelled at the same moment.
	if found {
		result.Outcome = OutcomeFound
		result.Secret = secret
		return result, nil
	}
	if srcErr != nil {
		return nil, srcErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result.Outcome = OutcomeExhausted
	return result, nil
}
