package crack

import (
	"context"
	"errors"
	"io"
	"math/big"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hardwaylabs/jwt-hack/pkg/token"
)

func mintToken(t *testing.T, method jwt.SigningMethod, key any) *token.Token {
	t.Helper()
	claims := jwt.MapClaims{"sub": "1234567890", "name": "John Doe"}
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("failed to sign fixture token: %v", err)
	}
	tok, err := token.Decompose(signed)
	if err != nil {
		t.Fatalf("failed to decompose fixture token: %v", err)
	}
	return tok
}

func runScheduler(t *testing.T, tok *token.Token, src Source, workers int) *Result {
	t.Helper()
	s, err := New(tok, src, Options{Workers: workers})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return result
}

func TestDictionaryFindsSecret(t *testing.T) {
	tok := mintToken(t, jwt.SigningMethodHS256, []byte("s3cr3t"))
	path := writeWordlist(t, "wrong1\ns3cr3t\nwrong2\n")

	for _, workers := range []int{1, 4, 0} { // 0 means all cores
		src, err := NewWordlistSource(path)
		if err != nil {
			t.Fatalf("NewWordlistSource failed: %v", err)
		}
		result := runScheduler(t, tok, src, workers)
		if result.Outcome != OutcomeFound {
			t.Fatalf("workers=%d: expected Found, got %v", workers, result.Outcome)
		}
		if string(result.Secret) != "s3cr3t" {
			t.Fatalf("workers=%d: expected secret s3cr3t, got %q", workers, result.Secret)
		}
		if result.Attempts == 0 {
			t.Fatalf("workers=%d: attempts not counted", workers)
		}
	}
}

func TestBruteforceFindsSecret(t *testing.T) {
	tok := mintToken(t, jwt.SigningMethodHS512, []byte("cab"))
	src, err := NewBruteSource("abc", 3)
	if err != nil {
		t.Fatalf("NewBruteSource failed: %v", err)
	}
	result := runScheduler(t, tok, src, 4)
	if result.Outcome != OutcomeFound {
		t.Fatalf("expected Found, got %v", result.Outcome)
	}
	if string(result.Secret) != "cab" {
		t.Fatalf("expected secret cab, got %q", result.Secret)
	}
}

func TestExhaustedCountsWholeKeyspace(t *testing.T) {
	// Secret is longer than max, so the whole keyspace is searched.
	tok := mintToken(t, jwt.SigningMethodHS256, []byte("s3cr3t"))
	src, err := NewBruteSource("ab", 3)
	if err != nil {
		t.Fatalf("NewBruteSource failed: %v", err)
	}
	size := src.Size() // 2 + 4 + 8

	result := runScheduler(t, tok, src, 4)
	if result.Outcome != OutcomeExhausted {
		t.Fatalf("expected Exhausted, got %v", result.Outcome)
	}
	if big.NewInt(int64(result.Attempts)).Cmp(size) != 0 {
		t.Fatalf("expected %s attempts on exhaustion, got %d", size, result.Attempts)
	}
}

func TestDictionaryExhausted(t *testing.T) {
	tok := mintToken(t, jwt.SigningMethodHS256, []byte("not-in-list"))
	path := writeWordlist(t, "alpha\nbeta\ngamma\n")
	src, err := NewWordlistSource(path)
	if err != nil {
		t.Fatalf("NewWordlistSource failed: %v", err)
	}
	result := runScheduler(t, tok, src, 2)
	if result.Outcome != OutcomeExhausted {
		t.Fatalf("expected Exhausted, got %v", result.Outcome)
	}
	if result.Attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", result.Attempts)
	}
}

func TestOutcomeIsIdempotentAcrossRuns(t *testing.T) {
	tok := mintToken(t, jwt.SigningMethodHS384, []byte("ba"))
	for i := 0; i < 5; i++ {
		src, err := NewBruteSource("ab", 2)
		if err != nil {
			t.Fatalf("NewBruteSource failed: %v", err)
		}
		result := runScheduler(t, tok, src, 4)
		if result.Outcome != OutcomeFound || string(result.Secret) != "ba" {
			t.Fatalf("run %d diverged: outcome=%v secret=%q", i, result.Outcome, result.Secret)
		}
	}
}

func TestUnsupportedAlgorithmRejectedBeforeScheduling(t *testing.T) {
	tok := &token.Token{Alg: "RS256", SigningInput: []byte("a.b"), Signature: []byte("sig")}
	src, err := NewBruteSource("ab", 1)
	if err != nil {
		t.Fatalf("NewBruteSource failed: %v", err)
	}
	if _, err := New(tok, src, Options{}); !errors.Is(err, ErrUnsupportedAlgorithm) {
		t.Fatalf("expected ErrUnsupportedAlgorithm, got %v", err)
	}
	// No candidate may have been consumed.
	if c, err := src.Next(); err != nil || string(c) != "a" {
		t.Fatalf("source was touched during validation: %q %v", c, err)
	}
}

func TestProgressHookObservesAttempts(t *testing.T) {
	tok := mintToken(t, jwt.SigningMethodHS256, []byte("zz"))
	src, err := NewBruteSource("z", 2)
	if err != nil {
		t.Fatalf("NewBruteSource failed: %v", err)
	}
	var calls int
	s, err := New(tok, src, Options{Workers: 1, Progress: func([]byte, uint64) { calls++ }})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Outcome != OutcomeFound {
		t.Fatalf("expected Found, got %v", result.Outcome)
	}
	if uint64(calls) != result.Attempts {
		t.Fatalf("progress hook called %d times for %d attempts", calls, result.Attempts)
	}
}

func TestCancelledContextStopsRun(t *testing.T) {
	tok := mintToken(t, jwt.SigningMethodHS256, []byte("unreachable-secret"))
	src, err := NewBruteSource("abcdefgh", 12)
	if err != nil {
		t.Fatalf("NewBruteSource failed: %v", err)
	}
	s, err := New(tok, src, Options{Workers: 2})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

// failingSource returns one candidate and then a read error.
type failingSource struct{ n int }

func (f *failingSource) Next() ([]byte, error) {
	f.n++
	if f.n == 1 {
		return []byte("first"), nil
	}
	return nil, errors.New("disk on fire")
}

func (f *failingSource) Size() *big.Int { return nil }

func TestSourceErrorAbortsRun(t *testing.T) {
	tok := mintToken(t, jwt.SigningMethodHS256, []byte("nope"))
	s, err := New(tok, &failingSource{}, Options{Workers: 2})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := s.Run(context.Background()); err == nil {
		t.Fatal("expected a source read error to abort the run")
	} else if errors.Is(err, io.EOF) {
		t.Fatalf("io.EOF must not surface as an error: %v", err)
	}
}

func TestMatchWinsOverSimultaneousExhaustion(t *testing.T) {
	// The match is the very last candidate, so cancellation and source
	// exhaustion race; the confirmed match must still be reported.
	tok := mintToken(t, jwt.SigningMethodHS256, []byte("bb"))
	src, err := NewBruteSource("ab", 2)
	if err != nil {
		t.Fatalf("NewBruteSource failed: %v", err)
	}
	result := runScheduler(t, tok, src, 4)
	if result.Outcome != OutcomeFound || string(result.Secret) != "bb" {
		t.Fatalf("expected Found(bb), got %v %q", result.Outcome, result.Secret)
	}
}
