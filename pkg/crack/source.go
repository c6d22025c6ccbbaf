// Package crack recovers HMAC signing secrets for JWTs by searching a
// candidate keyspace with a pool of workers.
package crack

import "math/big"

// Source yields a lazy, finite sequence of candidate secrets. Sources are
// single-use: once Next returns io.EOF the sequence is over. Candidates
// are independent of one another, so the scheduler may hand consecutive
// candidates to different workers.
type Source interface {
	// Next returns the next candidate. It returns io.EOF when the
	// keyspace is exhausted and any other error on a read failure. The
	// returned slice is owned by the caller.
	Next() ([]byte, error)

	// Size returns the total number of candidates the source will yield,
	// or nil when that is not known up front (streamed wordlists).
	Size() *big.Int
}
