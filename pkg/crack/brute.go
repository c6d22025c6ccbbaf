package crack

import (
	"fmt"
	"io"
	"math/big"
)

// BruteSource enumerates every string over an alphabet of lengths 1
// through max, ordered by increasing length. Within a length the string is
// a base-N odometer: the first alphabet rune is digit zero and the
// rightmost position is least significant, so alphabet "ab" with max 2
// yields a, b, aa, ab, ba, bb. Memory use is O(max) regardless of
// keyspace size.
type BruteSource struct {
	alphabet []rune
	max      int
	length   int
	digits   []int
}

// NewBruteSource builds an enumerator over alphabet up to maxLength.
// Duplicate runes are removed, first occurrence wins.
func NewBruteSource(alphabet string, maxLength int) (*BruteSource, error) {
	if maxLength < 1 {
		return nil, fmt.Errorf("max length must be positive, got %d", maxLength)
	}
	seen := make(map[rune]bool)
	var runes []rune
	for _, r := range alphabet {
		if seen[r] {
			continue
		}
		seen[r] = true
		runes = append(runes, r)
	}
	if len(runes) == 0 {
		return nil, fmt.Errorf("alphabet is empty")
	}
	return &BruteSource{
		alphabet: runes,
		max:      maxLength,
		length:   1,
		digits:   make([]int, 1),
	}, nil
}

// Next returns the current counter value and advances the odometer.
func (s *BruteSource) Next() ([]byte, error) {
	if s.length > s.max {
		return nil, io.EOF
	}

	out := make([]rune, s.length)
	for i, d := range s.digits {
		out[i] = s.alphabet[d]
	}

	// Advance: increment the least significant digit, carrying left.
	// A carry out of the leftmost digit moves to the next length.
	i := s.length - 1
	for ; i >= 0; i-- {
		s.digits[i]++
		if s.digits[i] < len(s.alphabet) {
			break
		}
		s.digits[i] = 0
	}
	if i < 0 {
		s.length++
		s.digits = make([]int, s.length)
	}

	return []byte(string(out)), nil
}

// Size returns sum of N^L for L in 1..max.
func (s *BruteSource) Size() *big.Int {
	n := big.NewInt(int64(len(s.alphabet)))
	total := new(big.Int)
	for l := 1; l <= s.max; l++ {
		total.Add(total, new(big.Int).Exp(n, big.NewInt(int64(l)), nil))
	}
	return total
}
