package crack

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math/big"
	"os"
)

// maxLineBytes bounds a single wordlist entry. Lines longer than this are
// a read error, not a silent skip.
const maxLineBytes = 1 << 20

// WordlistSource streams candidates from a newline-delimited file, one
// candidate per non-empty line, in file order. The file is opened at
// construction so an unreadable wordlist fails before any worker starts.
type WordlistSource struct {
	file    *os.File
	scanner *bufio.Scanner
	done    bool
}

// NewWordlistSource opens path for streaming. The returned source owns the
// file handle and closes it on exhaustion or Close.
func NewWordlistSource(path string) (*WordlistSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open wordlist: %w", err)
	}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &WordlistSource{file: f, scanner: sc}, nil
}

// Next returns the next non-empty line with its terminator stripped.
func (s *WordlistSource) Next() ([]byte, error) {
	if s.done {
		return nil, io.EOF
	}
	for s.scanner.Scan() {
		line := bytes.TrimSuffix(s.scanner.Bytes(), []byte("\r"))
		if len(line) == 0 {
			continue
		}
		// The scanner reuses its buffer across Scan calls.
		candidate := make([]byte, len(line))
		copy(candidate, line)
		return candidate, nil
	}
	s.done = true
	s.file.Close()
	if err := s.scanner.Err(); err != nil {
		return nil, fmt.Errorf("wordlist read failed: %w", err)
	}
	return nil, io.EOF
}

// Size is unknown for a streamed wordlist.
func (s *WordlistSource) Size() *big.Int { return nil }

// Close releases the file handle early (e.g. when the run is cancelled
// before exhaustion).
func (s *WordlistSource) Close() error {
	if s.done {
		return nil
	}
	s.done = true
	return s.file.Close()
}
