package handler

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/pwcheck/pwcheck-go/internal/service"
)

// MaxBatchPasswords caps how many passwords one request may evaluate.
const MaxBatchPasswords = 1000

var (
	ErrTooManyPasswords = fmt.Errorf("too many passwords (max %d)", MaxBatchPasswords)
	ErrInvalidUTF8      = errors.New("invalid UTF-8")
)

// asciiSpace is the whitespace stripped from both ends of an uploaded line.
// Unicode spaces such as U+00A0 are password characters and are kept.
const asciiSpace = " \t\n\r\v\f"

// readPasswordLines splits an uploaded list into one candidate per line.
// Surrounding ASCII whitespace is trimmed and blank lines are kept as empty
// passwords. A line that is not valid UTF-8 becomes a candidate carrying
// ErrInvalidUTF8 so the rest of the list is still evaluated.
func readPasswordLines(r io.Reader, maxBytes int64) ([]service.Candidate, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), int(maxBytes))

	var candidates []service.Candidate
	line := 0
	for sc.Scan() {
		line++
		if len(candidates) == MaxBatchPasswords {
			return nil, ErrTooManyPasswords
		}

		raw := bytes.Trim(sc.Bytes(), asciiSpace)
		if !utf8.Valid(raw) {
			candidates = append(candidates, service.Candidate{
				Err: fmt.Errorf("line %d: %w", line, ErrInvalidUTF8),
			})
			continue
		}
		candidates = append(candidates, service.Candidate{Password: string(raw)})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading password list: %w", err)
	}

	return candidates, nil
}
