// Package ssex splits server-sent-event streams into per-line frames the way
// OpenAI-compatible vendors actually emit them: every data line is one JSON
// payload, blank lines separate events, and assorted gateways sprinkle in
// comment lines that are not SSE at all.
package ssex

import (
	"bufio"
	"bytes"
	"io"
)

const (
	// maxLineSize caps a single SSE line. Vendors occasionally ship very
	// large frames (base64 image payloads), so the cap is generous.
	maxLineSize = 1 << 20

	dataPrefix = "data:"
)

// Scanner reads an SSE stream line by line and yields one frame per
// non-blank line. Lines carrying the data: prefix are stripped of it; every
// other non-blank line (comments such as ": OPENROUTER PROCESSING", event:
// headers) passes through verbatim so the consumer decides what to ignore.
//
// A fragment cut off mid-line by the reader is held back until the rest of
// the line arrives; frames are always whole lines.
type Scanner struct {
	sc    *bufio.Scanner
	frame []byte
}

// NewScanner wraps r. The reader stays owned by the caller and is not closed.
func NewScanner(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLineSize)
	return &Scanner{sc: sc}
}

// Next advances to the next frame. It returns false at end of stream or on a
// read error; check Err afterwards to tell the two apart.
func (s *Scanner) Next() bool {
	for s.sc.Scan() {
		line := bytes.TrimRight(s.sc.Bytes(), "\r")
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if rest, ok := bytes.CutPrefix(line, []byte(dataPrefix)); ok {
			s.frame = bytes.TrimPrefix(rest, []byte(" "))
			return true
		}
		s.frame = line
		return true
	}
	s.frame = nil
	return false
}

// Frame returns the current frame payload. The bytes are only valid until
// the next call to Next, like bufio.Scanner.Bytes.
func (s *Scanner) Frame() []byte { return s.frame }

// Text returns the current frame as a freshly allocated string.
func (s *Scanner) Text() string { return string(s.frame) }

// Err returns the first error hit by the underlying reader, nil on clean EOF.
func (s *Scanner) Err() error { return s.sc.Err() }
