// Package transcript maintains the running text of one streamed model reply
// and the read-side views derived from it: a display string that never shows
// a dangling code fence, and the artifact lifted out of the first complete
// fenced block.
package transcript

import (
	"strings"
)

const fence = "```"

// Artifact is a structurally complete fenced code block found in reply text.
// Language is the fence info string, possibly empty.
type Artifact struct {
	Language string `json:"language,omitempty"`
	Content  string `json:"content"`
}

// Accumulator collects streamed chunks for a single reply. Appends are
// cheap; the artifact view is recomputed per append so consumers always see
// the detection result for the text so far. Not safe for concurrent use; one
// stream owns one accumulator.
type Accumulator struct {
	text     strings.Builder
	artifact *Artifact
}

// New returns an empty accumulator.
func New() *Accumulator {
	return &Accumulator{}
}

// Append adds one chunk of streamed text and re-runs artifact detection on
// the accumulated whole. Detection is last-wins: a block that only becomes
// well formed with this chunk replaces whatever was detected before.
func (a *Accumulator) Append(chunk string) {
	if chunk == "" {
		return
	}
	a.text.WriteString(chunk)
	if art := ExtractArtifact(a.text.String()); art != nil {
		a.artifact = art
	}
}

// Text returns the raw accumulated text.
func (a *Accumulator) Text() string {
	return a.text.String()
}

// DisplayText returns the accumulated text adjusted for rendering mid-stream:
// when the text contains an odd number of code fences, exactly one closing
// fence is appended so markdown renderers never see an unterminated block.
// The check runs against current text on every call, so once the stream
// closes its fence the patch disappears on its own.
func (a *Accumulator) DisplayText() string {
	return BalanceFences(a.text.String())
}

// Artifact returns the most recently detected artifact, or nil when no
// complete fenced block has been seen yet.
func (a *Accumulator) Artifact() *Artifact {
	if a.artifact == nil {
		return nil
	}
	art := *a.artifact
	return &art
}

// Len returns the length of the accumulated text in bytes.
func (a *Accumulator) Len() int {
	return a.text.Len()
}

// Reset discards accumulated text and any detected artifact.
func (a *Accumulator) Reset() {
	a.text.Reset()
	a.artifact = nil
}

// BalanceFences appends one closing code fence when text contains an odd
// number of them, leaving balanced text untouched.
func BalanceFences(text string) string {
	if strings.Count(text, fence)%2 == 1 {
		return text + "\n" + fence
	}
	return text
}

// ExtractArtifact returns the first structurally well-formed fenced block in
// text: an opening fence, an info string terminated by a newline, a body, and
// a closing fence. Partial blocks (no newline after the opener yet, or no
// closing fence yet) yield nil.
func ExtractArtifact(text string) *Artifact {
	start := strings.Index(text, fence)
	if start < 0 {
		return nil
	}
	infoStart := start + len(fence)
	nl := strings.IndexByte(text[infoStart:], '\n')
	if nl < 0 {
		return nil
	}
	bodyStart := infoStart + nl + 1
	end := strings.Index(text[bodyStart:], fence)
	if end < 0 {
		return nil
	}
	return &Artifact{
		Language: strings.TrimSpace(text[infoStart : infoStart+nl]),
		Content:  strings.TrimSuffix(text[bodyStart:bodyStart+end], "\n"),
	}
}
