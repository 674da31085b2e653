// Package wire holds the response-probing helpers shared by the vendor
// adapters: text cleanup and the token/finish metadata probes that work
// across the OpenAI and Gemini response families.
package wire

import (
	"regexp"
	"strings"
)

// thinkSpan matches an inline reasoning span some OpenAI-compatible gateways
// leave in the payload text instead of a dedicated field.
var thinkSpan = regexp.MustCompile(`(?s)<think>.*?</think>`)

// CleanText strips reasoning spans and stray control bytes from extracted
// model text, then trims surrounding whitespace.
func CleanText(s string) string {
	if s == "" {
		return s
	}
	s = thinkSpan.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "\x00", "")
	return strings.TrimSpace(s)
}
