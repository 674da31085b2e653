package models

import "strings"

var (
	imagePositive = []string{"image", "imagen", "img"}
	imageNegative = []string{"text-only", "code-only", "chat-only"}
)

// IsImageCapable guesses from the model id whether the model can produce
// images. Keyword matching is a presentation filter for pickers, nothing
// more; adapters never consult it.
func IsImageCapable(id string) bool {
	lower := strings.ToLower(id)
	for _, kw := range imageNegative {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	for _, kw := range imagePositive {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// FilterImageCapable keeps the ids IsImageCapable approves, preserving the
// input order.
func FilterImageCapable(ids []string) []string {
	var out []string
	for _, id := range ids {
		if IsImageCapable(id) {
			out = append(out, id)
		}
	}
	return out
}
