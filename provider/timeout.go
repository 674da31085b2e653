package provider

import (
	"strings"
	"time"
)

const (
	// DefaultCallTimeout bounds one upstream attempt for ordinary models.
	DefaultCallTimeout = 300 * time.Second
	// ThinkingCallTimeout bounds one attempt for models that burn wall-clock
	// time on hidden reasoning before the first byte arrives.
	ThinkingCallTimeout = 600 * time.Second
)

// thinkingKeywords is the frozen substring set that marks a model as a
// reasoning model. It is a heuristic over vendor naming conventions, matched
// against the lowercased model id.
var thinkingKeywords = []string{
	"o1",
	"o3",
	"o4",
	"gpt-5",
	"reasoner",
	"thinking",
	"r1",
	"qwq",
}

// IsThinkingModel reports whether the model id looks like a reasoning model.
func IsThinkingModel(modelID string) bool {
	id := strings.ToLower(modelID)
	for _, kw := range thinkingKeywords {
		if strings.Contains(id, kw) {
			return true
		}
	}
	return false
}

// TimeoutFor returns the wall-clock budget for a single upstream attempt
// against the given model. Every attempt gets a fresh budget, retries
// included.
func TimeoutFor(modelID string) time.Duration {
	if IsThinkingModel(modelID) {
		return ThinkingCallTimeout
	}
	return DefaultCallTimeout
}
