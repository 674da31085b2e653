package openai

import (
	"strings"

	"github.com/casualjim/loom/messages"
	"github.com/tidwall/gjson"
)

// The correction triggers below are frozen substring heuristics over vendor
// error bodies, matched lowercase. Their wording is part of observable
// behavior: loosening or tightening a trigger changes which calls retry.

const (
	fieldMaxTokens           = "max_tokens"
	fieldMaxCompletionTokens = "max_completion_tokens"
)

// rejectsMaxTokens recognizes the unsupported-parameter complaint that asks
// for max_completion_tokens: the error must carry the unsupported-parameter
// marker, its message must reference both token-limit field names, and the
// structured param, when present, must be max_tokens.
func rejectsMaxTokens(body string) bool {
	lower := strings.ToLower(body)
	if gjson.Get(body, "error.code").String() != "unsupported_parameter" &&
		!strings.Contains(lower, "unsupported parameter") {
		return false
	}

	msg := strings.ToLower(gjson.Get(body, "error.message").String())
	if msg == "" {
		msg = lower
	}
	if !strings.Contains(msg, fieldMaxTokens) || !strings.Contains(msg, fieldMaxCompletionTokens) {
		return false
	}

	param := gjson.Get(body, "error.param").String()
	return param == "" || param == fieldMaxTokens
}

// rejectsSystemRole recognizes the complaint a model raises when it does not
// accept system messages. The completions dialect talks about the system
// role; the responses dialect complains about the instructions field.
func (p *Provider) rejectsSystemRole(body string) bool {
	lower := strings.ToLower(body)
	if p.dialect == DialectResponses {
		return strings.Contains(lower, "instructions") && mentionsRejection(lower)
	}
	if !strings.Contains(lower, "system") {
		return false
	}
	if !strings.Contains(lower, "role") && !strings.Contains(lower, "message") {
		return false
	}
	return mentionsRejection(lower)
}

func mentionsRejection(lower string) bool {
	for _, needle := range []string{"unsupported", "not supported", "does not support", "invalid"} {
		if strings.Contains(lower, needle) {
			return true
		}
	}
	return false
}

// mergeSystemMessages rewrites a thread for models that reject the system
// role: all system text is newline-joined and re-issued as a user message.
// When the first non-system message is from the user, the merged text becomes
// its preamble ("System:\n<merged>\n\n<original text>"); otherwise it is
// prepended as a standalone user message. Threads without system messages
// come back untouched.
func mergeSystemMessages(thread []messages.Message) []messages.Message {
	var system []string
	rest := make([]messages.Message, 0, len(thread))
	for _, msg := range thread {
		if msg.Role == messages.RoleSystem {
			if txt := msg.Text(); txt != "" {
				system = append(system, txt)
			}
			continue
		}
		rest = append(rest, msg)
	}
	if len(system) == 0 {
		return thread
	}

	preamble := "System:\n" + strings.Join(system, "\n")
	if len(rest) > 0 && rest[0].Role.Normalize() == messages.RoleUser {
		first := rest[0]
		if len(first.Content.Parts) > 0 {
			parts := append([]messages.ContentPart{messages.Text(preamble + "\n\n")}, first.Content.Parts...)
			first.Content = messages.ContentOrParts{Parts: parts}
		} else {
			first.Content = messages.ContentOrParts{Content: preamble + "\n\n" + first.Content.Content}
		}
		rest[0] = first
		return rest
	}

	return append([]messages.Message{messages.User(preamble)}, rest...)
}
