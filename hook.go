package loom

import (
	"github.com/casualjim/loom/events"
	"github.com/casualjim/loom/internal/broker"
)

// Hook receives the events of a conversation attached through Subscribe.
// See events.Hook for the contract.
type Hook = events.Hook

// Subscription is one hook's attachment to a conversation's event stream.
type Subscription = broker.Subscription
