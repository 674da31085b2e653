package history

import (
	"iter"
	"slices"
	"sync"

	"github.com/casualjim/loom/messages"
	"github.com/casualjim/loom/pkg/uuidx"
	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Memory holds the messages of one conversation in insertion order, keyed by
// message id. All methods are safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	id      uuid.UUID
	entries *orderedmap.OrderedMap[uuid.UUID, messages.Message]
}

// New creates an empty Memory with a fresh identifier.
func New() *Memory {
	return &Memory{
		id:      uuidx.New(),
		entries: orderedmap.New[uuid.UUID, messages.Message](),
	}
}

// ID returns the unique identifier of this memory.
func (m *Memory) ID() uuid.UUID {
	return m.id
}

// Len returns the number of messages currently held.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries.Len()
}

// Add appends a message to the timeline. Adding a message whose id is
// already present updates it in place without changing its position.
func (m *Memory) Add(msg messages.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries.Set(msg.ID, msg)
}

// Get returns the message with the given id.
func (m *Memory) Get(id uuid.UUID) (messages.Message, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries.Get(id)
}

// Messages returns a snapshot of the timeline in insertion order. The
// returned slice is a copy; mutations to it don't affect the store.
func (m *Memory) Messages() []messages.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]messages.Message, 0, m.entries.Len())
	for pair := m.entries.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// MessagesIter returns an iterator over a snapshot of the timeline.
func (m *Memory) MessagesIter() iter.Seq[messages.Message] {
	return slices.Values(m.Messages())
}

// Before returns every message strictly before the given id, in order.
// Reports false when the id is unknown.
func (m *Memory) Before(id uuid.UUID) ([]messages.Message, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	target := m.entries.GetPair(id)
	if target == nil {
		return nil, false
	}
	var out []messages.Message
	for pair := m.entries.Oldest(); pair != nil && pair != target; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out, true
}

// TruncateAfter removes every message after the given id, keeping the
// message itself. Reports false when the id is unknown, in which case
// nothing is removed.
func (m *Memory) TruncateAfter(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	target := m.entries.GetPair(id)
	if target == nil {
		return false
	}
	var doomed []uuid.UUID
	for pair := target.Next(); pair != nil; pair = pair.Next() {
		doomed = append(doomed, pair.Key)
	}
	for _, key := range doomed {
		m.entries.Delete(key)
	}
	return true
}

// ReplaceContent swaps the content of the message with the given id,
// leaving its position, role, and attachments untouched. Reports false
// when the id is unknown.
func (m *Memory) ReplaceContent(id uuid.UUID, content messages.ContentOrParts) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg, ok := m.entries.Get(id)
	if !ok {
		return false
	}
	msg.Content = content
	m.entries.Set(id, msg)
	return true
}
