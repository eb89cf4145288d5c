package commands

import (
	"sync"

	"github.com/playtoearn/coinserver/internal/model"
)

// Messenger delivers asynchronous command results back to a player
type Messenger interface {
	Notify(id model.PlayerID, text string)
	Error(id model.PlayerID, text string)
}

// Message is one queued chat line for a player
type Message struct {
	Text    string `json:"text"`
	IsError bool   `json:"is_error"`
}

// Messages a player can have pending before the oldest are dropped
const mailboxLimit = 32

// Mailbox queues messages per player until the hosting game server
// polls them. Messages for a player who never polls again are dropped
// on disconnect.
type Mailbox struct {
	mu     sync.Mutex
	queues map[model.PlayerID][]Message
}

// Ensure Mailbox implements Messenger
var _ Messenger = (*Mailbox)(nil)

// NewMailbox creates an empty mailbox
func NewMailbox() *Mailbox {
	return &Mailbox{
		queues: make(map[model.PlayerID][]Message),
	}
}

// Notify queues an informational message
func (m *Mailbox) Notify(id model.PlayerID, text string) {
	m.push(id, Message{Text: text})
}

// Error queues an error message
func (m *Mailbox) Error(id model.PlayerID, text string) {
	m.push(id, Message{Text: text, IsError: true})
}

func (m *Mailbox) push(id model.PlayerID, msg Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q := append(m.queues[id], msg)
	if len(q) > mailboxLimit {
		q = q[len(q)-mailboxLimit:]
	}
	m.queues[id] = q
}

// Drain returns and clears the player's pending messages
func (m *Mailbox) Drain(id model.PlayerID) []Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	q := m.queues[id]
	delete(m.queues, id)
	return q
}

// Discard drops any pending messages, called on disconnect
func (m *Mailbox) Discard(id model.PlayerID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.queues, id)
}
