package coach

import (
	"fmt"
	"sync"
	"time"

	"legacy-guardians/internal/models"
)

// ThinkingText is the optimistic placeholder shown while a reply is
// pending.
const ThinkingText = "Thinking…"

// Transcript is the append-only conversation log between the player and
// the coach. Pending entries are resolved in place when the reply lands;
// messages are never removed or reordered.
type Transcript struct {
	mu       sync.Mutex
	messages []models.ChatMessage
	seq      int
}

// NewTranscript creates an empty transcript, optionally seeded with a
// greeting from the coach.
func NewTranscript(greeting string) *Transcript {
	t := &Transcript{}
	if greeting != "" {
		t.Append(models.SenderAI, greeting)
	}
	return t
}

// Append adds a finished message and returns its id.
func (t *Transcript) Append(sender models.ChatSender, text string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.appendLocked(sender, text, false)
}

// AppendPending adds the optimistic "Thinking…" placeholder for a reply
// still in flight and returns its id for later resolution.
func (t *Transcript) AppendPending() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.appendLocked(models.SenderAI, ThinkingText, true)
}

func (t *Transcript) appendLocked(sender models.ChatSender, text string, pending bool) string {
	t.seq++
	id := fmt.Sprintf("msg-%d", t.seq)
	t.messages = append(t.messages, models.ChatMessage{
		ID:        id,
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now(),
		Pending:   pending,
	})
	return id
}

// Resolve replaces the text of a pending message and clears its pending
// flag. Resolving an unknown id is a no-op; a stale reply landing after
// the session moved on must not corrupt the log.
func (t *Transcript) Resolve(id, text string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.messages {
		if t.messages[i].ID == id {
			t.messages[i].Text = text
			t.messages[i].Pending = false
			t.messages[i].Timestamp = time.Now()
			return true
		}
	}
	return false
}

// Messages returns a copy of the transcript.
func (t *Transcript) Messages() []models.ChatMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.ChatMessage, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}
