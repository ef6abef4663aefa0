package testutil

import (
	"context"
	"fmt"
	"sync"

	"shelf-go/internal/shelf"
)

// Sent is one outbound call captured by RecordingOutbox.
type Sent struct {
	Op         string // "reply", "menu" or "content"
	UserID     string
	Text       string
	MessageRef string
	Entries    []shelf.MenuEntry
	Kind       shelf.Kind
	Payload    string
}

// RecordingOutbox captures every outbound call in order. FailPayloads makes
// SendContent fail for the listed payloads; MenuErr is returned from every
// RenderMenu call.
type RecordingOutbox struct {
	mu           sync.Mutex
	sent         []Sent
	FailPayloads map[string]bool
	MenuErr      error
}

var _ shelf.Outbox = (*RecordingOutbox)(nil)

func NewRecordingOutbox() *RecordingOutbox {
	return &RecordingOutbox{FailPayloads: make(map[string]bool)}
}

func (o *RecordingOutbox) Reply(_ context.Context, userID, text string) error {
	o.record(Sent{Op: "reply", UserID: userID, Text: text})
	return nil
}

func (o *RecordingOutbox) RenderMenu(_ context.Context, userID, messageRef string, entries []shelf.MenuEntry) error {
	o.record(Sent{Op: "menu", UserID: userID, MessageRef: messageRef, Entries: append([]shelf.MenuEntry(nil), entries...)})
	return o.MenuErr
}

func (o *RecordingOutbox) SendContent(_ context.Context, userID string, kind shelf.Kind, payload string) error {
	o.mu.Lock()
	fail := o.FailPayloads[payload]
	o.mu.Unlock()
	if fail {
		return fmt.Errorf("transport rejected %s", kind)
	}
	o.record(Sent{Op: "content", UserID: userID, Kind: kind, Payload: payload})
	return nil
}

func (o *RecordingOutbox) record(s Sent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, s)
}

// All returns every captured call.
func (o *RecordingOutbox) All() []Sent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Sent(nil), o.sent...)
}

// Replies returns the text of every reply, in order.
func (o *RecordingOutbox) Replies() []string {
	var out []string
	for _, s := range o.All() {
		if s.Op == "reply" {
			out = append(out, s.Text)
		}
	}
	return out
}

// LastReply returns the most recent reply text, or "".
func (o *RecordingOutbox) LastReply() string {
	replies := o.Replies()
	if len(replies) == 0 {
		return ""
	}
	return replies[len(replies)-1]
}

// LastMenu returns the entries of the most recent menu, or nil.
func (o *RecordingOutbox) LastMenu() []shelf.MenuEntry {
	all := o.All()
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].Op == "menu" {
			return all[i].Entries
		}
	}
	return nil
}

// Contents returns every delivered content call, in order.
func (o *RecordingOutbox) Contents() []Sent {
	var out []Sent
	for _, s := range o.All() {
		if s.Op == "content" {
			out = append(out, s)
		}
	}
	return out
}

// Reset forgets every captured call.
func (o *RecordingOutbox) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = nil
}
