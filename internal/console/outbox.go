package console

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"sync"

	"shelf-go/internal/shelf"
)

// Outbox writes every outbound action as one record to w. Menus get message
// refs "m1", "m2", ... when first shown. Re-rendering a ref with identical
// entries fails with shelf.ErrMenuNotModified, as chat services do.
type Outbox struct {
	mu     sync.Mutex
	w      io.Writer
	format Format
	nextID int
	menus  map[string][]shelf.MenuEntry
}

var _ shelf.Outbox = (*Outbox)(nil)

// NewOutbox creates an Outbox writing format records to w.
func NewOutbox(w io.Writer, format Format) *Outbox {
	return &Outbox{w: w, format: format, menus: make(map[string][]shelf.MenuEntry)}
}

// record is the JSON form of one outbound action.
type record struct {
	Op         string            `json:"op"`
	User       string            `json:"user"`
	Text       string            `json:"text,omitempty"`
	MessageRef string            `json:"message_ref,omitempty"`
	Entries    []shelf.MenuEntry `json:"entries,omitempty"`
	Kind       string            `json:"kind,omitempty"`
	Payload    string            `json:"payload,omitempty"`
}

func (o *Outbox) Reply(_ context.Context, userID, text string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.write(record{Op: "reply", User: userID, Text: text})
}

func (o *Outbox) RenderMenu(_ context.Context, userID, messageRef string, entries []shelf.MenuEntry) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if messageRef == "" {
		o.nextID++
		messageRef = "m" + strconv.Itoa(o.nextID)
	} else if prev, ok := o.menus[messageRef]; ok && sameEntries(prev, entries) {
		return fmt.Errorf("menu %s: %w", messageRef, shelf.ErrMenuNotModified)
	}
	o.menus[messageRef] = append([]shelf.MenuEntry(nil), entries...)

	return o.write(record{Op: "menu", User: userID, MessageRef: messageRef, Entries: entries})
}

func (o *Outbox) SendContent(_ context.Context, userID string, kind shelf.Kind, payload string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.write(record{Op: "content", User: userID, Kind: kind.String(), Payload: payload})
}

func (o *Outbox) write(r record) error {
	if o.format == FormatJSON {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encoding %s record: %w", r.Op, err)
		}
		data = append(data, '\n')
		if _, err := o.w.Write(data); err != nil {
			return fmt.Errorf("writing %s record: %w", r.Op, err)
		}
		return nil
	}

	var err error
	switch r.Op {
	case "reply":
		_, err = fmt.Fprintf(o.w, "[%s] %s\n", r.User, r.Text)
	case "content":
		_, err = fmt.Fprintf(o.w, "[%s] <%s> %s\n", r.User, r.Kind, r.Payload)
	case "menu":
		_, err = fmt.Fprintf(o.w, "[%s] menu %s\n", r.User, r.MessageRef)
		for _, e := range r.Entries {
			if err != nil {
				break
			}
			_, err = fmt.Fprintf(o.w, "    %-40s !%s\n", e.Label, e.Command)
		}
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", r.Op, err)
	}
	return nil
}

func sameEntries(a, b []shelf.MenuEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
