package shelf

import (
	"context"
	"errors"
	"fmt"
)

// interaction buffers everything a handler wants to tell the user. Nothing
// reaches the transport until the state change behind it has been saved.
type interaction struct {
	user    string
	actions []action
}

type actionKind int

const (
	actionReply actionKind = iota
	actionMenu
	actionSend
	actionBatch
)

type action struct {
	kind       actionKind
	text       string
	messageRef string
	entries    []MenuEntry
	delivery   delivery
	batch      []delivery
}

// delivery is one item to send. missing marks an item whose short id is no
// longer registered; it is reported instead of sent.
type delivery struct {
	kind    Kind
	payload string
	label   string
	missing bool
}

func (it *interaction) reply(text string) {
	it.actions = append(it.actions, action{kind: actionReply, text: text})
}

func (it *interaction) menu(messageRef string, entries []MenuEntry) {
	it.actions = append(it.actions, action{kind: actionMenu, messageRef: messageRef, entries: entries})
}

func (it *interaction) send(kind Kind, payload, label string) {
	it.actions = append(it.actions, action{kind: actionSend, delivery: delivery{kind: kind, payload: payload, label: label}})
}

func (it *interaction) batch(items []delivery) {
	it.actions = append(it.actions, action{kind: actionBatch, batch: items})
}

// flush delivers the buffered actions in order. Failures to send one item of
// a batch are reported to the user and do not stop the rest of the batch.
func (s *ShelfService) flush(ctx context.Context, it *interaction) error {
	var errs []error
	for _, a := range it.actions {
		switch a.kind {
		case actionReply:
			if err := s.outbox.Reply(ctx, it.user, a.text); err != nil {
				errs = append(errs, fmt.Errorf("sending reply: %w", err))
			}

		case actionMenu:
			err := s.outbox.RenderMenu(ctx, it.user, a.messageRef, a.entries)
			if err == nil || errors.Is(err, ErrMenuNotModified) {
				continue
			}
			s.logger.Error("menu update failed", "user", it.user, "error", err)
			if rerr := s.outbox.Reply(ctx, it.user, "Could not update the menu."); rerr != nil {
				errs = append(errs, fmt.Errorf("rendering menu: %w", err))
			}

		case actionSend:
			if err := s.outbox.SendContent(ctx, it.user, a.delivery.kind, a.delivery.payload); err != nil {
				s.logger.Warn("content delivery failed", "user", it.user, "item", a.delivery.label, "error", err)
				if rerr := s.outbox.Reply(ctx, it.user, fmt.Sprintf("Could not send %s: %v", a.delivery.label, err)); rerr != nil {
					errs = append(errs, fmt.Errorf("sending content: %w", err))
				}
			}

		case actionBatch:
			if err := s.flushBatch(ctx, it.user, a.batch); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (s *ShelfService) flushBatch(ctx context.Context, user string, batch []delivery) error {
	sent := 0
	for _, d := range batch {
		if d.missing {
			if err := s.outbox.Reply(ctx, user, fmt.Sprintf("Could not send %s: file not found", d.label)); err != nil {
				return fmt.Errorf("reporting missing item: %w", err)
			}
			continue
		}
		if err := s.outbox.SendContent(ctx, user, d.kind, d.payload); err != nil {
			s.logger.Warn("content delivery failed", "user", user, "item", d.label, "error", err)
			if rerr := s.outbox.Reply(ctx, user, fmt.Sprintf("Could not send %s: %v", d.label, err)); rerr != nil {
				return fmt.Errorf("reporting failed delivery: %w", rerr)
			}
			continue
		}
		sent++
	}

	summary := "All files sent."
	if sent != len(batch) {
		summary = fmt.Sprintf("Sent %d of %d files.", sent, len(batch))
	}
	if err := s.outbox.Reply(ctx, user, summary); err != nil {
		return fmt.Errorf("sending batch summary: %w", err)
	}
	return nil
}
