package shelf

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// ShelfService runs every user interaction against the stored state. Each
// call loads the whole state, applies one action, persists it if anything
// changed and only then talks to the transport. A single mutex serializes
// the read-modify-write cycle so two presses from the same user cannot lose
// an update.
type ShelfService struct {
	store  StateStore
	outbox Outbox
	logger Logger
	clock  Clock
	tokens TokenGenerator
	retry  RetryPolicy
	mu     sync.Mutex
}

// NewShelfService creates a ShelfService with the provided dependencies.
func NewShelfService(store StateStore, outbox Outbox, logger Logger, clock Clock, tokens TokenGenerator, retry RetryPolicy) *ShelfService {
	return &ShelfService{
		store:  store,
		outbox: outbox,
		logger: logger,
		clock:  clock,
		tokens: tokens,
		retry:  retry,
	}
}

const (
	msgGenericFailure = "Something went wrong. Please try again."
	msgSaveFailure    = "Something went wrong while saving. Your last action was not applied."
	msgUnrecognized   = "Unrecognized command."
	msgFolderNotFound = "Folder not found."
	msgFileNotFound   = "File not found."
	msgInvalidKey     = "Invalid share key."
	msgAtRoot         = "Already at the root folder."
	msgAtSharedRoot   = "Already at the top of the shared folder."
	msgEmptyFolder    = "This folder is empty."
)

// Handle processes one inbound event to completion.
func (s *ShelfService) Handle(ctx context.Context, ev Event) error {
	if ev == nil {
		return ErrNilEvent
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load(ctx)
	if err != nil {
		s.deliverFailure(ctx, ev.UserID(), msgGenericFailure)
		return err
	}

	_, existed := state.Users[ev.UserID()]
	sess := state.Session(ev.UserID())
	before := strings.Join(sess.CurrentPath, "/")

	it := &interaction{user: ev.UserID()}
	var mutated bool
	switch e := ev.(type) {
	case TextSubmitted:
		mutated, err = s.handleText(it, state, sess, e)
	case ContentSubmitted:
		mutated, err = s.handleContent(it, sess, e)
	case CommandInvoked:
		mutated, err = s.handleCommand(it, state, sess, e)
	default:
		err = fmt.Errorf("unsupported event type %T", ev)
	}
	if err != nil {
		s.deliverFailure(ctx, ev.UserID(), msgGenericFailure)
		return err
	}

	if !existed || before != strings.Join(sess.CurrentPath, "/") {
		mutated = true
	}
	if mutated {
		if err := s.save(ctx, state); err != nil {
			s.deliverFailure(ctx, ev.UserID(), msgSaveFailure)
			return err
		}
	}

	s.logger.Debug("interaction handled", "user", ev.UserID(), "event", ev.eventName(), "mutated", mutated)
	return s.flush(ctx, it)
}

func (s *ShelfService) load(ctx context.Context) (*State, error) {
	var state *State
	err := s.retry.Do(ctx, func() error {
		var err error
		state, err = s.store.Load(ctx)
		return err
	}, func(err error, wait time.Duration) {
		s.logger.Warn("retrying state load", "error", err, "wait", wait)
	})
	if err != nil {
		s.logger.Error("state load failed", "error", err)
		return nil, fmt.Errorf("%w: loading state: %v", ErrPersistence, err)
	}
	if state == nil {
		state = NewState()
	}
	state.Normalize()
	return state, nil
}

func (s *ShelfService) save(ctx context.Context, state *State) error {
	err := s.retry.Do(ctx, func() error {
		return s.store.Save(ctx, state)
	}, func(err error, wait time.Duration) {
		s.logger.Warn("retrying state save", "error", err, "wait", wait)
	})
	if err != nil {
		s.logger.Error("state save failed", "error", err)
		return fmt.Errorf("%w: saving state: %v", ErrPersistence, err)
	}
	return nil
}

func (s *ShelfService) deliverFailure(ctx context.Context, userID, text string) {
	if err := s.outbox.Reply(ctx, userID, text); err != nil {
		s.logger.Error("failure reply not delivered", "user", userID, "error", err)
	}
}

// Content submissions

func (s *ShelfService) handleText(it *interaction, state *State, sess *Session, e TextSubmitted) (bool, error) {
	if strings.HasPrefix(e.Text, "/") {
		return s.handleSlash(it, state, sess, e.Text)
	}
	id, err := sess.IssueShortID("", s.tokens)
	if err != nil {
		return false, err
	}
	sess.CurrentFolder().AppendItem(ContentItem{Kind: KindText, ShortID: id, Text: e.Text})
	it.reply(savedMessage(KindText))
	return true, nil
}

func (s *ShelfService) handleContent(it *interaction, sess *Session, e ContentSubmitted) (bool, error) {
	if !e.Kind.Valid() || e.Kind == KindText || e.Handle == "" {
		it.reply("Unsupported content.")
		return false, nil
	}
	id, err := sess.IssueShortID(e.Handle, s.tokens)
	if err != nil {
		return false, err
	}
	sess.CurrentFolder().AppendItem(ContentItem{
		Kind:     e.Kind,
		ShortID:  id,
		Handle:   e.Handle,
		FileName: e.FileName,
	})
	it.reply(savedMessage(e.Kind))
	return true, nil
}

func savedMessage(kind Kind) string {
	switch kind {
	case KindText:
		return "Text saved to the current folder."
	case KindDocument:
		return "Document saved to the current folder."
	case KindPhoto:
		return "Photo saved to the current folder."
	case KindVideo:
		return "Video saved to the current folder."
	case KindAudio:
		return "Audio saved to the current folder."
	}
	return "Saved to the current folder."
}

// Menu commands

func (s *ShelfService) handleCommand(it *interaction, state *State, sess *Session, e CommandInvoked) (bool, error) {
	cmd := Decode(e.Command)
	if err := cmd.Err(); err != nil {
		s.logger.Info("unrecognized command", "user", e.User, "error", err)
		it.reply(msgUnrecognized)
		return false, nil
	}
	if cmd.Prefix.Shared() {
		s.handleShared(it, state, cmd, e.MessageRef)
		return false, nil
	}

	switch cmd.Prefix {
	case PrefixUp:
		left, err := sess.Up()
		switch {
		case errors.Is(err, ErrAlreadyAtRoot):
			it.reply(msgAtRoot)
		case err != nil:
			return false, err
		default:
			it.reply(fmt.Sprintf("Returned from folder '%s'.", left))
		}
		s.renderOwn(it, sess, e.MessageRef)
		return err == nil, nil

	case PrefixFolder:
		name := cmd.Args[0]
		if err := sess.Enter(name); err != nil {
			if !errors.Is(err, ErrNotFound) {
				return false, err
			}
			it.reply(msgFolderNotFound)
			s.renderOwn(it, sess, e.MessageRef)
			return false, nil
		}
		it.reply(fmt.Sprintf("Moved into folder '%s'.", name))
		s.renderOwn(it, sess, e.MessageRef)
		return true, nil

	case PrefixFile:
		shortID := cmd.Args[0]
		handle, ok := sess.LookupShortID(shortID)
		if !ok {
			it.reply(msgFileNotFound)
			return false, nil
		}
		folder := sess.CurrentFolder()
		item, ok := folder.Item(shortID)
		if !ok {
			it.reply(msgFileNotFound)
			return false, nil
		}
		it.send(item.Kind, payloadOf(item, handle), itemLabel(folder, item))
		return false, nil

	case PrefixRetrieveAll:
		folder := sess.CurrentFolder()
		s.retrieveAll(it, folder, sess)
		return false, nil
	}

	it.reply(msgUnrecognized)
	return false, nil
}

// handleShared serves the shared_* family. It only reads the owner's data;
// the owner's session, path and registry are never written.
func (s *ShelfService) handleShared(it *interaction, state *State, cmd Command, messageRef string) {
	key := cmd.ShareKey()
	var rel []string
	switch cmd.Prefix {
	case PrefixSharedFolder:
		rel = cmd.Args[1 : len(cmd.Args)-1]
	case PrefixSharedUp, PrefixSharedRetrieveAll:
		rel = cmd.Args[1:]
	}

	view, err := state.ShareView(key, rel)
	if err != nil {
		s.replyShareError(it, err)
		return
	}

	switch cmd.Prefix {
	case PrefixSharedFolder:
		name := cmd.Args[len(cmd.Args)-1]
		next, err := view.Enter(name)
		if err != nil {
			s.replyShareError(it, err)
			return
		}
		it.reply(fmt.Sprintf("Moved into shared folder '%s'.", name))
		s.renderShared(it, next, messageRef)

	case PrefixSharedUp:
		next, err := view.Up()
		if errors.Is(err, ErrAlreadyAtRoot) {
			it.reply(msgAtSharedRoot)
			s.renderShared(it, view, messageRef)
			return
		}
		if err != nil {
			s.replyShareError(it, err)
			return
		}
		it.reply("Returned to the parent shared folder.")
		s.renderShared(it, next, messageRef)

	case PrefixSharedFile:
		item, path, payload, err := view.Item(cmd.Args[1])
		if err != nil {
			s.replyShareError(it, err)
			return
		}
		label := item.Kind.String()
		if folder, err := Resolve(view.Base, path); err == nil {
			label = itemLabel(folder, item)
		}
		it.send(item.Kind, payload, label)

	case PrefixSharedRetrieveAll:
		s.retrieveAll(it, view.Folder, view.Owner)
	}
}

func (s *ShelfService) replyShareError(it *interaction, err error) {
	switch {
	case errors.Is(err, ErrInvalidKey):
		it.reply(msgInvalidKey)
	case errors.Is(err, ErrContentNotFound):
		it.reply(msgFileNotFound)
	case errors.Is(err, ErrNotFound):
		it.reply(msgFolderNotFound)
	default:
		s.logger.Error("shared command failed", "user", it.user, "error", err)
		it.reply(msgGenericFailure)
	}
}

// retrieveAll queues every item of folder; owner supplies the registry.
func (s *ShelfService) retrieveAll(it *interaction, folder *Folder, owner *Session) {
	if len(folder.Files) == 0 {
		it.reply(msgEmptyFolder)
		return
	}
	batch := make([]delivery, 0, len(folder.Files))
	for i := range folder.Files {
		item := &folder.Files[i]
		label := ItemLabel(item.Kind, i+1)
		handle, ok := owner.LookupShortID(item.ShortID)
		if !ok {
			batch = append(batch, delivery{label: label, missing: true})
			continue
		}
		batch = append(batch, delivery{kind: item.Kind, payload: payloadOf(item, handle), label: label})
	}
	it.batch(batch)
}

func payloadOf(item *ContentItem, handle string) string {
	if item.Kind == KindText {
		return item.Text
	}
	return handle
}

func itemLabel(folder *Folder, item *ContentItem) string {
	for i := range folder.Files {
		if folder.Files[i].ShortID == item.ShortID {
			return ItemLabel(item.Kind, i+1)
		}
	}
	return item.Kind.String()
}

func (s *ShelfService) renderOwn(it *interaction, sess *Session, messageRef string) {
	folder := sess.CurrentFolder()
	entries, err := Project(folder, sess.CurrentPath, nil)
	if err != nil {
		s.logger.Error("menu entries dropped", "user", it.user, "path", strings.Join(sess.CurrentPath, "/"), "error", err)
	}
	it.menu(messageRef, entries)
}

func (s *ShelfService) renderShared(it *interaction, view *SharedView, messageRef string) {
	entries, err := Project(view.Folder, view.Rel, view.Context())
	if err != nil {
		s.logger.Error("shared menu entries dropped", "user", it.user, "share", view.Record.Key, "error", err)
	}
	it.menu(messageRef, entries)
}
