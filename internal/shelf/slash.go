package shelf

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// handleSlash serves text commands such as "/mkdir Docs". They are never
// stored as content.
func (s *ShelfService) handleSlash(it *interaction, state *State, sess *Session, text string) (bool, error) {
	fields := strings.Fields(text)
	name := strings.ToLower(fields[0])
	// "/mkdir@bot" style suffixes are added by some chat clients.
	if at := strings.IndexByte(name, '@'); at > 0 {
		name = name[:at]
	}
	args := fields[1:]

	switch name {
	case "/start", "/menu":
		s.renderOwn(it, sess, "")
		return false, nil

	case "/path":
		it.reply(FormatPath(sess.CurrentPath))
		return false, nil

	case "/mkdir":
		if len(args) != 1 {
			it.reply("Usage: /mkdir <name>")
			return false, nil
		}
		if _, err := sess.CurrentFolder().AddFolder(args[0]); err != nil {
			switch {
			case errors.Is(err, ErrInvalidFolderName):
				it.reply(fmt.Sprintf("Folder names use letters, digits, '_' or '-' and are at most %d characters.", MaxFolderNameLength))
			case errors.Is(err, ErrFolderExists):
				it.reply(fmt.Sprintf("Folder '%s' already exists.", args[0]))
			default:
				return false, err
			}
			return false, nil
		}
		it.reply(fmt.Sprintf("Folder '%s' created.", args[0]))
		s.renderOwn(it, sess, "")
		return true, nil

	case "/share":
		sess.CurrentFolder() // clamps CurrentPath
		rec, err := state.CreateShare(it.user, sess.CurrentPath, s.tokens, s.clock)
		if err != nil {
			return false, err
		}
		s.logger.Info("share created", "user", it.user, "path", FormatPath(rec.BasePath))
		it.reply(fmt.Sprintf("Share key: %s\nAnyone with this key can browse %s read-only with /open %s", rec.Key, FormatPath(rec.BasePath), rec.Key))
		return true, nil

	case "/shares":
		shares := state.SharesOf(it.user)
		if len(shares) == 0 {
			it.reply("You have no shared folders.")
			return false, nil
		}
		var b strings.Builder
		for _, rec := range shares {
			fmt.Fprintf(&b, "%s  %s\n", rec.Key, FormatPath(rec.BasePath))
		}
		it.reply(strings.TrimRight(b.String(), "\n"))
		return false, nil

	case "/unshare":
		if len(args) != 1 {
			it.reply("Usage: /unshare <key>")
			return false, nil
		}
		if err := state.DeleteShare(it.user, args[0]); err != nil {
			it.reply(msgInvalidKey)
			return false, nil
		}
		s.logger.Info("share deleted", "user", it.user)
		it.reply("Share removed.")
		return true, nil

	case "/open":
		if len(args) != 1 {
			it.reply("Usage: /open <key>")
			return false, nil
		}
		view, err := state.ShareView(args[0], nil)
		if err != nil {
			s.replyShareError(it, err)
			return false, nil
		}
		s.renderShared(it, view, "")
		return false, nil
	}

	it.reply("Unknown command.")
	return false, nil
}

// FormatPath renders a path for people: "/" for the root, "/A/B" below it.
func FormatPath(path []string) string {
	return "/" + strings.Join(path, "/")
}

// Tree returns a snapshot of userID's folder tree and current path.
func (s *ShelfService) Tree(ctx context.Context, userID string) (*Folder, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load(ctx)
	if err != nil {
		return nil, nil, err
	}
	sess, ok := state.Users[userID]
	if !ok {
		return nil, nil, fmt.Errorf("user %q: %w", userID, ErrNotFound)
	}
	_, path := ResolveCurrent(sess.Structure, sess.CurrentPath)
	return sess.Structure, path, nil
}

// CreateShare shares ownerID's folder at basePath outside of a chat, for
// operators. The owner must already exist.
func (s *ShelfService) CreateShare(ctx context.Context, ownerID string, basePath []string) (*ShareRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := state.Users[ownerID]; !ok {
		return nil, fmt.Errorf("user %q: %w", ownerID, ErrNotFound)
	}
	rec, err := state.CreateShare(ownerID, basePath, s.tokens, s.clock)
	if err != nil {
		return nil, fmt.Errorf("creating share: %w", err)
	}
	if err := s.save(ctx, state); err != nil {
		return nil, err
	}
	s.logger.Info("share created", "user", ownerID, "path", FormatPath(basePath))
	return rec, nil
}

// Shares lists every share record, or only ownerID's when it is non-empty.
func (s *ShelfService) Shares(ctx context.Context, ownerID string) ([]*ShareRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if ownerID != "" {
		return state.SharesOf(ownerID), nil
	}
	owners := make([]string, 0, len(state.Users))
	for owner := range state.Users {
		owners = append(owners, owner)
	}
	sort.Strings(owners)
	var out []*ShareRecord
	for _, owner := range owners {
		out = append(out, state.SharesOf(owner)...)
	}
	return out, nil
}
