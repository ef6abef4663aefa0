package shelf

import (
	"fmt"
	"sort"
)

// ShareContext marks a menu as belonging to a shared view. Rel is the
// viewer's position below the share's base path; it travels inside every
// shared command instead of being stored per viewer.
type ShareContext struct {
	Key string
	Rel []string
}

// SharedView is a read-only window into an owner's tree.
type SharedView struct {
	Record *ShareRecord
	Owner  *Session
	// Base is the folder at Record.BasePath; Folder is the folder at Rel below it.
	Base   *Folder
	Folder *Folder
	Rel    []string
}

// Context returns the menu context for this view.
func (v *SharedView) Context() *ShareContext {
	return &ShareContext{Key: v.Record.Key, Rel: v.Rel}
}

// Path returns the absolute path of the view inside the owner's tree.
func (v *SharedView) Path() []string {
	path := make([]string, 0, len(v.Record.BasePath)+len(v.Rel))
	path = append(path, v.Record.BasePath...)
	return append(path, v.Rel...)
}

// ResolveShare maps a share key to its record.
func (s *State) ResolveShare(key string) (*ShareRecord, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}
	rec, ok := s.Shares[key]
	if !ok || rec == nil {
		return nil, ErrInvalidKey
	}
	return rec, nil
}

// ShareView resolves key and then rel below the share's base path in the
// owner's structure. Nothing is written to the owner's session.
func (s *State) ShareView(key string, rel []string) (*SharedView, error) {
	rec, err := s.ResolveShare(key)
	if err != nil {
		return nil, err
	}
	owner, ok := s.Users[rec.OwnerID]
	if !ok || owner == nil {
		return nil, fmt.Errorf("share owner %q: %w", rec.OwnerID, ErrFolderNotFound)
	}
	base, err := Resolve(owner.Structure, rec.BasePath)
	if err != nil {
		return nil, fmt.Errorf("share base: %w", err)
	}
	folder, err := Resolve(base, rel)
	if err != nil {
		return nil, err
	}
	return &SharedView{
		Record: rec,
		Owner:  owner,
		Base:   base,
		Folder: folder,
		Rel:    append([]string{}, rel...),
	}, nil
}

// Enter returns a view one folder deeper. The receiver is not modified.
func (v *SharedView) Enter(name string) (*SharedView, error) {
	rel, err := Enter(v.Base, v.Rel, name)
	if err != nil {
		return nil, err
	}
	next := *v
	next.Rel = rel
	next.Folder = v.Folder.Folders[name]
	return &next, nil
}

// Up returns a view one folder higher. The share's base path is the root a
// viewer can reach; going above it reports ErrAlreadyAtRoot.
func (v *SharedView) Up() (*SharedView, error) {
	rel, err := Up(v.Rel)
	if err != nil {
		return nil, err
	}
	folder, err := Resolve(v.Base, rel)
	if err != nil {
		return nil, err
	}
	next := *v
	next.Rel = rel
	next.Folder = folder
	return &next, nil
}

// Item looks up shortID anywhere inside the shared subtree and resolves its
// payload through the owner's registry. The returned path is the item's
// folder relative to the share base.
func (v *SharedView) Item(shortID string) (*ContentItem, []string, string, error) {
	item, path, ok := v.Base.FindItem(shortID)
	if !ok {
		return nil, nil, "", ErrContentNotFound
	}
	handle, ok := v.Owner.LookupShortID(shortID)
	if !ok {
		return nil, nil, "", ErrContentNotFound
	}
	if item.Kind == KindText {
		return item, path, item.Text, nil
	}
	return item, path, handle, nil
}

// CreateShare records a new share of ownerID's tree at basePath. The base
// path must exist at creation time.
func (s *State) CreateShare(ownerID string, basePath []string, gen TokenGenerator, clock Clock) (*ShareRecord, error) {
	owner := s.Session(ownerID)
	if _, err := Resolve(owner.Structure, basePath); err != nil {
		return nil, err
	}
	for attempt := 0; attempt < maxIssueAttempts; attempt++ {
		key := Sanitize(gen.ShareKey())
		if key == "" {
			continue
		}
		if _, taken := s.Shares[key]; taken {
			continue
		}
		rec := &ShareRecord{
			Key:       key,
			OwnerID:   ownerID,
			BasePath:  append([]string{}, basePath...),
			CreatedAt: clock.Now().UTC(),
		}
		s.Shares[key] = rec
		return rec, nil
	}
	return nil, fmt.Errorf("%w after %d attempts", ErrShareKeyExhausted, maxIssueAttempts)
}

// DeleteShare removes a share owned by ownerID. Keys owned by someone else
// report ErrInvalidKey so their existence is not revealed.
func (s *State) DeleteShare(ownerID, key string) error {
	rec, err := s.ResolveShare(key)
	if err != nil {
		return err
	}
	if rec.OwnerID != ownerID {
		return ErrInvalidKey
	}
	delete(s.Shares, key)
	return nil
}

// SharesOf lists ownerID's shares, oldest first.
func (s *State) SharesOf(ownerID string) []*ShareRecord {
	var out []*ShareRecord
	for _, rec := range s.Shares {
		if rec != nil && rec.OwnerID == ownerID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Key < out[j].Key
	})
	return out
}
