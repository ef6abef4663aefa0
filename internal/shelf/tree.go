package shelf

import (
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// MaxFolderNameLength bounds folder names so that a shared folder command
// (prefix, share key, name) always fits in MaxCommandBytes at the share root.
const MaxFolderNameLength = 24

var folderNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateFolderName checks that name can be stored and addressed by a
// command without loss: non-empty, bounded, and drawn from the command-safe
// alphabet (which also excludes the "/" path separator).
func ValidateFolderName(name string) error {
	err := validation.Validate(name,
		validation.Required,
		validation.Length(1, MaxFolderNameLength),
		validation.Match(folderNamePattern).Error("must contain only letters, digits, '_' or '-'"),
	)
	if err != nil {
		return fmt.Errorf("%w: %q %v", ErrInvalidFolderName, name, err)
	}
	return nil
}

// Resolve walks path from root and returns the folder it names. It fails with
// ErrFolderNotFound as soon as a segment is missing. Resolve never mutates
// the tree.
func Resolve(root *Folder, path []string) (*Folder, error) {
	if root == nil {
		return nil, ErrFolderNotFound
	}
	current := root
	for _, name := range path {
		next, ok := current.Folders[name]
		if !ok || next == nil {
			return nil, fmt.Errorf("%w: %q", ErrFolderNotFound, name)
		}
		current = next
	}
	return current, nil
}

// AppendItem adds item after every existing item.
func (f *Folder) AppendItem(item ContentItem) {
	f.Files = append(f.Files, item)
}

// AddFolder creates an empty child folder. Duplicate names are rejected.
func (f *Folder) AddFolder(name string) (*Folder, error) {
	if err := ValidateFolderName(name); err != nil {
		return nil, err
	}
	if _, exists := f.Folders[name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrFolderExists, name)
	}
	if f.Folders == nil {
		f.Folders = make(map[string]*Folder)
	}
	child := NewFolder()
	f.Folders[name] = child
	f.Order = append(f.Order, name)
	return child, nil
}

// Children returns child folder names in insertion order.
func (f *Folder) Children() []string {
	names := make([]string, 0, len(f.Order))
	for _, name := range f.Order {
		if _, ok := f.Folders[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// Item finds a content item by its short id. Lookup is by identity rather
// than position, so removing items later cannot invalidate other short ids.
func (f *Folder) Item(shortID string) (*ContentItem, bool) {
	for i := range f.Files {
		if f.Files[i].ShortID == shortID {
			return &f.Files[i], true
		}
	}
	return nil, false
}

// FindItem searches f and every nested folder for shortID and returns the
// item together with its path relative to f.
func (f *Folder) FindItem(shortID string) (*ContentItem, []string, bool) {
	if item, ok := f.Item(shortID); ok {
		return item, []string{}, true
	}
	for _, name := range f.Children() {
		item, sub, ok := f.Folders[name].FindItem(shortID)
		if ok {
			return item, append([]string{name}, sub...), true
		}
	}
	return nil, nil, false
}

// Walk visits f and every descendant depth-first in menu order.
func (f *Folder) Walk(fn func(path []string, folder *Folder)) {
	f.walk(nil, fn)
}

func (f *Folder) walk(path []string, fn func([]string, *Folder)) {
	fn(path, f)
	for _, name := range f.Children() {
		childPath := append(append([]string{}, path...), name)
		f.Folders[name].walk(childPath, fn)
	}
}
