package shelf

import "fmt"

// Enter returns path extended by name when name is a child folder of the
// folder path resolves to. On failure the returned path is the input path.
func Enter(structure *Folder, path []string, name string) ([]string, error) {
	current, err := Resolve(structure, path)
	if err != nil {
		return path, err
	}
	if child, ok := current.Folders[name]; !ok || child == nil {
		return path, fmt.Errorf("%w: %q", ErrFolderNotFound, name)
	}
	next := make([]string, len(path), len(path)+1)
	copy(next, path)
	return append(next, name), nil
}

// Up drops the last segment of path. At the root it returns ErrAlreadyAtRoot
// and the unchanged path.
func Up(path []string) ([]string, error) {
	if len(path) == 0 {
		return path, ErrAlreadyAtRoot
	}
	next := make([]string, len(path)-1)
	copy(next, path)
	return next, nil
}

// ResolveCurrent resolves path against the live structure. When a segment no
// longer exists, the path is clamped to its deepest valid prefix and that
// folder is returned instead; the second result is the path actually used.
func ResolveCurrent(structure *Folder, path []string) (*Folder, []string) {
	if structure == nil {
		return NewFolder(), []string{}
	}
	current := structure
	for i, name := range path {
		next, ok := current.Folders[name]
		if !ok || next == nil {
			clamped := make([]string, i)
			copy(clamped, path[:i])
			return current, clamped
		}
		current = next
	}
	return current, path
}

// CurrentFolder resolves the session's own position, clamping CurrentPath in
// place if part of it has disappeared.
func (s *Session) CurrentFolder() *Folder {
	folder, path := ResolveCurrent(s.Structure, s.CurrentPath)
	if len(path) != len(s.CurrentPath) {
		s.CurrentPath = path
	}
	return folder
}

// Enter pushes name onto the session's path.
func (s *Session) Enter(name string) error {
	s.CurrentFolder()
	next, err := Enter(s.Structure, s.CurrentPath, name)
	if err != nil {
		return err
	}
	s.CurrentPath = next
	return nil
}

// Up pops the session's path and returns the name that was left.
func (s *Session) Up() (string, error) {
	s.CurrentFolder()
	if len(s.CurrentPath) == 0 {
		return "", ErrAlreadyAtRoot
	}
	left := s.CurrentPath[len(s.CurrentPath)-1]
	next, err := Up(s.CurrentPath)
	if err != nil {
		return "", err
	}
	s.CurrentPath = next
	return left, nil
}
