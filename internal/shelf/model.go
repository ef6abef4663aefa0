package shelf

import (
	"fmt"
	"time"
)

// Kind is the closed set of content kinds a folder can hold.
type Kind int

const (
	KindText Kind = iota + 1
	KindDocument
	KindPhoto
	KindVideo
	KindAudio
)

// Kinds lists every valid Kind in declaration order.
var Kinds = []Kind{KindText, KindDocument, KindPhoto, KindVideo, KindAudio}

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindDocument:
		return "document"
	case KindPhoto:
		return "photo"
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= KindText && k <= KindAudio
}

// ParseKind converts the wire name of a kind back into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown content kind: %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid content kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ContentItem is one stored piece of content. For KindText the payload is
// Text; every other kind carries a transport-issued Handle.
type ContentItem struct {
	Kind     Kind   `json:"kind"`
	ShortID  string `json:"short_id"`
	Text     string `json:"text,omitempty"`
	Handle   string `json:"handle,omitempty"`
	FileName string `json:"file_name,omitempty"`
}

// Payload returns the inline text or the opaque handle, depending on kind.
func (c *ContentItem) Payload() string {
	if c.Kind == KindText {
		return c.Text
	}
	return c.Handle
}

// Folder is a node of a user's tree. Children are addressed by name through
// Folders; Order keeps their insertion order for menus. Files keep creation
// order and are never reordered.
type Folder struct {
	Folders map[string]*Folder `json:"folders"`
	Order   []string           `json:"order"`
	Files   []ContentItem      `json:"files"`
}

// NewFolder returns an empty folder.
func NewFolder() *Folder {
	return &Folder{Folders: make(map[string]*Folder)}
}

// Session is the per-user state: the folder tree, the navigation stack and
// the short-id registry scoped to this user.
type Session struct {
	Structure   *Folder           `json:"structure"`
	CurrentPath []string          `json:"current_path"`
	ShortIDs    map[string]string `json:"short_ids"`
}

// NewSession returns a session with an empty root folder.
func NewSession() *Session {
	return &Session{
		Structure:   NewFolder(),
		CurrentPath: []string{},
		ShortIDs:    make(map[string]string),
	}
}

// ShareRecord grants read-only navigation of OwnerID's tree rooted at BasePath
// to anyone holding Key.
type ShareRecord struct {
	Key       string    `json:"key"`
	OwnerID   string    `json:"owner_id"`
	BasePath  []string  `json:"base_path"`
	CreatedAt time.Time `json:"created_at"`
}

// State is the whole persisted document: every user session plus every share.
type State struct {
	Users  map[string]*Session     `json:"users"`
	Shares map[string]*ShareRecord `json:"shares"`
}

// NewState returns an empty state document.
func NewState() *State {
	return &State{
		Users:  make(map[string]*Session),
		Shares: make(map[string]*ShareRecord),
	}
}

// Session returns the user's session, creating it on first interaction.
func (s *State) Session(userID string) *Session {
	sess, ok := s.Users[userID]
	if !ok {
		sess = NewSession()
		s.Users[userID] = sess
	}
	return sess
}

// Normalize fills nil maps and slices left behind by decoding older or
// hand-written documents, so callers never nil-check.
func (s *State) Normalize() {
	if s.Users == nil {
		s.Users = make(map[string]*Session)
	}
	if s.Shares == nil {
		s.Shares = make(map[string]*ShareRecord)
	}
	for id, sess := range s.Users {
		if sess == nil {
			sess = NewSession()
			s.Users[id] = sess
		}
		if sess.Structure == nil {
			sess.Structure = NewFolder()
		}
		if sess.CurrentPath == nil {
			sess.CurrentPath = []string{}
		}
		if sess.ShortIDs == nil {
			sess.ShortIDs = make(map[string]string)
		}
		sess.Structure.normalize()
	}
	for key, rec := range s.Shares {
		if rec == nil {
			delete(s.Shares, key)
			continue
		}
		if rec.BasePath == nil {
			rec.BasePath = []string{}
		}
	}
}

func (f *Folder) normalize() {
	if f.Folders == nil {
		f.Folders = make(map[string]*Folder)
	}
	// Order must list exactly the children present in Folders.
	seen := make(map[string]bool, len(f.Folders))
	order := f.Order[:0]
	for _, name := range f.Order {
		if _, ok := f.Folders[name]; ok && !seen[name] {
			order = append(order, name)
			seen[name] = true
		}
	}
	for name := range f.Folders {
		if !seen[name] {
			order = append(order, name)
		}
	}
	f.Order = order
	for _, child := range f.Folders {
		if child != nil {
			child.normalize()
		}
	}
	for name, child := range f.Folders {
		if child == nil {
			f.Folders[name] = NewFolder()
		}
	}
}
