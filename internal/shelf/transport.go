package shelf

import "context"

// Event is an inbound user action delivered by the transport. The set of
// implementations is closed: TextSubmitted, ContentSubmitted, CommandInvoked.
type Event interface {
	UserID() string
	eventName() string
}

// TextSubmitted is a plain text message. Text starting with "/" is a slash
// command and is never stored.
type TextSubmitted struct {
	User string
	Text string
}

// ContentSubmitted is an uploaded file the transport already holds; Handle
// is the transport's opaque reference to it.
type ContentSubmitted struct {
	User     string
	Kind     Kind
	Handle   string
	FileName string
}

// CommandInvoked is a menu button press. MessageRef identifies the message
// that carries the menu so it can be re-rendered in place.
type CommandInvoked struct {
	User       string
	Command    string
	MessageRef string
}

func (e TextSubmitted) UserID() string    { return e.User }
func (e ContentSubmitted) UserID() string { return e.User }
func (e CommandInvoked) UserID() string   { return e.User }

func (TextSubmitted) eventName() string    { return "text" }
func (ContentSubmitted) eventName() string { return "content" }
func (CommandInvoked) eventName() string   { return "command" }

// Outbox is the outbound half of the transport contract.
type Outbox interface {
	// Reply sends a short text message to the user.
	Reply(ctx context.Context, userID string, text string) error

	// RenderMenu shows entries as buttons. An empty messageRef asks for a new
	// message; otherwise the existing menu is replaced. Implementations may
	// return an error wrapping ErrMenuNotModified when nothing changed.
	RenderMenu(ctx context.Context, userID string, messageRef string, entries []MenuEntry) error

	// SendContent delivers one stored item: the literal text for KindText,
	// the transport handle for every other kind.
	SendContent(ctx context.Context, userID string, kind Kind, payload string) error
}
