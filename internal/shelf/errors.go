package shelf

import (
	"errors"
	"fmt"
)

// Outcomes reported to users. Match with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrFolderNotFound    = fmt.Errorf("folder %w", ErrNotFound)
	ErrContentNotFound   = fmt.Errorf("content %w", ErrNotFound)
	ErrAlreadyAtRoot     = errors.New("already at root")
	ErrInvalidKey        = errors.New("invalid share key")
	ErrUnknownCommand    = errors.New("unknown command")
	ErrFolderExists      = errors.New("folder already exists")
	ErrInvalidFolderName = errors.New("invalid folder name")
)

// Defects and infrastructure failures.
var (
	// ErrEncodingTooLarge is returned when an encoded command exceeds
	// MaxCommandBytes. It must never reach a user.
	ErrEncodingTooLarge = errors.New("encoded command exceeds size limit")

	// ErrShortIDExhausted is returned when the token generator keeps producing
	// short ids that are already taken.
	ErrShortIDExhausted = errors.New("could not issue a unique short id")

	// ErrShareKeyExhausted is returned when every generated share key is
	// already in use.
	ErrShareKeyExhausted = errors.New("could not issue a unique share key")

	// ErrMenuNotModified may be wrapped by Outbox.RenderMenu when the rendered
	// menu is identical to the one already displayed. It is ignored.
	ErrMenuNotModified = errors.New("menu not modified")

	// ErrNilEvent is returned by Handle when given no event.
	ErrNilEvent = errors.New("nil event")

	// ErrPersistence wraps load/save failures that survived every retry.
	ErrPersistence = errors.New("persistence failed")
)
