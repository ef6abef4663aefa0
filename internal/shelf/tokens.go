package shelf

import (
	"encoding/base64"

	"github.com/google/uuid"
)

// ShortIDLength is the length of issued short ids. Ten characters of the
// base64url alphabet give 60 random bits per user scope.
const ShortIDLength = 10

// TokenGenerator produces the random tokens placed in commands. Both kinds
// of token use only [A-Za-z0-9_-].
type TokenGenerator interface {
	// ShortID returns a candidate short id of ShortIDLength characters.
	ShortID() string
	// ShareKey returns a new unguessable share key.
	ShareKey() string
}

// UUIDTokens derives tokens from random (v4) UUIDs encoded as unpadded
// base64url.
type UUIDTokens struct{}

func (UUIDTokens) ShortID() string {
	return encodeUUID(uuid.New())[:ShortIDLength]
}

// ShareKey returns all 16 bytes of a v4 UUID as a 22 character token.
func (UUIDTokens) ShareKey() string {
	return encodeUUID(uuid.New())
}

func encodeUUID(id uuid.UUID) string {
	return base64.RawURLEncoding.EncodeToString(id[:])
}
