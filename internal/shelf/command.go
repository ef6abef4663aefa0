package shelf

import (
	"fmt"
	"strings"
)

// MaxCommandBytes is the transport's hard limit on a button command.
const MaxCommandBytes = 64

// Prefix names the action a command performs.
type Prefix string

const (
	PrefixUp          Prefix = "up"
	PrefixFolder      Prefix = "folder"
	PrefixFile        Prefix = "file"
	PrefixRetrieveAll Prefix = "retrieve_all"

	PrefixSharedUp          Prefix = "shared_up"
	PrefixSharedFolder      Prefix = "shared_folder"
	PrefixSharedFile        Prefix = "shared_file"
	PrefixSharedRetrieveAll Prefix = "shared_retrieve_all"
)

// arity gives the minimum and maximum argument count per prefix; -1 means
// unbounded. Shared prefixes always start with the share key.
var arity = map[Prefix][2]int{
	PrefixUp:                {0, 0},
	PrefixFolder:            {1, 1},
	PrefixFile:              {1, 1},
	PrefixRetrieveAll:       {0, 0},
	PrefixSharedUp:          {1, -1},
	PrefixSharedFolder:      {2, -1},
	PrefixSharedFile:        {2, 2},
	PrefixSharedRetrieveAll: {1, -1},
}

// Known reports whether p is one of the defined prefixes.
func (p Prefix) Known() bool {
	_, ok := arity[p]
	return ok
}

// Shared reports whether p belongs to the shared-tree family.
func (p Prefix) Shared() bool {
	return strings.HasPrefix(string(p), "shared_")
}

// Command is a decoded command string.
type Command struct {
	Prefix Prefix
	Args   []string
}

// Valid reports whether the prefix is known and the argument count fits it.
// An invalid command is the "unrecognized" outcome, never a failure.
func (c Command) Valid() bool {
	bounds, ok := arity[c.Prefix]
	if !ok {
		return false
	}
	n := len(c.Args)
	if n < bounds[0] {
		return false
	}
	return bounds[1] < 0 || n <= bounds[1]
}

// Err returns nil for a valid command and an error wrapping
// ErrUnknownCommand otherwise.
func (c Command) Err() error {
	if c.Valid() {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownCommand, c.String())
}

// ShareKey returns the first argument of a shared command.
func (c Command) ShareKey() string {
	if !c.Prefix.Shared() || len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return string(c.Prefix)
	}
	return string(c.Prefix) + ":" + strings.Join(c.Args, ":")
}

func isSafe(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' || r == '-'
}

// Sanitize drops every character outside [A-Za-z0-9_-]. Dropping (rather than
// escaping or rejecting) is the codec's documented policy.
func Sanitize(arg string) string {
	var b strings.Builder
	b.Grow(len(arg))
	for _, r := range arg {
		if isSafe(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Encode assembles prefix and sanitized args into a command string. It fails
// with ErrEncodingTooLarge when the result exceeds MaxCommandBytes.
func Encode(prefix Prefix, args ...string) (string, error) {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, string(prefix))
	for _, arg := range args {
		parts = append(parts, Sanitize(arg))
	}
	encoded := strings.Join(parts, ":")
	if len(encoded) > MaxCommandBytes {
		return "", fmt.Errorf("%w: %q is %d bytes, limit %d", ErrEncodingTooLarge, encoded, len(encoded), MaxCommandBytes)
	}
	return encoded, nil
}

// Decode splits a raw command on ":". Unknown prefixes decode normally and
// are reported by Command.Valid.
func Decode(raw string) Command {
	parts := strings.Split(raw, ":")
	return Command{Prefix: Prefix(parts[0]), Args: parts[1:]}
}
