// Package console is a line-oriented chat transport: events are read one
// per line from an input stream and every outbound action is written to an
// output stream. It lets shelf run without a chat service, for local use and
// scripted end-to-end checks.
package console

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// Format selects how lines are read and written.
type Format int

const (
	// FormatJSON reads and writes one JSON object per line.
	FormatJSON Format = iota
	// FormatText is the interactive form: "<user> <message>" in, readable lines out.
	FormatText
)

func (f Format) String() string {
	if f == FormatText {
		return "text"
	}
	return "json"
}

// ResolveFormat maps a configured format name to a Format. "auto" (or empty)
// picks text when out is a terminal and JSON otherwise.
func ResolveFormat(name string, out *os.File) (Format, error) {
	switch name {
	case "json":
		return FormatJSON, nil
	case "text":
		return FormatText, nil
	case "", "auto":
		if out != nil && term.IsTerminal(int(out.Fd())) {
			return FormatText, nil
		}
		return FormatJSON, nil
	default:
		return FormatJSON, fmt.Errorf("unknown console format: %q", name)
	}
}
