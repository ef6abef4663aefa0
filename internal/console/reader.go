package console

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"shelf-go/internal/shelf"
)

// Handler consumes inbound events. *shelf.ShelfService satisfies it.
type Handler interface {
	Handle(ctx context.Context, ev shelf.Event) error
}

// inbound is the JSON form of one event line.
type inbound struct {
	User       string `json:"user"`
	Type       string `json:"type"` // "text", "content" or "command"
	Text       string `json:"text,omitempty"`
	Kind       string `json:"kind,omitempty"`
	Handle     string `json:"handle,omitempty"`
	FileName   string `json:"file_name,omitempty"`
	Command    string `json:"command,omitempty"`
	MessageRef string `json:"message_ref,omitempty"`
}

// ParseEvent decodes one input line. In text format a line is
// "<user> <message>", where a message of "!<command> [<message ref>]" presses
// a menu button and "+<kind> <handle> [<file name>]" uploads content.
func ParseEvent(line string, format Format) (shelf.Event, error) {
	if format == FormatJSON {
		return parseJSON(line)
	}
	return parseText(line)
}

func parseJSON(line string) (shelf.Event, error) {
	var in inbound
	if err := json.Unmarshal([]byte(line), &in); err != nil {
		return nil, fmt.Errorf("decoding event: %w", err)
	}
	if in.User == "" {
		return nil, fmt.Errorf("event has no user")
	}
	switch in.Type {
	case "text":
		return shelf.TextSubmitted{User: in.User, Text: in.Text}, nil
	case "content":
		kind, err := shelf.ParseKind(in.Kind)
		if err != nil {
			return nil, err
		}
		return shelf.ContentSubmitted{User: in.User, Kind: kind, Handle: in.Handle, FileName: in.FileName}, nil
	case "command":
		return shelf.CommandInvoked{User: in.User, Command: in.Command, MessageRef: in.MessageRef}, nil
	}
	return nil, fmt.Errorf("unknown event type: %q", in.Type)
}

func parseText(line string) (shelf.Event, error) {
	user, rest, ok := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)
	if !ok || user == "" || rest == "" {
		return nil, fmt.Errorf("expected \"<user> <message>\", got %q", line)
	}

	switch rest[0] {
	case '!':
		fields := strings.Fields(rest[1:])
		if len(fields) == 0 {
			return nil, fmt.Errorf("empty command")
		}
		ev := shelf.CommandInvoked{User: user, Command: fields[0]}
		if len(fields) > 1 {
			ev.MessageRef = fields[1]
		}
		return ev, nil
	case '+':
		fields := strings.SplitN(rest[1:], " ", 3)
		if len(fields) < 2 {
			return nil, fmt.Errorf("expected \"+<kind> <handle> [<file name>]\", got %q", rest)
		}
		kind, err := shelf.ParseKind(fields[0])
		if err != nil {
			return nil, err
		}
		ev := shelf.ContentSubmitted{User: user, Kind: kind, Handle: fields[1]}
		if len(fields) == 3 {
			ev.FileName = fields[2]
		}
		return ev, nil
	}
	return shelf.TextSubmitted{User: user, Text: rest}, nil
}

// Run reads events from r until EOF or ctx is cancelled, handing each to h.
// Blank lines and lines starting with "#" are skipped. A line that cannot be
// parsed, or an event whose handling fails, is logged and does not stop the
// loop.
func Run(ctx context.Context, r io.Reader, format Format, h Handler, logger shelf.Logger) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		ev, err := ParseEvent(line, format)
		if err != nil {
			logger.Warn("skipping input line", "line", lineNo, "error", err)
			continue
		}
		if err := h.Handle(ctx, ev); err != nil {
			logger.Error("event handling failed", "line", lineNo, "user", ev.UserID(), "error", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}
