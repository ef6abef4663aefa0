package console_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"shelf-go/internal/console"
	"shelf-go/internal/shelf"
	"shelf-go/internal/store"
	"shelf-go/internal/testutil"
)

func TestParseEvent_Text(t *testing.T) {
	tests := []struct {
		line    string
		want    shelf.Event
		wantErr bool
	}{
		{"alice hello there", shelf.TextSubmitted{User: "alice", Text: "hello there"}, false},
		{"alice /mkdir Docs", shelf.TextSubmitted{User: "alice", Text: "/mkdir Docs"}, false},
		{"alice !folder:Docs", shelf.CommandInvoked{User: "alice", Command: "folder:Docs"}, false},
		{"alice !up m3", shelf.CommandInvoked{User: "alice", Command: "up", MessageRef: "m3"}, false},
		{"bob +photo AgAD-1", shelf.ContentSubmitted{User: "bob", Kind: shelf.KindPhoto, Handle: "AgAD-1"}, false},
		{"bob +document h2 annual report.pdf", shelf.ContentSubmitted{User: "bob", Kind: shelf.KindDocument, Handle: "h2", FileName: "annual report.pdf"}, false},
		{"bob +hologram h", nil, true},
		{"bob +photo", nil, true},
		{"alice", nil, true},
		{"alice !", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := console.ParseEvent(tt.line, console.FormatText)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseEvent() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseEvent() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParseEvent_JSON(t *testing.T) {
	tests := []struct {
		line    string
		want    shelf.Event
		wantErr bool
	}{
		{`{"user":"u1","type":"text","text":"hi"}`, shelf.TextSubmitted{User: "u1", Text: "hi"}, false},
		{`{"user":"u1","type":"content","kind":"video","handle":"v"}`, shelf.ContentSubmitted{User: "u1", Kind: shelf.KindVideo, Handle: "v"}, false},
		{`{"user":"u1","type":"command","command":"up","message_ref":"m1"}`, shelf.CommandInvoked{User: "u1", Command: "up", MessageRef: "m1"}, false},
		{`{"user":"u1","type":"sticker"}`, nil, true},
		{`{"type":"text","text":"no user"}`, nil, true},
		{`not json`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := console.ParseEvent(tt.line, console.FormatJSON)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseEvent() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseEvent() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestRun_EndToEnd(t *testing.T) {
	var out bytes.Buffer
	outbox := console.NewOutbox(&out, console.FormatJSON)
	svc := shelf.NewShelfService(store.NewMemoryStore(), outbox, shelf.NewNopLogger(),
		testutil.FixedClock(), testutil.NewStubTokens(), shelf.DefaultRetryPolicy)

	input := strings.Join([]string{
		`# a comment`,
		`{"user":"alice","type":"text","text":"/mkdir Reports"}`,
		`{"user":"alice","type":"command","command":"folder:Reports","message_ref":"m1"}`,
		`garbage line`,
		`{"user":"alice","type":"content","kind":"document","handle":"doc-1"}`,
		`{"user":"alice","type":"command","command":"retrieve_all"}`,
		``,
	}, "\n")

	if err := console.Run(context.Background(), strings.NewReader(input), console.FormatJSON, svc, shelf.NewNopLogger()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("output line %q is not JSON: %v", line, err)
		}
		records = append(records, rec)
	}

	var replies []string
	var payloads []string
	for _, rec := range records {
		switch rec["op"] {
		case "reply":
			replies = append(replies, rec["text"].(string))
		case "content":
			payloads = append(payloads, rec["payload"].(string))
		}
	}

	wantReplies := []string{
		"Folder 'Reports' created.",
		"Moved into folder 'Reports'.",
		"Document saved to the current folder.",
		"All files sent.",
	}
	if strings.Join(replies, "|") != strings.Join(wantReplies, "|") {
		t.Errorf("replies = %q, want %q", replies, wantReplies)
	}
	if len(payloads) != 1 || payloads[0] != "doc-1" {
		t.Errorf("payloads = %q, want [doc-1]", payloads)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outbox := testutil.NewRecordingOutbox()
	svc := shelf.NewShelfService(store.NewMemoryStore(), outbox, shelf.NewNopLogger(),
		testutil.FixedClock(), testutil.NewStubTokens(), shelf.DefaultRetryPolicy)

	err := console.Run(ctx, strings.NewReader("alice hello\n"), console.FormatText, svc, shelf.NewNopLogger())
	if err == nil {
		t.Error("Run() expected context error")
	}
	if len(outbox.All()) != 0 {
		t.Error("events were handled after cancellation")
	}
}
