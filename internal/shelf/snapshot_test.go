package shelf_test

import (
	"strings"
	"testing"

	"shelf-go/internal/shelf"
	"shelf-go/internal/testutil"
)

func TestEncodeDecodeState(t *testing.T) {
	state := shelf.NewState()
	alice := state.Session("alice")
	docs, _ := alice.Structure.AddFolder("Docs")
	alice.Structure.AddFolder("Archive")
	alice.CurrentPath = []string{"Docs"}
	alice.ShortIDs["v1"] = "h-v1"
	docs.AppendItem(shelf.ContentItem{Kind: shelf.KindVideo, ShortID: "v1", Handle: "h-v1", FileName: "clip.mp4"})
	tokens := testutil.NewStubTokens()
	if _, err := state.CreateShare("alice", []string{"Docs"}, tokens, testutil.FixedClock()); err != nil {
		t.Fatalf("CreateShare() error = %v", err)
	}

	data, err := shelf.EncodeState(state)
	if err != nil {
		t.Fatalf("EncodeState() error = %v", err)
	}
	if !strings.Contains(string(data), `"kind":"video"`) {
		t.Errorf("encoded kind is not its name: %s", data)
	}

	got, err := shelf.DecodeState(data)
	if err != nil {
		t.Fatalf("DecodeState() error = %v", err)
	}
	gotAlice := got.Users["alice"]
	if strings.Join(gotAlice.Structure.Children(), ",") != "Docs,Archive" {
		t.Errorf("Children() = %v, want Docs,Archive", gotAlice.Structure.Children())
	}
	item, ok := gotAlice.Structure.Folders["Docs"].Item("v1")
	if !ok || item.FileName != "clip.mp4" || item.Kind != shelf.KindVideo {
		t.Errorf("Item(v1) = %+v, %v", item, ok)
	}
	rec := got.Shares["key-1"]
	if rec == nil || rec.OwnerID != "alice" || !rec.CreatedAt.Equal(testutil.FixedClock().Now()) {
		t.Errorf("share = %+v", rec)
	}
}

func TestDecodeState(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		state, err := shelf.DecodeState(nil)
		if err != nil || state == nil || state.Users == nil {
			t.Errorf("DecodeState(nil) = %+v, %v", state, err)
		}
	})

	t.Run("fills missing fields", func(t *testing.T) {
		state, err := shelf.DecodeState([]byte(`{"version":1,"users":{"u1":{"structure":{"folders":{"A":null}}}}}`))
		if err != nil {
			t.Fatalf("DecodeState() error = %v", err)
		}
		sess := state.Users["u1"]
		if sess.ShortIDs == nil || sess.CurrentPath == nil || state.Shares == nil {
			t.Errorf("nil fields after decode: %+v", sess)
		}
		if strings.Join(sess.Structure.Children(), ",") != "A" {
			t.Errorf("Children() = %v, want [A]", sess.Structure.Children())
		}
		if sess.Structure.Folders["A"] == nil {
			t.Error("null child folder not replaced")
		}
	})

	t.Run("rejects newer versions", func(t *testing.T) {
		if _, err := shelf.DecodeState([]byte(`{"version":99}`)); err == nil {
			t.Error("DecodeState() expected error for newer version")
		}
	})

	t.Run("rejects unknown kinds", func(t *testing.T) {
		doc := `{"version":1,"users":{"u1":{"structure":{"files":[{"kind":"hologram","short_id":"x"}]}}}}`
		if _, err := shelf.DecodeState([]byte(doc)); err == nil {
			t.Error("DecodeState() expected error for unknown kind")
		}
	})
}
