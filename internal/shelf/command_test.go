package shelf_test

import (
	"errors"
	"strings"
	"testing"

	"shelf-go/internal/shelf"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name   string
		prefix shelf.Prefix
		args   []string
		want   string
	}{
		{"no args", shelf.PrefixUp, nil, "up"},
		{"folder", shelf.PrefixFolder, []string{"Reports"}, "folder:Reports"},
		{"drops unsafe characters", shelf.PrefixFolder, []string{"My Docs:2024"}, "folder:MyDocs2024"},
		{"shared with path", shelf.PrefixSharedFolder, []string{"k1", "A", "B"}, "shared_folder:k1:A:B"},
		{"empty arg after sanitize", shelf.PrefixFile, []string{"!!"}, "file:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := shelf.Encode(tt.prefix, tt.args...)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncode_SizeLimit(t *testing.T) {
	t.Run("exactly at limit", func(t *testing.T) {
		arg := strings.Repeat("x", shelf.MaxCommandBytes-len("folder:"))
		got, err := shelf.Encode(shelf.PrefixFolder, arg)
		if err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		if len(got) != shelf.MaxCommandBytes {
			t.Errorf("len = %d, want %d", len(got), shelf.MaxCommandBytes)
		}
	})

	t.Run("one byte over", func(t *testing.T) {
		arg := strings.Repeat("x", shelf.MaxCommandBytes-len("folder:")+1)
		_, err := shelf.Encode(shelf.PrefixFolder, arg)
		if !errors.Is(err, shelf.ErrEncodingTooLarge) {
			t.Errorf("Encode() error = %v, want ErrEncodingTooLarge", err)
		}
	})

	t.Run("shared folder at share root always fits", func(t *testing.T) {
		key := strings.Repeat("k", 22)
		name := strings.Repeat("n", shelf.MaxFolderNameLength)
		if _, err := shelf.Encode(shelf.PrefixSharedFolder, key, name); err != nil {
			t.Errorf("Encode() error = %v", err)
		}
	})
}

func TestDecode(t *testing.T) {
	tests := []struct {
		raw        string
		wantPrefix shelf.Prefix
		wantArgs   []string
		wantValid  bool
	}{
		{"up", shelf.PrefixUp, nil, true},
		{"retrieve_all", shelf.PrefixRetrieveAll, nil, true},
		{"folder:Reports", shelf.PrefixFolder, []string{"Reports"}, true},
		{"file:abc123", shelf.PrefixFile, []string{"abc123"}, true},
		{"shared_up:k1", shelf.PrefixSharedUp, []string{"k1"}, true},
		{"shared_up:k1:A:B", shelf.PrefixSharedUp, []string{"k1", "A", "B"}, true},
		{"shared_folder:k1:Reports", shelf.PrefixSharedFolder, []string{"k1", "Reports"}, true},
		{"shared_file:k1:abc", shelf.PrefixSharedFile, []string{"k1", "abc"}, true},
		{"shared_retrieve_all:k1:A", shelf.PrefixSharedRetrieveAll, []string{"k1", "A"}, true},
		{"folder", shelf.PrefixFolder, nil, false},
		{"folder:a:b", shelf.PrefixFolder, []string{"a", "b"}, false},
		{"up:extra", shelf.PrefixUp, []string{"extra"}, false},
		{"shared_folder:k1", shelf.PrefixSharedFolder, []string{"k1"}, false},
		{"shared_file:k1:a:b", shelf.PrefixSharedFile, []string{"k1", "a", "b"}, false},
		{"delete:x", shelf.Prefix("delete"), []string{"x"}, false},
		{"", shelf.Prefix(""), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			cmd := shelf.Decode(tt.raw)
			if cmd.Prefix != tt.wantPrefix {
				t.Errorf("Prefix = %q, want %q", cmd.Prefix, tt.wantPrefix)
			}
			if strings.Join(cmd.Args, "|") != strings.Join(tt.wantArgs, "|") || len(cmd.Args) != len(tt.wantArgs) {
				t.Errorf("Args = %q, want %q", cmd.Args, tt.wantArgs)
			}
			if cmd.Valid() != tt.wantValid {
				t.Errorf("Valid() = %v, want %v", cmd.Valid(), tt.wantValid)
			}
		})
	}
}

func TestEncodeDecode_SafeArgsSurvive(t *testing.T) {
	args := []string{"k_1-x", "Folder-2", "abc_DEF"}
	raw, err := shelf.Encode(shelf.PrefixSharedFolder, args...)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	cmd := shelf.Decode(raw)
	if cmd.Prefix != shelf.PrefixSharedFolder || strings.Join(cmd.Args, ",") != strings.Join(args, ",") {
		t.Errorf("Decode(Encode()) = %+v", cmd)
	}
	if cmd.ShareKey() != "k_1-x" {
		t.Errorf("ShareKey() = %q, want k_1-x", cmd.ShareKey())
	}
	if cmd.String() != raw {
		t.Errorf("String() = %q, want %q", cmd.String(), raw)
	}
}

func TestCommand_Err(t *testing.T) {
	if err := shelf.Decode("up").Err(); err != nil {
		t.Errorf("Err() for up = %v, want nil", err)
	}
	for _, raw := range []string{"launch:now", "folder", "file:a:b"} {
		if err := shelf.Decode(raw).Err(); !errors.Is(err, shelf.ErrUnknownCommand) {
			t.Errorf("Decode(%q).Err() = %v, want ErrUnknownCommand", raw, err)
		}
	}
}

func TestSanitize(t *testing.T) {
	if got := shelf.Sanitize("a b:c/d_é-9"); got != "abcd_-9" {
		t.Errorf("Sanitize() = %q, want %q", got, "abcd_-9")
	}
}
