package shelf_test

import (
	"errors"
	"strings"
	"testing"

	"shelf-go/internal/shelf"
)

func TestValidateFolderName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Reports", false},
		{"digits underscore dash", "q1_2024-final", false},
		{"max length", strings.Repeat("a", shelf.MaxFolderNameLength), false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", shelf.MaxFolderNameLength+1), true},
		{"slash", "a/b", true},
		{"colon", "a:b", true},
		{"space", "My Docs", true},
		{"non-ascii", "Фото", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := shelf.ValidateFolderName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateFolderName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, shelf.ErrInvalidFolderName) {
				t.Errorf("error = %v, want ErrInvalidFolderName", err)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	root := shelf.NewFolder()
	a, _ := root.AddFolder("A")
	b, _ := a.AddFolder("B")

	t.Run("empty path is root", func(t *testing.T) {
		got, err := shelf.Resolve(root, nil)
		if err != nil || got != root {
			t.Errorf("Resolve(nil) = %p, %v; want root", got, err)
		}
	})

	t.Run("nested path", func(t *testing.T) {
		got, err := shelf.Resolve(root, []string{"A", "B"})
		if err != nil || got != b {
			t.Errorf("Resolve(A/B) = %p, %v; want B", got, err)
		}
	})

	t.Run("missing segment", func(t *testing.T) {
		_, err := shelf.Resolve(root, []string{"A", "X"})
		if !errors.Is(err, shelf.ErrFolderNotFound) {
			t.Errorf("Resolve(A/X) error = %v, want ErrFolderNotFound", err)
		}
		if !errors.Is(err, shelf.ErrNotFound) {
			t.Errorf("Resolve(A/X) error = %v, want to match ErrNotFound", err)
		}
	})
}

func TestFolder_AddFolder(t *testing.T) {
	t.Run("keeps insertion order", func(t *testing.T) {
		root := shelf.NewFolder()
		for _, name := range []string{"Zeta", "Alpha", "Mid"} {
			if _, err := root.AddFolder(name); err != nil {
				t.Fatalf("AddFolder(%q) error = %v", name, err)
			}
		}
		got := strings.Join(root.Children(), ",")
		if got != "Zeta,Alpha,Mid" {
			t.Errorf("Children() = %s, want Zeta,Alpha,Mid", got)
		}
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		root := shelf.NewFolder()
		if _, err := root.AddFolder("A"); err != nil {
			t.Fatalf("AddFolder() error = %v", err)
		}
		if _, err := root.AddFolder("A"); !errors.Is(err, shelf.ErrFolderExists) {
			t.Errorf("second AddFolder() error = %v, want ErrFolderExists", err)
		}
		if len(root.Children()) != 1 {
			t.Errorf("len(Children()) = %d, want 1", len(root.Children()))
		}
	})

	t.Run("rejects invalid names", func(t *testing.T) {
		root := shelf.NewFolder()
		if _, err := root.AddFolder("a:b"); !errors.Is(err, shelf.ErrInvalidFolderName) {
			t.Errorf("AddFolder(a:b) error = %v, want ErrInvalidFolderName", err)
		}
	})
}

func TestFolder_Items(t *testing.T) {
	root := shelf.NewFolder()
	root.AppendItem(shelf.ContentItem{Kind: shelf.KindText, ShortID: "t1", Text: "hello"})
	root.AppendItem(shelf.ContentItem{Kind: shelf.KindPhoto, ShortID: "p1", Handle: "h-p1"})
	sub, _ := root.AddFolder("Sub")
	sub.AppendItem(shelf.ContentItem{Kind: shelf.KindDocument, ShortID: "d1", Handle: "h-d1"})

	t.Run("append keeps creation order", func(t *testing.T) {
		if root.Files[0].ShortID != "t1" || root.Files[1].ShortID != "p1" {
			t.Errorf("Files = %+v, want t1 then p1", root.Files)
		}
	})

	t.Run("item by short id", func(t *testing.T) {
		item, ok := root.Item("p1")
		if !ok || item.Payload() != "h-p1" {
			t.Errorf("Item(p1) = %+v, %v", item, ok)
		}
		if _, ok := root.Item("d1"); ok {
			t.Error("Item(d1) found an item from a subfolder")
		}
	})

	t.Run("find item searches subfolders", func(t *testing.T) {
		item, path, ok := root.FindItem("d1")
		if !ok {
			t.Fatal("FindItem(d1) not found")
		}
		if item.Handle != "h-d1" {
			t.Errorf("Handle = %q, want h-d1", item.Handle)
		}
		if strings.Join(path, "/") != "Sub" {
			t.Errorf("path = %v, want [Sub]", path)
		}
		if _, _, ok := root.FindItem("nope"); ok {
			t.Error("FindItem(nope) found something")
		}
	})

	t.Run("text payload is inline", func(t *testing.T) {
		item, _ := root.Item("t1")
		if item.Payload() != "hello" {
			t.Errorf("Payload() = %q, want hello", item.Payload())
		}
	})
}

func TestFolder_Walk(t *testing.T) {
	root := shelf.NewFolder()
	a, _ := root.AddFolder("A")
	a.AddFolder("A1")
	root.AddFolder("B")

	var visited []string
	root.Walk(func(path []string, _ *shelf.Folder) {
		visited = append(visited, "/"+strings.Join(path, "/"))
	})

	want := "/,/A,/A/A1,/B"
	if got := strings.Join(visited, ","); got != want {
		t.Errorf("Walk visited %s, want %s", got, want)
	}
}
