package shelf

import (
	"errors"
	"fmt"
)

// MenuEntry is one button: the label shown and the command it sends.
type MenuEntry struct {
	Label   string `json:"label"`
	Command string `json:"command"`
}

const (
	upLabel          = "⬆️ Up"
	retrieveAllLabel = "📤 Retrieve all"
)

// ItemLabel derives a button label from the item's kind and its 1-based
// position in the folder.
func ItemLabel(kind Kind, position int) string {
	switch kind {
	case KindText:
		return fmt.Sprintf("📝 Text %d", position)
	case KindDocument:
		return fmt.Sprintf("📄 Document %d", position)
	case KindPhoto:
		return fmt.Sprintf("🖼️ Photo %d", position)
	case KindVideo:
		return fmt.Sprintf("🎬 Video %d", position)
	case KindAudio:
		return fmt.Sprintf("🎵 Audio %d", position)
	}
	return fmt.Sprintf("📁 File %d", position)
}

// Project lists the actions available in folder: up (unless path is empty),
// child folders in insertion order, items in creation order, then retrieve
// all. With a share context, path is the position below the share's base and
// every command uses the shared prefix family.
//
// An entry whose command cannot be encoded is left out; the returned error
// joins every such failure and the remaining entries are still usable.
func Project(folder *Folder, path []string, share *ShareContext) ([]MenuEntry, error) {
	var (
		entries []MenuEntry
		errs    []error
	)
	add := func(label string, prefix Prefix, args ...string) {
		cmd, err := Encode(prefix, args...)
		if err != nil {
			errs = append(errs, fmt.Errorf("menu entry %q: %w", label, err))
			return
		}
		entries = append(entries, MenuEntry{Label: label, Command: cmd})
	}

	shared := share != nil
	withKey := func(args ...string) []string {
		if !shared {
			return args
		}
		return append([]string{share.Key}, args...)
	}
	pathArgs := func(extra ...string) []string {
		if !shared {
			return extra
		}
		out := make([]string, 0, len(path)+len(extra))
		out = append(out, path...)
		return append(out, extra...)
	}

	if len(path) > 0 {
		if shared {
			add(upLabel, PrefixSharedUp, withKey(pathArgs()...)...)
		} else {
			add(upLabel, PrefixUp)
		}
	}
	for _, name := range folder.Children() {
		if shared {
			add("📁 "+name, PrefixSharedFolder, withKey(pathArgs(name)...)...)
		} else {
			add("📁 "+name, PrefixFolder, name)
		}
	}
	for i, item := range folder.Files {
		label := ItemLabel(item.Kind, i+1)
		if shared {
			add(label, PrefixSharedFile, withKey(item.ShortID)...)
		} else {
			add(label, PrefixFile, item.ShortID)
		}
	}
	if shared {
		add(retrieveAllLabel, PrefixSharedRetrieveAll, withKey(pathArgs()...)...)
	} else {
		add(retrieveAllLabel, PrefixRetrieveAll)
	}

	return entries, errors.Join(errs...)
}
