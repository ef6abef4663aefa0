package shelf

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SnapshotVersion is written into every encoded state document.
const SnapshotVersion = 1

type snapshotDocument struct {
	Version int `json:"version"`
	*State
}

// EncodeState serializes the whole state document.
func EncodeState(state *State) ([]byte, error) {
	if state == nil {
		state = NewState()
	}
	data, err := json.Marshal(snapshotDocument{Version: SnapshotVersion, State: state})
	if err != nil {
		return nil, fmt.Errorf("encoding state: %w", err)
	}
	return data, nil
}

// DecodeState parses a document produced by EncodeState. Empty input yields
// an empty state, which is what a store returns before its first save.
func DecodeState(data []byte) (*State, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return NewState(), nil
	}
	doc := snapshotDocument{State: NewState()}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding state: %w", err)
	}
	if doc.Version > SnapshotVersion {
		return nil, fmt.Errorf("state document version %d is newer than supported version %d", doc.Version, SnapshotVersion)
	}
	doc.State.Normalize()
	return doc.State, nil
}
