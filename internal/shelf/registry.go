package shelf

import "fmt"

// maxIssueAttempts bounds the collision retry loop in IssueShortID.
const maxIssueAttempts = 16

// IssueShortID registers handle under a fresh short id in this user's scope.
// An id already present in the registry is never reused, even for the same
// handle. Text items pass an empty handle: their payload stays inline.
func (s *Session) IssueShortID(handle string, gen TokenGenerator) (string, error) {
	if s.ShortIDs == nil {
		s.ShortIDs = make(map[string]string)
	}
	for attempt := 0; attempt < maxIssueAttempts; attempt++ {
		id := Sanitize(gen.ShortID())
		if id == "" {
			continue
		}
		if _, taken := s.ShortIDs[id]; taken {
			continue
		}
		s.ShortIDs[id] = handle
		return id, nil
	}
	return "", fmt.Errorf("%w after %d attempts", ErrShortIDExhausted, maxIssueAttempts)
}

// LookupShortID returns the handle registered under shortID.
func (s *Session) LookupShortID(shortID string) (string, bool) {
	handle, ok := s.ShortIDs[shortID]
	return handle, ok
}
