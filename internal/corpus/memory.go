// Package corpus provides reference implementations of the engine's
// two-method Corpus contract: an in-memory slice-backed corpus
// for tests and embedding, and a directory-backed corpus that can watch for
// newly dropped seed files.
package corpus

import "github.com/orizon-lang/havoc/internal/diagnostics"

// Memory is an append-only, slice-backed Corpus. It is not safe for
// concurrent use, matching the mutation engine's single-owner-per-call
// contract; callers sharing a Memory across goroutines must
// serialize their own access.
type Memory struct {
	entries [][]byte
}

// NewMemory builds a Memory corpus from the given entries, rejecting any
// zero-length entry, resolving the empty-corpus-entry
// open question.
func NewMemory(entries ...[]byte) (*Memory, error) {
	m := &Memory{entries: make([][]byte, 0, len(entries))}

	for i, e := range entries {
		if len(e) == 0 {
			return nil, diagnostics.InvalidCorpusEntry(i)
		}

		m.entries = append(m.entries, append([]byte(nil), e...))
	}

	return m, nil
}

// Append adds a new entry, rejecting zero-length input.
func (m *Memory) Append(entry []byte) error {
	if len(entry) == 0 {
		return diagnostics.InvalidCorpusEntry(m.NumInputs())
	}

	m.entries = append(m.entries, append([]byte(nil), entry...))

	return nil
}

// NumInputs returns the number of entries currently held.
func (m *Memory) NumInputs() int { return len(m.entries) }

// GetInput returns a borrow of the i-th entry, or false if i is out of range.
func (m *Memory) GetInput(i int) ([]byte, bool) {
	if i < 0 || i >= len(m.entries) {
		return nil, false
	}

	return m.entries[i], true
}
