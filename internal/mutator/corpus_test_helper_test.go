package mutator

// memCorpus is a minimal in-test Corpus implementation; the real
// implementations live in internal/corpus and are not imported here to keep
// this package's tests free of the module's own import cycle concerns.
type memCorpus struct {
	entries [][]byte
}

func (c *memCorpus) NumInputs() int { return len(c.entries) }

func (c *memCorpus) GetInput(i int) ([]byte, bool) {
	if i < 0 || i >= len(c.entries) {
		return nil, false
	}

	return c.entries[i], true
}
