package mutator

// byteInsert inserts up to MaxByteCorruption random bytes at random indices.
// The index draw uses the *current* live length each iteration, so later
// insertions see the buffer grown by earlier ones within the same call;
// this is intentional.
func (m *Mutator) byteInsert() {
	slack := m.maxSize - len(m.input)
	if slack == 0 {
		return
	}

	ceiling := min(slack, MaxByteCorruption)
	n := m.rng.intn(ceiling) + 1

	for i := 0; i < n; i++ {
		idx := m.rng.intn(len(m.input))
		b := byte(m.rng.intn(256))
		m.input = append(m.input, 0)
		copy(m.input[idx+1:], m.input[idx:])
		m.input[idx] = b
	}
}

// byteOverwrite overwrites up to MaxByteCorruption random bytes in place.
// No-op on empty input is the caller's responsibility (scheduler only
// reaches this after copying a non-empty corpus entry).
func (m *Mutator) byteOverwrite() {
	ceiling := min(len(m.input), MaxByteCorruption)
	n := m.rng.intn(ceiling) + 1

	for i := 0; i < n; i++ {
		idx := m.rng.intn(len(m.input))
		m.input[idx] = byte(m.rng.intn(256))
	}
}

// byteDelete removes up to MaxByteCorruption bytes one at a time, each index
// drawn against the current length. The len-1 ceiling combined with
// one-by-one removal guarantees the buffer never reaches zero length
//.
func (m *Mutator) byteDelete() {
	if len(m.input) <= 1 {
		return
	}

	ceiling := min(len(m.input)-1, MaxByteCorruption)
	n := m.rng.intn(ceiling) + 1

	for i := 0; i < n && len(m.input) >= 2; i++ {
		idx := m.rng.intn(len(m.input))
		m.input = append(m.input[:idx], m.input[idx+1:]...)
	}
}
