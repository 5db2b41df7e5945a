package mutator

// bitFlip toggles up to MaxBitCorruption individual bits across the buffer.
func (m *Mutator) bitFlip() {
	numBits := len(m.input) * 8
	ceiling := min(numBits, MaxBitCorruption)
	k := m.rng.intn(ceiling) + 1

	for i := 0; i < k; i++ {
		p := m.rng.intn(numBits)
		byteIdx := p / 8
		bitIdx := p % 8
		m.input[byteIdx] ^= 1 << uint(bitIdx)
	}
}

// grow inserts `size` copies of a single random byte at a single random
// index; all inserted bytes are identical, and the index shifts with each
// insertion as written.
func (m *Mutator) grow() {
	slack := m.maxSize - len(m.input)
	if slack == 0 {
		return
	}

	size := m.rng.intn(slack) + 1
	idx := m.rng.intn(len(m.input))
	b := byte(m.rng.intn(256))

	for i := 0; i < size; i++ {
		m.input = append(m.input, 0)
		copy(m.input[idx+1:], m.input[idx:])
		m.input[idx] = b
	}
}

// truncate retains the first k bytes, k in [1, len-1], always leaving at
// least one byte.
func (m *Mutator) truncate() {
	if len(m.input) <= 1 {
		return
	}

	k := m.rng.intn(len(m.input)-1) + 1
	m.input = m.input[:k]
}
