package mutator

// blockInsert copies a contiguous slice of the current input into the
// fixed-size scratch region, then splices it back in at a random index.
// Length grows by exactly block_size and never exceeds max_size
//.
func (m *Mutator) blockInsert() {
	slack := m.maxSize - len(m.input)
	if slack == 0 {
		return
	}

	ceiling := min(slack, MaxBlockCorruption)
	ceiling = min(ceiling, len(m.input))

	if ceiling == 0 {
		return
	}

	blockSize := m.rng.intn(ceiling) + 1

	start := m.rng.intn(len(m.input) - blockSize + 1)
	copy(m.scratch[:blockSize], m.input[start:start+blockSize])

	at := m.rng.intn(len(m.input))

	m.input = append(m.input, make([]byte, blockSize)...)
	copy(m.input[at+blockSize:], m.input[at:len(m.input)-blockSize])
	copy(m.input[at:at+blockSize], m.scratch[:blockSize])
}

// blockOverwrite copies a read range into scratch, then writes it into an
// independently chosen write range. Read and write ranges may overlap, so
// the scratch copy is mandatory; an in-place copy would be incorrect
//.
func (m *Mutator) blockOverwrite() {
	ceiling := min(len(m.input), MaxBlockCorruption)
	if ceiling == 0 {
		return
	}

	blockSize := m.rng.intn(ceiling) + 1
	span := len(m.input) - blockSize + 1

	readStart := m.rng.intn(span)
	copy(m.scratch[:blockSize], m.input[readStart:readStart+blockSize])

	writeStart := m.rng.intn(span)
	copy(m.input[writeStart:writeStart+blockSize], m.scratch[:blockSize])
}

// blockDelete removes a contiguous range, shrinking length by block_size but
// never below 1.
func (m *Mutator) blockDelete() {
	if len(m.input) <= 1 {
		return
	}

	ceiling := min(len(m.input)-1, MaxBlockCorruption)
	if ceiling == 0 {
		return
	}

	blockSize := m.rng.intn(ceiling) + 1
	start := m.rng.intn(len(m.input) - blockSize + 1)

	m.input = append(m.input[:start], m.input[start+blockSize:]...)
}
