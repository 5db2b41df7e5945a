package mutator

import "github.com/orizon-lang/havoc/internal/diagnostics"

// operatorPool lists the twelve operators in catalogue order.
// The longshot pool is the full slice; the restricted pool is the first
// nine, excluding MagicByteInsert, MagicByteOverwrite, and Splice.
var operatorPool = [...]OperatorTag{
	OpByteInsert,
	OpByteOverwrite,
	OpByteDelete,
	OpBlockInsert,
	OpBlockOverwrite,
	OpBlockDelete,
	OpBitFlip,
	OpGrow,
	OpTruncate,
	OpMagicByteInsert,
	OpMagicByteOverwrite,
	OpSplice,
}

const restrictedPoolSize = len(operatorPool) - 3

// generateRandomInput fills the buffer with size random bytes, size in
// [1, max_size].
func (m *Mutator) generateRandomInput() {
	size := m.rng.intn(m.maxSize) + 1

	m.input = append(m.input[:0], make([]byte, size)...)
	for i := 0; i < size; i++ {
		m.input[i] = byte(m.rng.intn(256))
	}
}

// MutateInput produces the next candidate input. With
// probability GenScratchRate/100, or whenever corpus is empty, it fills the
// buffer from scratch and leaves LastMutation empty. Otherwise it copies a
// uniformly chosen corpus entry and applies 1..=MaxStack rounds of
// operators, restricting the pool to the first nine unless a longshot draw
// succeeds.
func (m *Mutator) MutateInput(corpus Corpus) {
	m.input = m.input[:0]
	m.lastMutation = m.lastMutation[:0]

	numInputs := corpus.NumInputs()
	gen := m.rng.intn(100)

	if numInputs == 0 || gen < GenScratchRate {
		m.generateRandomInput()
		m.checkInvariants()

		return
	}

	idx := m.rng.intn(numInputs)

	chosen, ok := corpus.GetInput(idx)
	if !ok {
		// NumInputs said idx was in range; the corpus is lying.
		panic(diagnostics.InconsistentCorpus(idx, numInputs))
	}

	m.input = append(m.input[:0], chosen...)

	rounds := m.rng.intn(MaxStack) + 1

	for r := 0; r < rounds; r++ {
		longshot := m.rng.intn(100)

		poolSize := restrictedPoolSize
		if longshot <= LongshotRate {
			poolSize = len(operatorPool)
		}

		op := operatorPool[m.rng.intn(poolSize)]
		m.dispatch(op, corpus)
		m.lastMutation = append(m.lastMutation, op)
	}

	m.checkInvariants()
}

func (m *Mutator) dispatch(op OperatorTag, corpus Corpus) {
	switch op {
	case OpByteInsert:
		m.byteInsert()
	case OpByteOverwrite:
		m.byteOverwrite()
	case OpByteDelete:
		m.byteDelete()
	case OpBlockInsert:
		m.blockInsert()
	case OpBlockOverwrite:
		m.blockOverwrite()
	case OpBlockDelete:
		m.blockDelete()
	case OpBitFlip:
		m.bitFlip()
	case OpGrow:
		m.grow()
	case OpTruncate:
		m.truncate()
	case OpMagicByteInsert:
		m.magicByteInsert()
	case OpMagicByteOverwrite:
		m.magicByteOverwrite()
	case OpSplice:
		m.splice(corpus)
	}
}
