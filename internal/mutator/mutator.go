// Package mutator implements the fuzzer's input mutation engine: a
// deterministic, single-owner PRNG driving twelve byte-level operators over
// a working buffer copied from a read-only corpus. This file holds the
// owned state and its construction.
package mutator

import "github.com/orizon-lang/havoc/internal/diagnostics"

// Tunables exposed as part of the contract.
const (
	MaxStack           = 6
	LongshotRate       = 5
	GenScratchRate     = 5
	MaxByteCorruption  = 64
	MaxBlockCorruption = 512
	MaxBitCorruption   = 64
)

// OperatorTag names one of the twelve mutation operators, in catalogue order
//. Order must match the dispatch table in scheduler.go exactly.
type OperatorTag int

const (
	OpByteInsert OperatorTag = iota
	OpByteOverwrite
	OpByteDelete
	OpBlockInsert
	OpBlockOverwrite
	OpBlockDelete
	OpBitFlip
	OpGrow
	OpTruncate
	OpMagicByteInsert
	OpMagicByteOverwrite
	OpSplice
)

func (t OperatorTag) String() string {
	switch t {
	case OpByteInsert:
		return "byte_insert"
	case OpByteOverwrite:
		return "byte_overwrite"
	case OpByteDelete:
		return "byte_delete"
	case OpBlockInsert:
		return "block_insert"
	case OpBlockOverwrite:
		return "block_overwrite"
	case OpBlockDelete:
		return "block_delete"
	case OpBitFlip:
		return "bit_flip"
	case OpGrow:
		return "grow"
	case OpTruncate:
		return "truncate"
	case OpMagicByteInsert:
		return "magic_byte_insert"
	case OpMagicByteOverwrite:
		return "magic_byte_overwrite"
	case OpSplice:
		return "splice"
	default:
		return "unknown"
	}
}

// Corpus is the read-only collection of previously interesting inputs the
// engine queries. It is borrowed for the duration of a single MutateInput
// call and must not be mutated concurrently by the caller.
type Corpus interface {
	NumInputs() int
	GetInput(i int) ([]byte, bool)
}

// Mutator owns the PRNG state, the working buffer, and the most recent
// mutation trace. A Mutator is single-owner: it carries no locks and is not
// safe for concurrent use.
type Mutator struct {
	rng          rngState
	input        []byte
	maxSize      int
	lastMutation []OperatorTag
	scratch      [MaxBlockCorruption]byte
}

// New constructs a Mutator. If seed is nil or zero, a fresh seed is derived
// from the clock. maxSize must be at least 1.
func New(seed *uint64, maxSize int) *Mutator {
	if maxSize < 1 {
		panic(diagnostics.New(diagnostics.CategoryConfig, "INVALID_MAX_SIZE",
			"max_size must be >= 1", map[string]any{"max_size": maxSize}))
	}

	var state rngState

	if seed != nil && *seed != 0 {
		state = rngState(*seed)
	} else {
		state = rngState(newSeed())
	}

	return &Mutator{
		rng:          state,
		input:        make([]byte, 0, maxSize),
		maxSize:      maxSize,
		lastMutation: make([]OperatorTag, 0, MaxStack),
	}
}

// Reseed re-derives a fresh seed and returns it.
func (m *Mutator) Reseed() uint64 {
	return m.rng.reseed()
}

// Input returns the current working buffer. The returned slice aliases the
// Mutator's internal storage and must not be retained across the next
// MutateInput/MemcpyInput call.
func (m *Mutator) Input() []byte { return m.input }

// LastMutation returns the operator tags applied during the most recent
// MutateInput call, in application order. Empty on the scratch-generation
// path.
func (m *Mutator) LastMutation() []OperatorTag { return m.lastMutation }

// RNG returns the raw PRNG state, exposed for diagnostics only.
func (m *Mutator) RNG() uint64 { return uint64(m.rng) }

// MaxSize returns the configured upper bound on Input()'s length.
func (m *Mutator) MaxSize() int { return m.maxSize }

// MemcpyInput replaces the working buffer's contents with slice, without
// touching the PRNG or LastMutation.
func (m *Mutator) MemcpyInput(slice []byte) {
	m.input = append(m.input[:0], slice...)
}

func (m *Mutator) checkInvariants() {
	if len(m.input) == 0 {
		panic(diagnostics.InvariantViolation("mutated input is empty", len(m.input), m.maxSize))
	}

	if len(m.input) > m.maxSize {
		panic(diagnostics.InvariantViolation("mutated input exceeds max_size", len(m.input), m.maxSize))
	}
}
