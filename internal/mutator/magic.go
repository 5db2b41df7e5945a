package mutator

import "encoding/binary"

// magicNumbers is the fixed catalogue of 35 "interesting" integer constants
//: boundary values for each signed/unsigned integer width,
// single high bits, their complements, and powers of two up to 16384. Order
// is stable. It does not affect correctness, only reproducibility under a
// fixed seed, since indices are drawn uniformly.
var magicNumbers = [35]uint64{
	0x0000000000000000, // 0
	0xFFFFFFFFFFFFFFFF, // u64::MAX
	0x00000000FFFFFFFF, // u32::MAX
	0x000000000000FFFF, // u16::MAX
	0x00000000000000FF, // u8::MAX
	0x7FFFFFFFFFFFFFFF, // i64::MAX
	0x000000007FFFFFFF, // i32::MAX
	0x0000000000007FFF, // i16::MAX
	0x000000000000007F, // i8::MAX
	0x8000000000000000, // i64::MIN
	0xFFFFFFFF80000000, // i32::MIN, sign-extended
	0xFFFFFFFFFFFF8000, // i16::MIN, sign-extended
	0xFFFFFFFFFFFFFF80, // i8::MIN, sign-extended
	0x8000000000000000, // bit 63 set
	0x0000000080000000, // bit 31 set
	0x0000000000008000, // bit 15 set
	0x0000000000000080, // bit 7 set
	0x7FFFFFFFFFFFFFFF, // all bits except 63
	0x000000007FFFFFFF, // all bits except 31 (masked to 32 bits)
	0x0000000000007FFF, // all bits except 15 (masked to 16 bits)
	0x000000000000007F, // all bits except 7 (masked to 8 bits)
	2,
	4,
	8,
	16,
	32,
	64,
	128,
	256,
	512,
	1024,
	2048,
	4096,
	8192,
	16384,
}

// pickMagic returns a uniformly chosen catalogue value.
func (m *Mutator) pickMagic() uint64 {
	return magicNumbers[m.rng.intn(len(magicNumbers))]
}

// mutateMagic applies one of 14 arithmetic/bitwise transforms to magic, then
// slices the native-endian byte representation down to one of 15 sub-slices
// (8, 4, 2 or 1 bytes wide). Arithmetic is wrapping; overflow is not an error.
func (m *Mutator) mutateMagic(magic uint64) []byte {
	switch m.rng.intn(14) {
	case 0:
		// identity
	case 1:
		magic &= 0xFF
	case 2:
		magic &= 0xFFFF
	case 3:
		magic &= 0xFFFFFFFF
	case 4:
		magic--
	case 5:
		magic++
	case 6:
		magic = ^magic
	case 7:
		magic <<= 1
	case 8:
		magic >>= 1
	case 9:
		magic = rotateLeft64(magic, 8)
	case 10:
		magic = rotateRight64(magic, 8)
	case 11:
		magic ^= 0xFFFFFFFF
	case 12:
		magic = swapBytes64(magic)
	case 13:
		bit := m.rng.intn(64)
		magic ^= 1 << uint(bit)
	}

	var raw [8]byte
	binary.LittleEndian.PutUint64(raw[:], magic)

	switch m.rng.intn(15) {
	case 0:
		return raw[:]
	case 1:
		return raw[0:4]
	case 2:
		return raw[4:8]
	case 3:
		return raw[0:2]
	case 4:
		return raw[2:4]
	case 5:
		return raw[4:6]
	case 6:
		return raw[6:8]
	case 7:
		return raw[0:1]
	case 8:
		return raw[1:2]
	case 9:
		return raw[2:3]
	case 10:
		return raw[3:4]
	case 11:
		return raw[4:5]
	case 12:
		return raw[5:6]
	case 13:
		return raw[6:7]
	default:
		return raw[7:8]
	}
}

func rotateLeft64(v uint64, k uint) uint64 {
	return v<<(k&63) | v>>((64-k)&63)
}

func rotateRight64(v uint64, k uint) uint64 {
	return rotateLeft64(v, 64-(k&63))
}

func swapBytes64(v uint64) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)

	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}

	return binary.LittleEndian.Uint64(b[:])
}

// nativeBytes returns the little-endian byte representation of magic.
// Native endianness is part of the contract: the engine
// targets little-endian hardware.
func nativeBytes(magic uint64) []byte {
	var raw [8]byte
	binary.LittleEndian.PutUint64(raw[:], magic)

	return raw[:]
}
