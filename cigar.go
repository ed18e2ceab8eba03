package bamcore

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// CigarOpType is the operation carried by the low 4 bits of a CIGAR word.
type CigarOpType byte

const (
	CigarMatch     CigarOpType = iota // M - alignment match (sequence match or mismatch)
	CigarInsertion                    // I - insertion to the reference
	CigarDeletion                     // D - deletion from the reference
	CigarSkipped                      // N - skipped region from the reference
	CigarSoftClip                     // S - soft clipping (clipped sequence present in SEQ)
	CigarHardClip                     // H - hard clipping (clipped sequence absent from SEQ)
	CigarPadded                       // P - padding (silent deletion from padded reference)
	CigarEqual                        // = - sequence match
	CigarMismatch                     // X - sequence mismatch
	CigarBack                         // B - skip backwards
	lastCigarOp
)

var cigarOpLetters = [...]byte{'M', 'I', 'D', 'N', 'S', 'H', 'P', '=', 'X', 'B'}

// String returns the single-letter representation of t, or "?" if t is not
// one of the ten defined operation types.
func (t CigarOpType) String() string {
	if t >= lastCigarOp {
		return "?"
	}
	return string(cigarOpLetters[t])
}

var cigarLetterToOp [256]CigarOpType

func init() {
	for i := range cigarLetterToOp {
		cigarLetterToOp[i] = lastCigarOp
	}
	for op, letter := range cigarOpLetters {
		cigarLetterToOp[letter] = CigarOpType(op)
	}
}

// maxCigarOpLen is the largest run length a CIGAR word can carry, 2**28-1.
const maxCigarOpLen = 0x0FFFFFFF

// CigarOp is a decoded (operation, length) pair, the unpacked form of a
// single 32-bit CIGAR word.
type CigarOp struct {
	Type CigarOpType
	Len  int
}

// Cigar is an owned, immutable-after-construction sequence of CIGAR words.
// Its storage is the wire representation itself: four bytes per operation,
// little-endian, low 4 bits of the word give the operation and the upper 28
// bits give the run length. This makes Bytes a zero-copy read-only view and
// FromBuffer a zero-validation reinterpretation, matching the memoryview
// capability the format calls for.
type Cigar []byte

// NewCigar allocates a Cigar able to hold n operations, for in-place fill by
// a decoder. All operations are initially CigarMatch with length 0.
func NewCigar(n int) Cigar {
	return make(Cigar, n*4)
}

// FromPairs builds a Cigar from a slice of (op, len) pairs, validating each
// operation and length.
func FromPairs(ops []CigarOp) (Cigar, error) {
	c := make(Cigar, 0, len(ops)*4)
	for _, o := range ops {
		word, err := encodeCigarWord(o.Type, o.Len)
		if err != nil {
			return nil, err
		}
		c = append(c, word[:]...)
	}
	return c, nil
}

// FromBuffer reinterprets b as a Cigar: b's length must be a multiple of 4.
// No content validation is performed, matching a raw buffer constructor.
func FromBuffer(b []byte) (Cigar, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("%w: cigar buffer length %d is not a multiple of 4", ErrTypeError, len(b))
	}
	c := make(Cigar, len(b))
	copy(c, b)
	return c, nil
}

// FromString parses a CIGAR string of repeating (decimal run length)(op
// letter) pairs, e.g. "3M1I2D". A lone "*" yields an empty Cigar.
func FromString(s string) (Cigar, error) {
	if s == "*" {
		return nil, nil
	}
	b := []byte(s)
	var c Cigar
	for i := 0; i < len(b); {
		j := i
		for j < len(b) && '0' <= b[j] && b[j] <= '9' {
			j++
		}
		if j == i {
			return nil, fmt.Errorf("%w: expected a run length at offset %d in %q", ErrInvalidCigar, i, s)
		}
		n, err := atoiCigar(b[i:j])
		if err != nil {
			return nil, err
		}
		if j == len(b) {
			return nil, fmt.Errorf("%w: missing operation letter in %q", ErrInvalidCigar, s)
		}
		op := cigarLetterToOp[b[j]]
		if op == lastCigarOp {
			return nil, fmt.Errorf("%w: unknown operation %q in %q", ErrInvalidCigar, b[j], s)
		}
		word, err := encodeCigarWord(op, n)
		if err != nil {
			return nil, err
		}
		c = append(c, word[:]...)
		i = j + 1
	}
	return c, nil
}

func atoiCigar(b []byte) (int, error) {
	n := 0
	for _, v := range b {
		n = n*10 + int(v-'0')
		if n > maxCigarOpLen {
			return 0, fmt.Errorf("%w: cigar run length %q exceeds %d", ErrOutOfRange, b, maxCigarOpLen)
		}
	}
	return n, nil
}

func encodeCigarWord(t CigarOpType, n int) ([4]byte, error) {
	var word [4]byte
	if t >= lastCigarOp {
		return word, fmt.Errorf("%w: operation %v out of range", ErrInvalidCigar, t)
	}
	if n < 0 || n > maxCigarOpLen {
		return word, fmt.Errorf("%w: cigar run length %d exceeds %d", ErrOutOfRange, n, maxCigarOpLen)
	}
	binary.LittleEndian.PutUint32(word[:], uint32(t)|uint32(n)<<4)
	return word, nil
}

// Len returns the number of CIGAR operations.
func (c Cigar) Len() int { return len(c) / 4 }

// At decodes the i'th operation.
func (c Cigar) At(i int) CigarOp {
	word := binary.LittleEndian.Uint32(c[i*4 : i*4+4])
	return CigarOp{Type: CigarOpType(word & 0xf), Len: int(word >> 4)}
}

// Ops decodes the whole Cigar into a slice of (op, len) pairs.
func (c Cigar) Ops() []CigarOp {
	ops := make([]CigarOp, c.Len())
	for i := range ops {
		ops[i] = c.At(i)
	}
	return ops
}

// Bytes returns the read-only little-endian byte view of the underlying
// 32-bit words; element size 4.
func (c Cigar) Bytes() []byte { return c }

// String renders the CIGAR in SAM text form, e.g. "3M1I2D", or "*" if empty.
func (c Cigar) String() string {
	if len(c) == 0 {
		return "*"
	}
	var b strings.Builder
	for i := 0; i < c.Len(); i++ {
		op := c.At(i)
		fmt.Fprintf(&b, "%d%s", op.Len, op.Type)
	}
	return b.String()
}

// Equal reports whether c and other hold the same operations in the same
// order.
func (c Cigar) Equal(other Cigar) bool {
	return string(c) == string(other)
}

// ReferenceLength returns the number of reference bases the Cigar consumes,
// i.e. the sum of the lengths of reference-consuming operations (M, D, N,
// =, X), used when building the oversized-CIGAR placeholder's skip length.
func (c Cigar) ReferenceLength() int {
	var n int
	for i := 0; i < c.Len(); i++ {
		op := c.At(i)
		switch op.Type {
		case CigarMatch, CigarDeletion, CigarSkipped, CigarEqual, CigarMismatch:
			n += op.Len
		case CigarBack:
			n -= op.Len
		}
	}
	return n
}
