package bamcore

import (
	"encoding/binary"
	"fmt"
)

// VirtualFileOffset is a packed 64-bit BGZF virtual file offset: the high 48
// bits are the compressed-file byte offset (coffset) of the start of a BGZF
// block, and the low 16 bits are the uncompressed intra-block offset
// (uoffset).
type VirtualFileOffset uint64

const (
	maxCoffset = 1<<48 - 1
	maxUoffset = 1<<16 - 1
)

// NewVirtualFileOffset composes a VirtualFileOffset from its components.
// The composition is (coffset << 16) | uoffset; using bitwise OR here,
// rather than AND, is load-bearing.
func NewVirtualFileOffset(coffset int64, uoffset int) (VirtualFileOffset, error) {
	if coffset < 0 || coffset > maxCoffset {
		return 0, fmt.Errorf("%w: coffset %d exceeds %d", ErrOutOfRange, coffset, maxCoffset)
	}
	if uoffset < 0 || uoffset > maxUoffset {
		return 0, fmt.Errorf("%w: uoffset %d exceeds %d", ErrOutOfRange, uoffset, maxUoffset)
	}
	return VirtualFileOffset(uint64(coffset)<<16 | uint64(uoffset)), nil
}

// VirtualFileOffsetFromBytes reads exactly 8 little-endian bytes as a
// VirtualFileOffset.
func VirtualFileOffsetFromBytes(b []byte) (VirtualFileOffset, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("%w: expected 8 bytes, got %d", ErrLengthMismatch, len(b))
	}
	return VirtualFileOffset(binary.LittleEndian.Uint64(b)), nil
}

// Coffset returns the compressed-file byte offset component.
func (v VirtualFileOffset) Coffset() int64 { return int64(v >> 16) }

// Uoffset returns the intra-block uncompressed offset component.
func (v VirtualFileOffset) Uoffset() int { return int(v & maxUoffset) }

// Bytes returns the 8 little-endian bytes of v.
func (v VirtualFileOffset) Bytes() []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(v))
	return b
}

// DecodeVirtualFileOffsets decodes a packed blob of back-to-back 8-byte
// virtual file offsets. len(blob) must be a multiple of 8.
func DecodeVirtualFileOffsets(blob []byte) ([]VirtualFileOffset, error) {
	if len(blob)%8 != 0 {
		return nil, fmt.Errorf("%w: blob length %d is not a multiple of 8", ErrLengthMismatch, len(blob))
	}
	out := make([]VirtualFileOffset, len(blob)/8)
	for i := range out {
		out[i] = VirtualFileOffset(binary.LittleEndian.Uint64(blob[i*8:]))
	}
	return out, nil
}

// Chunk is a contiguous half-open range [Start, End) of BAM records,
// expressed as a pair of virtual file offsets.
type Chunk struct {
	Start, End VirtualFileOffset
}

// DecodeChunks decodes a packed blob of back-to-back (start, end) virtual
// file offset pairs. len(blob) must be a multiple of 16.
func DecodeChunks(blob []byte) ([]Chunk, error) {
	if len(blob)%16 != 0 {
		return nil, fmt.Errorf("%w: blob length %d is not a multiple of 16", ErrLengthMismatch, len(blob))
	}
	out := make([]Chunk, len(blob)/16)
	for i := range out {
		off := i * 16
		out[i] = Chunk{
			Start: VirtualFileOffset(binary.LittleEndian.Uint64(blob[off:])),
			End:   VirtualFileOffset(binary.LittleEndian.Uint64(blob[off+8:])),
		}
	}
	return out, nil
}
