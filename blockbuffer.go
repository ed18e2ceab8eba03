package bamcore

import "v.io/x/lib/vlog"

// DefaultBlockBufferCapacity is the BGZF logical block size: the largest
// number of uncompressed bytes a single BGZF block may hold, and so the
// default capacity for a BamBlockBuffer feeding one.
const DefaultBlockBufferCapacity = 0xFF00

// BamBlockBuffer is a fixed-capacity, heap-allocated byte buffer that packs
// whole record serializations back-to-back. Its content below the cursor is
// always a concatenation of complete records, each self-delimited by its
// own block_size field, so the region returned by View is exactly the unit
// a BGZF compressor would consume as one block's payload.
type BamBlockBuffer struct {
	buf    []byte
	cursor int
}

// NewBlockBuffer returns an empty BamBlockBuffer with the given capacity.
func NewBlockBuffer(capacity int) *BamBlockBuffer {
	return &BamBlockBuffer{buf: make([]byte, capacity)}
}

// NewDefaultBlockBuffer returns an empty BamBlockBuffer sized to
// DefaultBlockBufferCapacity.
func NewDefaultBlockBuffer() *BamBlockBuffer {
	return NewBlockBuffer(DefaultBlockBufferCapacity)
}

// Capacity returns the buffer's fixed capacity.
func (b *BamBlockBuffer) Capacity() int { return len(b.buf) }

// Len returns the number of bytes written since the buffer was created or
// last Reset.
func (b *BamBlockBuffer) Len() int { return b.cursor }

// Write serializes r into the buffer if it fits, returning the number of
// bytes written, or 0 if r would overflow the buffer's capacity — the
// caller must flush (View, then Reset) and retry. A 0 return never moves
// the cursor, so no partial write is ever observable.
func (b *BamBlockBuffer) Write(r *BamRecord) (int, error) {
	n, err := r.Size()
	if err != nil {
		return 0, err
	}
	if b.cursor+n > len(b.buf) {
		vlog.Infof("bamcore: BamBlockBuffer.Write: record of %d bytes does not fit in %d remaining of %d", n, len(b.buf)-b.cursor, len(b.buf))
		return 0, nil
	}
	written, err := r.WriteInto(b.buf[b.cursor : b.cursor+n])
	if err != nil {
		return 0, err
	}
	b.cursor += written
	return written, nil
}

// Reset sets the write cursor back to zero, discarding (but not
// zeroing — the next Write overwrites it) any previously written content.
func (b *BamBlockBuffer) Reset() { b.cursor = 0 }

// View returns a read-only view over the written region, buf[0:cursor].
// The returned slice aliases the buffer's storage and is invalidated by the
// next Write or Reset.
func (b *BamBlockBuffer) View() []byte { return b.buf[:b.cursor:b.cursor] }
