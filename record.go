package bamcore

import (
	"encoding/binary"
	"fmt"
)

// recordHeaderSize is the fixed 32-byte header preceding the variable-length
// children, not counting the 4-byte block_size that precedes it on the wire.
const recordHeaderSize = 32

// maxReadNameLen is the longest logical read name (excluding the
// terminating NUL) a record can carry; l_read_name itself (name+NUL) must
// fit a single byte, capping it at 255.
const maxReadNameLen = 254

// maxCigarOps is the largest n_cigar_op the 16-bit header field can hold
// without overflowing into the long-CIGAR escape.
const maxCigarOps = 0xFFFF

// BamRecord is a BAM alignment record: a fixed 32-byte header plus five
// owned variable-length children (read name, CIGAR, packed sequence,
// quality, tags). All accessors and mutators keep the invariants from the
// wire format in sync; block_size is never stored, only computed, so it can
// never drift out of sync with its own children.
type BamRecord struct {
	magic uint64 // pool guard; see pool.go

	refID     int32
	pos       int32
	mapq      uint8
	bin       uint16
	flag      Flags
	lSeq      uint32
	nextRefID int32
	nextPos   int32
	tlen      int32

	readName []byte // logical name, no trailing NUL
	cigar    Cigar  // on-wire CIGAR; may be the 2-op escape placeholder
	seq      []byte // packed IUPAC, ceil(lSeq/2) bytes
	qual     []byte // lSeq bytes, 0xFF fill if omitted
	tags     []byte // opaque, self-delimiting
}

// NewBamRecord returns an empty record with the defaults the BAM format
// uses for "unset": reference indices -1, mapq 255, flag 0, empty name and
// no cigar/sequence/quality/tags.
func NewBamRecord() *BamRecord {
	return &BamRecord{
		refID:     -1,
		pos:       -1,
		mapq:      255,
		nextRefID: -1,
		nextPos:   -1,
	}
}

// reset restores r to NewBamRecord's defaults in place, for pooled reuse.
// The five child buffers are truncated to zero length rather than nilled
// out, so their capacity survives the Put/Get cycle for resizeScratch to
// reuse on the next decode.
func (r *BamRecord) reset() {
	readName, cigar, seq, qual, tags := r.readName[:0], r.cigar[:0], r.seq[:0], r.qual[:0], r.tags[:0]
	magic := r.magic
	*r = BamRecord{
		magic:     magic,
		refID:     -1,
		pos:       -1,
		mapq:      255,
		nextRefID: -1,
		nextPos:   -1,
		readName:  readName,
		cigar:     cigar,
		seq:       seq,
		qual:      qual,
		tags:      tags,
	}
}

// ReferenceID returns the reference sequence index, or -1 if unmapped.
func (r *BamRecord) ReferenceID() int32 { return r.refID }

// SetReferenceID sets the reference sequence index.
func (r *BamRecord) SetReferenceID(id int32) { r.refID = id }

// Position returns the 0-based leftmost mapping position, or -1 if unset.
func (r *BamRecord) Position() int32 { return r.pos }

// SetPosition sets the 0-based leftmost mapping position.
func (r *BamRecord) SetPosition(pos int32) { r.pos = pos }

// MapQ returns the mapping quality.
func (r *BamRecord) MapQ() uint8 { return r.mapq }

// SetMapQ sets the mapping quality.
func (r *BamRecord) SetMapQ(mapq uint8) { r.mapq = mapq }

// Bin returns the BAM binning index. The core treats it as opaque: it is
// carried through decode/encode unchanged and never recomputed.
func (r *BamRecord) Bin() uint16 { return r.bin }

// SetBin sets the BAM binning index.
func (r *BamRecord) SetBin(bin uint16) { r.bin = bin }

// Flag returns the alignment FLAG bits.
func (r *BamRecord) Flag() Flags { return r.flag }

// SetFlag sets the alignment FLAG bits.
func (r *BamRecord) SetFlag(f Flags) { r.flag = f }

// Paired reports whether the read is paired in sequencing.
func (r *BamRecord) Paired() bool { return r.flag.Paired() }

// ProperPair reports whether the read is mapped in a proper pair.
func (r *BamRecord) ProperPair() bool { return r.flag.ProperPair() }

// Unmapped reports whether the read itself is unmapped.
func (r *BamRecord) Unmapped() bool { return r.flag.Unmapped() }

// MateUnmapped reports whether the mate is unmapped.
func (r *BamRecord) MateUnmapped() bool { return r.flag.MateUnmapped() }

// ReverseStrand reports whether the read is mapped to the reverse strand.
func (r *BamRecord) ReverseStrand() bool { return r.flag.ReverseStrand() }

// MateReverseStrand reports whether the mate is mapped to the reverse strand.
func (r *BamRecord) MateReverseStrand() bool { return r.flag.MateReverseStrand() }

// Read1 reports whether this is read1 of a pair.
func (r *BamRecord) Read1() bool { return r.flag.Read1() }

// Read2 reports whether this is read2 of a pair.
func (r *BamRecord) Read2() bool { return r.flag.Read2() }

// Secondary reports whether this is not the primary alignment.
func (r *BamRecord) Secondary() bool { return r.flag.Secondary() }

// QCFail reports whether the read failed quality control.
func (r *BamRecord) QCFail() bool { return r.flag.QCFail() }

// Duplicate reports whether the read is an optical or PCR duplicate.
func (r *BamRecord) Duplicate() bool { return r.flag.Duplicate() }

// Supplementary reports whether this is a supplementary alignment.
func (r *BamRecord) Supplementary() bool { return r.flag.Supplementary() }

// NextReferenceID returns the mate's reference sequence index, or -1.
func (r *BamRecord) NextReferenceID() int32 { return r.nextRefID }

// SetNextReferenceID sets the mate's reference sequence index.
func (r *BamRecord) SetNextReferenceID(id int32) { r.nextRefID = id }

// NextPosition returns the mate's 0-based leftmost mapping position, or -1.
func (r *BamRecord) NextPosition() int32 { return r.nextPos }

// SetNextPosition sets the mate's 0-based leftmost mapping position.
func (r *BamRecord) SetNextPosition(pos int32) { r.nextPos = pos }

// TemplateLength returns the signed observed template length.
func (r *BamRecord) TemplateLength() int32 { return r.tlen }

// SetTemplateLength sets the signed observed template length.
func (r *BamRecord) SetTemplateLength(tlen int32) { r.tlen = tlen }

// SequenceLength returns l_seq, the number of sequence bases.
func (r *BamRecord) SequenceLength() int { return int(r.lSeq) }

// NCigarOp returns the on-wire CIGAR operation count (2 when the real CIGAR
// is escaped into a CG tag).
func (r *BamRecord) NCigarOp() int { return r.cigar.Len() }

// ReadName returns the logical read name (no trailing NUL).
func (r *BamRecord) ReadName() []byte { return r.readName }

// SetReadName sets the read name. name must be ASCII and at most
// maxReadNameLen bytes long.
func (r *BamRecord) SetReadName(name []byte) error {
	if len(name) > maxReadNameLen {
		return fmt.Errorf("%w: read name length %d exceeds %d", ErrOutOfRange, len(name), maxReadNameLen)
	}
	if !isASCII(name) {
		return fmt.Errorf("%w: read name %q", ErrNonASCII, name)
	}
	r.readName = append([]byte(nil), name...)
	return nil
}

// lReadName is the on-wire l_read_name: logical name length plus the
// terminating NUL.
func (r *BamRecord) lReadName() int { return len(r.readName) + 1 }

// Tags returns the raw, opaque tag blob.
func (r *BamRecord) Tags() []byte { return r.tags }

// BlockSize computes the on-wire block_size for r's current content:
// header(32) + l_read_name + 4*n_cigar_op + ceil(l_seq/2) + l_seq +
// len(tags). It is never stored, so it can never drift from the children
// it describes.
func (r *BamRecord) BlockSize() (uint32, error) {
	size := recordHeaderSize + r.lReadName() + r.cigar.Len()*4 + len(r.seq) + len(r.qual) + len(r.tags)
	if size > 0xFFFFFFFF {
		return 0, fmt.Errorf("%w: block_size %d exceeds uint32", ErrOutOfRange, size)
	}
	return uint32(size), nil
}

// SetSequence packs text as the record's sequence. If qual is nil,
// len(text) bytes of 0xFF (quality omitted) are synthesized; otherwise
// len(qual) must equal len(text).
func (r *BamRecord) SetSequence(text, qual []byte) error {
	packed, err := PackSequence(text)
	if err != nil {
		return err
	}
	var q []byte
	if qual == nil {
		q = fillUnknownQuality(len(text))
	} else {
		if len(qual) != len(text) {
			return fmt.Errorf("%w: qual length %d != sequence length %d", ErrLengthMismatch, len(qual), len(text))
		}
		q = append([]byte(nil), qual...)
	}
	r.seq = packed
	r.qual = q
	r.lSeq = uint32(len(text))
	return nil
}

// Sequence returns the unpacked ASCII sequence text.
func (r *BamRecord) Sequence() []byte {
	return UnpackSequence(r.seq, int(r.lSeq))
}

// Qual returns the raw quality array; all 0xFF means omitted.
func (r *BamRecord) Qual() []byte { return r.qual }

// isLongCigarPlaceholder reports whether r's on-wire CIGAR is the escape
// placeholder: exactly two operations, the first a soft clip of length
// l_seq. This is necessary but, on its own, not sufficient: a genuine 2-op
// CIGAR can have this shape by coincidence, so the caller must additionally
// confirm a CG:B:I tag is present before treating it as an escape.
func (r *BamRecord) isLongCigarPlaceholder() bool {
	if r.cigar.Len() != 2 {
		return false
	}
	first := r.cigar.At(0)
	return first.Type == CigarSoftClip && first.Len == int(r.lSeq)
}

// cgTag is the tag used to carry a CIGAR too long for the 16-bit
// n_cigar_op header field.
var cgTag = NewTag("CG")

// Cigar returns the record's logical CIGAR. Ordinarily this is simply the
// on-wire CIGAR; when the on-wire CIGAR is the two-op escape placeholder
// and a CG:B:I tag is present, the real CIGAR is decoded from that tag
// instead (the placeholder-detection rule is only trusted once the tag's
// presence confirms it, not on shape alone).
func (r *BamRecord) Cigar() (Cigar, error) {
	if r.isLongCigarPlaceholder() {
		typ, value, err := GetTag(r.tags, cgTag)
		if err == nil && typ == 'B' {
			if arr, ok := value.(TagArray); ok && arr.Subtype == 'I' {
				words := arr.Uint32s()
				buf := make([]byte, len(words)*4)
				for i, w := range words {
					binary.LittleEndian.PutUint32(buf[i*4:], w)
				}
				return Cigar(buf), nil
			}
		}
	}
	return r.cigar, nil
}

// SetCigar installs c as the record's CIGAR. When c has more than 65,535
// operations, the header cannot count them directly; this build implements
// the long-CIGAR escape (see the package's design notes): the real CIGAR is
// stored in a CG:B:I tag and the header carries a 2-op placeholder
// `[softclip(l_seq), skip(reference span)]`. Installing a short CIGAR
// always clears any stale CG tag from a previous escape.
func (r *BamRecord) SetCigar(c Cigar) error {
	if c.Len() <= maxCigarOps {
		r.cigar = c
		r.tags = RemoveTag(r.tags, cgTag)
		return nil
	}
	words := c.Ops()
	refLen := c.ReferenceLength()
	placeholder, err := FromPairs([]CigarOp{
		{Type: CigarSoftClip, Len: int(r.lSeq)},
		{Type: CigarSkipped, Len: refLen},
	})
	if err != nil {
		return err
	}
	asUint32 := make([]uint32, len(words))
	for i, w := range words {
		asUint32[i] = uint32(w.Type) | uint32(w.Len)<<4
	}
	newTags, err := SetTag(r.tags, cgTag, 'B', 'I', asUint32)
	if err != nil {
		return err
	}
	r.cigar = placeholder
	r.tags = newTags
	return nil
}

// GetTag looks up tag in the record's tag blob.
func (r *BamRecord) GetTag(tag Tag) (typ byte, value interface{}, err error) {
	return GetTag(r.tags, tag)
}

// HasTag reports whether tag is present.
func (r *BamRecord) HasTag(tag Tag) bool { return HasTag(r.tags, tag) }

// SetTag sets tag to value, splicing a fresh tag blob in only after the new
// content is fully built and validated. typ/subtype may be zero to request
// type inference; see SetTag's package-level documentation.
func (r *BamRecord) SetTag(tag Tag, typ, subtype byte, value interface{}) error {
	newTags, err := SetTag(r.tags, tag, typ, subtype, value)
	if err != nil {
		return err
	}
	if recordSize(r, newTags) > 0xFFFFFFFF {
		return fmt.Errorf("%w: block_size would exceed uint32", ErrOutOfRange)
	}
	r.tags = newTags
	return nil
}

func recordSize(r *BamRecord, tags []byte) int {
	return recordHeaderSize + r.lReadName() + r.cigar.Len()*4 + len(r.seq) + len(r.qual) + len(tags)
}

// RemoveTag removes tag, restoring the tag blob's length to what it was
// before the tag was added. Removing an absent tag is a no-op.
func (r *BamRecord) RemoveTag(tag Tag) {
	r.tags = RemoveTag(r.tags, tag)
}

// Size returns the total on-wire size of r, including the 4-byte block_size
// prefix: 4 + BlockSize().
func (r *BamRecord) Size() (int, error) {
	bs, err := r.BlockSize()
	if err != nil {
		return 0, err
	}
	return 4 + int(bs), nil
}

// ToBytes serializes r to a freshly allocated contiguous byte slice: 32-byte
// header, then read name, NUL, CIGAR words, packed sequence, quality, tags.
func (r *BamRecord) ToBytes() ([]byte, error) {
	n, err := r.Size()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := r.WriteInto(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// WriteInto serializes r into dst, which must be at least as long as
// r.Size(). It returns the number of bytes written.
func (r *BamRecord) WriteInto(dst []byte) (int, error) {
	n, err := r.Size()
	if err != nil {
		return 0, err
	}
	if len(dst) < n {
		return 0, fmt.Errorf("%w: destination buffer has %d bytes, need %d", ErrOutOfRange, len(dst), n)
	}
	blockSize, err := r.BlockSize()
	if err != nil {
		return 0, err
	}

	binary.LittleEndian.PutUint32(dst[0:4], blockSize)
	binary.LittleEndian.PutUint32(dst[4:8], uint32(r.refID))
	binary.LittleEndian.PutUint32(dst[8:12], uint32(r.pos))
	dst[12] = byte(r.lReadName())
	dst[13] = r.mapq
	binary.LittleEndian.PutUint16(dst[14:16], r.bin)
	binary.LittleEndian.PutUint16(dst[16:18], uint16(r.cigar.Len()))
	binary.LittleEndian.PutUint16(dst[18:20], uint16(r.flag))
	binary.LittleEndian.PutUint32(dst[20:24], r.lSeq)
	binary.LittleEndian.PutUint32(dst[24:28], uint32(r.nextRefID))
	binary.LittleEndian.PutUint32(dst[28:32], uint32(r.nextPos))
	binary.LittleEndian.PutUint32(dst[32:36], uint32(r.tlen))

	off := 36
	off += copy(dst[off:], r.readName)
	dst[off] = 0
	off++
	off += copy(dst[off:], r.cigar.Bytes())
	off += copy(dst[off:], r.seq)
	off += copy(dst[off:], r.qual)
	off += copy(dst[off:], r.tags)
	return off, nil
}

// Equal reports whether r and other have identical on-wire content.
func (r *BamRecord) Equal(other *BamRecord) bool {
	a, errA := r.ToBytes()
	b, errB := other.ToBytes()
	if errA != nil || errB != nil {
		return false
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
