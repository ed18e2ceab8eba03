package bamcore

import (
	"encoding/binary"
	"fmt"
)

// minRecordPrefix is block_size (4 bytes) plus the fixed 32-byte header:
// the smallest prefix the iterator must see before it can even compute
// where a record ends.
const minRecordPrefix = 4 + recordHeaderSize

// BamIterator parses back-to-back BAM records out of a borrowed byte
// slice. It is single-pass, non-restartable, and must not outlive the
// buffer it was constructed over; records it yields, by contrast, own their
// own children and outlive the iterator.
type BamIterator struct {
	buf []byte
	pos int
}

// NewBamIterator returns an iterator over buf. buf is borrowed: the
// iterator must not be used after buf is modified or released.
func NewBamIterator(buf []byte) *BamIterator {
	return &BamIterator{buf: buf}
}

// Next decodes and returns the next record, or (nil, nil) at end of stream.
func (it *BamIterator) Next() (*BamRecord, error) {
	if it.pos == len(it.buf) {
		return nil, nil
	}
	if len(it.buf)-it.pos < minRecordPrefix {
		return nil, fmt.Errorf("%w: only %d bytes remain, need %d for block_size+header", ErrTruncated, len(it.buf)-it.pos, minRecordPrefix)
	}
	blockSize := binary.LittleEndian.Uint32(it.buf[it.pos : it.pos+4])
	recordLength := 4 + int(blockSize)
	if it.pos+recordLength > len(it.buf) {
		return nil, fmt.Errorf("%w: record claims %d bytes, only %d remain", ErrTruncated, recordLength, len(it.buf)-it.pos)
	}
	body := it.buf[it.pos+4 : it.pos+recordLength]
	r := GetRecord()
	if err := decodeRecordBody(r, body); err != nil {
		PutRecord(r)
		return nil, err
	}
	it.pos += recordLength
	return r, nil
}

// decodeRecordBody fills r from body, the bytes of one record after its
// leading block_size (i.e. the 32-byte header followed by the variable
// children, with no trailing bytes beyond what block_size accounted for).
func decodeRecordBody(r *BamRecord, body []byte) error {
	if len(body) < recordHeaderSize {
		return fmt.Errorf("%w: record body has %d bytes, need %d for the header", ErrTruncated, len(body), recordHeaderSize)
	}
	r.refID = int32(binary.LittleEndian.Uint32(body[0:4]))
	r.pos = int32(binary.LittleEndian.Uint32(body[4:8]))
	lReadName := int(body[8])
	r.mapq = body[9]
	r.bin = binary.LittleEndian.Uint16(body[10:12])
	nCigarOp := int(binary.LittleEndian.Uint16(body[12:14]))
	r.flag = Flags(binary.LittleEndian.Uint16(body[14:16]))
	r.lSeq = binary.LittleEndian.Uint32(body[16:20])
	r.nextRefID = int32(binary.LittleEndian.Uint32(body[20:24]))
	r.nextPos = int32(binary.LittleEndian.Uint32(body[24:28]))
	r.tlen = int32(binary.LittleEndian.Uint32(body[28:32]))

	off := recordHeaderSize
	if lReadName < 1 {
		return fmt.Errorf("%w: l_read_name %d is less than the required terminating NUL", ErrOutOfRange, lReadName)
	}
	if off+lReadName > len(body) {
		return fmt.Errorf("%w: read name runs past end of record", ErrTruncated)
	}
	nameBytes := body[off : off+lReadName-1]
	if !isASCII(nameBytes) {
		return fmt.Errorf("%w: read name %q", ErrNonASCII, nameBytes)
	}
	resizeScratch(&r.readName, len(nameBytes))
	copy(r.readName, nameBytes)
	off += lReadName

	cigarLen := nCigarOp * 4
	if off+cigarLen > len(body) {
		return fmt.Errorf("%w: cigar runs past end of record", ErrTruncated)
	}
	cigarBytes := []byte(r.cigar)
	resizeScratch(&cigarBytes, cigarLen)
	copy(cigarBytes, body[off:off+cigarLen])
	r.cigar = Cigar(cigarBytes)
	off += cigarLen

	seqLen := (int(r.lSeq) + 1) / 2
	if off+seqLen > len(body) {
		return fmt.Errorf("%w: sequence runs past end of record", ErrTruncated)
	}
	resizeScratch(&r.seq, seqLen)
	copy(r.seq, body[off:off+seqLen])
	off += seqLen

	qualLen := int(r.lSeq)
	if off+qualLen > len(body) {
		return fmt.Errorf("%w: quality runs past end of record", ErrTruncated)
	}
	resizeScratch(&r.qual, qualLen)
	copy(r.qual, body[off:off+qualLen])
	off += qualLen

	resizeScratch(&r.tags, len(body)-off)
	copy(r.tags, body[off:])
	return nil
}
