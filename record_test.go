package bamcore

import (
	"bytes"
	"testing"

	"github.com/grailbio/testutil/assert"
)

func TestEmptyUnmappedRecordWireBytes(t *testing.T) {
	r := NewBamRecord()
	assert.NoError(t, r.SetReadName([]byte("r")))
	r.SetFlag(FlagUnmapped)

	blockSize, err := r.BlockSize()
	assert.NoError(t, err)
	assert.EQ(t, uint32(34), blockSize)

	b, err := r.ToBytes()
	assert.NoError(t, err)
	assert.EQ(t, 38, len(b))

	it := NewBamIterator(b)
	parsed, err := it.Next()
	assert.NoError(t, err)
	assert.True(t, r.Equal(parsed))

	done, err := it.Next()
	assert.NoError(t, err)
	assert.Nil(t, done)
}

func TestRecordSequenceAndQualRoundTrip(t *testing.T) {
	r := NewBamRecord()
	assert.NoError(t, r.SetReadName([]byte("read1")))
	assert.NoError(t, r.SetSequence([]byte("ACGT"), nil))
	assert.EQ(t, "ACGT", string(r.Sequence()))
	assert.EQ(t, []byte{0xff, 0xff, 0xff, 0xff}, r.Qual())

	b, err := r.ToBytes()
	assert.NoError(t, err)
	it := NewBamIterator(b)
	parsed, err := it.Next()
	assert.NoError(t, err)
	assert.EQ(t, "ACGT", string(parsed.Sequence()))
}

func TestRecordSequenceExplicitQualLengthMismatch(t *testing.T) {
	r := NewBamRecord()
	err := r.SetSequence([]byte("ACGT"), []byte{1, 2, 3})
	assert.NotNil(t, err)
}

func TestRecordReadNameTooLong(t *testing.T) {
	r := NewBamRecord()
	name := make([]byte, 255)
	for i := range name {
		name[i] = 'A'
	}
	err := r.SetReadName(name)
	assert.NotNil(t, err)
}

func TestRecordTagRoundTripThroughRecord(t *testing.T) {
	r := NewBamRecord()
	assert.NoError(t, r.SetReadName([]byte("r")))
	assert.NoError(t, r.SetTag(NewTag("NM"), 0, 0, 3))
	_, value, err := r.GetTag(NewTag("NM"))
	assert.NoError(t, err)
	assert.EQ(t, int64(3), value)

	tagsLenBefore := len(r.Tags())
	r.RemoveTag(NewTag("NM"))
	assert.True(t, len(r.Tags()) < tagsLenBefore)
	assert.False(t, r.HasTag(NewTag("NM")))
}

func TestRecordCigarRoundTrip(t *testing.T) {
	r := NewBamRecord()
	c, err := FromString("3M1I2D")
	assert.NoError(t, err)
	assert.NoError(t, r.SetCigar(c))

	got, err := r.Cigar()
	assert.NoError(t, err)
	assert.True(t, got.Equal(c))
	assert.EQ(t, 3, r.NCigarOp())
}

func TestRecordLongCigarEscape(t *testing.T) {
	r := NewBamRecord()
	assert.NoError(t, r.SetSequence(bytes.Repeat([]byte("A"), 70000), nil))

	ops := make([]CigarOp, 70000)
	for i := range ops {
		ops[i] = CigarOp{Type: CigarMatch, Len: 1}
	}
	c, err := FromPairs(ops)
	assert.NoError(t, err)

	assert.NoError(t, r.SetCigar(c))
	assert.EQ(t, 2, r.NCigarOp())
	assert.True(t, r.HasTag(cgTag))

	got, err := r.Cigar()
	assert.NoError(t, err)
	assert.True(t, got.Equal(c))
}

func TestRecordLongCigarEscapeRoundTripsThroughWire(t *testing.T) {
	r := NewBamRecord()
	assert.NoError(t, r.SetReadName([]byte("longread")))
	assert.NoError(t, r.SetSequence(bytes.Repeat([]byte("A"), 70000), nil))
	ops := make([]CigarOp, 70000)
	for i := range ops {
		ops[i] = CigarOp{Type: CigarMatch, Len: 1}
	}
	c, err := FromPairs(ops)
	assert.NoError(t, err)
	assert.NoError(t, r.SetCigar(c))

	b, err := r.ToBytes()
	assert.NoError(t, err)
	it := NewBamIterator(b)
	parsed, err := it.Next()
	assert.NoError(t, err)

	got, err := parsed.Cigar()
	assert.NoError(t, err)
	assert.True(t, got.Equal(c))
}

func TestRecordTwoOpCigarWithoutCGTagIsNotMistakenForEscape(t *testing.T) {
	// A legitimate two-op CIGAR whose first op happens to be a soft clip of
	// length l_seq must not be mistaken for the long-CIGAR placeholder when
	// no CG:B:I tag backs it up.
	r := NewBamRecord()
	assert.NoError(t, r.SetSequence([]byte("ACGT"), nil))
	c, err := FromPairs([]CigarOp{{Type: CigarSoftClip, Len: 4}, {Type: CigarMatch, Len: 10}})
	assert.NoError(t, err)
	r.cigar = c // install the wire cigar directly, bypassing the escape check in SetCigar

	got, err := r.Cigar()
	assert.NoError(t, err)
	assert.True(t, got.Equal(c))
}

func TestRecordFlagAccessors(t *testing.T) {
	r := NewBamRecord()
	r.SetFlag(FlagPaired | FlagRead1 | FlagReverse)
	assert.True(t, r.Paired())
	assert.True(t, r.Read1())
	assert.True(t, r.ReverseStrand())
	assert.False(t, r.Read2())
	assert.False(t, r.Duplicate())
}
