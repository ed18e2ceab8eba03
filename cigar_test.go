package bamcore

import (
	"testing"

	"github.com/grailbio/testutil/assert"
)

func TestCigarFromStringRoundTrip(t *testing.T) {
	c, err := FromString("3M1I2D")
	assert.NoError(t, err)
	assert.EQ(t, 3, c.Len())
	assert.EQ(t, CigarOp{Type: CigarMatch, Len: 3}, c.At(0))
	assert.EQ(t, CigarOp{Type: CigarInsertion, Len: 1}, c.At(1))
	assert.EQ(t, CigarOp{Type: CigarDeletion, Len: 2}, c.At(2))
	assert.EQ(t, "3M1I2D", c.String())
}

func TestCigarZeroLengthOpIsValid(t *testing.T) {
	c, err := FromString("0M")
	assert.NoError(t, err)
	assert.EQ(t, 1, c.Len())
	assert.EQ(t, 0, c.At(0).Len)
}

func TestCigarOutOfRangeLength(t *testing.T) {
	_, err := FromString("268435456M")
	assert.NotNil(t, err)
}

func TestCigarFromPairsRoundTrip(t *testing.T) {
	pairs := []CigarOp{{Type: CigarMatch, Len: 3}, {Type: CigarInsertion, Len: 1}}
	c, err := FromPairs(pairs)
	assert.NoError(t, err)
	assert.EQ(t, "3M1I", c.String())
	parsed, err := FromString(c.String())
	assert.NoError(t, err)
	assert.True(t, c.Equal(parsed))
}

func TestCigarFromBufferNoValidation(t *testing.T) {
	c, err := FromBuffer([]byte{0x30, 0x00, 0x00, 0x00})
	assert.NoError(t, err)
	assert.EQ(t, 1, c.Len())
	assert.EQ(t, CigarOp{Type: CigarMatch, Len: 3}, c.At(0))

	_, err = FromBuffer([]byte{0x01, 0x02, 0x03})
	assert.NotNil(t, err)
}

func TestCigarEmptyStringIsStar(t *testing.T) {
	c, err := FromString("*")
	assert.NoError(t, err)
	assert.EQ(t, 0, c.Len())
	assert.EQ(t, "*", c.String())
}
