package bamcore

import (
	"testing"

	"github.com/grailbio/testutil/assert"
)

func TestPackSequenceEven(t *testing.T) {
	packed, err := PackSequence([]byte("ACGT"))
	assert.NoError(t, err)
	assert.EQ(t, []byte{0x12, 0x48}, packed)
	assert.EQ(t, "ACGT", string(UnpackSequence(packed, 4)))
}

func TestPackSequenceOdd(t *testing.T) {
	packed, err := PackSequence([]byte("ACG"))
	assert.NoError(t, err)
	assert.EQ(t, []byte{0x12, 0x40}, packed)
	assert.EQ(t, "ACG", string(UnpackSequence(packed, 3)))
}

func TestPackSequenceRoundTripFullAlphabet(t *testing.T) {
	alphabet := "=ACMGRSVTWYHKDBN"
	packed, err := PackSequence([]byte(alphabet))
	assert.NoError(t, err)
	assert.EQ(t, alphabet, string(UnpackSequence(packed, len(alphabet))))
}

func TestPackSequenceRejectsLowercase(t *testing.T) {
	_, err := PackSequence([]byte("acgt"))
	assert.NotNil(t, err)
}

func TestPackSequenceRejectsInvalidChar(t *testing.T) {
	_, err := PackSequence([]byte("ACGTZ"))
	assert.NotNil(t, err)
}
