package bamcore

import (
	"testing"

	"github.com/grailbio/testutil/assert"
)

func TestTagRoundTripNMAndMD(t *testing.T) {
	var blob []byte

	blob, err := SetTag(blob, NewTag("NM"), 0, 0, 3)
	assert.NoError(t, err)
	assert.EQ(t, []byte{'N', 'M', 'i', 0x03, 0x00, 0x00, 0x00}, blob)

	blob, err = SetTag(blob, NewTag("MD"), 0, 0, "10A5")
	assert.NoError(t, err)
	assert.EQ(t, 15, len(blob))

	typ, value, err := GetTag(blob, NewTag("NM"))
	assert.NoError(t, err)
	assert.EQ(t, byte('i'), typ)
	assert.EQ(t, int64(3), value)

	typ, value, err = GetTag(blob, NewTag("MD"))
	assert.NoError(t, err)
	assert.EQ(t, byte('Z'), typ)
	assert.EQ(t, "10A5", value)

	_, _, err = GetTag(blob, NewTag("XX"))
	assert.EQ(t, ErrNotFound, err)

	blob = RemoveTag(blob, NewTag("NM"))
	assert.EQ(t, 8, len(blob))
	_, _, err = GetTag(blob, NewTag("NM"))
	assert.EQ(t, ErrNotFound, err)
}

func TestTagArrayRoundTrip(t *testing.T) {
	var blob []byte
	blob, err := SetTag(blob, NewTag("ML"), 'B', 'C', []uint8{10, 200, 30})
	assert.NoError(t, err)
	assert.EQ(t, []byte{'M', 'L', 'B', 'C', 0x03, 0x00, 0x00, 0x00, 0x0A, 0xC8, 0x1E}, blob)

	typ, value, err := GetTag(blob, NewTag("ML"))
	assert.NoError(t, err)
	assert.EQ(t, byte('B'), typ)
	arr, ok := value.(TagArray)
	assert.True(t, ok)
	assert.EQ(t, []uint8{10, 200, 30}, arr.Uint8s())
}

func TestTagWellKnownTypeInference(t *testing.T) {
	var blob []byte
	blob, err := SetTag(blob, NewTag("RG"), 0, 0, "group1")
	assert.NoError(t, err)
	typ, value, err := GetTag(blob, NewTag("RG"))
	assert.NoError(t, err)
	assert.EQ(t, byte('Z'), typ)
	assert.EQ(t, "group1", value)
}

func TestTagOutOfRangeInt8(t *testing.T) {
	_, err := SetTag(nil, NewTag("XX"), 'c', 0, 1000)
	assert.NotNil(t, err)
}

func TestTagOverwriteExisting(t *testing.T) {
	blob, err := SetTag(nil, NewTag("NM"), 0, 0, 3)
	assert.NoError(t, err)
	blob, err = SetTag(blob, NewTag("NM"), 0, 0, 7)
	assert.NoError(t, err)
	assert.EQ(t, 7, len(blob))
	_, value, err := GetTag(blob, NewTag("NM"))
	assert.NoError(t, err)
	assert.EQ(t, int64(7), value)
}

func TestTagHDecodeNotSupported(t *testing.T) {
	blob := []byte{'X', 'X', 'H', '0', '0', 0}
	_, _, err := GetTag(blob, NewTag("XX"))
	assert.NotNil(t, err)
}
