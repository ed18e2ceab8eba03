package bamcore

import (
	"bytes"
	"io"
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/klauspost/compress/flate"
)

// A BamBlockBuffer's View is exactly the payload a BGZF block wraps: a
// concatenation of whole, self-delimited records. This demonstrates that
// shape by round-tripping one through flate, the compressor BGZF layers on
// top of (this package does not implement BGZF itself).
func TestBlockBufferViewRoundTripsThroughFlate(t *testing.T) {
	buf := NewDefaultBlockBuffer()
	for _, name := range []string{"read1", "read2", "read3"} {
		r := makeSimpleRecord(t, name)
		n, err := buf.Write(r)
		assert.NoError(t, err)
		assert.True(t, n > 0)
	}
	payload := buf.View()

	var compressed bytes.Buffer
	fw, err := flate.NewWriter(&compressed, flate.DefaultCompression)
	assert.NoError(t, err)
	_, err = fw.Write(payload)
	assert.NoError(t, err)
	assert.NoError(t, fw.Close())

	fr := flate.NewReader(&compressed)
	defer fr.Close()
	decompressed, err := io.ReadAll(fr)
	assert.NoError(t, err)
	assert.EQ(t, payload, decompressed)

	it := NewBamIterator(decompressed)
	names := []string{}
	for {
		rec, err := it.Next()
		assert.NoError(t, err)
		if rec == nil {
			break
		}
		names = append(names, string(rec.ReadName()))
	}
	assert.EQ(t, []string{"read1", "read2", "read3"}, names)
}
