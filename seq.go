package bamcore

import (
	"fmt"

	"github.com/grailbio/base/simd"
	"github.com/grailbio/bio/biosimd"
)

// iupacAlphabet is the 16-symbol nucleotide alphabet, index i encoding to
// the 4-bit code i. Only uppercase is accepted; lowercase is invalid, per
// the BAM wire format's case policy.
var iupacAlphabet = [16]byte{'=', 'A', 'C', 'M', 'G', 'R', 'S', 'V', 'T', 'W', 'Y', 'H', 'K', 'D', 'B', 'N'}

// nucleotideToCode maps an ASCII byte to its 4-bit code, or 0xff if the byte
// is not a valid uppercase IUPAC symbol.
var nucleotideToCode [256]byte

// expandTable unpacks a byte holding two 4-bit codes into the two ASCII
// characters it represents, via github.com/grailbio/base/simd's nibble
// lookup table so biosimd.UnpackAndReplaceSeq can drive the decode.
var expandTable = simd.MakeNibbleLookupTable(iupacAlphabet)

func init() {
	for i := range nucleotideToCode {
		nucleotideToCode[i] = 0xff
	}
	for code, letter := range iupacAlphabet {
		nucleotideToCode[letter] = byte(code)
	}
}

// PackSequence packs ASCII nucleotide text into 4-bit IUPAC codes, two per
// byte, high nibble first. If text has odd length the last byte's low
// nibble is zero. Every byte of text must be one of the sixteen uppercase
// IUPAC symbols.
func PackSequence(text []byte) ([]byte, error) {
	packed := make([]byte, (len(text)+1)/2)
	var hi byte
	for i, b := range text {
		code := nucleotideToCode[b]
		if code == 0xff {
			return nil, fmt.Errorf("%w: %q", ErrInvalidNucleotide, b)
		}
		if i&1 == 0 {
			hi = code << 4
		} else {
			packed[i>>1] = hi | code
		}
	}
	if len(text)&1 != 0 {
		packed[len(packed)-1] = hi
	}
	return packed, nil
}

// UnpackSequence unpacks n 4-bit-packed IUPAC codes from packed into ASCII
// text, truncating a trailing unused nibble when n is odd.
func UnpackSequence(packed []byte, n int) []byte {
	text := make([]byte, n)
	if n == 0 {
		return text
	}
	// biosimd.UnpackAndReplaceSeq writes a whole number of bytes (two bases
	// per packed byte); decode into a full-width buffer and trim the
	// possible trailing base when n is odd, matching set_sequence's parity
	// edge case.
	full := make([]byte, len(packed)*2)
	biosimd.UnpackAndReplaceSeq(full, packed, &expandTable)
	copy(text, full[:n])
	return text
}

// fillUnknownQuality synthesizes n bytes of 0xFF, the "qualities omitted"
// marker, via a word-parallel memset.
func fillUnknownQuality(n int) []byte {
	q := make([]byte, n)
	simd.Memset8(q, 0xff)
	return q
}
