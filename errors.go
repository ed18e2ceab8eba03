package bamcore

import "errors"

// Sentinel errors, one per error kind named by the record/tag/cigar/iterator
// codecs. Callers distinguish kinds with errors.Is; dynamic detail is added
// with fmt.Errorf's %w wrapping, matching the plain errors.New/fmt.Errorf
// style the rest of this package uses (no custom error type hierarchy).
var (
	// ErrTruncated indicates decoded input ended mid-record or mid-tag.
	ErrTruncated = errors.New("bamcore: truncated input")

	// ErrInvalidNucleotide indicates a non-IUPAC ASCII character was passed
	// to SetSequence.
	ErrInvalidNucleotide = errors.New("bamcore: invalid nucleotide")

	// ErrInvalidCigar indicates a bad character, a missing run length or
	// operation letter, or an unknown operation in CIGAR input. A run length
	// above 2**28-1 is reported as ErrOutOfRange instead.
	ErrInvalidCigar = errors.New("bamcore: invalid cigar")

	// ErrInvalidTagType indicates an unknown type byte on decode, or an
	// unsupported type on encode.
	ErrInvalidTagType = errors.New("bamcore: invalid tag type")

	// ErrNonASCII indicates a non-ASCII byte where ASCII is required.
	ErrNonASCII = errors.New("bamcore: non-ASCII byte")

	// ErrOutOfRange indicates an integer or length exceeds the capacity of
	// its on-wire type.
	ErrOutOfRange = errors.New("bamcore: value out of range")

	// ErrLengthMismatch indicates paired inputs of different length, or a
	// B-tag buffer length that is not a multiple of its element size.
	ErrLengthMismatch = errors.New("bamcore: length mismatch")

	// ErrTypeError indicates an argument of the wrong kind.
	ErrTypeError = errors.New("bamcore: wrong argument type")

	// ErrNotFound indicates the requested tag is absent.
	ErrNotFound = errors.New("bamcore: tag not found")

	// ErrNotSupported indicates H-tag decoding or encoding, which this
	// package does not implement. SetCigar implements the long-CIGAR escape
	// and never returns it.
	ErrNotSupported = errors.New("bamcore: not supported")
)
