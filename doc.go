// Package bamcore decodes, represents, mutates, and re-encodes BAM
// alignment records in memory: the fixed 32-byte record header, the CIGAR
// array, the 4-bit packed IUPAC sequence, the quality array, and the
// auxiliary tag blob. It also provides BamIterator for parsing back-to-back
// records out of an already-decompressed byte buffer, BamBlockBuffer for
// packing records into a fixed-capacity block suitable for a BGZF
// compressor, and VirtualFileOffset for the packed 48+16-bit offsets used
// by BGZF indexes.
//
// BGZF compression, file I/O, the SAM text format, index construction, and
// header/reference-name resolution are outside this package; it consumes
// already-decompressed BAM record bytes and produces uncompressed record
// bytes for an external collaborator to frame and compress.
package bamcore
