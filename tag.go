package bamcore

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Tag is a two-letter auxiliary tag label.
type Tag [2]byte

// String returns the two-character representation of t.
func (t Tag) String() string { return string(t[:]) }

// NewTag returns a Tag from a two-character string. It panics if s is not
// exactly two characters, mirroring the teacher's NewTag.
func NewTag(s string) Tag {
	var t Tag
	if copy(t[:], s) != 2 {
		panic("bamcore: tag must be exactly two characters")
	}
	return t
}

// bArrayElemSize gives the element size of each B-tag subtype.
var bArrayElemSize = map[byte]int{
	'c': 1, 'C': 1,
	's': 2, 'S': 2,
	'i': 4, 'I': 4,
	'f': 4,
}

// wellKnownType records a tag's canonical on-wire type. For array types,
// subtype holds the B element type and typ is 'B'.
type wellKnownType struct {
	typ     byte
	subtype byte
}

// wellKnownTags is the static registry of canonical types for the SAMtags
// used widely enough to standardize, consulted by Set when no explicit type
// is given. This is not exhaustive of every tag ever minted; anything absent
// falls back to value-based inference.
var wellKnownTags = map[Tag]wellKnownType{
	NewTag("AM"): {typ: 'i'},
	NewTag("AS"): {typ: 'i'},
	NewTag("BC"): {typ: 'Z'},
	NewTag("BQ"): {typ: 'Z'},
	NewTag("BZ"): {typ: 'Z'},
	NewTag("CB"): {typ: 'Z'},
	NewTag("CC"): {typ: 'Z'},
	NewTag("CG"): {typ: 'B', subtype: 'I'},
	NewTag("CM"): {typ: 'i'},
	NewTag("CO"): {typ: 'Z'},
	NewTag("CP"): {typ: 'i'},
	NewTag("CQ"): {typ: 'Z'},
	NewTag("CR"): {typ: 'Z'},
	NewTag("CS"): {typ: 'Z'},
	NewTag("CT"): {typ: 'Z'},
	NewTag("CY"): {typ: 'Z'},
	NewTag("E2"): {typ: 'Z'},
	NewTag("FI"): {typ: 'i'},
	NewTag("FS"): {typ: 'Z'},
	NewTag("FZ"): {typ: 'B', subtype: 'S'},
	NewTag("H0"): {typ: 'i'},
	NewTag("H1"): {typ: 'i'},
	NewTag("H2"): {typ: 'i'},
	NewTag("HI"): {typ: 'i'},
	NewTag("IH"): {typ: 'i'},
	NewTag("LB"): {typ: 'Z'},
	NewTag("MC"): {typ: 'Z'},
	NewTag("MD"): {typ: 'Z'},
	NewTag("ML"): {typ: 'B', subtype: 'C'},
	NewTag("MQ"): {typ: 'i'},
	NewTag("NH"): {typ: 'i'},
	NewTag("NM"): {typ: 'i'},
	NewTag("OA"): {typ: 'Z'},
	NewTag("OC"): {typ: 'Z'},
	NewTag("OP"): {typ: 'i'},
	NewTag("OQ"): {typ: 'Z'},
	NewTag("OX"): {typ: 'Z'},
	NewTag("PG"): {typ: 'Z'},
	NewTag("PQ"): {typ: 'i'},
	NewTag("PT"): {typ: 'Z'},
	NewTag("PU"): {typ: 'Z'},
	NewTag("Q2"): {typ: 'Z'},
	NewTag("QT"): {typ: 'Z'},
	NewTag("QX"): {typ: 'Z'},
	NewTag("R2"): {typ: 'Z'},
	NewTag("RG"): {typ: 'Z'},
	NewTag("RT"): {typ: 'Z'},
	NewTag("RX"): {typ: 'Z'},
	NewTag("SA"): {typ: 'Z'},
	NewTag("SM"): {typ: 'i'},
	NewTag("SQ"): {typ: 'Z'},
	NewTag("TC"): {typ: 'i'},
	NewTag("TS"): {typ: 'A'},
	NewTag("U2"): {typ: 'Z'},
	NewTag("UQ"): {typ: 'i'},
	NewTag("X0"): {typ: 'i'},
	NewTag("X1"): {typ: 'i'},
	NewTag("XA"): {typ: 'Z'},
	NewTag("XG"): {typ: 'i'},
	NewTag("XM"): {typ: 'i'},
	NewTag("XN"): {typ: 'i'},
	NewTag("XO"): {typ: 'i'},
	NewTag("XS"): {typ: 'i'},
	NewTag("XT"): {typ: 'A'},
}

// TagArray is a read-only typed view over a B-tag's elements. The backing
// slice is a subslice of the tag blob it was decoded from, so it stays
// alive exactly as long as the record (or copy of the blob) that produced
// it, without needing to pin anything explicitly.
type TagArray struct {
	Subtype byte
	data    []byte
}

// Len returns the number of elements in the array.
func (a TagArray) Len() int {
	size := bArrayElemSize[a.Subtype]
	if size == 0 {
		return 0
	}
	return len(a.data) / size
}

// Int8s returns the array interpreted as int8 values; valid when Subtype is 'c'.
func (a TagArray) Int8s() []int8 {
	out := make([]int8, len(a.data))
	for i, b := range a.data {
		out[i] = int8(b)
	}
	return out
}

// Uint8s returns the array interpreted as uint8 values; valid when Subtype is 'C'.
func (a TagArray) Uint8s() []uint8 {
	out := make([]uint8, len(a.data))
	copy(out, a.data)
	return out
}

// Int16s returns the array interpreted as int16 values; valid when Subtype is 's'.
func (a TagArray) Int16s() []int16 {
	out := make([]int16, a.Len())
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(a.data[i*2:]))
	}
	return out
}

// Uint16s returns the array interpreted as uint16 values; valid when Subtype is 'S'.
func (a TagArray) Uint16s() []uint16 {
	out := make([]uint16, a.Len())
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(a.data[i*2:])
	}
	return out
}

// Int32s returns the array interpreted as int32 values; valid when Subtype is 'i'.
func (a TagArray) Int32s() []int32 {
	out := make([]int32, a.Len())
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(a.data[i*4:]))
	}
	return out
}

// Uint32s returns the array interpreted as uint32 values; valid when Subtype is 'I'.
func (a TagArray) Uint32s() []uint32 {
	out := make([]uint32, a.Len())
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(a.data[i*4:])
	}
	return out
}

// Float32s returns the array interpreted as float32 values; valid when Subtype is 'f'.
func (a TagArray) Float32s() []float32 {
	out := make([]float32, a.Len())
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(a.data[i*4:]))
	}
	return out
}

// findTag scans blob for tag, returning the half-open byte range [start,
// end) of the whole entry (name+type+payload). It returns ErrNotFound if
// absent and ErrTruncated if an entry's declared size runs past the end of
// blob.
func findTag(blob []byte, tag Tag) (start, end int, err error) {
	pos := 0
	for pos < len(blob) {
		entryStart := pos
		if pos+3 > len(blob) {
			return 0, 0, fmt.Errorf("%w: tag entry header runs past end of blob", ErrTruncated)
		}
		name := Tag{blob[pos], blob[pos+1]}
		typ := blob[pos+2]
		pos += 3
		entryEnd, err := tagEntryEnd(blob, pos, typ)
		if err != nil {
			return 0, 0, err
		}
		if name == tag {
			return entryStart, entryEnd, nil
		}
		pos = entryEnd
	}
	return 0, 0, ErrNotFound
}

// tagEntryEnd returns the offset immediately after a single tag's payload,
// given the offset immediately after its type byte.
func tagEntryEnd(blob []byte, payloadStart int, typ byte) (int, error) {
	switch typ {
	case 'A', 'c', 'C':
		return checkedEnd(blob, payloadStart, 1)
	case 's', 'S':
		return checkedEnd(blob, payloadStart, 2)
	case 'i', 'I', 'f':
		return checkedEnd(blob, payloadStart, 4)
	case 'd':
		return checkedEnd(blob, payloadStart, 8)
	case 'Z', 'H':
		for i := payloadStart; i < len(blob); i++ {
			if blob[i] == 0 {
				return i + 1, nil
			}
		}
		return 0, fmt.Errorf("%w: unterminated %c-type tag", ErrTruncated, typ)
	case 'B':
		if payloadStart+5 > len(blob) {
			return 0, fmt.Errorf("%w: B-tag subtype/count runs past end of blob", ErrTruncated)
		}
		subtype := blob[payloadStart]
		count := binary.LittleEndian.Uint32(blob[payloadStart+1 : payloadStart+5])
		elemSize, ok := bArrayElemSize[subtype]
		if !ok {
			return 0, fmt.Errorf("%w: unknown B-array subtype %q", ErrInvalidTagType, subtype)
		}
		return checkedEnd(blob, payloadStart+5, int(count)*elemSize)
	default:
		return 0, fmt.Errorf("%w: unknown tag type %q", ErrInvalidTagType, typ)
	}
}

func checkedEnd(blob []byte, start, size int) (int, error) {
	end := start + size
	if end > len(blob) {
		return 0, fmt.Errorf("%w: tag payload runs past end of blob", ErrTruncated)
	}
	return end, nil
}

// GetTag looks up tag in blob and returns its type byte and decoded value.
// Scalar integer types decode to int64, f decodes to float64, A and Z
// decode to their natural Go representation, B decodes to a TagArray, and H
// always fails with ErrNotSupported.
func GetTag(blob []byte, tag Tag) (typ byte, value interface{}, err error) {
	start, end, err := findTag(blob, tag)
	if err != nil {
		return 0, nil, err
	}
	typ = blob[start+2]
	payload := blob[start+3 : end]
	switch typ {
	case 'A':
		return typ, payload[0], nil
	case 'c':
		return typ, int64(int8(payload[0])), nil
	case 'C':
		return typ, int64(payload[0]), nil
	case 's':
		return typ, int64(int16(binary.LittleEndian.Uint16(payload))), nil
	case 'S':
		return typ, int64(binary.LittleEndian.Uint16(payload)), nil
	case 'i':
		return typ, int64(int32(binary.LittleEndian.Uint32(payload))), nil
	case 'I':
		return typ, int64(binary.LittleEndian.Uint32(payload)), nil
	case 'f':
		return typ, float64(math.Float32frombits(binary.LittleEndian.Uint32(payload))), nil
	case 'd':
		return typ, math.Float64frombits(binary.LittleEndian.Uint64(payload)), nil
	case 'Z':
		return typ, string(payload), nil
	case 'H':
		return typ, nil, fmt.Errorf("%w: H-tag decoding", ErrNotSupported)
	case 'B':
		return typ, TagArray{Subtype: payload[0], data: payload[5:]}, nil
	default:
		return 0, nil, fmt.Errorf("%w: unknown tag type %q", ErrInvalidTagType, typ)
	}
}

// HasTag reports whether tag is present in blob.
func HasTag(blob []byte, tag Tag) bool {
	_, _, err := findTag(blob, tag)
	return err == nil
}

// RemoveTag splices tag out of blob, returning the new blob. If tag is
// absent the original blob is returned unchanged (no error: removal is
// idempotent).
func RemoveTag(blob []byte, tag Tag) []byte {
	start, end, err := findTag(blob, tag)
	if err != nil {
		return blob
	}
	out := make([]byte, 0, len(blob)-(end-start))
	out = append(out, blob[:start]...)
	out = append(out, blob[end:]...)
	return out
}

// inferType picks an on-wire type for value when no explicit type is given:
// the well-known registry first, then value-based inference (text -> Z,
// integer -> I, float -> f, array -> B with subtype from the element kind).
func inferType(tag Tag, value interface{}) (byte, byte, error) {
	if wk, ok := wellKnownTags[tag]; ok {
		return wk.typ, wk.subtype, nil
	}
	switch v := value.(type) {
	case string:
		return 'Z', 0, nil
	case int, int8, int16, int32, int64:
		return 'I', 0, nil
	case uint, uint8, uint16, uint32, uint64:
		return 'I', 0, nil
	case float32, float64:
		return 'f', 0, nil
	case []int8:
		return 'B', 'c', nil
	case []uint8:
		return 'B', 'C', nil
	case []int16:
		return 'B', 's', nil
	case []uint16:
		return 'B', 'S', nil
	case []int32:
		return 'B', 'i', nil
	case []uint32:
		return 'B', 'I', nil
	case []float32:
		return 'B', 'f', nil
	default:
		return 0, 0, fmt.Errorf("%w: cannot infer tag type for %T", ErrTypeError, value)
	}
}

// encodeTagEntry builds the wire bytes (name+type+payload) for tag with the
// given explicit type (typ, subtype) and value.
func encodeTagEntry(tag Tag, typ, subtype byte, value interface{}) ([]byte, error) {
	head := []byte{tag[0], tag[1], typ}
	switch typ {
	case 'A':
		c, ok := asByte(value)
		if !ok {
			return nil, fmt.Errorf("%w: A-tag requires a single character", ErrTypeError)
		}
		return append(head, c), nil
	case 'c':
		n, ok := asInt64(value)
		if !ok || n < math.MinInt8 || n > math.MaxInt8 {
			return nil, fmt.Errorf("%w: value %v does not fit in int8", ErrOutOfRange, value)
		}
		return append(head, byte(int8(n))), nil
	case 'C':
		n, ok := asInt64(value)
		if !ok || n < 0 || n > math.MaxUint8 {
			return nil, fmt.Errorf("%w: value %v does not fit in uint8", ErrOutOfRange, value)
		}
		return append(head, byte(n)), nil
	case 's':
		n, ok := asInt64(value)
		if !ok || n < math.MinInt16 || n > math.MaxInt16 {
			return nil, fmt.Errorf("%w: value %v does not fit in int16", ErrOutOfRange, value)
		}
		buf := make([]byte, 2)
		binary.LittleEndian.PutUint16(buf, uint16(int16(n)))
		return append(head, buf...), nil
	case 'S':
		n, ok := asInt64(value)
		if !ok || n < 0 || n > math.MaxUint16 {
			return nil, fmt.Errorf("%w: value %v does not fit in uint16", ErrOutOfRange, value)
		}
		buf := make([]byte, 2)
		binary.LittleEndian.PutUint16(buf, uint16(n))
		return append(head, buf...), nil
	case 'i':
		n, ok := asInt64(value)
		if !ok || n < math.MinInt32 || n > math.MaxInt32 {
			return nil, fmt.Errorf("%w: value %v does not fit in int32", ErrOutOfRange, value)
		}
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(int32(n)))
		return append(head, buf...), nil
	case 'I':
		n, ok := asInt64(value)
		if !ok || n < 0 || n > math.MaxUint32 {
			return nil, fmt.Errorf("%w: value %v does not fit in uint32", ErrOutOfRange, value)
		}
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(n))
		return append(head, buf...), nil
	case 'f':
		f, ok := asFloat64(value)
		if !ok {
			return nil, fmt.Errorf("%w: value %v is not a float", ErrTypeError, value)
		}
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(f)))
		return append(head, buf...), nil
	case 'd':
		f, ok := asFloat64(value)
		if !ok {
			return nil, fmt.Errorf("%w: value %v is not a float", ErrTypeError, value)
		}
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, math.Float64bits(f))
		return append(head, buf...), nil
	case 'Z':
		s, ok := asText(value)
		if !ok {
			return nil, fmt.Errorf("%w: Z-tag requires text", ErrTypeError)
		}
		if !isASCII([]byte(s)) {
			return nil, fmt.Errorf("%w: Z-tag value %q", ErrNonASCII, s)
		}
		entry := append(head, []byte(s)...)
		return append(entry, 0), nil
	case 'H':
		return nil, fmt.Errorf("%w: H-tag encoding", ErrNotSupported)
	case 'B':
		return encodeBArray(head, subtype, value)
	default:
		return nil, fmt.Errorf("%w: unknown tag type %q", ErrInvalidTagType, typ)
	}
}

func encodeBArray(head []byte, subtype byte, value interface{}) ([]byte, error) {
	elemSize, ok := bArrayElemSize[subtype]
	if !ok {
		return nil, fmt.Errorf("%w: unknown B-array subtype %q", ErrInvalidTagType, subtype)
	}
	count, payload, err := marshalBArray(subtype, value)
	if err != nil {
		return nil, err
	}
	if len(payload) != count*elemSize {
		return nil, fmt.Errorf("%w: B-array payload length %d is not a multiple of element size %d", ErrLengthMismatch, len(payload), elemSize)
	}
	entry := make([]byte, 0, len(head)+5+len(payload))
	entry = append(entry, head...)
	entry = append(entry, subtype)
	countBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(countBuf, uint32(count))
	entry = append(entry, countBuf...)
	entry = append(entry, payload...)
	return entry, nil
}

func marshalBArray(subtype byte, value interface{}) (count int, payload []byte, err error) {
	switch subtype {
	case 'c':
		v, ok := value.([]int8)
		if !ok {
			return 0, nil, fmt.Errorf("%w: expected []int8", ErrTypeError)
		}
		buf := make([]byte, len(v))
		for i, x := range v {
			buf[i] = byte(x)
		}
		return len(v), buf, nil
	case 'C':
		v, ok := value.([]uint8)
		if !ok {
			return 0, nil, fmt.Errorf("%w: expected []uint8", ErrTypeError)
		}
		buf := make([]byte, len(v))
		copy(buf, v)
		return len(v), buf, nil
	case 's':
		v, ok := value.([]int16)
		if !ok {
			return 0, nil, fmt.Errorf("%w: expected []int16", ErrTypeError)
		}
		buf := make([]byte, len(v)*2)
		for i, x := range v {
			binary.LittleEndian.PutUint16(buf[i*2:], uint16(x))
		}
		return len(v), buf, nil
	case 'S':
		v, ok := value.([]uint16)
		if !ok {
			return 0, nil, fmt.Errorf("%w: expected []uint16", ErrTypeError)
		}
		buf := make([]byte, len(v)*2)
		for i, x := range v {
			binary.LittleEndian.PutUint16(buf[i*2:], x)
		}
		return len(v), buf, nil
	case 'i':
		v, ok := value.([]int32)
		if !ok {
			return 0, nil, fmt.Errorf("%w: expected []int32", ErrTypeError)
		}
		buf := make([]byte, len(v)*4)
		for i, x := range v {
			binary.LittleEndian.PutUint32(buf[i*4:], uint32(x))
		}
		return len(v), buf, nil
	case 'I':
		v, ok := value.([]uint32)
		if !ok {
			return 0, nil, fmt.Errorf("%w: expected []uint32", ErrTypeError)
		}
		buf := make([]byte, len(v)*4)
		for i, x := range v {
			binary.LittleEndian.PutUint32(buf[i*4:], x)
		}
		return len(v), buf, nil
	case 'f':
		v, ok := value.([]float32)
		if !ok {
			return 0, nil, fmt.Errorf("%w: expected []float32", ErrTypeError)
		}
		buf := make([]byte, len(v)*4)
		for i, x := range v {
			binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(x))
		}
		return len(v), buf, nil
	default:
		return 0, nil, fmt.Errorf("%w: unknown B-array subtype %q", ErrInvalidTagType, subtype)
	}
}

func asByte(v interface{}) (byte, bool) {
	switch x := v.(type) {
	case byte:
		return x, true
	case rune:
		if x < 0 || x > 0xff {
			return 0, false
		}
		return byte(x), true
	}
	return 0, false
}

func asInt64(v interface{}) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return int64(x), true
	}
	return 0, false
}

func asFloat64(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return asInt64AsFloat(v)
}

func asInt64AsFloat(v interface{}) (float64, bool) {
	n, ok := asInt64(v)
	if !ok {
		return 0, false
	}
	return float64(n), true
}

func asText(v interface{}) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	}
	return "", false
}

// SetTag splices a tag entry for (tag, value) into blob, replacing any
// existing entry with the same name. typ may be 0 to request type inference
// (the well-known registry, then value-based inference); subtype is only
// consulted when typ is 'B' and is itself 0 (infer from value's element
// kind). The original blob is left untouched until the new one is fully
// built and validated; only a successful build is returned.
func SetTag(blob []byte, tag Tag, typ, subtype byte, value interface{}) ([]byte, error) {
	if typ == 0 {
		var err error
		typ, subtype, err = inferType(tag, value)
		if err != nil {
			return nil, err
		}
	} else if typ == 'B' && subtype == 0 {
		_, inferredSubtype, err := inferType(tag, value)
		if err != nil {
			return nil, err
		}
		subtype = inferredSubtype
	}
	entry, err := encodeTagEntry(tag, typ, subtype, value)
	if err != nil {
		return nil, err
	}
	start, end, findErr := findTag(blob, tag)
	if findErr == ErrNotFound {
		out := make([]byte, 0, len(blob)+len(entry))
		out = append(out, blob...)
		out = append(out, entry...)
		return out, nil
	}
	if findErr != nil {
		return nil, findErr
	}
	out := make([]byte, 0, len(blob)-(end-start)+len(entry))
	out = append(out, blob[:start]...)
	out = append(out, entry...)
	out = append(out, blob[end:]...)
	return out, nil
}
