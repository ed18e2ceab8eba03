package bamcore

import (
	"sync"
	"sync/atomic"

	gunsafe "github.com/grailbio/base/unsafe"
	"v.io/x/lib/vlog"
)

// recordMagic tags pooled records so PutRecord can detect a record that
// didn't come from this pool before it's overwritten.
const recordMagic = uint64(0x93c9838d4d9f4f71)

var nPoolWarnings int32

var recordPool = sync.Pool{
	New: func() interface{} {
		return &BamRecord{magic: recordMagic}
	},
}

// GetRecord returns a zeroed *BamRecord from the shared pool, ready for a
// decoder to fill in.
func GetRecord() *BamRecord {
	r := recordPool.Get().(*BamRecord)
	r.reset()
	return r
}

// PutRecord returns r to the shared pool. The caller must guarantee there
// is no outstanding reference to r; its children will be overwritten by a
// future GetRecord. A record whose magic doesn't match (one not obtained
// from GetRecord) is rejected and logged instead of being pooled, the same
// guard the teacher's free-list uses to catch a foreign object being
// returned to the wrong pool.
func PutRecord(r *BamRecord) {
	if r == nil {
		panic("bamcore: PutRecord(nil)")
	}
	if r.magic != recordMagic {
		if atomic.AddInt32(&nPoolWarnings, 1) < 2 {
			vlog.Errorf("bamcore: PutRecord: object did not come from GetRecord, magic %x", r.magic)
		}
		return
	}
	recordPool.Put(r)
}

// resizeScratch makes *buf exactly n bytes long, growing its capacity to
// the next multiple of 16 when it must reallocate, the same slack the
// teacher's bam/pool.go resizeScratch keeps to avoid frequent reallocation.
// BamIterator uses this to grow a pooled record's owned child buffers
// (readName, seq, qual, tags) in place across GetRecord/PutRecord cycles,
// rather than letting append's own growth policy decide.
func resizeScratch(buf *[]byte, n int) {
	if cap(*buf) < n {
		size := (n/16 + 1) * 16
		*buf = make([]byte, n, size)
	} else {
		gunsafe.ExtendBytes(buf, n)
	}
}
