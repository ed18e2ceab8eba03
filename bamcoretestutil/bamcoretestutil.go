// Package bamcoretestutil registers github.com/grailbio/testutil/h
// comparators for bamcore types, for use with that package's diffing
// assertions in tests.
package bamcoretestutil

import (
	"sync"

	"github.com/Schaudge/bamcore"
	"github.com/grailbio/testutil/h"
)

var once sync.Once

// RegisterRecordComparator adds a github.com/grailbio/testutil/h comparator
// for *bamcore.BamRecord. This function is threadsafe and idempotent.
func RegisterRecordComparator() {
	once.Do(func() {
		h.RegisterComparator(func(r0, r1 *bamcore.BamRecord) (int, error) {
			if r0.Equal(r1) {
				return 0, nil
			}
			return 1, nil
		})
	})
}
