package bamcore

import (
	"testing"

	"gopkg.in/check.v1"
)

func Test(t *testing.T) { check.TestingT(t) }

type MutationSuite struct{}

var _ = check.Suite(&MutationSuite{})

func (s *MutationSuite) TestSpliceSetTagPreservesUntouchedTags(c *check.C) {
	blob, err := SetTag(nil, NewTag("NM"), 0, 0, 3)
	c.Assert(err, check.Equals, nil)
	blob, err = SetTag(blob, NewTag("AS"), 0, 0, 42)
	c.Assert(err, check.Equals, nil)

	blob, err = SetTag(blob, NewTag("NM"), 0, 0, 9)
	c.Assert(err, check.Equals, nil)

	_, nm, err := GetTag(blob, NewTag("NM"))
	c.Assert(err, check.Equals, nil)
	c.Check(nm, check.Equals, int64(9))

	_, as, err := GetTag(blob, NewTag("AS"))
	c.Assert(err, check.Equals, nil)
	c.Check(as, check.Equals, int64(42))
}

func (s *MutationSuite) TestSpliceRemoveTagIsIdempotent(c *check.C) {
	blob, err := SetTag(nil, NewTag("NM"), 0, 0, 3)
	c.Assert(err, check.Equals, nil)

	once := RemoveTag(blob, NewTag("NM"))
	twice := RemoveTag(once, NewTag("NM"))
	c.Check(once, check.DeepEquals, twice)
	c.Check(len(once), check.Equals, 0)
}

func (s *MutationSuite) TestRecordCloneViaToBytesIsDeepEqual(c *check.C) {
	r := NewBamRecord()
	err := r.SetReadName([]byte("r"))
	c.Assert(err, check.Equals, nil)
	err = r.SetSequence([]byte("ACGT"), nil)
	c.Assert(err, check.Equals, nil)

	b, err := r.ToBytes()
	c.Assert(err, check.Equals, nil)

	it := NewBamIterator(b)
	clone, err := it.Next()
	c.Assert(err, check.Equals, nil)

	cloneBytes, err := clone.ToBytes()
	c.Assert(err, check.Equals, nil)
	c.Check(cloneBytes, check.DeepEquals, b)
}

func (s *MutationSuite) TestCigarOpsDeepEquals(c *check.C) {
	cig, err := FromString("3M1I2D")
	c.Assert(err, check.Equals, nil)
	c.Check(cig.Ops(), check.DeepEquals, []CigarOp{
		{Type: CigarMatch, Len: 3},
		{Type: CigarInsertion, Len: 1},
		{Type: CigarDeletion, Len: 2},
	})
}
