package bamcore

// Flags represents a BAM record's alignment FLAG field.
type Flags uint16

const (
	FlagPaired        Flags = 1 << iota // The read is paired in sequencing, no matter whether it is mapped in a pair.
	FlagProperPair                      // The read is mapped in a proper pair.
	FlagUnmapped                        // The read itself is unmapped; conflicts with FlagProperPair.
	FlagMateUnmapped                    // The mate is unmapped.
	FlagReverse                         // The read is mapped to the reverse strand.
	FlagMateReverse                     // The mate is mapped to the reverse strand.
	FlagRead1                           // This is read1.
	FlagRead2                           // This is read2.
	FlagSecondary                       // Not primary alignment.
	FlagQCFail                          // QC failure.
	FlagDuplicate                       // Optical or PCR duplicate.
	FlagSupplementary                   // Supplementary alignment, part of a chimeric alignment.
)

// String gives the flag bits, high order to the right:
//
//	0x001 - p - Paired
//	0x002 - P - ProperPair
//	0x004 - u - Unmapped
//	0x008 - U - MateUnmapped
//	0x010 - r - Reverse
//	0x020 - R - MateReverse
//	0x040 - 1 - Read1
//	0x080 - 2 - Read2
//	0x100 - s - Secondary
//	0x200 - f - QCFail
//	0x400 - d - Duplicate
//	0x800 - S - Supplementary
func (f Flags) String() string {
	const pairedMask = FlagProperPair | FlagMateUnmapped | FlagMateReverse | FlagRead1 | FlagRead2
	if f&FlagPaired == 0 {
		f &^= pairedMask
	}

	const flags = "pPuUrR12sfdS"
	b := make([]byte, len(flags))
	for i, c := range flags {
		if f&(1<<uint(i)) != 0 {
			b[i] = byte(c)
		} else {
			b[i] = '-'
		}
	}
	return string(b)
}

// Paired reports whether the read is paired in sequencing.
func (f Flags) Paired() bool { return f&FlagPaired != 0 }

// ProperPair reports whether the read is mapped in a proper pair.
func (f Flags) ProperPair() bool { return f&FlagProperPair != 0 }

// Unmapped reports whether the read itself is unmapped.
func (f Flags) Unmapped() bool { return f&FlagUnmapped != 0 }

// MateUnmapped reports whether the mate is unmapped.
func (f Flags) MateUnmapped() bool { return f&FlagMateUnmapped != 0 }

// ReverseStrand reports whether the read is mapped to the reverse strand.
func (f Flags) ReverseStrand() bool { return f&FlagReverse != 0 }

// MateReverseStrand reports whether the mate is mapped to the reverse strand.
func (f Flags) MateReverseStrand() bool { return f&FlagMateReverse != 0 }

// Read1 reports whether this is read1 of a pair.
func (f Flags) Read1() bool { return f&FlagRead1 != 0 }

// Read2 reports whether this is read2 of a pair.
func (f Flags) Read2() bool { return f&FlagRead2 != 0 }

// Secondary reports whether this is not the primary alignment.
func (f Flags) Secondary() bool { return f&FlagSecondary != 0 }

// QCFail reports whether the read failed quality control.
func (f Flags) QCFail() bool { return f&FlagQCFail != 0 }

// Duplicate reports whether the read is an optical or PCR duplicate.
func (f Flags) Duplicate() bool { return f&FlagDuplicate != 0 }

// Supplementary reports whether this is a supplementary alignment.
func (f Flags) Supplementary() bool { return f&FlagSupplementary != 0 }
