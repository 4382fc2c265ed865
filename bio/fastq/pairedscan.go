package fastq

import "bytes"

// ScanPairedHeads walks buf1[:end1] and buf2[:end2] in lock-step,
// counting newlines in each. Every time both buffers have reached a
// newline count that's a multiple of four (a complete FASTQ record
// boundary) at the same step, it records the current offsets as the new
// common cut. It stops as soon as either buffer runs out of further
// newlines, which means an incomplete record remains in its tail.
//
// The returned (len1, len2) are the largest prefixes of buf1 and buf2
// that both end on a record boundary and contain the same number of
// records. This is used to keep two paired-end FASTQ streams advancing
// together: whatever remains after len1/len2 is moved to the front of
// each buffer and combined with the next read from its source.
func ScanPairedHeads(buf1, buf2 []byte, end1, end2 int) (len1, len2 int) {
	b1 := buf1[:end1]
	b2 := buf2[:end2]

	var pos1, pos2, lines int
	for {
		next1 := bytes.IndexByte(b1[pos1:], '\n')
		next2 := bytes.IndexByte(b2[pos2:], '\n')
		if next1 < 0 || next2 < 0 {
			break
		}
		pos1 += next1 + 1
		pos2 += next2 + 1
		lines++
		if lines%4 == 0 {
			len1 = pos1
			len2 = pos2
		}
	}
	return len1, len2
}
