package fastq

import (
	"bytes"
	"unicode/utf8"
)

/******************************************************************************

Paired-end ID matching.

Illumina-style paired reads name their mates in one of a few conventions:
the modern "@INSTRUMENT:RUN:... 1:N:0:ATCG" form (mate number after the
first space), the legacy "@READID/1" form, or ad-hoc "@READID_1" forms.
Match handles all three uniformly by comparing headers up to the first
whitespace and, when both headers end in a digit from {1,2,3} right
before that point, ignoring that trailing digit; the "/1" and "_1"
forms match only when the mate number is 1, 2 or 3. This is the same
mate-suffix idea used by bwa and samtools to recognize /1 and /2 without
requiring a literal slash.

******************************************************************************/

// Match reports whether header1 and header2 name paired-end mates.
// header1Length lets a caller treat only a prefix of header1 as
// significant (the rest, if any, is ignored). The comparison stops at
// the first space or tab in header2, and a trailing '1', '2', or '3'
// immediately before that point is ignored on both sides when present
// on both.
func Match(header1, header2 []byte, header1Length int) bool {
	if header1Length > len(header1) {
		header1Length = len(header1)
	}
	h1 := header1[:header1Length]

	id2End := indexSpaceOrTab(header2)
	if id2End < 0 {
		id2End = len(header2)
	}
	if header1Length < id2End {
		return false
	}
	if id2End < len(h1) {
		tail := h1[id2End]
		if tail != ' ' && tail != '\t' {
			return false
		}
	}

	end := id2End
	if end > 0 && isPairSuffixDigit(h1[end-1]) && isPairSuffixDigit(header2[end-1]) {
		end--
	}
	return bytes.Equal(h1[:end], header2[:end])
}

// MatchText is Match for text headers. It rejects headers that aren't
// single-byte-encodable (every rune occupying exactly one byte) with a
// TypeError, since Match's byte-offset algorithm assumes one code unit
// per byte.
func MatchText(header1, header2 string, header1Length int) (bool, error) {
	if utf8.RuneCountInString(header1) != len(header1) {
		return false, &TypeError{Message: "header1 is not single-byte-encodable"}
	}
	if utf8.RuneCountInString(header2) != len(header2) {
		return false, &TypeError{Message: "header2 is not single-byte-encodable"}
	}
	return Match([]byte(header1), []byte(header2), header1Length), nil
}

func indexSpaceOrTab(b []byte) int {
	for i, c := range b {
		if c == ' ' || c == '\t' {
			return i
		}
	}
	return -1
}

func isPairSuffixDigit(b byte) bool {
	return b == '1' || b == '2' || b == '3'
}
