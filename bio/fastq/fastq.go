/*
Package fastq contains a streaming FASTQ parser and the record types it
produces.

Fastq is a flat text file format developed in ~2000 to store nucleotide
sequencing data. Unlike fasta, each record carries a per-base quality
string alongside its sequence, and records are always exactly four lines:
a '@'-prefixed name, the sequence, a '+'-prefixed separator (optionally
repeating the name), and the quality string.

This package provides a pull-based parser built around a parser-owned,
growable byte buffer, plus the record value types, a paired-end mate-ID
matcher, and a paired-read buffer synchronizer used to keep two mate
files advancing on the same record boundary.
*/
package fastq

import (
	"bytes"
	"fmt"
)

// Record is a single FASTQ entry with text fields. Qualities is nil when
// a record originates somewhere that doesn't carry quality data (for
// example a FASTA-derived record); the parser in this package always
// produces records with Qualities set.
//
// Name and Sequence (and Qualities, when present) are treated as raw
// byte strings rather than Unicode text: each byte is one code unit.
// Sequence and Qualities must be ASCII to serialize; Name may contain
// non-ASCII bytes, which are written out unchanged (a latin-1 rendering).
type Record struct {
	Name      string
	Sequence  string
	Qualities *string
}

// NewRecord constructs a Record, validating that Qualities (if present)
// has the same length as Sequence.
func NewRecord(name, sequence string, qualities *string) (Record, error) {
	if qualities != nil && len(*qualities) != len(sequence) {
		return Record{}, &ValueError{Message: fmt.Sprintf(
			"qualities length %d does not match sequence length %d for read %q",
			len(*qualities), len(sequence), shortenForDiagnostics(name, 40),
		)}
	}
	return Record{Name: name, Sequence: sequence, Qualities: qualities}, nil
}

// Length returns the length of the sequence.
func (r Record) Length() int {
	return len(r.Sequence)
}

// Slice returns a new record with the same name, the sequence sliced to
// [start:end), and the qualities (if present) sliced identically. Like a
// Go string slice expression, it panics on out-of-range bounds.
func (r Record) Slice(start, end int) Record {
	var qualities *string
	if r.Qualities != nil {
		sliced := (*r.Qualities)[start:end]
		qualities = &sliced
	}
	return Record{Name: r.Name, Sequence: r.Sequence[start:end], Qualities: qualities}
}

// Equal reports whether two records have identical name, sequence, and
// qualities (including quality presence).
func (r Record) Equal(other Record) bool {
	if r.Name != other.Name || r.Sequence != other.Sequence {
		return false
	}
	if (r.Qualities == nil) != (other.Qualities == nil) {
		return false
	}
	return r.Qualities == nil || *r.Qualities == *other.Qualities
}

// IsMate reports whether r and other are paired-end mates, per Match.
func (r Record) IsMate(other Record) bool {
	return Match([]byte(r.Name), []byte(other.Name), len(r.Name))
}

// SerializeQualitiesAsBytes returns the qualities as an ASCII byte
// string, or nil if qualities are absent.
func (r Record) SerializeQualitiesAsBytes() []byte {
	if r.Qualities == nil {
		return nil
	}
	return []byte(*r.Qualities)
}

// SerializeFastq renders r as four FASTQ lines:
//
//	@NAME
//	SEQ
//	+[NAME]
//	QUAL
//
// The second header repeats NAME only when twoHeaders is true. The
// output buffer is allocated exactly once, at its final size. Sequence
// and Qualities must be ASCII; Name may not be.
func (r Record) SerializeFastq(twoHeaders bool) ([]byte, error) {
	seq := []byte(r.Sequence)
	if !isASCII(seq) {
		return nil, &TypeError{Message: "sequence contains non-ASCII bytes"}
	}
	var qual []byte
	if r.Qualities != nil {
		qual = []byte(*r.Qualities)
		if !isASCII(qual) {
			return nil, &TypeError{Message: "qualities contain non-ASCII bytes"}
		}
	}
	return serializeFastq([]byte(r.Name), seq, qual, twoHeaders), nil
}

// ByteRecord is a single FASTQ entry with raw byte fields. Unlike
// Record, Qualities is always present and must have the same length as
// Sequence.
type ByteRecord struct {
	Name      []byte
	Sequence  []byte
	Qualities []byte
}

// NewByteRecord constructs a ByteRecord, validating the length
// invariant between sequence and qualities.
func NewByteRecord(name, sequence, qualities []byte) (ByteRecord, error) {
	if len(qualities) != len(sequence) {
		return ByteRecord{}, &ValueError{Message: fmt.Sprintf(
			"qualities length %d does not match sequence length %d for read %q",
			len(qualities), len(sequence), shortenForDiagnostics(string(name), 40),
		)}
	}
	return ByteRecord{Name: name, Sequence: sequence, Qualities: qualities}, nil
}

// Length returns the length of the sequence.
func (r ByteRecord) Length() int {
	return len(r.Sequence)
}

// Slice returns a new record with the same name and the sequence and
// qualities sliced identically to [start:end).
func (r ByteRecord) Slice(start, end int) ByteRecord {
	return ByteRecord{Name: r.Name, Sequence: r.Sequence[start:end], Qualities: r.Qualities[start:end]}
}

// Equal reports whether two records have identical name, sequence, and
// qualities.
func (r ByteRecord) Equal(other ByteRecord) bool {
	return bytes.Equal(r.Name, other.Name) &&
		bytes.Equal(r.Sequence, other.Sequence) &&
		bytes.Equal(r.Qualities, other.Qualities)
}

// IsMate reports whether r and other are paired-end mates, per Match.
func (r ByteRecord) IsMate(other ByteRecord) bool {
	return Match(r.Name, other.Name, len(r.Name))
}

// SerializeQualitiesAsBytes returns the qualities as an ASCII byte
// string.
func (r ByteRecord) SerializeQualitiesAsBytes() []byte {
	return r.Qualities
}

// QualityScores decodes the Phred+33 quality string into numeric
// scores, one per base.
func (r ByteRecord) QualityScores() []int {
	scores := make([]int, len(r.Qualities))
	for i, c := range r.Qualities {
		scores[i] = int(c) - 33
	}
	return scores
}

// SerializeFastq renders r as four FASTQ lines, identically to
// Record.SerializeFastq.
func (r ByteRecord) SerializeFastq(twoHeaders bool) ([]byte, error) {
	if !isASCII(r.Sequence) {
		return nil, &TypeError{Message: "sequence contains non-ASCII bytes"}
	}
	if !isASCII(r.Qualities) {
		return nil, &TypeError{Message: "qualities contain non-ASCII bytes"}
	}
	return serializeFastq(r.Name, r.Sequence, r.Qualities, twoHeaders), nil
}

func serializeFastq(name, sequence, qualities []byte, twoHeaders bool) []byte {
	size := len(name) + len(sequence) + len(qualities) + 6
	if twoHeaders {
		size += len(name)
	}
	out := make([]byte, 0, size)
	out = append(out, '@')
	out = append(out, name...)
	out = append(out, '\n')
	out = append(out, sequence...)
	out = append(out, '\n', '+')
	if twoHeaders {
		out = append(out, name...)
	}
	out = append(out, '\n')
	out = append(out, qualities...)
	out = append(out, '\n')
	return out
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}
