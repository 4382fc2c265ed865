package fastq

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

/******************************************************************************

FASTQ Parser begins here.

The parser is pull-based: each call to Next() either returns a record, a
one-shot Header event describing the first record's layout, an End event,
or a terminal error. It owns a single growable byte buffer, fed by a
caller-supplied ByteSource, and never copies bytes it has already handed
back to the caller.

Unlike this package's sibling bio/* parsers, which read one line at a
time through a bufio.Reader, FastqParser manages its buffer directly:
it must double the buffer when a single record doesn't fit, keep a
partly scanned record intact across that doubling, move pending bytes
to the front before each read, and append a newline to a final record
that's missing one. bufio.Reader doesn't expose enough of its internals
for that, so the buffer bookkeeping below is hand-rolled instead. The
buffer's size is internal; Parser has no method that reports or bounds
it.

******************************************************************************/

// EventKind identifies which variant of Event was produced by Next.
type EventKind int

const (
	// EventHeader is emitted exactly once, before the first record,
	// reporting whether the first record uses the repeated-name form.
	EventHeader EventKind = iota
	// EventRecord carries a materialized record.
	EventRecord
	// EventEnd signals that the source is exhausted. Idempotent: every
	// call after the first EventEnd also returns EventEnd.
	EventEnd
)

// Event is the tagged union produced by Parser.Next.
type Event[R any] struct {
	Kind EventKind

	// RepeatedHeader is valid when Kind == EventHeader: it reports
	// whether the first record's separator line repeats the name.
	RepeatedHeader bool

	// Record is valid when Kind == EventRecord.
	Record R
}

// RecordConstructor builds a record of type R from a record's three
// already-validated text fields. The two built-in flavors (Record and
// ByteRecord) are just the default instances of this; a caller wanting
// its own record type supplies its own constructor to NewParser.
type RecordConstructor[R any] func(name, sequence, qualities string) (R, error)

// parserState tracks the state machine from the package's design: Init
// (nothing pulled yet), running (Header event has been produced, zero or
// more records pulled), and Ended (terminal).
type parserState int

const (
	stateInit parserState = iota
	stateRunning
	stateEnded
)

// Parser is a pull-based FASTQ iterator over a growable byte buffer fed
// by a ByteSource. It is initialized with NewParser, NewTextParser, or
// NewByteParser.
type Parser[R any] struct {
	source    ByteSource
	construct RecordConstructor[R]

	buffer                []byte
	capacity              int
	filled                int
	recordStart           int
	recordsEmitted        int
	eofReached            bool
	syntheticNewlineAdded bool

	state       parserState
	pendingScan *scanResult
}

// NewParser returns a Parser that pulls bytes from source and
// materializes records of type R via construct. initialCapacity is the
// starting size of the internal buffer in bytes and must be at least 1;
// the buffer doubles whenever a single record doesn't fit.
func NewParser[R any](source ByteSource, initialCapacity int, construct RecordConstructor[R]) (*Parser[R], error) {
	if initialCapacity < 1 {
		return nil, &ValueError{Message: fmt.Sprintf("initialCapacity must be >= 1, got %d", initialCapacity)}
	}
	return &Parser[R]{
		source:    source,
		construct: construct,
		buffer:    make([]byte, initialCapacity),
		capacity:  initialCapacity,
	}, nil
}

// NewTextParser returns a Parser that materializes the text-flavored
// Record type.
func NewTextParser(source ByteSource, initialCapacity int) (*Parser[Record], error) {
	return NewParser(source, initialCapacity, func(name, sequence, qualities string) (Record, error) {
		q := qualities
		return NewRecord(name, sequence, &q)
	})
}

// NewByteParser returns a Parser that materializes the byte-flavored
// ByteRecord type.
func NewByteParser(source ByteSource, initialCapacity int) (*Parser[ByteRecord], error) {
	return NewParser(source, initialCapacity, func(name, sequence, qualities string) (ByteRecord, error) {
		return NewByteRecord([]byte(name), []byte(sequence), []byte(qualities))
	})
}

// RecordsEmitted returns the number of records yielded so far. It
// excludes the Header event.
func (p *Parser[R]) RecordsEmitted() int {
	return p.recordsEmitted
}

// Next advances the parser by one step. See EventKind for the possible
// results. After any error, further calls to Next have unspecified
// behavior beyond eventually reporting EventEnd; callers must stop
// iterating on error.
func (p *Parser[R]) Next() (Event[R], error) {
	switch p.state {
	case stateEnded:
		return Event[R]{Kind: EventEnd}, nil

	case stateInit:
		res, err := p.scanRecord()
		if err != nil {
			if errors.Is(err, io.EOF) {
				p.state = stateEnded
				return Event[R]{Kind: EventEnd}, nil
			}
			p.state = stateEnded
			return Event[R]{}, err
		}
		p.pendingScan = &res
		p.state = stateRunning
		return Event[R]{Kind: EventHeader, RepeatedHeader: len(res.secondHeader) > 0}, nil

	default: // stateRunning
		var res scanResult
		if p.pendingScan != nil {
			res = *p.pendingScan
			p.pendingScan = nil
		} else {
			var err error
			res, err = p.scanRecord()
			if err != nil {
				if errors.Is(err, io.EOF) {
					p.state = stateEnded
					return Event[R]{Kind: EventEnd}, nil
				}
				p.state = stateEnded
				return Event[R]{}, err
			}
		}
		return p.finishRecord(res)
	}
}

// finishRecord performs the validations that may only be judged once the
// record is actually being emitted (as opposed to merely peeked at for
// the Header event): the repeated-header equality check and the
// quality/sequence length check. It then materializes and advances past
// the record.
func (p *Parser[R]) finishRecord(res scanResult) (Event[R], error) {
	lineBase := 4 * p.recordsEmitted

	if len(res.secondHeader) > 0 && !bytes.Equal(res.secondHeader, res.name) {
		p.state = stateEnded
		return Event[R]{}, &FormatError{
			Message: fmt.Sprintf("%q != %q", string(res.name), string(res.secondHeader)),
			Line:    lineBase + 2,
		}
	}
	if len(res.quality) != len(res.sequence) {
		p.state = stateEnded
		if res.usedSyntheticNewline {
			// The record's last line only looked complete because of the
			// synthetic newline added to tolerate a missing trailing '\n';
			// a length mismatch here means the source was actually cut off
			// mid-quality-line, not that the record is otherwise malformed.
			p.eofReached = true
			return Event[R]{}, p.prematureEofError()
		}
		return Event[R]{}, &FormatError{
			Message: fmt.Sprintf("quality length %d does not match sequence length %d", len(res.quality), len(res.sequence)),
			Line:    lineBase + 3,
		}
	}

	record, err := p.construct(string(res.name), string(res.sequence), string(res.quality))
	if err != nil {
		p.state = stateEnded
		return Event[R]{}, err
	}

	p.recordStart = res.qualEnd + 1
	p.recordsEmitted++
	return Event[R]{Kind: EventRecord, Record: record}, nil
}

// scanResult holds the slices of one scanned-but-not-yet-validated
// record. The slices alias p.buffer and are only valid until the next
// buffer mutation (refill or growth).
type scanResult struct {
	qualEnd                               int
	name, sequence, secondHeader, quality []byte
	usedSyntheticNewline                  bool
}

// scanRecord locates the four line terminators of the next pending
// record, refilling the buffer as needed, and performs the structural
// checks (leading '@', leading '+', non-empty name/sequence/quality)
// that must hold before the record's line boundaries even make sense.
// It does not check the repeated-header or quality-length invariants,
// and does not advance recordStart: those happen in finishRecord, once
// the caller has actually asked for the record rather than just peeked
// at it for the Header event.
//
// It does record whether the record's closing newline was only
// completed by a synthetic newline (the source's final line had no
// trailing '\n'): finishRecord needs that to tell a genuine
// quality/sequence length mismatch apart from a record truncated
// mid-quality-line, which surfaces the same way structurally.
func (p *Parser[R]) scanRecord() (scanResult, error) {
	for {
		if p.eofReached {
			return scanResult{}, io.EOF
		}
		pending := p.buffer[p.recordStart:p.filled]
		offsets, ok := findNNewlines(pending, 4)
		if !ok {
			syntheticBefore := p.syntheticNewlineAdded
			if err := p.refill(); err != nil {
				return scanResult{}, err
			}
			if !syntheticBefore && p.syntheticNewlineAdded {
				pending = p.buffer[p.recordStart:p.filled]
				if offsets, ok = findNNewlines(pending, 4); ok {
					res, err := p.buildScanResult(offsets, true)
					return res, err
				}
			}
			continue
		}

		res, err := p.buildScanResult(offsets, false)
		return res, err
	}
}

// buildScanResult validates and extracts the four line slices for a
// record whose four newlines have already been located at offsets
// (relative to p.recordStart). usedSyntheticNewline reports whether the
// fourth of those newlines is the one the parser synthesized to
// tolerate a missing trailing line terminator.
func (p *Parser[R]) buildScanResult(offsets [4]int, usedSyntheticNewline bool) (scanResult, error) {
	nameEnd := p.recordStart + offsets[0]
	seqEnd := p.recordStart + offsets[1]
	plusEnd := p.recordStart + offsets[2]
	qualEnd := p.recordStart + offsets[3]
	lineBase := 4 * p.recordsEmitted

	if p.buffer[p.recordStart] != '@' {
		return scanResult{}, &FormatError{
			Message: fmt.Sprintf("record does not start with '@', got %q", p.buffer[p.recordStart]),
			Line:    lineBase,
		}
	}
	if p.buffer[seqEnd+1] != '+' {
		return scanResult{}, &FormatError{
			Message: fmt.Sprintf("separator line does not start with '+', got %q", p.buffer[seqEnd+1]),
			Line:    lineBase + 2,
		}
	}

	name := stripCR(p.buffer[p.recordStart+1 : nameEnd])
	sequence := stripCR(p.buffer[nameEnd+1 : seqEnd])
	secondHeader := stripCR(p.buffer[seqEnd+2 : plusEnd])
	quality := stripCR(p.buffer[plusEnd+1 : qualEnd])

	if len(name) == 0 {
		return scanResult{}, &FormatError{Message: "empty name", Line: lineBase}
	}
	if len(sequence) == 0 {
		return scanResult{}, &FormatError{Message: "empty sequence", Line: lineBase + 1}
	}
	if len(quality) == 0 {
		return scanResult{}, &FormatError{Message: "empty quality", Line: lineBase + 3}
	}

	return scanResult{
		qualEnd:              qualEnd,
		name:                 name,
		sequence:             sequence,
		secondHeader:         secondHeader,
		quality:              quality,
		usedSyntheticNewline: usedSyntheticNewline,
	}, nil
}

// refill grows or compacts the buffer as needed and pulls more bytes
// from the source:
//   - if the single pending record already fills the buffer, it doubles;
//   - otherwise it moves pending bytes to the front, freeing room;
//   - a zero-byte read at true EOF with no pending bytes is a clean end;
//   - a zero-byte read with a dangling, newline-less tail gets one
//     synthetic newline appended, once;
//   - a second zero-byte read after that is a PrematureEofError.
func (p *Parser[R]) refill() error {
	if p.recordStart == 0 && p.filled == p.capacity {
		newCapacity := p.capacity * 2
		if newCapacity <= p.capacity {
			return &MemoryError{Message: "buffer capacity overflow while growing"}
		}
		newBuffer := make([]byte, newCapacity)
		copy(newBuffer, p.buffer[:p.filled])
		p.buffer = newBuffer
		p.capacity = newCapacity
	} else if p.recordStart > 0 {
		copy(p.buffer, p.buffer[p.recordStart:p.filled])
		p.filled -= p.recordStart
		p.recordStart = 0
	}

	toRequest := p.capacity - p.filled
	data, err := p.source.Read(toRequest)
	if err != nil {
		return err
	}
	if len(data) > toRequest {
		return &TypeError{Message: fmt.Sprintf(
			"byte source returned %d bytes, more than the %d requested", len(data), toRequest,
		)}
	}

	if len(data) == 0 {
		if p.filled == 0 {
			p.eofReached = true
			return io.EOF
		}
		if p.buffer[p.filled-1] != '\n' && !p.syntheticNewlineAdded {
			p.buffer[p.filled] = '\n'
			p.filled++
			p.syntheticNewlineAdded = true
			return nil
		}
		p.eofReached = true
		return p.prematureEofError()
	}

	copy(p.buffer[p.filled:], data)
	p.filled += len(data)
	return nil
}

// prematureEofError builds the PrematureEofError for the record
// currently pending in [recordStart, filled), discarding any synthetic
// newline from both the line count and the reported tail.
func (p *Parser[R]) prematureEofError() *PrematureEofError {
	tail := p.buffer[p.recordStart:p.filled]
	if p.syntheticNewlineAdded && len(tail) > 0 && tail[len(tail)-1] == '\n' {
		tail = tail[:len(tail)-1]
	}
	lineCount := bytes.Count(tail, []byte{'\n'})
	return &PrematureEofError{
		Message: "stream ended before a complete record could be read",
		Line:    4*p.recordsEmitted + lineCount,
		Tail:    shortenForDiagnostics(toLatin1(tail), 500),
	}
}

// findNNewlines returns the offsets of the first n newlines in buf, and
// whether n were found.
func findNNewlines(buf []byte, n int) ([4]int, bool) {
	var offsets [4]int
	found := 0
	for i, b := range buf {
		if b == '\n' {
			offsets[found] = i
			found++
			if found == n {
				return offsets, true
			}
		}
	}
	return offsets, false
}

// stripCR removes one trailing '\r', tolerating CRLF line endings
// without recursing (a line that is only "\r" becomes empty).
func stripCR(line []byte) []byte {
	if len(line) > 0 && line[len(line)-1] == '\r' {
		return line[:len(line)-1]
	}
	return line
}

// toLatin1 renders raw bytes as a valid Go string by treating each byte
// as its own Unicode code point (a latin-1 decode), so arbitrary,
// possibly non-UTF-8 stream contents can be embedded safely in error
// messages.
func toLatin1(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
