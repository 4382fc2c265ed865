package fastq_test

import (
	"fmt"
	"strings"

	"github.com/koeng101/fastqcore/bio/fastq"
)

func ExampleParser() {
	data := "@read1\nACGTACGT\n+\nIIIIIIII\n@read2\nTTGGCCAA\n+\nHHHHHHHH\n"
	parser, err := fastq.NewTextParser(fastq.NewReaderSource(strings.NewReader(data)), 4096)
	if err != nil {
		fmt.Println(err)
		return
	}
	for {
		event, err := parser.Next()
		if err != nil {
			fmt.Println(err)
			return
		}
		switch event.Kind {
		case fastq.EventRecord:
			fmt.Println(event.Record.Name, event.Record.Sequence)
		case fastq.EventEnd:
			return
		}
	}
	// Output:
	// read1 ACGTACGT
	// read2 TTGGCCAA
}

func ExampleMatch() {
	fmt.Println(fastq.Match([]byte("read1/1"), []byte("read1/2"), 7))
	fmt.Println(fastq.Match([]byte("read1/1"), []byte("read2/2"), 7))
	// Output:
	// true
	// false
}
