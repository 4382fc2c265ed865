package fastq

import "io"

// ByteSource is the collaborator a Parser pulls bytes from. Read must
// return at most n bytes, and an empty slice (with a nil error) at
// end-of-stream. Returning more than n bytes is a contract violation and
// is reported to the Parser's caller as a TypeError.
type ByteSource interface {
	Read(n int) ([]byte, error)
}

// readerSource adapts an io.Reader into a ByteSource.
type readerSource struct {
	r io.Reader
}

// NewReaderSource wraps r as a ByteSource suitable for NewParser. This is
// the bridge between the ambient io.Reader world (files, gzip streams,
// network connections) and the Parser's pull-based contract; opening the
// underlying file or decompressing it is the caller's responsibility.
func NewReaderSource(r io.Reader) ByteSource {
	return &readerSource{r: r}
}

func (s *readerSource) Read(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	for {
		read, err := s.r.Read(buf)
		if read > 0 {
			// io.Reader may legally return (n>0, io.EOF) on the final read;
			// surface the bytes now and let the next call report the end.
			return buf[:read], nil
		}
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		// read == 0 with a nil error is legal for io.Reader (it means try
		// again), not end-of-stream; retry rather than reporting EOF.
	}
}
