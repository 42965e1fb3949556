package anyio

import (
	"bufio"
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"go.uber.org/multierr"
)

// RFC 1952, Section 2.3.1
var gzipID = []byte{0x1f, 0x8b}

// RFC 8878, Section 3.1.1
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// LZ4 Frame Format, General Structure
var lz4Magic = []byte{0x04, 0x22, 0x4d, 0x18}

// Decompress returns a ReadCloser for the decompressed content of rc if it
// begins with a gzip, zstd or lz4 frame header and otherwise for rc
// itself.  Closing the result closes rc.
func Decompress(rc io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReader(rc)
	// A short or failed Peek leaves the content as is.
	magic, _ := br.Peek(len(zstdMagic))
	switch {
	case bytes.HasPrefix(magic, gzipID):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return &multiCloser{zr, []io.Closer{zr, rc}}, nil
	case bytes.HasPrefix(magic, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		zrc := zr.IOReadCloser()
		return &multiCloser{zrc, []io.Closer{zrc, rc}}, nil
	case bytes.HasPrefix(magic, lz4Magic):
		return &multiCloser{lz4.NewReader(br), []io.Closer{rc}}, nil
	}
	return &multiCloser{br, []io.Closer{rc}}, nil
}

type multiCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiCloser) Close() error {
	var err error
	for _, c := range m.closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}
