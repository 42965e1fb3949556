package anyio

import (
	"io"
	"os"

	"github.com/brimdata/yxdb/zio/yxdbio"
	"go.uber.org/multierr"
)

// Open opens path for reading, with "-" meaning standard input, and
// transparently decompresses gzip, zstd or lz4 content.
func Open(path string) (io.ReadCloser, error) {
	var f io.ReadCloser
	if path == "-" {
		f = io.NopCloser(os.Stdin)
	} else {
		var err error
		if f, err = os.Open(path); err != nil {
			return nil, err
		}
	}
	rc, err := Decompress(f)
	if err != nil {
		return nil, multierr.Append(err, f.Close())
	}
	return rc, nil
}

// OpenReader opens path and returns a Reader for its records.
func OpenReader(path string, opts yxdbio.ReaderOpts) (*yxdbio.Reader, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	return yxdbio.NewReader(rc, opts)
}
