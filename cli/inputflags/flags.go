package inputflags

import (
	"fmt"

	"github.com/alecthomas/units"
	"github.com/brimdata/yxdb/zio/yxdbio"
	"github.com/spf13/pflag"
)

type Flags struct {
	yxdbio.ReaderOpts
	blockSize    string
	maxBlockSize string
}

func (f *Flags) Options() yxdbio.ReaderOpts {
	return f.ReaderOpts
}

func (f *Flags) SetFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.blockSize, "blocksize", "256KiB", "initial size of the block decompression buffer")
	fs.StringVar(&f.maxBlockSize, "maxblocksize", "256MiB", "largest block accepted from the input")
}

// Init is called after flags have been parsed.
func (f *Flags) Init() error {
	size, err := parseSize("-blocksize", f.blockSize)
	if err != nil {
		return err
	}
	max, err := parseSize("-maxblocksize", f.maxBlockSize)
	if err != nil {
		return err
	}
	if size > max {
		return fmt.Errorf("-blocksize %s exceeds -maxblocksize %s", f.blockSize, f.maxBlockSize)
	}
	f.BlockSize, f.MaxBlockSize = size, max
	return nil
}

func parseSize(flag, s string) (int, error) {
	n, err := units.ParseStrictBytes(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", flag, err)
	}
	if n <= 0 || n > 1<<31-1 {
		return 0, fmt.Errorf("%s: size %s out of range", flag, s)
	}
	return int(n), nil
}
