package yxdbio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/brimdata/yxdb/pkg/lzf"
	"go.uber.org/zap"
)

const (
	DefaultBlockSize    = 256 * 1024
	DefaultMaxBlockSize = 256 * 1024 * 1024

	rawFlag      = 0x80000000
	blockSlack   = 1024
	growthFactor = 2
)

// blockSource reads the length-prefixed blocks that follow the meta info
// and returns their decoded contents.  The slice returned by next is valid
// until the following call.
type blockSource struct {
	reader  io.Reader
	closer  io.Closer
	logger  *zap.Logger
	maxSize uint32
	base    int

	prefix [4]byte
	zbuf   []byte
	ubuf   []byte
	lzf    lzf.Decompressor
	eof    bool
	closed bool
	blocks int
}

func newBlockSource(r io.Reader, c io.Closer, opts ReaderOpts) *blockSource {
	return &blockSource{
		reader:  r,
		closer:  c,
		logger:  opts.Logger,
		maxSize: uint32(opts.MaxBlockSize),
		base:    opts.BlockSize,
		zbuf:    make([]byte, opts.BlockSize),
		ubuf:    make([]byte, opts.BlockSize),
	}
}

// next returns the decoded bytes of the next block or io.EOF when there
// are no more blocks.
func (s *blockSource) next() ([]byte, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if s.eof {
		return nil, io.EOF
	}
	n, err := io.ReadFull(s.reader, s.prefix[:])
	if err != nil {
		if n == 0 && err == io.EOF {
			s.eof = true
			return nil, io.EOF
		}
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: %d byte block prefix", ErrTruncatedStream, n)
		}
		return nil, err
	}
	v := binary.LittleEndian.Uint32(s.prefix[:])
	raw := v&rawFlag != 0
	count := v
	if raw {
		count &^= rawFlag
	}
	if count > s.maxSize {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrBlockTooLarge, count, s.maxSize)
	}
	s.blocks++
	if raw {
		if int(count) > len(s.ubuf) {
			s.ubuf = make([]byte, s.grownSize(count))
			s.logGrowth(count, raw)
		}
		return s.fill(s.ubuf[:count])
	}
	if int(count) > len(s.zbuf) {
		s.zbuf = make([]byte, int(count)+blockSlack)
		if size := s.grownSize(count); size > len(s.ubuf) {
			s.ubuf = make([]byte, size)
		}
		s.logGrowth(count, raw)
	}
	payload, err := s.fill(s.zbuf[:count])
	if err != nil {
		return nil, err
	}
	n, err = s.decompress(payload, count)
	if err != nil {
		// A payload cut short by the end of the stream decodes as far
		// as it goes.
		if s.eof && errors.Is(err, lzf.ErrCorrupt) {
			return s.ubuf[:n], nil
		}
		return nil, fmt.Errorf("yxdbio: block %d: %w", s.blocks, err)
	}
	return s.ubuf[:n], nil
}

// decompress decodes payload into ubuf, growing ubuf up to maxSize while
// the decoded block does not fit.
func (s *blockSource) decompress(payload []byte, count uint32) (int, error) {
	for {
		n, err := s.lzf.Decompress(payload, s.ubuf)
		if !errors.Is(err, lzf.ErrBufferTooSmall) || len(s.ubuf) >= int(s.maxSize) {
			return n, err
		}
		size := len(s.ubuf) * growthFactor
		if size > int(s.maxSize) {
			size = int(s.maxSize)
		}
		s.ubuf = make([]byte, size)
		s.logGrowth(count, false)
	}
}

// fill reads len(b) bytes into b.  If the stream ends first, the bytes
// that were read are returned and the next call to next returns io.EOF.
func (s *blockSource) fill(b []byte) ([]byte, error) {
	n, err := io.ReadFull(s.reader, b)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		s.eof = true
		s.logger.Debug("short block payload", zap.Int("block", s.blocks), zap.Int("want", len(b)), zap.Int("got", n))
		return b[:n], nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *blockSource) grownSize(count uint32) int {
	size := int(count) * growthFactor
	if size < s.base {
		size = s.base
	}
	return size
}

func (s *blockSource) logGrowth(count uint32, raw bool) {
	s.logger.Debug("growing block buffers",
		zap.Int("block", s.blocks),
		zap.Uint32("count", count),
		zap.Bool("raw", raw),
		zap.Int("compressed", len(s.zbuf)),
		zap.Int("decoded", len(s.ubuf)))
}

// close closes the underlying stream.  It may be called more than once.
func (s *blockSource) close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.logger.Debug("closing block stream", zap.Int("blocks", s.blocks))
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
