package yxdbio

import (
	"encoding/binary"
	"fmt"
	"io"

	"go.uber.org/multierr"
)

type assemblerState int

const (
	awaitingBlock assemblerState = iota
	partialBlock
	exhausted
)

const varSlack = 1000

// assembler reassembles records from the decoded blocks of a blockSource.
// Records may begin and end anywhere within a block and may span any
// number of blocks.
type assembler struct {
	src       *blockSource
	fixedSize int
	hasVar    bool
	total     uint64
	count     uint64

	state assemblerState
	err   error
	block []byte
	pos   int
	buf   []byte
	rec   []byte
}

func newAssembler(src *blockSource, fixedSize int, hasVar bool, total uint64) *assembler {
	size := fixedSize
	if hasVar {
		size += 4 + varSlack
	}
	return &assembler{
		src:       src,
		fixedSize: fixedSize,
		hasVar:    hasVar,
		total:     total,
		buf:       make([]byte, size),
	}
}

// next advances to the next record, returning false once the declared
// number of records has been produced.  The record is available from
// record until the following call.  Once next has returned an error, it
// returns the same error on every later call.
func (a *assembler) next() (bool, error) {
	if a.err != nil {
		return false, a.err
	}
	if a.state == exhausted {
		return false, nil
	}
	a.count++
	if a.count > a.total {
		a.count = a.total
		a.state = exhausted
		a.rec = nil
		if err := a.src.close(); err != nil {
			a.err = err
			return false, err
		}
		return false, nil
	}
	if err := a.read(); err != nil {
		a.count--
		a.rec = nil
		a.err = multierr.Append(err, a.src.close())
		return false, a.err
	}
	return true, nil
}

func (a *assembler) record() []byte {
	return a.rec
}

func (a *assembler) read() error {
	if err := a.fill(a.buf[:a.fixedSize], true); err != nil {
		return err
	}
	if !a.hasVar {
		a.rec = a.buf[:a.fixedSize]
		return nil
	}
	head := a.fixedSize + 4
	if err := a.fill(a.buf[a.fixedSize:head], false); err != nil {
		return err
	}
	varLen := binary.LittleEndian.Uint32(a.buf[a.fixedSize:])
	if varLen > a.src.maxSize {
		return fmt.Errorf("%w: record %d has %d bytes of variable data", ErrBlockTooLarge, a.count, varLen)
	}
	need := head + int(varLen)
	if need > len(a.buf) {
		buf := make([]byte, need*growthFactor)
		copy(buf, a.buf[:head])
		a.buf = buf
	}
	if err := a.fill(a.buf[head:need], false); err != nil {
		return err
	}
	a.rec = a.buf[:need]
	return nil
}

// fill copies len(dst) bytes from the current block, pulling blocks from
// the source as needed.  atBoundary is true when dst starts a record.
func (a *assembler) fill(dst []byte, atBoundary bool) error {
	for len(dst) > 0 {
		if a.state == awaitingBlock {
			block, err := a.src.next()
			if err == io.EOF {
				if atBoundary {
					return fmt.Errorf("%w: got %d of %d", ErrMissingRecords, a.count-1, a.total)
				}
				return fmt.Errorf("%w: record %d is incomplete", ErrTruncatedStream, a.count)
			}
			if err != nil {
				return err
			}
			a.block = block
			a.pos = 0
			if len(block) == 0 {
				continue
			}
			a.state = partialBlock
		}
		n := copy(dst, a.block[a.pos:])
		a.pos += n
		dst = dst[n:]
		atBoundary = false
		if a.pos == len(a.block) {
			a.state = awaitingBlock
		}
	}
	return nil
}
