package yxdbio

import (
	"io"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type ReaderOpts struct {
	// BlockSize is the initial size of the block buffers.
	BlockSize int
	// MaxBlockSize bounds the declared size of a block and of the
	// variable data of a record.
	MaxBlockSize int
	Logger       *zap.Logger
}

func (o ReaderOpts) withDefaults() ReaderOpts {
	if o.BlockSize <= 0 {
		o.BlockSize = DefaultBlockSize
	}
	if o.MaxBlockSize <= 0 || o.MaxBlockSize > rawFlag-1 {
		o.MaxBlockSize = DefaultMaxBlockSize
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Reader reads the records of a yxdb file in order.  After each call to
// Next that returns true, the fields of the current record are read with
// the typed accessors.  A Reader is not safe for concurrent use.
type Reader struct {
	header   Header
	metaInfo string
	layout   *Layout
	asm      *assembler
	closed   bool
}

// NewReader reads the header and meta info from rc and returns a Reader
// positioned before the first record.  rc is closed when the last record
// has been read, when an error is encountered, or by Close.
func NewReader(rc io.ReadCloser, opts ReaderOpts) (*Reader, error) {
	r, err := newReader(rc, opts.withDefaults())
	if err != nil {
		return nil, multierr.Append(err, rc.Close())
	}
	return r, nil
}

func newReader(rc io.ReadCloser, opts ReaderOpts) (*Reader, error) {
	h, err := ReadHeader(rc)
	if err != nil {
		return nil, err
	}
	metaInfo, fields, err := ReadMetaInfo(rc, h)
	if err != nil {
		return nil, err
	}
	layout, err := Compile(fields)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("opened yxdb stream",
		zap.String("type", h.FileType),
		zap.Uint64("records", h.NumRecords),
		zap.Int("fields", layout.Len()),
		zap.Int("fixed", layout.FixedSize()),
		zap.Bool("var", layout.HasVar()))
	src := newBlockSource(rc, rc, opts)
	return &Reader{
		header:   h,
		metaInfo: metaInfo,
		layout:   layout,
		asm:      newAssembler(src, layout.FixedSize(), layout.HasVar(), h.NumRecords),
	}, nil
}

func (r *Reader) Header() Header {
	return r.header
}

// MetaInfo returns the XML text describing the file's fields.
func (r *Reader) MetaInfo() string {
	return r.metaInfo
}

func (r *Reader) Fields() []Field {
	return r.layout.Fields()
}

func (r *Reader) Layout() *Layout {
	return r.layout
}

func (r *Reader) NumRecords() uint64 {
	return r.header.NumRecords
}

// RecordsRead returns the number of records produced so far.
func (r *Reader) RecordsRead() uint64 {
	return r.asm.count
}

// Next advances to the next record.  It returns false with a nil error
// after the last record, at which point the underlying stream has been
// closed.
func (r *Reader) Next() (bool, error) {
	if r.closed {
		return false, ErrClosed
	}
	return r.asm.next()
}

// Record returns the raw bytes of the current record.  They are
// overwritten by the next call to Next.
func (r *Reader) Record() []byte {
	return r.asm.record()
}

// Close closes the underlying stream.  It is safe to call Close more than
// once.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.asm.src.close()
}

func (r *Reader) current() ([]byte, error) {
	if r.closed {
		return nil, ErrClosed
	}
	rec := r.asm.record()
	if rec == nil {
		return nil, ErrNoRecord
	}
	return rec, nil
}

func (r *Reader) index(name string) (int, error) {
	return r.layout.Index(name)
}

func (r *Reader) ReadBool(i int) (bool, bool, error) {
	rec, err := r.current()
	if err != nil {
		return false, false, err
	}
	return r.layout.Bool(rec, i)
}

func (r *Reader) ReadBoolByName(name string) (bool, bool, error) {
	i, err := r.index(name)
	if err != nil {
		return false, false, err
	}
	return r.ReadBool(i)
}

func (r *Reader) ReadUint8(i int) (uint8, bool, error) {
	rec, err := r.current()
	if err != nil {
		return 0, false, err
	}
	return r.layout.Uint8(rec, i)
}

func (r *Reader) ReadUint8ByName(name string) (uint8, bool, error) {
	i, err := r.index(name)
	if err != nil {
		return 0, false, err
	}
	return r.ReadUint8(i)
}

func (r *Reader) ReadInt64(i int) (int64, bool, error) {
	rec, err := r.current()
	if err != nil {
		return 0, false, err
	}
	return r.layout.Int64(rec, i)
}

func (r *Reader) ReadInt64ByName(name string) (int64, bool, error) {
	i, err := r.index(name)
	if err != nil {
		return 0, false, err
	}
	return r.ReadInt64(i)
}

func (r *Reader) ReadFloat64(i int) (float64, bool, error) {
	rec, err := r.current()
	if err != nil {
		return 0, false, err
	}
	return r.layout.Float64(rec, i)
}

func (r *Reader) ReadFloat64ByName(name string) (float64, bool, error) {
	i, err := r.index(name)
	if err != nil {
		return 0, false, err
	}
	return r.ReadFloat64(i)
}

func (r *Reader) ReadString(i int) (string, bool, error) {
	rec, err := r.current()
	if err != nil {
		return "", false, err
	}
	return r.layout.String(rec, i)
}

func (r *Reader) ReadStringByName(name string) (string, bool, error) {
	i, err := r.index(name)
	if err != nil {
		return "", false, err
	}
	return r.ReadString(i)
}

func (r *Reader) ReadTime(i int) (time.Time, bool, error) {
	rec, err := r.current()
	if err != nil {
		return time.Time{}, false, err
	}
	return r.layout.Time(rec, i)
}

func (r *Reader) ReadTimeByName(name string) (time.Time, bool, error) {
	i, err := r.index(name)
	if err != nil {
		return time.Time{}, false, err
	}
	return r.ReadTime(i)
}

// ReadBlob returns a copy of a Blob or SpatialObj field.
func (r *Reader) ReadBlob(i int) ([]byte, bool, error) {
	rec, err := r.current()
	if err != nil {
		return nil, false, err
	}
	return r.layout.Blob(rec, i)
}

func (r *Reader) ReadBlobByName(name string) ([]byte, bool, error) {
	i, err := r.index(name)
	if err != nil {
		return nil, false, err
	}
	return r.ReadBlob(i)
}

// Value returns field i of the current record as described by
// Layout.Value.
func (r *Reader) Value(i int) (any, error) {
	rec, err := r.current()
	if err != nil {
		return nil, err
	}
	return r.layout.Value(rec, i)
}

func (r *Reader) ValueByName(name string) (any, error) {
	i, err := r.index(name)
	if err != nil {
		return nil, err
	}
	return r.Value(i)
}
