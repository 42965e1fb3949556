package yxdbio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	HeaderSize = 512

	fileTypeLen      = 64
	metaInfoSizeOff  = 80
	numRecordsOff    = 104
	maxMetaInfoChars = 64 * 1024 * 1024
)

// Header is the fixed-size preamble of a yxdb file.
type Header struct {
	// FileType is the description at the start of the file, e.g.
	// "Alteryx Database File".
	FileType string
	// MetaInfoSize is the length of the meta info in UTF-16 code units
	// including its terminating NUL.
	MetaInfoSize int
	NumRecords   uint64
}

// ReadHeader reads and decodes the 512-byte header at the start of r.
func ReadHeader(r io.Reader) (Header, error) {
	var b [HeaderSize]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, fmt.Errorf("%w: file shorter than %d bytes", ErrBadHeader, HeaderSize)
		}
		return Header{}, err
	}
	return ParseHeader(b[:])
}

// ParseHeader decodes a header from b, which must hold at least HeaderSize
// bytes.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes, need %d", ErrBadHeader, len(b), HeaderSize)
	}
	size := int32(binary.LittleEndian.Uint32(b[metaInfoSizeOff:]))
	if size <= 0 || size > maxMetaInfoChars {
		return Header{}, fmt.Errorf("%w: meta info size %d", ErrBadHeader, size)
	}
	n := int64(binary.LittleEndian.Uint64(b[numRecordsOff:]))
	if n < 0 {
		return Header{}, fmt.Errorf("%w: record count %d", ErrBadHeader, n)
	}
	return Header{
		FileType:     cstring(b[:fileTypeLen]),
		MetaInfoSize: int(size),
		NumRecords:   uint64(n),
	}, nil
}
