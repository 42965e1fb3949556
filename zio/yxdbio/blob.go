package yxdbio

import (
	"encoding/binary"
	"fmt"
)

const (
	blobEmpty = 0
	blobNull  = 1

	tinyLenShift = 28
	tinyMask     = 0x30000000
	maxTinyLen   = 4
)

// decodeBlob returns the bytes of a variable-length field.  The slice
// aliases rec.
//
// The four bytes at the field's offset are either a sentinel (0 for an
// empty value, 1 for null), a tiny value stored in place whose length is
// in the top nibble, or an offset, relative to the field, of a length
// prefix in the record's variable tail.  A length prefix whose low bit is
// set is a single byte holding twice the length.  Otherwise it is a
// 32-bit word holding twice the length.
func decodeBlob(rec []byte, f Field) ([]byte, bool, error) {
	b, err := span(rec, f)
	if err != nil {
		return nil, false, err
	}
	v := binary.LittleEndian.Uint32(b)
	switch v {
	case blobEmpty:
		return []byte{}, true, nil
	case blobNull:
		return nil, false, nil
	}
	if v&0x80000000 == 0 && v&tinyMask != 0 {
		n := int(v >> tinyLenShift)
		if n > maxTinyLen {
			return nil, false, fmt.Errorf("%w: field %q: tiny value of %d bytes", ErrBadBlob, f.Name, n)
		}
		return rec[f.Offset : f.Offset+n], true, nil
	}
	pos := f.Offset + int(v&0x7fffffff)
	if pos >= len(rec) {
		return nil, false, fmt.Errorf("%w: field %q: offset %d outside record of %d bytes", ErrBadBlob, f.Name, pos, len(rec))
	}
	var start, n int
	if rec[pos]&1 == 1 {
		start = pos + 1
		n = int(rec[pos] >> 1)
	} else {
		if pos+4 > len(rec) {
			return nil, false, fmt.Errorf("%w: field %q: length at %d outside record of %d bytes", ErrBadBlob, f.Name, pos, len(rec))
		}
		start = pos + 4
		n = int(binary.LittleEndian.Uint32(rec[pos:]) / 2)
	}
	if n > len(rec)-start {
		return nil, false, fmt.Errorf("%w: field %q: %d bytes at %d outside record of %d bytes", ErrBadBlob, f.Name, n, start, len(rec))
	}
	return rec[start : start+n], true, nil
}
