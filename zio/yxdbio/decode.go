package yxdbio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
)

const (
	dateLen     = 10
	dateTimeLen = 19

	dateFormat     = "2006-01-02"
	dateTimeFormat = "2006-01-02 15:04:05"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// span returns the bytes of rec covered by f including its null flag.
func span(rec []byte, f Field) ([]byte, error) {
	width, err := f.width()
	if err != nil {
		return nil, err
	}
	if f.Offset < 0 || f.Offset+width > len(rec) {
		return nil, fmt.Errorf("%w: field %q at [%d,%d) outside record of %d bytes", ErrBadValue, f.Name, f.Offset, f.Offset+width, len(rec))
	}
	return rec[f.Offset : f.Offset+width], nil
}

// isNull checks the flag byte that follows the payload of most fixed types.
func isNull(b []byte) bool {
	return b[len(b)-1] == 1
}

func decodeBool(rec []byte, f Field) (bool, bool, error) {
	b, err := span(rec, f)
	if err != nil {
		return false, false, err
	}
	// Bool has no flag byte; the value 2 is its null.
	if b[0] == 2 {
		return false, false, nil
	}
	return b[0] == 1, true, nil
}

func decodeByte(rec []byte, f Field) (uint8, bool, error) {
	b, err := span(rec, f)
	if err != nil || isNull(b) {
		return 0, false, err
	}
	return b[0], true, nil
}

func decodeLong(rec []byte, f Field) (int64, bool, error) {
	b, err := span(rec, f)
	if err != nil || isNull(b) {
		return 0, false, err
	}
	switch f.Type {
	case TypeInt16:
		return int64(int16(binary.LittleEndian.Uint16(b))), true, nil
	case TypeInt32:
		return int64(int32(binary.LittleEndian.Uint32(b))), true, nil
	default:
		return int64(binary.LittleEndian.Uint64(b)), true, nil
	}
}

func decodeDouble(rec []byte, f Field) (float64, bool, error) {
	b, err := span(rec, f)
	if err != nil || isNull(b) {
		return 0, false, err
	}
	switch f.Type {
	case TypeFloat:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b))), true, nil
	case TypeDouble:
		return math.Float64frombits(binary.LittleEndian.Uint64(b)), true, nil
	default:
		s := strings.TrimSpace(cstring(b[:f.Size]))
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false, fmt.Errorf("%w: field %q: fixed decimal %q", ErrBadValue, f.Name, s)
		}
		return v, true, nil
	}
}

func decodeString(rec []byte, f Field) (string, bool, error) {
	switch f.Type {
	case TypeVString, TypeVWString:
		b, ok, err := decodeBlob(rec, f)
		if !ok || err != nil {
			return "", ok, err
		}
		if f.Type == TypeVString {
			return string(b), true, nil
		}
		s, err := decodeUTF16(b)
		if err != nil {
			return "", false, fmt.Errorf("%w: field %q: %s", ErrBadValue, f.Name, err)
		}
		return s, true, nil
	}
	b, err := span(rec, f)
	if err != nil || isNull(b) {
		return "", false, err
	}
	if f.Type == TypeString {
		return cstring(b[:f.Size]), true, nil
	}
	s, err := decodeUTF16(wcstring(b[:f.Size*2]))
	if err != nil {
		return "", false, fmt.Errorf("%w: field %q: %s", ErrBadValue, f.Name, err)
	}
	return s, true, nil
}

// decodeDate returns null for text that is not a valid date so that a
// malformed date does not abort reading the rest of the record.
func decodeDate(rec []byte, f Field) (time.Time, bool, error) {
	b, err := span(rec, f)
	if err != nil || isNull(b) {
		return time.Time{}, false, err
	}
	format := dateFormat
	if f.Type == TypeDateTime {
		format = dateTimeFormat
	}
	t, err := time.Parse(format, string(b[:len(format)]))
	if err != nil {
		return time.Time{}, false, nil
	}
	return t, true, nil
}

// cstring returns the text of b up to its first NUL.
func cstring(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// wcstring returns the UTF-16 code units of b up to the first zero unit.
func wcstring(b []byte) []byte {
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			return b[:i]
		}
	}
	return b
}

func decodeUTF16(b []byte) (string, error) {
	out, err := utf16le.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
