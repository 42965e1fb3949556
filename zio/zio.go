package zio

import (
	"context"
	"encoding/hex"
	"io"
	"strconv"
	"time"

	"github.com/brimdata/yxdb/zio/yxdbio"
	"golang.org/x/exp/slices"
)

func Extension(format string) string {
	switch format {
	case "json":
		return ".ndjson"
	case "csv":
		return ".csv"
	case "table":
		return ".tbl"
	case "arrows":
		return ".arrows"
	case "parquet":
		return ".parquet"
	default:
		return ""
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// NopCloser returns a WriteCloser with a no-op Close method wrapping
// the provided Writer w.
func NopCloser(w io.Writer) io.WriteCloser {
	return nopCloser{w}
}

// Record is the current row of a Reader.  Value returns nil for a null
// value and otherwise one of bool, uint8, int64, float64, string,
// time.Time or []byte as selected by the kind of the field.
type Record interface {
	Fields() []yxdbio.Field
	Value(int) (any, error)
}

// Reader is a Record that advances through a sequence of rows.  Next
// returns false with a nil error when no rows remain.  *yxdbio.Reader
// implements Reader.
type Reader interface {
	Record
	Next() (bool, error)
}

// Writer writes a Record.  A Writer must not retain rec, or any slice
// returned by its Value method, after Write returns.
type Writer interface {
	Write(rec Record) error
}

type WriteCloser interface {
	Writer
	io.Closer
}

func MultiWriter(writers ...Writer) Writer {
	return &multiWriter{slices.Clone(writers)}
}

type multiWriter struct {
	writers []Writer
}

func (m *multiWriter) Write(rec Record) error {
	for _, w := range m.writers {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// Copy copies src to dst a la io.Copy and returns the number of records
// copied.
func Copy(dst Writer, src Reader) (uint64, error) {
	return CopyWithContext(context.Background(), dst, src)
}

func CopyWithContext(ctx context.Context, dst Writer, src Reader) (uint64, error) {
	var n uint64
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		ok, err := src.Next()
		if err != nil || !ok {
			return n, err
		}
		if err := dst.Write(src); err != nil {
			return n, err
		}
		n++
	}
}

// FormatValue returns the text form of a value of field f as used by the
// text based writers.  Null values format as the empty string.
func FormatValue(f yxdbio.Field, v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case bool:
		return strconv.FormatBool(v)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		if f.Type == yxdbio.TypeFixedDecimal {
			return strconv.FormatFloat(v, 'f', f.Scale, 64)
		}
		bits := 64
		if f.Type == yxdbio.TypeFloat {
			bits = 32
		}
		return strconv.FormatFloat(v, 'g', -1, bits)
	case string:
		return v
	case time.Time:
		return FormatTime(f, v)
	case []byte:
		return "0x" + hex.EncodeToString(v)
	}
	return ""
}

// FormatTime formats t in the textual form stored in yxdb files for a Date
// or DateTime field.
func FormatTime(f yxdbio.Field, t time.Time) string {
	if f.Type == yxdbio.TypeDate {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}
