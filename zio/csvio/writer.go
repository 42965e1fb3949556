package csvio

import (
	"encoding/csv"
	"io"

	"github.com/brimdata/yxdb/zio"
)

type Writer struct {
	writer  io.WriteCloser
	encoder *csv.Writer
	header  bool
	strings []string
}

func NewWriter(w io.WriteCloser) *Writer {
	return &Writer{
		writer:  w,
		encoder: csv.NewWriter(w),
	}
}

func (w *Writer) Close() error {
	err := w.Flush()
	if closeErr := w.writer.Close(); err == nil {
		err = closeErr
	}
	return err
}

func (w *Writer) Flush() error {
	w.encoder.Flush()
	return w.encoder.Error()
}

func (w *Writer) Write(rec zio.Record) error {
	fields := rec.Fields()
	if !w.header {
		w.header = true
		var hdr []string
		for _, f := range fields {
			hdr = append(hdr, f.Name)
		}
		if err := w.encoder.Write(hdr); err != nil {
			return err
		}
	}
	w.strings = w.strings[:0]
	for i, f := range fields {
		v, err := rec.Value(i)
		if err != nil {
			return err
		}
		var s string
		// We want "" instead of "0x" for an empty blob.
		if b, ok := v.([]byte); !ok || len(b) > 0 {
			s = zio.FormatValue(f, v)
		}
		w.strings = append(w.strings, s)
	}
	return w.encoder.Write(w.strings)
}
