package tableio

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/brimdata/yxdb/zio"
)

type Writer struct {
	writer  io.WriteCloser
	table   *tabwriter.Writer
	header  []string
	limit   int
	nline   int
	strings []string
}

func NewWriter(w io.WriteCloser) *Writer {
	return &Writer{
		writer: w,
		table:  tabwriter.NewWriter(w, 0, 8, 1, ' ', 0),
		limit:  1000,
	}
}

func (w *Writer) writeHeader() {
	fmt.Fprintln(w.table, strings.Join(w.header, "\t"))
}

func (w *Writer) Write(rec zio.Record) error {
	fields := rec.Fields()
	if w.header == nil {
		for _, f := range fields {
			w.header = append(w.header, strings.ToUpper(f.Name))
		}
		w.writeHeader()
	}
	if w.nline >= w.limit {
		if err := w.flush(); err != nil {
			return err
		}
		w.writeHeader()
		w.nline = 0
	}
	w.strings = w.strings[:0]
	for i, f := range fields {
		v, err := rec.Value(i)
		if err != nil {
			return err
		}
		s := zio.FormatValue(f, v)
		if v == nil {
			s = "-"
		}
		w.strings = append(w.strings, s)
	}
	w.nline++
	_, err := fmt.Fprintf(w.table, "%s\n", strings.Join(w.strings, "\t"))
	return err
}

func (w *Writer) flush() error {
	return w.table.Flush()
}

func (w *Writer) Close() error {
	err := w.flush()
	if closeErr := w.writer.Close(); err == nil {
		err = closeErr
	}
	return err
}
