package parquetio

import (
	"errors"
	"io"

	"github.com/brimdata/yxdb/zio"
	"github.com/brimdata/yxdb/zio/yxdbio"
	goparquet "github.com/fraugster/parquet-go"
	"golang.org/x/exp/slices"
)

var ErrMultipleSchemas = errors.New("parquetio: encountered records with different fields")

type Writer struct {
	w io.WriteCloser

	fw     *goparquet.FileWriter
	fields []yxdbio.Field
}

func NewWriter(w io.WriteCloser) *Writer {
	return &Writer{w: w}
}

func (w *Writer) Close() error {
	var err error
	if w.fw != nil {
		err = w.fw.Close()
	}
	if err2 := w.w.Close(); err == nil {
		err = err2
	}
	return err
}

func (w *Writer) Write(rec zio.Record) error {
	fields := rec.Fields()
	if w.fields == nil {
		sd, err := newSchemaDefinition(fields)
		if err != nil {
			return err
		}
		w.fields = slices.Clone(fields)
		w.fw = goparquet.NewFileWriter(w.w, goparquet.WithSchemaDefinition(sd))
	} else if !slices.Equal(w.fields, fields) {
		return ErrMultipleSchemas
	}
	data, err := newRecordData(rec)
	if err != nil {
		return err
	}
	return w.fw.AddData(data)
}
