package arrowio

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/apache/arrow/go/v11/arrow"
	"github.com/apache/arrow/go/v11/arrow/array"
	"github.com/apache/arrow/go/v11/arrow/ipc"
	"github.com/apache/arrow/go/v11/arrow/memory"
	"github.com/brimdata/yxdb/zio"
	"github.com/brimdata/yxdb/zio/yxdbio"
	"golang.org/x/exp/slices"
)

var (
	ErrMultipleSchemas = errors.New("arrowio: encountered records with different fields")
	ErrNoFields        = errors.New("arrowio: record has no fields")
	ErrUnsupportedType = errors.New("arrowio: unsupported type")
)

// Writer is a zio.Writer for the Arrow IPC stream format.  Each field
// becomes a nullable column whose Arrow type follows from the field's
// yxdb type.
type Writer struct {
	w       io.WriteCloser
	writer  *ipc.Writer
	builder *array.RecordBuilder
	fields  []yxdbio.Field
	values  []any
}

func NewWriter(w io.WriteCloser) *Writer {
	return &Writer{w: w}
}

func (w *Writer) Close() error {
	var err error
	if w.writer != nil {
		err = w.flush(1)
		w.builder.Release()
		if err2 := w.writer.Close(); err == nil {
			err = err2
		}
		w.writer = nil
	}
	if err2 := w.w.Close(); err == nil {
		err = err2
	}
	return err
}

const recordBatchSize = 1024

func (w *Writer) Write(rec zio.Record) error {
	fields := rec.Fields()
	if w.fields == nil {
		schema, err := newSchema(fields)
		if err != nil {
			return err
		}
		w.fields = slices.Clone(fields)
		w.builder = array.NewRecordBuilder(memory.DefaultAllocator, schema)
		w.builder.Reserve(recordBatchSize)
		w.writer = ipc.NewWriter(w.w, ipc.WithSchema(schema))
	} else if !slices.Equal(w.fields, fields) {
		return ErrMultipleSchemas
	}
	// Every column must hold the same number of rows.
	w.values = w.values[:0]
	for i := range fields {
		v, err := rec.Value(i)
		if err != nil {
			return err
		}
		w.values = append(w.values, v)
	}
	for i, builder := range w.builder.Fields() {
		appendValue(builder, w.values[i])
	}
	return w.flush(recordBatchSize)
}

func (w *Writer) flush(min int) error {
	if w.builder.Field(0).Len() < min {
		return nil
	}
	rec := w.builder.NewRecord()
	defer rec.Release()
	w.builder.Reserve(recordBatchSize)
	return w.writer.Write(rec)
}

func newSchema(fields []yxdbio.Field) (*arrow.Schema, error) {
	if len(fields) == 0 {
		return nil, ErrNoFields
	}
	var afields []arrow.Field
	for _, f := range fields {
		dt, err := newArrowDataType(f.Type)
		if err != nil {
			return nil, err
		}
		afields = append(afields, arrow.Field{
			Name:     f.Name,
			Type:     dt,
			Nullable: true,
		})
	}
	return arrow.NewSchema(afields, nil), nil
}

func newArrowDataType(typ yxdbio.Type) (arrow.DataType, error) {
	switch typ {
	case yxdbio.TypeBool:
		return arrow.FixedWidthTypes.Boolean, nil
	case yxdbio.TypeByte:
		return arrow.PrimitiveTypes.Uint8, nil
	case yxdbio.TypeInt16:
		return arrow.PrimitiveTypes.Int16, nil
	case yxdbio.TypeInt32:
		return arrow.PrimitiveTypes.Int32, nil
	case yxdbio.TypeInt64:
		return arrow.PrimitiveTypes.Int64, nil
	case yxdbio.TypeFloat:
		return arrow.PrimitiveTypes.Float32, nil
	case yxdbio.TypeDouble, yxdbio.TypeFixedDecimal:
		return arrow.PrimitiveTypes.Float64, nil
	case yxdbio.TypeString, yxdbio.TypeWString, yxdbio.TypeVString, yxdbio.TypeVWString:
		return arrow.BinaryTypes.String, nil
	case yxdbio.TypeDate:
		return arrow.FixedWidthTypes.Date32, nil
	case yxdbio.TypeDateTime:
		return arrow.FixedWidthTypes.Timestamp_us, nil
	case yxdbio.TypeBlob, yxdbio.TypeSpatialObj:
		return arrow.BinaryTypes.Binary, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, typ)
}

func appendValue(b array.Builder, v any) {
	if v == nil {
		b.AppendNull()
		return
	}
	switch b := b.(type) {
	case *array.BooleanBuilder:
		b.Append(v.(bool))
	case *array.Uint8Builder:
		b.Append(v.(uint8))
	case *array.Int16Builder:
		b.Append(int16(v.(int64)))
	case *array.Int32Builder:
		b.Append(int32(v.(int64)))
	case *array.Int64Builder:
		b.Append(v.(int64))
	case *array.Float32Builder:
		b.Append(float32(v.(float64)))
	case *array.Float64Builder:
		b.Append(v.(float64))
	case *array.StringBuilder:
		b.Append(v.(string))
	case *array.Date32Builder:
		b.Append(arrow.Date32FromTime(v.(time.Time)))
	case *array.TimestampBuilder:
		b.Append(arrow.Timestamp(v.(time.Time).UnixMicro()))
	case *array.BinaryBuilder:
		b.Append(v.([]byte))
	default:
		panic(fmt.Sprintf("unknown builder type %T", b))
	}
}
