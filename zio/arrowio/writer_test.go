package arrowio

import (
	"bytes"
	"testing"

	"github.com/apache/arrow/go/v11/arrow"
	"github.com/apache/arrow/go/v11/arrow/array"
	"github.com/apache/arrow/go/v11/arrow/ipc"
	"github.com/brimdata/yxdb/zio"
	"github.com/brimdata/yxdb/zio/yxdbio"
	"github.com/brimdata/yxdb/ztest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(zio.NopCloser(&buf))
	_, err := zio.Copy(w, ztest.Sample())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := ipc.NewReader(&buf)
	require.NoError(t, err)
	defer r.Release()
	schema := r.Schema()
	require.Len(t, schema.Fields(), 9)
	assert.Equal(t, "price", schema.Field(3).Name)
	assert.Equal(t, arrow.PrimitiveTypes.Float64, schema.Field(3).Type)
	assert.Equal(t, arrow.FixedWidthTypes.Date32, schema.Field(6).Type)
	assert.Equal(t, arrow.FixedWidthTypes.Timestamp_us, schema.Field(7).Type)

	require.True(t, r.Next())
	rec := r.Record()
	require.EqualValues(t, 2, rec.NumRows())
	assert.True(t, rec.Column(0).(*array.Boolean).Value(0))
	assert.EqualValues(t, 7, rec.Column(1).(*array.Uint8).Value(0))
	assert.EqualValues(t, -42, rec.Column(2).(*array.Int32).Value(0))
	assert.Equal(t, 12.5, rec.Column(3).(*array.Float64).Value(0))
	assert.Equal(t, float32(0.25), rec.Column(4).(*array.Float32).Value(0))
	assert.Equal(t, "a,b", rec.Column(5).(*array.String).Value(0))
	assert.Equal(t, arrow.Date32FromTime(ztest.Day(2021, 3, 4)), rec.Column(6).(*array.Date32).Value(0))
	assert.Equal(t, arrow.Timestamp(ztest.Time(2021, 3, 4, 5, 6, 7).UnixMicro()), rec.Column(7).(*array.Timestamp).Value(0))
	assert.Equal(t, []byte{0xca, 0xfe}, rec.Column(8).(*array.Binary).Value(0))
	for i := 0; i < int(rec.NumCols()); i++ {
		assert.True(t, rec.Column(i).IsNull(1), schema.Field(i).Name)
	}
	assert.False(t, r.Next())
}

func TestWriterBatches(t *testing.T) {
	fields := []yxdbio.Field{{Name: "n", Type: yxdbio.TypeInt64}}
	var rows [][]any
	for i := 0; i < recordBatchSize+10; i++ {
		rows = append(rows, []any{int64(i)})
	}
	var buf bytes.Buffer
	w := NewWriter(zio.NopCloser(&buf))
	_, err := zio.Copy(w, ztest.NewRecords(fields, rows...))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := ipc.NewReader(&buf)
	require.NoError(t, err)
	defer r.Release()
	var sizes []int64
	for r.Next() {
		sizes = append(sizes, r.Record().NumRows())
	}
	assert.Equal(t, []int64{recordBatchSize, 10}, sizes)
}

func TestWriterMultipleSchemas(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(zio.NopCloser(&buf))
	a := ztest.NewRecords([]yxdbio.Field{{Name: "a", Type: yxdbio.TypeBool}}, []any{true})
	b := ztest.NewRecords([]yxdbio.Field{{Name: "b", Type: yxdbio.TypeBool}}, []any{true})
	_, err := zio.Copy(w, a)
	require.NoError(t, err)
	_, err = zio.Copy(w, b)
	assert.ErrorIs(t, err, ErrMultipleSchemas)
	assert.NoError(t, w.Close())
}

func TestWriterErrors(t *testing.T) {
	var buf bytes.Buffer
	err := NewWriter(zio.NopCloser(&buf)).Write(ztest.NewRecords(nil))
	assert.ErrorIs(t, err, ErrNoFields)
	bad := ztest.NewRecords([]yxdbio.Field{{Name: "x", Type: yxdbio.Type(99)}})
	err = NewWriter(zio.NopCloser(&buf)).Write(bad)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestWriterValueError(t *testing.T) {
	fields := []yxdbio.Field{
		{Name: "a", Type: yxdbio.TypeInt32},
		{Name: "b", Type: yxdbio.TypeFixedDecimal, Size: 4, Scale: 1},
	}
	src := ztest.NewRecords(fields,
		[]any{int64(1), 2.5},
		[]any{int64(2), yxdbio.ErrBadValue},
	)
	var buf bytes.Buffer
	w := NewWriter(zio.NopCloser(&buf))
	_, err := zio.Copy(w, src)
	assert.ErrorIs(t, err, yxdbio.ErrBadValue)
	require.NotPanics(t, func() {
		require.NoError(t, w.Close())
	})

	r, err := ipc.NewReader(&buf)
	require.NoError(t, err)
	defer r.Release()
	require.True(t, r.Next())
	rec := r.Record()
	require.EqualValues(t, 1, rec.NumRows())
	assert.EqualValues(t, 1, rec.Column(0).(*array.Int32).Value(0))
	assert.Equal(t, 2.5, rec.Column(1).(*array.Float64).Value(0))
}
