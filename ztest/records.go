// Package ztest provides in-memory record sources for testing writers.
package ztest

import (
	"fmt"

	"github.com/brimdata/yxdb/zio/yxdbio"
)

// Records is a zio.Reader over rows of values held in memory.  Each row
// holds one value per field in the form returned by yxdbio.Reader.Value.
// A value that is an error is returned as the error from Value.
type Records struct {
	fields []yxdbio.Field
	rows   [][]any
	n      int
}

func NewRecords(fields []yxdbio.Field, rows ...[]any) *Records {
	return &Records{fields: fields, rows: rows}
}

func (r *Records) Fields() []yxdbio.Field {
	return r.fields
}

func (r *Records) Next() (bool, error) {
	if r.n >= len(r.rows) {
		return false, nil
	}
	r.n++
	return true, nil
}

func (r *Records) Value(i int) (any, error) {
	if r.n == 0 {
		return nil, yxdbio.ErrNoRecord
	}
	row := r.rows[r.n-1]
	if i < 0 || i >= len(row) {
		return nil, fmt.Errorf("%w: index %d", yxdbio.ErrInvalidField, i)
	}
	if err, ok := row[i].(error); ok {
		return nil, err
	}
	return row[i], nil
}

// Sample returns a set of fields covering every accessor kind together
// with two rows, the second of which is entirely null.
func Sample() *Records {
	fields := []yxdbio.Field{
		{Name: "ok", Type: yxdbio.TypeBool},
		{Name: "b", Type: yxdbio.TypeByte},
		{Name: "n", Type: yxdbio.TypeInt32},
		{Name: "price", Type: yxdbio.TypeFixedDecimal, Size: 10, Scale: 2},
		{Name: "f", Type: yxdbio.TypeFloat},
		{Name: "name", Type: yxdbio.TypeVString},
		{Name: "day", Type: yxdbio.TypeDate},
		{Name: "at", Type: yxdbio.TypeDateTime},
		{Name: "data", Type: yxdbio.TypeBlob},
	}
	return NewRecords(fields,
		[]any{true, uint8(7), int64(-42), 12.5, 0.25, "a,b", Day(2021, 3, 4), Time(2021, 3, 4, 5, 6, 7), []byte{0xca, 0xfe}},
		make([]any, len(fields)),
	)
}
