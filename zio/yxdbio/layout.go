package yxdbio

import (
	"fmt"
	"time"
)

// Layout is the compiled form of a field list: every field's offset within
// a record, the size of the fixed part of a record and the name index used
// by the ByName accessors.  A Layout is immutable and may be shared by any
// number of readers.
type Layout struct {
	fields    []Field
	index     map[string]int
	fixedSize int
	hasVar    bool
}

// Compile assigns offsets to fields in order and returns the resulting
// Layout.  The fields slice is copied.
func Compile(fields []Field) (*Layout, error) {
	l := &Layout{
		fields: make([]Field, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	var off int
	for i, f := range fields {
		width, err := f.width()
		if err != nil {
			return nil, err
		}
		f.Offset = off
		off += width
		if f.Type.IsVariable() {
			l.hasVar = true
		}
		l.fields[i] = f
		l.index[f.Name] = i
	}
	l.fixedSize = off
	return l, nil
}

func (l *Layout) Fields() []Field {
	return l.fields
}

func (l *Layout) Len() int {
	return len(l.fields)
}

// FixedSize is the number of bytes in the fixed part of every record.
func (l *Layout) FixedSize() int {
	return l.fixedSize
}

// HasVar reports whether records carry a variable-length tail.
func (l *Layout) HasVar() bool {
	return l.hasVar
}

// Index returns the position of the named field.
func (l *Layout) Index(name string) (int, error) {
	i, ok := l.index[name]
	if !ok {
		return -1, fmt.Errorf("%w: no field named %q", ErrInvalidField, name)
	}
	return i, nil
}

func (l *Layout) field(i int, kind Kind) (Field, error) {
	if i < 0 || i >= len(l.fields) {
		return Field{}, fmt.Errorf("%w: index %d out of range [0,%d)", ErrInvalidField, i, len(l.fields))
	}
	f := l.fields[i]
	if f.Kind() != kind {
		return Field{}, fmt.Errorf("%w: field %q is %s (%s), not %s", ErrInvalidField, f.Name, f.Type, f.Kind(), kind)
	}
	return f, nil
}

// Bool reads field i of rec.  The second result is false if the value is
// null.  The remaining accessors follow the same convention.
func (l *Layout) Bool(rec []byte, i int) (bool, bool, error) {
	f, err := l.field(i, KindBool)
	if err != nil {
		return false, false, err
	}
	return decodeBool(rec, f)
}

func (l *Layout) Uint8(rec []byte, i int) (uint8, bool, error) {
	f, err := l.field(i, KindByte)
	if err != nil {
		return 0, false, err
	}
	return decodeByte(rec, f)
}

// Int64 reads an Int16, Int32 or Int64 field.
func (l *Layout) Int64(rec []byte, i int) (int64, bool, error) {
	f, err := l.field(i, KindLong)
	if err != nil {
		return 0, false, err
	}
	return decodeLong(rec, f)
}

// Float64 reads a Float, Double or FixedDecimal field.
func (l *Layout) Float64(rec []byte, i int) (float64, bool, error) {
	f, err := l.field(i, KindDouble)
	if err != nil {
		return 0, false, err
	}
	return decodeDouble(rec, f)
}

// String reads a String, WString, V_String or V_WString field.
func (l *Layout) String(rec []byte, i int) (string, bool, error) {
	f, err := l.field(i, KindString)
	if err != nil {
		return "", false, err
	}
	return decodeString(rec, f)
}

// Time reads a Date or DateTime field as a UTC time.
func (l *Layout) Time(rec []byte, i int) (time.Time, bool, error) {
	f, err := l.field(i, KindDate)
	if err != nil {
		return time.Time{}, false, err
	}
	return decodeDate(rec, f)
}

// Blob reads a Blob or SpatialObj field.  The returned slice is a copy and
// remains valid after rec is overwritten.
func (l *Layout) Blob(rec []byte, i int) ([]byte, bool, error) {
	f, err := l.field(i, KindBlob)
	if err != nil {
		return nil, false, err
	}
	b, ok, err := decodeBlob(rec, f)
	if !ok || err != nil {
		return nil, ok, err
	}
	return append([]byte{}, b...), true, nil
}

// Value reads field i of rec as a Go value of the type selected by the
// field's kind: bool, uint8, int64, float64, string, time.Time or []byte.
// A null value is returned as nil.
func (l *Layout) Value(rec []byte, i int) (any, error) {
	if i < 0 || i >= len(l.fields) {
		return nil, fmt.Errorf("%w: index %d out of range [0,%d)", ErrInvalidField, i, len(l.fields))
	}
	var v any
	var ok bool
	var err error
	switch l.fields[i].Kind() {
	case KindBool:
		v, ok, err = l.Bool(rec, i)
	case KindByte:
		v, ok, err = l.Uint8(rec, i)
	case KindLong:
		v, ok, err = l.Int64(rec, i)
	case KindDouble:
		v, ok, err = l.Float64(rec, i)
	case KindString:
		v, ok, err = l.String(rec, i)
	case KindDate:
		v, ok, err = l.Time(rec, i)
	case KindBlob:
		v, ok, err = l.Blob(rec, i)
	}
	if !ok || err != nil {
		return nil, err
	}
	return v, nil
}
