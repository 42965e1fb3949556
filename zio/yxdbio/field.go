package yxdbio

import "fmt"

// Type is the storage type of a field as named in the yxdb meta info.
type Type int

const (
	TypeBool Type = iota
	TypeByte
	TypeInt16
	TypeInt32
	TypeInt64
	TypeFixedDecimal
	TypeFloat
	TypeDouble
	TypeString
	TypeWString
	TypeVString
	TypeVWString
	TypeDate
	TypeDateTime
	TypeBlob
	TypeSpatialObj
	numTypes
)

var typeNames = [...]string{
	TypeBool:         "Bool",
	TypeByte:         "Byte",
	TypeInt16:        "Int16",
	TypeInt32:        "Int32",
	TypeInt64:        "Int64",
	TypeFixedDecimal: "FixedDecimal",
	TypeFloat:        "Float",
	TypeDouble:       "Double",
	TypeString:       "String",
	TypeWString:      "WString",
	TypeVString:      "V_String",
	TypeVWString:     "V_WString",
	TypeDate:         "Date",
	TypeDateTime:     "DateTime",
	TypeBlob:         "Blob",
	TypeSpatialObj:   "SpatialObj",
}

// ParseType returns the Type with the given meta info name.
func ParseType(name string) (Type, error) {
	for typ, s := range typeNames {
		if s == name {
			return Type(typ), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

func (t Type) String() string {
	if t < 0 || t >= numTypes {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// IsVariable reports whether values of t live in the variable-length tail
// of a record.
func (t Type) IsVariable() bool {
	switch t {
	case TypeVString, TypeVWString, TypeBlob, TypeSpatialObj:
		return true
	}
	return false
}

// Kind is the family of Go values a field decodes to and so selects which
// accessor reads it.
type Kind int

const (
	KindBool Kind = iota
	KindByte
	KindLong
	KindDouble
	KindString
	KindDate
	KindBlob
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindByte:
		return "byte"
	case KindLong:
		return "long"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindBlob:
		return "blob"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kind returns the accessor family of t.
func (t Type) Kind() Kind {
	switch t {
	case TypeBool:
		return KindBool
	case TypeByte:
		return KindByte
	case TypeInt16, TypeInt32, TypeInt64:
		return KindLong
	case TypeFixedDecimal, TypeFloat, TypeDouble:
		return KindDouble
	case TypeString, TypeWString, TypeVString, TypeVWString:
		return KindString
	case TypeDate, TypeDateTime:
		return KindDate
	}
	return KindBlob
}

// Field describes one column of a yxdb record.  Size is the declared size
// from the meta info (characters for string types, digits for
// FixedDecimal) and Scale the number of decimal places of a FixedDecimal.
// Offset is the position of the field within the fixed part of a record
// and is assigned by Compile.
type Field struct {
	Name   string
	Type   Type
	Size   int
	Scale  int
	Offset int
}

func (f Field) Kind() Kind {
	return f.Type.Kind()
}

// width returns the number of bytes f occupies in the fixed part of a
// record, including its trailing null flag.
func (f Field) width() (int, error) {
	switch f.Type {
	case TypeBool:
		return 1, nil
	case TypeByte:
		return 2, nil
	case TypeInt16:
		return 3, nil
	case TypeInt32, TypeFloat:
		return 5, nil
	case TypeInt64, TypeDouble:
		return 9, nil
	case TypeFixedDecimal, TypeString:
		if f.Size < 0 {
			return 0, fmt.Errorf("%w: field %q has negative size %d", ErrBadSchema, f.Name, f.Size)
		}
		return f.Size + 1, nil
	case TypeWString:
		if f.Size < 0 {
			return 0, fmt.Errorf("%w: field %q has negative size %d", ErrBadSchema, f.Name, f.Size)
		}
		return f.Size*2 + 1, nil
	case TypeDate:
		return dateLen + 1, nil
	case TypeDateTime:
		return dateTimeLen + 1, nil
	case TypeVString, TypeVWString, TypeBlob, TypeSpatialObj:
		return 4, nil
	}
	return 0, fmt.Errorf("%w: field %q has %s", ErrUnknownType, f.Name, f.Type)
}
