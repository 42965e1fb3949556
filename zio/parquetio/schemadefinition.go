package parquetio

import (
	"errors"
	"fmt"

	"github.com/brimdata/yxdb/zio/yxdbio"
	"github.com/fraugster/parquet-go/parquet"
	"github.com/fraugster/parquet-go/parquetschema"
)

var (
	ErrNoFields        = errors.New("parquetio: record has no fields")
	ErrUnsupportedType = errors.New("parquetio: unsupported type")
)

var (
	repetitionOptional = parquet.FieldRepetitionTypePtr(parquet.FieldRepetitionType_OPTIONAL)

	convertedUTF8            = parquet.ConvertedTypePtr(parquet.ConvertedType_UTF8)
	convertedDate            = parquet.ConvertedTypePtr(parquet.ConvertedType_DATE)
	convertedTimestampMicros = parquet.ConvertedTypePtr(parquet.ConvertedType_TIMESTAMP_MICROS)
	convertedUint8           = parquet.ConvertedTypePtr(parquet.ConvertedType_UINT_8)
	convertedInt16           = parquet.ConvertedTypePtr(parquet.ConvertedType_INT_16)
	convertedInt32           = parquet.ConvertedTypePtr(parquet.ConvertedType_INT_32)
	convertedInt64           = parquet.ConvertedTypePtr(parquet.ConvertedType_INT_64)

	logicalString          = &parquet.LogicalType{STRING: &parquet.StringType{}}
	logicalDate            = &parquet.LogicalType{DATE: &parquet.DateType{}}
	logicalTimestampMicros = &parquet.LogicalType{TIMESTAMP: &parquet.TimestampType{Unit: timeUnitMicros, IsAdjustedToUTC: true}}
	logicalUint8           = &parquet.LogicalType{INTEGER: &parquet.IntType{BitWidth: 8}}
	logicalInt16           = &parquet.LogicalType{INTEGER: &parquet.IntType{BitWidth: 16, IsSigned: true}}
	logicalInt32           = &parquet.LogicalType{INTEGER: &parquet.IntType{BitWidth: 32, IsSigned: true}}
	logicalInt64           = &parquet.LogicalType{INTEGER: &parquet.IntType{BitWidth: 64, IsSigned: true}}

	timeUnitMicros = &parquet.TimeUnit{MICROS: &parquet.MicroSeconds{}}
)

func newSchemaDefinition(fields []yxdbio.Field) (*parquetschema.SchemaDefinition, error) {
	if len(fields) == 0 {
		return nil, ErrNoFields
	}
	var children []*parquetschema.ColumnDefinition
	for _, f := range fields {
		c, err := newColumnDefinition(f.Name, f.Type)
		if err != nil {
			return nil, err
		}
		children = append(children, c)
	}
	s := &parquetschema.SchemaDefinition{
		RootColumn: &parquetschema.ColumnDefinition{
			Children: children,
			SchemaElement: &parquet.SchemaElement{
				Name: "yxdb",
			},
		},
	}
	return s, s.ValidateStrict()
}

func newColumnDefinition(name string, typ yxdbio.Type) (*parquetschema.ColumnDefinition, error) {
	switch typ {
	case yxdbio.TypeBool:
		return newPrimitiveColumnDefinition(name, parquet.Type_BOOLEAN, nil, nil)
	case yxdbio.TypeByte:
		return newPrimitiveColumnDefinition(name, parquet.Type_INT32, convertedUint8, logicalUint8)
	case yxdbio.TypeInt16:
		return newPrimitiveColumnDefinition(name, parquet.Type_INT32, convertedInt16, logicalInt16)
	case yxdbio.TypeInt32:
		return newPrimitiveColumnDefinition(name, parquet.Type_INT32, convertedInt32, logicalInt32)
	case yxdbio.TypeInt64:
		return newPrimitiveColumnDefinition(name, parquet.Type_INT64, convertedInt64, logicalInt64)
	case yxdbio.TypeFloat:
		return newPrimitiveColumnDefinition(name, parquet.Type_FLOAT, nil, nil)
	case yxdbio.TypeDouble, yxdbio.TypeFixedDecimal:
		return newPrimitiveColumnDefinition(name, parquet.Type_DOUBLE, nil, nil)
	case yxdbio.TypeString, yxdbio.TypeWString, yxdbio.TypeVString, yxdbio.TypeVWString:
		return newPrimitiveColumnDefinition(name, parquet.Type_BYTE_ARRAY, convertedUTF8, logicalString)
	case yxdbio.TypeDate:
		return newPrimitiveColumnDefinition(name, parquet.Type_INT32, convertedDate, logicalDate)
	case yxdbio.TypeDateTime:
		return newPrimitiveColumnDefinition(name, parquet.Type_INT64, convertedTimestampMicros, logicalTimestampMicros)
	case yxdbio.TypeBlob, yxdbio.TypeSpatialObj:
		return newPrimitiveColumnDefinition(name, parquet.Type_BYTE_ARRAY, nil, nil)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, typ)
}

func newPrimitiveColumnDefinition(name string, t parquet.Type, c *parquet.ConvertedType, l *parquet.LogicalType) (*parquetschema.ColumnDefinition, error) {
	return &parquetschema.ColumnDefinition{
		SchemaElement: &parquet.SchemaElement{
			Type:           parquet.TypePtr(t),
			RepetitionType: repetitionOptional,
			Name:           name,
			ConvertedType:  c,
			LogicalType:    l,
		},
	}, nil
}
