package parquetio

import (
	"fmt"
	"time"

	"github.com/brimdata/yxdb/zio"
	"github.com/brimdata/yxdb/zio/yxdbio"
)

const secondsPerDay = 24 * 60 * 60

func newRecordData(rec zio.Record) (map[string]interface{}, error) {
	m := make(map[string]interface{})
	for i, f := range rec.Fields() {
		v, err := rec.Value(i)
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}
		d, err := newData(f, v)
		if err != nil {
			return nil, err
		}
		m[f.Name] = d
	}
	return m, nil
}

func newData(f yxdbio.Field, v any) (interface{}, error) {
	switch v := v.(type) {
	case bool:
		return v, nil
	case uint8:
		return int32(v), nil
	case int64:
		if f.Type == yxdbio.TypeInt64 {
			return v, nil
		}
		return int32(v), nil
	case float64:
		if f.Type == yxdbio.TypeFloat {
			return float32(v), nil
		}
		return v, nil
	case string:
		return []byte(v), nil
	case time.Time:
		if f.Type == yxdbio.TypeDate {
			return int32(v.Unix() / secondsPerDay), nil
		}
		return v.UnixMicro(), nil
	case []byte:
		return v, nil
	}
	return nil, fmt.Errorf("%w: field %q holds %T", ErrUnsupportedType, f.Name, v)
}
