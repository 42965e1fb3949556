package jsonio

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/brimdata/yxdb/pkg/spatial"
	"github.com/brimdata/yxdb/zio"
	"github.com/brimdata/yxdb/zio/yxdbio"
)

type WriterOpts struct {
	// GeoJSON writes SpatialObj values as GeoJSON geometry objects
	// rather than as base64 strings.
	GeoJSON bool
}

// Writer writes each record as a JSON object on its own line with the
// keys in field order.
type Writer struct {
	writer io.WriteCloser
	opts   WriterOpts
	buf    bytes.Buffer
}

func NewWriter(wc io.WriteCloser, opts WriterOpts) *Writer {
	return &Writer{
		writer: wc,
		opts:   opts,
	}
}

func (w *Writer) Write(rec zio.Record) error {
	w.buf.Reset()
	w.buf.WriteByte('{')
	for i, f := range rec.Fields() {
		if i > 0 {
			w.buf.WriteByte(',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return err
		}
		w.buf.Write(name)
		w.buf.WriteByte(':')
		v, err := rec.Value(i)
		if err != nil {
			return err
		}
		b, err := w.marshal(f, v)
		if err != nil {
			return err
		}
		w.buf.Write(b)
	}
	w.buf.WriteString("}\n")
	_, err := w.writer.Write(w.buf.Bytes())
	return err
}

func (w *Writer) marshal(f yxdbio.Field, v any) ([]byte, error) {
	switch v := v.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return json.Marshal(strconv.FormatFloat(v, 'g', -1, 64))
		}
	case time.Time:
		return json.Marshal(zio.FormatTime(f, v))
	case []byte:
		if f.Type == yxdbio.TypeSpatialObj && w.opts.GeoJSON {
			if len(v) == 0 {
				return []byte("null"), nil
			}
			g, err := spatial.Decode(v)
			if err != nil {
				return nil, err
			}
			return json.Marshal(g)
		}
	}
	return json.Marshal(v)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}
