package yxdbio

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadMetaInfo reads the meta info that follows the header, returning its
// XML text and the fields of its first RecordInfo element.
func ReadMetaInfo(r io.Reader, h Header) (string, []Field, error) {
	b := make([]byte, h.MetaInfoSize*2)
	if _, err := io.ReadFull(r, b); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return "", nil, fmt.Errorf("%w: meta info shorter than %d bytes", ErrBadSchema, len(b))
		}
		return "", nil, err
	}
	// Drop the terminating NUL.
	text, err := decodeUTF16(b[:len(b)-2])
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s", ErrBadSchema, err)
	}
	fields, err := ParseMetaInfo(text)
	if err != nil {
		return "", nil, err
	}
	return text, fields, nil
}

// ParseMetaInfo returns the fields, in order, of the first RecordInfo
// element in the XML text s.
func ParseMetaInfo(s string) ([]Field, error) {
	dec := xml.NewDecoder(strings.NewReader(s))
	// The text has already been transcoded from UTF-16 so any encoding
	// named in an XML declaration is ignored.
	dec.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) {
		return r, nil
	}
	var inRecordInfo bool
	var depth int
	var fields []Field
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrBadSchema, err)
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			if !inRecordInfo {
				if tok.Name.Local == "RecordInfo" {
					inRecordInfo = true
					depth = 0
				}
				continue
			}
			depth++
			if depth == 1 && tok.Name.Local == "Field" {
				f, err := parseField(tok.Attr)
				if err != nil {
					return nil, err
				}
				fields = append(fields, f)
			}
		case xml.EndElement:
			if !inRecordInfo {
				continue
			}
			if depth == 0 {
				return fields, nil
			}
			depth--
		}
	}
	if !inRecordInfo {
		return nil, fmt.Errorf("%w: no RecordInfo element", ErrBadSchema)
	}
	return nil, fmt.Errorf("%w: unterminated RecordInfo element", ErrBadSchema)
}

func parseField(attrs []xml.Attr) (Field, error) {
	lookup := func(key string) (string, bool) {
		for _, a := range attrs {
			if a.Name.Local == key {
				return a.Value, true
			}
		}
		return "", false
	}
	name, ok := lookup("name")
	if !ok {
		return Field{}, fmt.Errorf("%w: field without a name", ErrBadSchema)
	}
	typeName, ok := lookup("type")
	if !ok {
		return Field{}, fmt.Errorf("%w: field %q without a type", ErrBadSchema, name)
	}
	typ, err := ParseType(typeName)
	if err != nil {
		return Field{}, fmt.Errorf("field %q: %w", name, err)
	}
	f := Field{Name: name, Type: typ}
	intAttr := func(key string) (int, error) {
		s, ok := lookup(key)
		if !ok {
			return 0, fmt.Errorf("%w: %s field %q has no %s", ErrBadSchema, typ, name, key)
		}
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || v < 0 {
			return 0, fmt.Errorf("%w: %s field %q has bad %s %q", ErrBadSchema, typ, name, key, s)
		}
		return v, nil
	}
	switch typ {
	case TypeFixedDecimal:
		if f.Size, err = intAttr("size"); err != nil {
			return Field{}, err
		}
		if f.Scale, err = intAttr("scale"); err != nil {
			return Field{}, err
		}
	case TypeString, TypeWString:
		if f.Size, err = intAttr("size"); err != nil {
			return Field{}, err
		}
	default:
		f.Size = declaredSize(typ)
	}
	return f, nil
}

// declaredSize is the size reported for types whose size attribute, if
// any, is not meaningful.
func declaredSize(t Type) int {
	switch t {
	case TypeBool, TypeByte:
		return 1
	case TypeInt16:
		return 2
	case TypeInt32, TypeFloat:
		return 4
	case TypeInt64, TypeDouble:
		return 8
	case TypeDate:
		return dateLen
	case TypeDateTime:
		return dateTimeLen
	}
	return 4
}
