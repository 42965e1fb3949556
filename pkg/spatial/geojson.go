// Package spatial translates the binary SpatialObj values of yxdb files
// into GeoJSON geometries.
//
// A spatial object starts with a 32-bit object type.  Point objects hold a
// point count at offset 36 followed, from offset 40, by 16-byte points,
// each a longitude and a latitude.  Line and polygon objects hold a part
// count at offset 36, a 64-bit total point count at offset 40 and, from
// offset 48, the index of the first point of every part after the first,
// followed by the points themselves.
package spatial

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var ErrNotSpatial = errors.New("spatial: not a spatial object")

const (
	minSize       = 20
	bytesPerPoint = 16

	objPoints   = 8
	objLines    = 3
	objPolygons = 5

	countOff  = 36
	pointsOff = 40
	partsOff  = 48
)

// Point is a longitude and a latitude.
type Point [2]float64

// Geometry is a GeoJSON geometry object.  Coordinates is a Point, a
// []Point, a [][]Point or a [][][]Point depending on Type.
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// Decode returns the geometry of a spatial object.
func Decode(b []byte) (*Geometry, error) {
	if len(b) < minSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrNotSpatial, len(b))
	}
	switch typ := binary.LittleEndian.Uint32(b); typ {
	case objPoints:
		return decodePoints(b)
	case objLines:
		lines, err := decodeParts(b)
		if err != nil {
			return nil, err
		}
		if len(lines) == 1 {
			return &Geometry{"LineString", lines[0]}, nil
		}
		return &Geometry{"MultiLineString", lines}, nil
	case objPolygons:
		rings, err := decodeParts(b)
		if err != nil {
			return nil, err
		}
		if len(rings) == 1 {
			return &Geometry{"Polygon", rings}, nil
		}
		// Every ring belongs to a single polygon.
		return &Geometry{"MultiPolygon", [][][]Point{rings}}, nil
	default:
		return nil, fmt.Errorf("%w: object type %d", ErrNotSpatial, typ)
	}
}

// ToGeoJSON returns the GeoJSON text of a spatial object.  A nil value,
// as read from a null field, yields an empty string.
func ToGeoJSON(b []byte) (string, error) {
	if b == nil {
		return "", nil
	}
	g, err := Decode(b)
	if err != nil {
		return "", err
	}
	out, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotSpatial, err)
	}
	return string(out), nil
}

func decodePoints(b []byte) (*Geometry, error) {
	n, err := uint32At(b, countOff)
	if err != nil {
		return nil, err
	}
	if n == 1 {
		p, err := pointAt(b, pointsOff)
		if err != nil {
			return nil, err
		}
		return &Geometry{"Point", p}, nil
	}
	var points []Point
	for off := pointsOff; off < len(b); off += bytesPerPoint {
		p, err := pointAt(b, off)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return &Geometry{"MultiPoint", points}, nil
}

func decodeParts(b []byte) ([][]Point, error) {
	v, err := uint32At(b, countOff)
	if err != nil {
		return nil, err
	}
	nparts := int(int32(v))
	if nparts < 1 || partsOff+(nparts-1)*4 > len(b) {
		return nil, fmt.Errorf("%w: %d parts in %d bytes", ErrNotSpatial, nparts, len(b))
	}
	total := int64(binary.LittleEndian.Uint64(b[pointsOff:]))
	if total < 0 || total > int64(len(b)/bytesPerPoint) {
		return nil, fmt.Errorf("%w: %d points in %d bytes", ErrNotSpatial, total, len(b))
	}
	start := partsOff + (nparts-1)*4
	ends := make([]int, nparts)
	for j := 0; j < nparts-1; j++ {
		first := int(int32(binary.LittleEndian.Uint32(b[partsOff+j*4:])))
		ends[j] = first*bytesPerPoint + start
	}
	ends[nparts-1] = int(total)*bytesPerPoint + start
	parts := make([][]Point, 0, nparts)
	off := start
	for _, end := range ends {
		part := []Point{}
		for ; off < end; off += bytesPerPoint {
			p, err := pointAt(b, off)
			if err != nil {
				return nil, err
			}
			part = append(part, p)
		}
		parts = append(parts, part)
	}
	return parts, nil
}

func uint32At(b []byte, off int) (uint32, error) {
	if off+4 > len(b) {
		return 0, fmt.Errorf("%w: offset %d outside %d bytes", ErrNotSpatial, off, len(b))
	}
	return binary.LittleEndian.Uint32(b[off:]), nil
}

func pointAt(b []byte, off int) (Point, error) {
	if off+bytesPerPoint > len(b) {
		return Point{}, fmt.Errorf("%w: point at %d outside %d bytes", ErrNotSpatial, off, len(b))
	}
	lng := math.Float64frombits(binary.LittleEndian.Uint64(b[off:]))
	lat := math.Float64frombits(binary.LittleEndian.Uint64(b[off+8:]))
	return Point{lng, lat}, nil
}
