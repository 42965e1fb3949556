package yxdbio

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// rawBlock frames b as a block stored as is.
func rawBlock(b []byte) []byte {
	out := binary.LittleEndian.AppendUint32(nil, uint32(len(b))|rawFlag)
	return append(out, b...)
}

// lzfBlock frames b as a compressed block made only of literal runs.
func lzfBlock(b []byte) []byte {
	var z []byte
	for len(b) > 0 {
		n := len(b)
		if n > 32 {
			n = 32
		}
		z = append(z, byte(n-1))
		z = append(z, b[:n]...)
		b = b[n:]
	}
	out := binary.LittleEndian.AppendUint32(nil, uint32(len(z)))
	return append(out, z...)
}

// segment splits stream into blocks of the given sizes, cycling through
// sizes and alternating between compressed and raw blocks.
// repeatBlock frames a compressed block of 8 bytes that decodes to 300
// copies of b: a one byte literal followed by two overlapping
// back-references of 264 and 35 bytes.
func repeatBlock(b byte) []byte {
	z := []byte{0, b, 7 << 5, 255, 0, 7 << 5, 26, 0}
	out := binary.LittleEndian.AppendUint32(nil, uint32(len(z)))
	return append(out, z...)
}

func segment(stream []byte, sizes ...int) []byte {
	var out []byte
	for i := 0; len(stream) > 0; i++ {
		n := sizes[i%len(sizes)]
		if n > len(stream) {
			n = len(stream)
		}
		if i%2 == 0 {
			out = append(out, lzfBlock(stream[:n])...)
		} else {
			out = append(out, rawBlock(stream[:n])...)
		}
		stream = stream[n:]
	}
	return out
}

// varRecord appends the variable tail to the fixed part of a record.
func varRecord(fixed, tail []byte) []byte {
	rec := append([]byte{}, fixed...)
	rec = binary.LittleEndian.AppendUint32(rec, uint32(len(tail)))
	return append(rec, tail...)
}

func encodeUTF16(t testing.TB, s string) []byte {
	b, err := utf16le.NewEncoder().Bytes([]byte(s))
	require.NoError(t, err)
	return b
}

func buildHeader(fileType string, metaInfoSize int, n uint64) []byte {
	b := make([]byte, HeaderSize)
	copy(b, fileType)
	binary.LittleEndian.PutUint32(b[metaInfoSizeOff:], uint32(metaInfoSize))
	binary.LittleEndian.PutUint64(b[numRecordsOff:], n)
	return b
}

// buildFile returns a complete yxdb file with the given meta info, record
// count and already framed blocks.
func buildFile(t testing.TB, metaInfo string, n uint64, blocks []byte) []byte {
	meta := append(encodeUTF16(t, metaInfo), 0, 0)
	out := buildHeader("Alteryx Database File", len(meta)/2, n)
	out = append(out, meta...)
	return append(out, blocks...)
}

type trackingCloser struct {
	io.Reader
	closes int
}

func newTrackingCloser(b []byte) *trackingCloser {
	return &trackingCloser{Reader: bytes.NewReader(b)}
}

func (c *trackingCloser) Close() error {
	c.closes++
	return nil
}
