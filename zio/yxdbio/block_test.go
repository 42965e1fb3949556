package yxdbio

import (
	"bytes"
	"io"
	"testing"

	"github.com/brimdata/yxdb/pkg/lzf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func newTestSource(t *testing.T, stream []byte, opts ReaderOpts) (*blockSource, *trackingCloser) {
	if opts.Logger == nil {
		opts.Logger = zaptest.NewLogger(t)
	}
	c := newTrackingCloser(stream)
	return newBlockSource(c, c, opts.withDefaults()), c
}

func TestBlockSourceRawAndCompressed(t *testing.T) {
	var stream []byte
	stream = append(stream, rawBlock([]byte("hello"))...)
	stream = append(stream, lzfBlock([]byte("compressed world"))...)
	stream = append(stream, rawBlock(nil)...)
	stream = append(stream, lzfBlock(bytes.Repeat([]byte{9}, 100))...)
	s, _ := newTestSource(t, stream, ReaderOpts{})

	for _, want := range [][]byte{
		[]byte("hello"),
		[]byte("compressed world"),
		{},
		bytes.Repeat([]byte{9}, 100),
	} {
		b, err := s.next()
		require.NoError(t, err)
		assert.Equal(t, want, b)
	}
	_, err := s.next()
	assert.Equal(t, io.EOF, err)
	_, err = s.next()
	assert.Equal(t, io.EOF, err)
}

func TestBlockSourceTruncatedPrefix(t *testing.T) {
	stream := append(rawBlock([]byte("ok")), 1, 2)
	s, _ := newTestSource(t, stream, ReaderOpts{})
	_, err := s.next()
	require.NoError(t, err)
	_, err = s.next()
	assert.ErrorIs(t, err, ErrTruncatedStream)
}

func TestBlockSourceTooLarge(t *testing.T) {
	s, _ := newTestSource(t, rawBlock(make([]byte, 17)), ReaderOpts{MaxBlockSize: 16})
	_, err := s.next()
	assert.ErrorIs(t, err, ErrBlockTooLarge)

	s, _ = newTestSource(t, lzfBlock(make([]byte, 40)), ReaderOpts{MaxBlockSize: 16})
	_, err = s.next()
	assert.ErrorIs(t, err, ErrBlockTooLarge)
}

func TestBlockSourceGrowth(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	payload := bytes.Repeat([]byte("abcdefgh"), 20)
	block := lzfBlock(payload)
	count := len(block) - 4
	s, _ := newTestSource(t, block, ReaderOpts{BlockSize: 64, Logger: zap.New(core)})

	b, err := s.next()
	require.NoError(t, err)
	assert.Equal(t, payload, b)
	assert.Len(t, s.zbuf, count+blockSlack)
	assert.Len(t, s.ubuf, count*growthFactor)
	assert.Equal(t, 1, logs.FilterMessage("growing block buffers").Len())
}

func TestBlockSourceRawGrowth(t *testing.T) {
	payload := bytes.Repeat([]byte{1}, 100)
	s, _ := newTestSource(t, rawBlock(payload), ReaderOpts{BlockSize: 64})
	b, err := s.next()
	require.NoError(t, err)
	assert.Equal(t, payload, b)
	assert.Len(t, s.ubuf, 200)
	assert.Len(t, s.zbuf, 64)
}

func TestBlockSourceDecodedGrowth(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s, _ := newTestSource(t, repeatBlock(0xaa), ReaderOpts{BlockSize: 64, Logger: zap.New(core)})
	b, err := s.next()
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0xaa}, 300), b)
	assert.Len(t, s.ubuf, 512)
	assert.Equal(t, 3, logs.FilterMessage("growing block buffers").Len())
}

func TestBlockSourceDecodedOverflow(t *testing.T) {
	s, _ := newTestSource(t, repeatBlock(0xaa), ReaderOpts{BlockSize: 64, MaxBlockSize: 200})
	_, err := s.next()
	assert.ErrorIs(t, err, lzf.ErrBufferTooSmall)
	assert.Len(t, s.ubuf, 200)
}

func TestBlockSourceShortPayload(t *testing.T) {
	stream := rawBlock([]byte("0123456789"))[:4+6]
	s, _ := newTestSource(t, stream, ReaderOpts{})
	b, err := s.next()
	require.NoError(t, err)
	assert.Equal(t, []byte("012345"), b)
	_, err = s.next()
	assert.Equal(t, io.EOF, err)

	// The second literal run is cut short and is dropped.
	payload := bytes.Repeat([]byte("0123456789"), 4)
	stream = lzfBlock(payload)
	s, _ = newTestSource(t, stream[:len(stream)-3], ReaderOpts{})
	b, err = s.next()
	require.NoError(t, err)
	assert.Equal(t, payload[:32], b)
	_, err = s.next()
	assert.Equal(t, io.EOF, err)
}

func TestBlockSourceCorruptBlock(t *testing.T) {
	// A back-reference as the first operation points before the output.
	stream := []byte{2, 0, 0, 0, 32, 0}
	s, _ := newTestSource(t, stream, ReaderOpts{})
	_, err := s.next()
	assert.ErrorIs(t, err, lzf.ErrCorrupt)
}

func TestBlockSourceClose(t *testing.T) {
	s, c := newTestSource(t, rawBlock([]byte("x")), ReaderOpts{})
	require.NoError(t, s.close())
	require.NoError(t, s.close())
	assert.Equal(t, 1, c.closes)
	_, err := s.next()
	assert.ErrorIs(t, err, ErrClosed)
}
