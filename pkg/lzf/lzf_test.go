package lzf

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyInput(t *testing.T) {
	n, err := Decompress(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestLiteralRun(t *testing.T) {
	out := make([]byte, 5)
	n, err := Decompress([]byte{4, 1, 2, 3, 4, 5}, out)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, out)
}

func TestMultipleLiteralRuns(t *testing.T) {
	out := make([]byte, 5)
	n, err := Decompress([]byte{2, 25, 30, 1, 1, 99, 22}, out)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []byte{25, 30, 1, 99, 22}, out)
}

func TestBackReference(t *testing.T) {
	out := make([]byte, 6)
	n, err := Decompress([]byte{2, 25, 30, 1, 32, 2}, out)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, []byte{25, 30, 1, 25, 30, 1}, out)
}

func TestExtendedOverlappingBackReference(t *testing.T) {
	in := []byte{8, 1, 2, 3, 4, 5, 6, 7, 8, 9, 224, 1, 8}
	out := make([]byte, 19)
	n, err := Decompress(in, out)
	require.NoError(t, err)
	assert.Equal(t, 19, n)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 1, 2, 3, 4, 5, 6, 7, 8, 9, 1}, out)
}

func TestBufferTooSmall(t *testing.T) {
	in := []byte{8, 1, 2, 3, 4, 5, 6, 7, 8, 9, 224, 1, 8}
	_, err := Decompress(in, make([]byte, 17))
	assert.ErrorIs(t, err, ErrBufferTooSmall)

	_, err = Decompress([]byte{0, 25}, nil)
	assert.ErrorIs(t, err, ErrBufferTooSmall)
}

func TestCorruptInput(t *testing.T) {
	cases := map[string][]byte{
		"truncated literal":       {5, 1, 2},
		"missing offset byte":     {0, 1, 32},
		"missing length byte":     {0, 1, 224},
		"reference before output": {32, 5},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decompress(in, make([]byte, 300))
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	random := make([]byte, 10000)
	rng.Read(random)
	inputs := map[string][]byte{
		"text":     []byte("the quick brown fox jumps over the lazy dog, the quick brown fox jumps again"),
		"zeros":    make([]byte, 70000),
		"pattern":  bytes.Repeat([]byte{1, 2, 3, 4, 5, 6, 7}, 5000),
		"random":   random,
		"single":   {42},
		"longruns": append(bytes.Repeat([]byte("a"), 600), bytes.Repeat([]byte("ab"), 400)...),
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			compressed := compress(in)
			out := make([]byte, len(in))
			n, err := Decompress(compressed, out)
			require.NoError(t, err)
			require.Equal(t, len(in), n)
			assert.Equal(t, in, out)
		})
	}
}

func TestDecompressorReuse(t *testing.T) {
	first := bytes.Repeat([]byte("yxdb"), 300)
	second := []byte("a completely different and much shorter input")
	var d Decompressor

	out := make([]byte, len(first))
	n, err := d.Decompress(compress(first), out)
	require.NoError(t, err)
	assert.Equal(t, first, out[:n])

	out = make([]byte, len(second))
	n, err = d.Decompress(compress(second), out)
	require.NoError(t, err)
	assert.Equal(t, second, out[:n])
}

// compress is a greedy reference encoder producing streams that use literal
// runs, short back-references and length-extended back-references.
func compress(in []byte) []byte {
	var out, lit []byte
	flush := func() {
		for len(lit) > 0 {
			n := len(lit)
			if n > 32 {
				n = 32
			}
			out = append(out, byte(n-1))
			out = append(out, lit[:n]...)
			lit = lit[n:]
		}
		lit = nil
	}
	table := make(map[uint32]int)
	for i := 0; i < len(in); {
		if i+2 < len(in) {
			key := uint32(in[i])<<16 | uint32(in[i+1])<<8 | uint32(in[i+2])
			ref, ok := table[key]
			table[key] = i
			if off := i - ref - 1; ok && off < 8192 {
				max := 7 + 255 + 2
				var l int
				for l < max && i+l < len(in) && in[ref+l] == in[i+l] {
					l++
				}
				if l >= 3 {
					flush()
					n := l - 2
					if n < 7 {
						out = append(out, byte(n<<5|off>>8))
					} else {
						out = append(out, byte(7<<5|off>>8), byte(n-7))
					}
					out = append(out, byte(off))
					i += l
					continue
				}
			}
		}
		lit = append(lit, in[i])
		i++
	}
	flush()
	return out
}
