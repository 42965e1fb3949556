package inputflags

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (*Flags, error) {
	var f Flags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.SetFlags(fs)
	require.NoError(t, fs.Parse(args))
	return &f, f.Init()
}

func TestFlags(t *testing.T) {
	f, err := parse(t)
	require.NoError(t, err)
	assert.Equal(t, 256*1024, f.BlockSize)
	assert.Equal(t, 256*1024*1024, f.MaxBlockSize)

	f, err = parse(t, "--blocksize", "1MiB")
	require.NoError(t, err)
	assert.Equal(t, 1024*1024, f.Options().BlockSize)

	for _, args := range [][]string{
		{"--blocksize", "lots"},
		{"--blocksize", "0B"},
		{"--blocksize", "2MiB", "--maxblocksize", "1MiB"},
		{"--maxblocksize", "4GiB"},
	} {
		_, err := parse(t, args...)
		assert.Error(t, err, args)
	}
}
