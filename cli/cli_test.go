package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type initFunc func() error

func (f initFunc) Init() error { return f() }

func TestInit(t *testing.T) {
	var f Flags
	var calls int
	ok := initFunc(func() error { calls++; return nil })
	bad := initFunc(func() error { return errors.New("bad flag") })

	_, _, err := f.Init(ok, bad, ok)
	assert.EqualError(t, err, "bad flag")
	assert.Equal(t, 1, calls)

	ctx, cleanup, err := f.Init(ok)
	require.NoError(t, err)
	assert.NoError(t, ctx.Err())
	cleanup()
	assert.Error(t, ctx.Err())
}

func TestCPUProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpu.prof")
	var f Flags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.SetFlags(fs)
	require.NoError(t, fs.Parse([]string{"--cpuprofile", path}))
	_, cleanup, err := f.Init()
	require.NoError(t, err)
	cleanup()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestCheckInputs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.yxdb")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	assert.NoError(t, CheckInputs([]string{path, "-"}))
	assert.Error(t, CheckInputs([]string{path, dir}))
	err := CheckInputs([]string{filepath.Join(dir, "missing.yxdb")})
	assert.ErrorContains(t, err, "missing.yxdb")
}
