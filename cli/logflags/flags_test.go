package logflags

import (
	"testing"

	"github.com/brimdata/yxdb/pkg/logger"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFlags(t *testing.T) {
	var f Flags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.SetFlags(fs)
	assert.Equal(t, zap.WarnLevel, f.Config.Level)
	require.NoError(t, fs.Parse([]string{"--log.level=debug", "--log.filemode=append", "--log.path=stdout"}))
	assert.Equal(t, zap.DebugLevel, f.Config.Level)
	assert.Equal(t, logger.FileModeAppend, f.Config.Mode)
	assert.Equal(t, "stdout", f.Config.Path)
	assert.Error(t, fs.Parse([]string{"--log.level=loud"}))
}
