// Package cli holds the flags and setup shared by the yxdb commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"

	"github.com/spf13/pflag"
)

type Flags struct {
	cpuprofile string
	profile    *os.File
}

func (f *Flags) SetFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.cpuprofile, "cpuprofile", "", "write cpu profile to given file name")
}

// Initializer is a flag group whose values are checked and derived after
// parsing.
type Initializer interface {
	Init() error
}

// Init calls Init on each flag group, stopping at the first error, and
// starts any requested profile.  The returned context is canceled on
// SIGINT or SIGTERM.  The returned function releases the context and
// stops the profile and must be called before the command returns.
func (f *Flags) Init(all ...Initializer) (context.Context, context.CancelFunc, error) {
	for _, flags := range all {
		if err := flags.Init(); err != nil {
			return nil, nil, err
		}
	}
	if f.cpuprofile != "" {
		if err := f.startProfile(); err != nil {
			return nil, nil, err
		}
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return ctx, func() {
		cancel()
		f.stopProfile()
	}, nil
}

func (f *Flags) startProfile() error {
	file, err := os.Create(f.cpuprofile)
	if err != nil {
		return fmt.Errorf("-cpuprofile: %w", err)
	}
	if err := pprof.StartCPUProfile(file); err != nil {
		file.Close()
		return fmt.Errorf("-cpuprofile: %w", err)
	}
	f.profile = file
	return nil
}

func (f *Flags) stopProfile() {
	if f.profile != nil {
		pprof.StopCPUProfile()
		f.profile.Close()
		f.profile = nil
	}
}

// FileExists reports whether path names a regular file or is "-" for
// standard input.
func FileExists(path string) bool {
	if path == "-" {
		return true
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// CheckInputs returns an error naming the first of paths that is not an
// existing file.
func CheckInputs(paths []string) error {
	for _, path := range paths {
		if !FileExists(path) {
			return fmt.Errorf("%s: file does not exist", path)
		}
	}
	return nil
}
