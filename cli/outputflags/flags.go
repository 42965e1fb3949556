package outputflags

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brimdata/yxdb/zio"
	"github.com/brimdata/yxdb/zio/anyio"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"
	"golang.org/x/term"
)

type Flags struct {
	anyio.WriterOpts
	DefaultFormat string
	outputFile    string
	outputDir     string
}

func (f *Flags) Options() anyio.WriterOpts {
	return f.WriterOpts
}

func (f *Flags) SetFlags(fs *pflag.FlagSet) {
	if f.DefaultFormat == "" {
		f.DefaultFormat = "json"
		if term.IsTerminal(int(os.Stdout.Fd())) {
			f.DefaultFormat = "table"
		}
	}
	fs.StringVarP(&f.Format, "format", "f", f.DefaultFormat, "format for output data ["+strings.Join(anyio.Formats, ",")+"]")
	fs.StringVarP(&f.outputFile, "output", "o", "", "write data to output file")
	fs.StringVarP(&f.outputDir, "dir", "d", "", "write one output file per input file in this directory")
	fs.BoolVar(&f.JSON.GeoJSON, "geojson", false, "write spatial objects as GeoJSON in json output")
}

func (f *Flags) Init() error {
	if !anyio.IsFormat(f.Format) {
		return fmt.Errorf("unknown output format %q", f.Format)
	}
	if f.outputFile == "-" {
		f.outputFile = ""
	}
	if f.outputFile != "" && f.outputDir != "" {
		return errors.New("cannot use -o with -d")
	}
	return nil
}

// Split reports whether each input gets its own output file.
func (f *Flags) Split() bool {
	return f.outputDir != ""
}

func (f *Flags) FileName() string {
	return f.outputFile
}

// Open returns the writer for the single output stream, which is
// standard output unless -o was given.
func (f *Flags) Open() (zio.WriteCloser, error) {
	if f.outputFile == "" {
		return anyio.NewWriter(zio.NopCloser(os.Stdout), f.WriterOpts)
	}
	return f.create(f.outputFile)
}

// OpenFor returns the writer for input path when Split is true.  The
// output takes the base name of path with its extensions replaced by
// that of the output format.
func (f *Flags) OpenFor(path string) (zio.WriteCloser, error) {
	if err := os.MkdirAll(f.outputDir, 0755); err != nil {
		return nil, err
	}
	return f.create(f.OutputPath(path))
}

func (f *Flags) OutputPath(path string) string {
	base := filepath.Base(path)
	if path == "-" {
		base = "stdin"
	}
	if i := strings.IndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return filepath.Join(f.outputDir, base+zio.Extension(f.Format))
}

func (f *Flags) create(path string) (zio.WriteCloser, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w, err := anyio.NewWriter(&bufferedFile{bufio.NewWriter(file), file}, f.WriterOpts)
	if err != nil {
		return nil, multierr.Append(err, file.Close())
	}
	return w, nil
}

type bufferedFile struct {
	*bufio.Writer
	file *os.File
}

func (b *bufferedFile) Close() error {
	return multierr.Append(b.Flush(), b.file.Close())
}
