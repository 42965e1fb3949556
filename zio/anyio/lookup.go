package anyio

import (
	"fmt"
	"io"

	"github.com/brimdata/yxdb/zio"
	"github.com/brimdata/yxdb/zio/arrowio"
	"github.com/brimdata/yxdb/zio/csvio"
	"github.com/brimdata/yxdb/zio/jsonio"
	"github.com/brimdata/yxdb/zio/parquetio"
	"github.com/brimdata/yxdb/zio/tableio"
	"golang.org/x/exp/slices"
)

// Formats lists the output formats accepted by NewWriter.
var Formats = []string{"arrows", "csv", "json", "parquet", "table"}

type WriterOpts struct {
	Format string
	JSON   jsonio.WriterOpts
}

func NewWriter(w io.WriteCloser, opts WriterOpts) (zio.WriteCloser, error) {
	switch opts.Format {
	case "arrows":
		return arrowio.NewWriter(w), nil
	case "csv":
		return csvio.NewWriter(w), nil
	case "json":
		return jsonio.NewWriter(w, opts.JSON), nil
	case "parquet":
		return parquetio.NewWriter(w), nil
	case "table":
		return tableio.NewWriter(w), nil
	}
	return nil, fmt.Errorf("unknown format: %q", opts.Format)
}

// IsFormat reports whether format names an output format.
func IsFormat(format string) bool {
	return slices.Contains(Formats, format)
}
