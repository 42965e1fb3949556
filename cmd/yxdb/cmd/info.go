package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/brimdata/yxdb/cli"
	"github.com/brimdata/yxdb/cli/inputflags"
	"github.com/brimdata/yxdb/zio/anyio"
	"github.com/brimdata/yxdb/zio/yxdbio"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

var infoCmd = &cobra.Command{
	Use:   "info [flags] file...",
	Short: "describe the header and fields of yxdb files",
	Long: `info prints the file type, record count and field layout of each file.

With --check, every record is decoded and the number read is reported.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

var (
	infoInput    inputflags.Flags
	infoCheck    bool
	infoMeta     bool
	infoParallel int
)

func init() {
	infoInput.SetFlags(infoCmd.Flags())
	infoCmd.Flags().BoolVar(&infoCheck, "check", false, "decode every record")
	infoCmd.Flags().BoolVar(&infoMeta, "meta", false, "print the raw meta info XML")
	infoCmd.Flags().IntVarP(&infoParallel, "parallel", "P", 4, "number of files examined at once")
	rootCmd.AddCommand(infoCmd)
}

type fileInfo struct {
	path     string
	header   yxdbio.Header
	metaInfo string
	layout   *yxdbio.Layout
	// checked is the number of records decoded, or -1 if none were.
	checked int64
}

func runInfo(cmd *cobra.Command, args []string) error {
	ctx, cleanup, err := cliFlags.Init(&infoInput)
	if err != nil {
		return err
	}
	defer cleanup()
	if err := cli.CheckInputs(args); err != nil {
		return err
	}
	opts := infoInput.Options()
	opts.Logger = logger
	infos := make([]*fileInfo, len(args))
	g, ctx := errgroup.WithContext(ctx)
	if infoParallel > 0 {
		g.SetLimit(infoParallel)
	}
	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			info, err := examine(ctx, path, opts, infoCheck)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			infos[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, info := range infos {
		describe(os.Stdout, info, infoMeta)
	}
	return nil
}

func examine(ctx context.Context, path string, opts yxdbio.ReaderOpts, check bool) (*fileInfo, error) {
	r, err := anyio.OpenReader(path, opts)
	if err != nil {
		return nil, err
	}
	info := &fileInfo{
		path:     path,
		header:   r.Header(),
		metaInfo: r.MetaInfo(),
		layout:   r.Layout(),
		checked:  -1,
	}
	if check {
		err = drain(ctx, r)
		info.checked = int64(r.RecordsRead())
	}
	if err = multierr.Append(err, r.Close()); err != nil {
		return nil, err
	}
	return info, nil
}

func drain(ctx context.Context, r *yxdbio.Reader) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ok, err := r.Next()
		if err != nil || !ok {
			return err
		}
	}
}

func describe(w io.Writer, info *fileInfo, meta bool) {
	fmt.Fprintf(w, "%s:\n", info.path)
	fmt.Fprintf(w, "  file type: %s\n", info.header.FileType)
	fmt.Fprintf(w, "  records: %d\n", info.header.NumRecords)
	if info.checked >= 0 {
		fmt.Fprintf(w, "  records decoded: %d\n", info.checked)
	}
	fmt.Fprintf(w, "  fixed size: %d\n", info.layout.FixedSize())
	fmt.Fprintf(w, "  variable data: %t\n", info.layout.HasVar())
	fmt.Fprintf(w, "  fields:\n")
	for _, f := range info.layout.Fields() {
		fmt.Fprintf(w, "    %s %s", f.Name, f.Type)
		switch f.Type {
		case yxdbio.TypeFixedDecimal:
			fmt.Fprintf(w, "(%d,%d)", f.Size, f.Scale)
		case yxdbio.TypeString, yxdbio.TypeWString:
			fmt.Fprintf(w, "(%d)", f.Size)
		}
		fmt.Fprintf(w, " @%d\n", f.Offset)
	}
	if meta {
		fmt.Fprintf(w, "  meta info:\n%s\n", info.metaInfo)
	}
}
