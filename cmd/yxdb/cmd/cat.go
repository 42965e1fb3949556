package cmd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/brimdata/yxdb/cli"
	"github.com/brimdata/yxdb/cli/inputflags"
	"github.com/brimdata/yxdb/cli/outputflags"
	"github.com/brimdata/yxdb/zio"
	"github.com/brimdata/yxdb/zio/anyio"
	"github.com/brimdata/yxdb/zio/yxdbio"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var catCmd = &cobra.Command{
	Use:   "cat [flags] file...",
	Short: "write the records of yxdb files",
	Long: `cat decodes each file in turn and writes its records in the format
selected by -f.

With -d, each input is written to its own file in the given directory and
inputs are decoded concurrently, up to -P at a time.  Arrow and Parquet
output to a single stream requires all inputs to share the same fields.

Example:
  yxdb cat -f csv -o sales.csv sales.yxdb
  yxdb cat -f parquet -d out/ *.yxdb`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCat,
}

var (
	catInput    inputflags.Flags
	catOutput   outputflags.Flags
	catParallel int
)

func init() {
	catInput.SetFlags(catCmd.Flags())
	catOutput.SetFlags(catCmd.Flags())
	catCmd.Flags().IntVarP(&catParallel, "parallel", "P", runtime.GOMAXPROCS(0), "number of files decoded at once with -d")
	rootCmd.AddCommand(catCmd)
}

func runCat(cmd *cobra.Command, args []string) error {
	ctx, cleanup, err := cliFlags.Init(&catInput, &catOutput)
	if err != nil {
		return err
	}
	defer cleanup()
	if err := cli.CheckInputs(args); err != nil {
		return err
	}
	opts := catInput.Options()
	opts.Logger = logger
	if catOutput.Split() {
		return catSplit(ctx, args, opts)
	}
	w, err := catOutput.Open()
	if err != nil {
		return err
	}
	for _, path := range args {
		if _, err := copyFile(ctx, w, path, opts); err != nil {
			return multierr.Append(err, w.Close())
		}
	}
	return w.Close()
}

func catSplit(ctx context.Context, paths []string, opts yxdbio.ReaderOpts) error {
	if err := checkOutputs(&catOutput, paths); err != nil {
		return err
	}
	g, ctx := errgroup.WithContext(ctx)
	if catParallel > 0 {
		g.SetLimit(catParallel)
	}
	for _, path := range paths {
		path := path
		g.Go(func() error {
			w, err := catOutput.OpenFor(path)
			if err != nil {
				return err
			}
			_, err = copyFile(ctx, w, path, opts)
			return multierr.Append(err, w.Close())
		})
	}
	return g.Wait()
}

// copyFile writes the records of the yxdb file at path to w.
func copyFile(ctx context.Context, w zio.Writer, path string, opts yxdbio.ReaderOpts) (uint64, error) {
	r, err := anyio.OpenReader(path, opts)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	n, err := zio.CopyWithContext(ctx, w, r)
	if err = multierr.Append(err, r.Close()); err != nil {
		return n, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("copied records", zap.String("path", path), zap.Uint64("records", n))
	return n, nil
}

// checkOutputs returns an error if two of paths would be written to the
// same output file.
func checkOutputs(out *outputflags.Flags, paths []string) error {
	inputs := make(map[string]string)
	for _, path := range paths {
		output := out.OutputPath(path)
		if prev, ok := inputs[output]; ok {
			return fmt.Errorf("%s and %s would both be written to %s", prev, path, output)
		}
		inputs[output] = path
	}
	return nil
}
