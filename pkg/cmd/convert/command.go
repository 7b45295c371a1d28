package convert

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/birdayz/textcodec/pkg/app"
	"github.com/birdayz/textcodec/pkg/codec"
)

type options struct {
	from, to codec.Encoding
	mode     codec.ErrorMode
	outDir   string
	suffix   string
}

// destination returns where the converted copy of path goes.
func (o options) destination(path string) string {
	suffix := o.suffix
	if suffix == "" && o.outDir == "" {
		suffix = "." + o.to.String()
	}
	if o.outDir != "" {
		return filepath.Join(o.outDir, filepath.Base(path)+suffix)
	}
	return path + suffix
}

// job is one source file and the path its converted copy is written to.
type job struct {
	src, dst string
}

// canonical resolves path to an absolute path with symlinks followed. Parts
// that do not exist yet are joined onto their nearest existing ancestor.
func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	rest := ""
	for dir := abs; ; {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			return filepath.Join(resolved, rest), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		rest = filepath.Join(filepath.Base(dir), rest)
		dir = parent
	}
}

// plan maps every source to its destination. It fails when two sources share
// a destination or a destination is itself one of the sources.
func (o options) plan(paths []string) ([]job, error) {
	sources := make(map[string]string, len(paths))
	for _, path := range paths {
		key, err := canonical(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if prev, ok := sources[key]; ok {
			return nil, fmt.Errorf("%s and %s are the same file", prev, path)
		}
		sources[key] = path
	}

	jobs := make([]job, 0, len(paths))
	targets := make(map[string]string, len(paths))
	for _, path := range paths {
		dst := o.destination(path)
		key, err := canonical(dst)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", dst, err)
		}
		if src, ok := sources[key]; ok {
			return nil, fmt.Errorf("%s: destination %s is an input file", path, src)
		}
		if prev, ok := targets[key]; ok {
			return nil, fmt.Errorf("%s and %s would both be written to %s", prev, path, dst)
		}
		targets[key] = path
		jobs = append(jobs, job{src: path, dst: dst})
	}
	return jobs, nil
}

// sameFile reports whether src and dst name the same file on disk.
func sameFile(src, dst string) (bool, error) {
	srcAbs, err := canonical(src)
	if err != nil {
		return false, err
	}
	dstAbs, err := canonical(dst)
	if err != nil {
		return false, err
	}
	if srcAbs == dstAbs {
		return true, nil
	}

	dstInfo, err := os.Stat(dst)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, err
	}
	return os.SameFile(srcInfo, dstInfo), nil
}

// convertFile transcodes src into dst and returns the number of bytes read
// and written.
func convertFile(src, dst string, o options) (int, int, error) {
	same, err := sameFile(src, dst)
	if err != nil {
		return 0, 0, err
	}
	if same {
		return 0, 0, fmt.Errorf("%s: refusing to overwrite the source file", src)
	}

	in, err := os.ReadFile(src)
	if err != nil {
		return 0, 0, err
	}

	out, err := codec.Transcode(in, o.from, o.to, codec.WithErrorMode(o.mode))
	if err != nil {
		return len(in), 0, fmt.Errorf("%s: %w", src, err)
	}

	if err := os.WriteFile(dst, out, 0644); err != nil {
		return len(in), 0, err
	}
	return len(in), len(out), nil
}

// NewCommand returns the "textcodec convert" command.
func NewCommand(a *app.App) *cobra.Command {
	var (
		fromFlag     codec.Encoding
		toFlag       codec.Encoding
		outDirFlag   string
		suffixFlag   string
		parallelFlag int
	)

	cmd := &cobra.Command{
		Use:   "convert FILE...",
		Short: "Convert files from one encoding to another",
		Long: `Decode files under --from and write them re-encoded under --to.

Each FILE is written next to the original as FILE.<to>, or into --out-dir
under its own name. Files are converted concurrently. A single "-" converts
stdin to stdout.`,
		Example: `  textcodec convert --from latin-1 --to utf-8 legacy.txt
  textcodec convert --to utf-16 --out-dir out/ *.txt
  cat dos.txt | textcodec convert --from cp437 --to utf-8 -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o := options{
				from:   fromFlag,
				to:     toFlag,
				mode:   a.Profile.Errors,
				outDir: outDirFlag,
				suffix: suffixFlag,
			}
			if o.from == codec.Unknown {
				o.from = a.Profile.Encoding
			}

			if len(args) == 1 && args[0] == "-" {
				in, err := io.ReadAll(a.InReader)
				if err != nil {
					return fmt.Errorf("unable to read data: %w", err)
				}
				out, err := codec.Transcode(in, o.from, o.to, codec.WithErrorMode(o.mode))
				if err != nil {
					return err
				}
				_, err = a.OutWriter.Write(out)
				return err
			}

			for _, path := range args {
				if path == "-" {
					return errors.New(`"-" cannot be combined with other files`)
				}
			}
			if parallelFlag < 1 {
				return fmt.Errorf("--parallel must be at least 1, got %d", parallelFlag)
			}

			jobs, err := o.plan(args)
			if err != nil {
				return err
			}

			if o.outDir != "" {
				if err := os.MkdirAll(o.outDir, 0755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
			}

			var mu sync.Mutex
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(parallelFlag)

			for _, j := range jobs {
				j := j
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}

					read, written, err := convertFile(j.src, j.dst, o)
					if err != nil {
						return err
					}
					a.Logger.Debug("converted file", "src", j.src, "dst", j.dst, "from", o.from, "to", o.to, "read", read, "written", written)

					mu.Lock()
					fmt.Fprintf(a.OutWriter, "Converted %s -> %s (%d -> %d bytes).\n", j.src, j.dst, read, written)
					mu.Unlock()
					return nil
				})
			}

			return g.Wait()
		},
	}

	cmd.Flags().Var(&fromFlag, "from", "Encoding of the input files (default from profile)")
	cmd.Flags().Var(&toFlag, "to", "Encoding to convert to")
	cmd.Flags().StringVar(&outDirFlag, "out-dir", "", "Write converted files into this directory")
	cmd.Flags().StringVar(&suffixFlag, "suffix", "", "Suffix for converted file names (default .<to>, none with --out-dir)")
	cmd.Flags().IntVar(&parallelFlag, "parallel", runtime.NumCPU(), "Number of files converted concurrently")
	a.AddErrorsFlag(cmd)

	if err := cmd.MarkFlagRequired("to"); err != nil {
		panic(fmt.Sprintf("Failed to mark flag required: %v", err))
	}
	for _, name := range []string{"from", "to"} {
		if err := cmd.RegisterFlagCompletionFunc(name, app.CompleteEncoding); err != nil {
			panic(fmt.Sprintf("Failed to register flag completion: %v", err))
		}
	}

	return cmd
}
