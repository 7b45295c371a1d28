package inspect

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/birdayz/textcodec/pkg/app"
	"github.com/birdayz/textcodec/pkg/charinfo"
	"github.com/birdayz/textcodec/pkg/codec"
)

// NewCommand returns the "textcodec inspect" command.
func NewCommand(a *app.App) *cobra.Command {
	var encodingsFlag []string

	cmd := &cobra.Command{
		Use:   "inspect [TEXT]",
		Short: "Describe every character of a text and its bytes per encoding",
		Long: `Print one row per character: code point, Unicode name, general category and
the bytes the character encodes to under each --encoding. Pass --encoding all
to compare every supported encoding. Without an argument the text is read
from stdin, with a trailing newline removed.`,
		Example: `  textcodec inspect 伟大的
  textcodec inspect -e utf-8,utf-16-be,latin-1 'é€'
  textcodec inspect -e all -o json Ω`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			encs, err := resolveEncodings(encodingsFlag, a.Profile.Encoding)
			if err != nil {
				return err
			}

			var text string
			if len(args) == 1 {
				text = args[0]
			} else {
				data, err := io.ReadAll(a.InReader)
				if err != nil {
					return fmt.Errorf("unable to read data: %w", err)
				}
				text = strings.TrimSuffix(strings.TrimSuffix(string(data), "\n"), "\r")
			}

			chars, err := charinfo.Inspect(text, encs...)
			if err != nil {
				return err
			}

			if f := a.Output(); f.Structured() {
				return a.WriteStructured(chars, f)
			}

			w := app.NewTabWriter(a.OutWriter)
			if !a.NoHeaderFlag {
				fmt.Fprintf(w, "CHAR\tCODE POINT\tNAME\tCATEGORY\t")
				for _, enc := range encs {
					fmt.Fprintf(w, "%s\t", strings.ToUpper(enc.String()))
				}
				fmt.Fprintln(w)
			}
			for _, ch := range chars {
				fmt.Fprintf(w, "%v\t%v\t%v\t%v\t", printable(ch.Rune), ch.CodePoint, ch.Name, ch.Category)
				for _, e := range ch.Encoded {
					cell := e.Hex
					if e.Err != "" {
						cell = "-"
					}
					fmt.Fprintf(w, "%v\t", cell)
				}
				fmt.Fprintln(w)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&encodingsFlag, "encoding", "e", nil, "Encodings to show bytes for, or \"all\" (default from profile)")
	a.AddOutputFlag(cmd)
	a.AddNoHeadersFlag(cmd)

	if err := cmd.RegisterFlagCompletionFunc("encoding", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return append([]string{"all"}, codec.Names()...), cobra.ShellCompDirectiveNoFileComp
	}); err != nil {
		panic(fmt.Sprintf("Failed to register flag completion: %v", err))
	}

	return cmd
}

func resolveEncodings(names []string, fallback codec.Encoding) ([]codec.Encoding, error) {
	if len(names) == 0 {
		return []codec.Encoding{fallback}, nil
	}

	var encs []codec.Encoding
	for _, name := range names {
		if strings.EqualFold(name, "all") {
			return codec.All(), nil
		}
		enc, err := codec.Lookup(name)
		if err != nil {
			return nil, err
		}
		encs = append(encs, enc)
	}
	return encs, nil
}

// printable keeps control and format characters out of the table.
func printable(r rune) string {
	if unicode.IsGraphic(r) && !unicode.Is(unicode.Mn, r) {
		return string(r)
	}
	return ""
}
