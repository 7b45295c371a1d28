package list

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/birdayz/textcodec/pkg/app"
	"github.com/birdayz/textcodec/pkg/codec"
)

// NewCommand returns the "textcodec list" command.
func NewCommand(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List supported encodings",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := app.NewTabWriter(a.OutWriter)
			if !a.NoHeaderFlag {
				fmt.Fprintf(w, "NAME\tALIASES\tBYTES/CHAR\tBOM\t\n")
			}

			for _, enc := range codec.All() {
				lo, hi := enc.ByteRange()
				width := fmt.Sprintf("%d", lo)
				if lo != hi {
					width = fmt.Sprintf("%d-%d", lo, hi)
				}
				bom := "-"
				if b := enc.BOM(); b != nil {
					bom = fmt.Sprintf("% X", b)
				}
				fmt.Fprintf(w, "%v\t%v\t%v\t%v\t\n", enc, strings.Join(enc.Aliases(), ","), width, bom)
			}
			return w.Flush()
		},
	}

	a.AddNoHeadersFlag(cmd)
	return cmd
}
