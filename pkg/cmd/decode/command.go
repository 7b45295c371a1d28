package decode

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/birdayz/textcodec/pkg/app"
)

// NewCommand returns the "textcodec decode" command.
func NewCommand(a *app.App) *cobra.Command {
	var (
		bufferSizeFlag int
		inputModeFlag  string
	)

	cmd := &cobra.Command{
		Use:   "decode [DATA]",
		Short: "Decode bytes to text. Reads data from stdin if no argument is given.",
		Long: `Decode bytes under a character encoding and print the text.

The data is taken from the argument or stdin and interpreted according to
--input: raw bytes, hex (whitespace and a 0x prefix are ignored) or base64.
With --output json or msgpack a record with the text and the bytes is printed
instead of the bare text.`,
		Example: `  textcodec decode --input hex e4bc9fe5a4a7e79a84
  textcodec decode -e utf-16 --input hex fffe1f4f27598476
  textcodec decode -e ascii --errors replace --input hex 48c3a9
  textcodec encode -e cp437 -o raw Ω | textcodec decode -e cp437
  printf 'e4bc9f\nc3a9\n' | textcodec decode --input hex --input-mode line`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.NewCodec()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			var (
				out   <-chan []byte
				errCh <-chan error
			)
			if len(args) == 1 {
				ch := make(chan []byte, 1)
				ch <- []byte(args[0])
				close(ch)
				out = ch
			} else {
				out, errCh, err = app.ReadInput(ctx, a.InReader, inputModeFlag, bufferSizeFlag)
				if err != nil {
					return err
				}
			}

			outputFmt := a.Output()
			for data := range out {
				b, err := app.ParseBytes(data, a.Input())
				if err != nil {
					return err
				}

				text, err := c.Decode(b)
				if err != nil {
					return err
				}
				a.Logger.Debug("decoded record", "encoding", c.Encoding(), "bytes", len(b))

				if outputFmt.Structured() {
					if err := a.WriteStructured(app.NewEncodedResult(text, c.Encoding(), b), outputFmt); err != nil {
						return err
					}
					continue
				}
				if _, err := fmt.Fprintln(a.OutWriter, text); err != nil {
					return err
				}
			}

			if err := ctx.Err(); err != nil {
				return err
			}
			if errCh != nil {
				return app.Drain(errCh)
			}
			return nil
		},
	}

	a.AddCodecFlags(cmd)
	a.AddInputFlag(cmd)
	a.AddOutputFlag(cmd)
	cmd.Flags().StringVar(&inputModeFlag, "input-mode", app.InputModeFull, "Scanning input mode: [line|full]")
	cmd.Flags().IntVar(&bufferSizeFlag, "line-length-limit", 0, "line length limit in line input mode")

	return cmd
}
