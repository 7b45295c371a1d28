package encode

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/spf13/cobra"

	"github.com/birdayz/textcodec/pkg/app"
)

// NewCommand returns the "textcodec encode" command.
func NewCommand(a *app.App) *cobra.Command {
	var (
		bufferSizeFlag int
		inputModeFlag  string
		templateFlag   bool
	)

	cmd := &cobra.Command{
		Use:   "encode [TEXT]",
		Short: "Encode text to bytes. Reads text from stdin if no argument is given.",
		Long:  "Encode text under a character encoding and print the bytes. Without an argument, text is read from stdin, one record per line by default.",
		Example: `  textcodec encode 伟大的
  textcodec encode -e utf-16 -o escaped 伟大的
  textcodec encode -e latin-1 --errors replace 'price: 5€'
  printf 'a\nb\n' | textcodec encode -e utf-32-be
  cat notes.txt | textcodec encode --input-mode full -o base64
  printf '{{ .i }}: {{ "ab" | upper }}\n{{ .i }}: {{ "x" | repeat 3 }}\n' | textcodec encode --template`,
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

			i := 0
			for data := range out {
				text := string(data)
				if templateFlag {
					if text, err = render(text, i); err != nil {
						return err
					}
				}

				b, err := c.Encode(text)
				if err != nil {
					return err
				}
				a.Logger.Debug("encoded record", "record", i, "encoding", c.Encoding(), "bytes", len(b))

				if err := a.WriteResult(app.NewEncodedResult(text, c.Encoding(), b), b, a.Output()); err != nil {
					return err
				}
				i++
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
	a.AddOutputFlag(cmd)
	cmd.Flags().StringVar(&inputModeFlag, "input-mode", app.InputModeLine, "Scanning input mode: [line|full]")
	cmd.Flags().IntVar(&bufferSizeFlag, "line-length-limit", 0, "line length limit in line input mode")
	cmd.Flags().BoolVar(&templateFlag, "template", false, "run text through go template engine before encoding")

	return cmd
}

// render executes text as a template. The record index is available as .i.
func render(text string, i int) (string, error) {
	tpl, err := template.New("textcodec").Funcs(sprig.HermeticTxtFuncMap()).Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse go template: %w", err)
	}

	buf := bytes.NewBuffer(nil)
	if err := tpl.Execute(buf, map[string]any{"i": i}); err != nil {
		return "", fmt.Errorf("failed to execute go template: %w", err)
	}
	return buf.String(), nil
}
