package roundtrip

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/birdayz/textcodec/pkg/app"
	"github.com/birdayz/textcodec/pkg/codec"
)

type status string

const (
	statusOK          status = "ok"
	statusMismatch    status = "MISMATCH"
	statusUnencodable status = "unencodable"
)

type result struct {
	encoding codec.Encoding
	bytes    []byte
	status   status
	detail   string
	err      error
}

// check encodes text, decodes the bytes and re-encodes the decoded text.
// Both the text and the bytes must come back unchanged.
func check(c *codec.Codec, text string) (result, error) {
	r := result{encoding: c.Encoding()}

	b, err := c.Encode(text)
	if err != nil {
		if errors.Is(err, codec.ErrUnencodableCharacter) {
			r.status = statusUnencodable
			r.detail = err.Error()
			r.err = err
			return r, nil
		}
		return r, err
	}
	r.bytes = b

	decoded, err := c.Decode(b)
	if err != nil {
		r.status = statusMismatch
		r.detail = err.Error()
		return r, nil
	}
	if decoded != text {
		r.status = statusMismatch
		r.detail = fmt.Sprintf("decoded to %q", decoded)
		return r, nil
	}

	again, err := c.Encode(decoded)
	if err != nil {
		return r, err
	}
	if !bytes.Equal(again, b) {
		r.status = statusMismatch
		r.detail = fmt.Sprintf("re-encoded to %x", again)
		return r, nil
	}

	r.status = statusOK
	return r, nil
}

// NewCommand returns the "textcodec roundtrip" command.
func NewCommand(a *app.App) *cobra.Command {
	var allFlag bool

	cmd := &cobra.Command{
		Use:   "roundtrip [TEXT]",
		Short: "Encode and decode text and verify both directions agree",
		Long: `Encode text, decode the result and encode it once more. The check passes
when the decoded text equals the input and the second encoding reproduces the
bytes. Without an argument every line of stdin is checked.

With --all every supported encoding is tried. Text outside an encoding's
repertoire is reported as unencodable and does not fail the command.`,
		Example: `  textcodec roundtrip 伟大的
  textcodec roundtrip --all 'Grüße'
  textcodec roundtrip -e latin-1 --errors replace '5€'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			encs := []codec.Encoding{a.Profile.Encoding}
			if allFlag {
				encs = codec.All()
			}

			codecs := make([]*codec.Codec, 0, len(encs))
			for _, enc := range encs {
				c, err := codec.New(enc, codec.WithErrorMode(a.Profile.Errors))
				if err != nil {
					return err
				}
				codecs = append(codecs, c)
			}

			var texts []string
			if len(args) == 1 {
				texts = args
			} else {
				out, errCh, err := app.ReadInput(cmd.Context(), a.InReader, app.InputModeLine, 0)
				if err != nil {
					return err
				}
				for line := range out {
					texts = append(texts, string(line))
				}
				if err := app.Drain(errCh); err != nil {
					return err
				}
			}

			w := app.NewTabWriter(a.OutWriter)
			if !a.NoHeaderFlag {
				fmt.Fprintf(w, "TEXT\tENCODING\tBYTES\tHEX\tRESULT\t\n")
			}

			var checks, failed int
			for _, text := range texts {
				for _, c := range codecs {
					r, err := check(c, text)
					if err != nil {
						w.Flush()
						return err
					}

					checks++
					if r.status == statusUnencodable && !allFlag {
						w.Flush()
						return r.err
					}
					if r.status == statusMismatch {
						failed++
						a.Logger.Debug("round trip mismatch", "encoding", r.encoding, "detail", r.detail)
					}

					fmt.Fprintf(w, "%q\t%v\t%v\t%v\t%v\t\n", text, r.encoding, len(r.bytes), hex.EncodeToString(r.bytes), r.status)
				}
			}
			w.Flush()

			if failed > 0 {
				return fmt.Errorf("round trip failed for %d of %d checks", failed, checks)
			}
			return nil
		},
	}

	a.AddCodecFlags(cmd)
	a.AddNoHeadersFlag(cmd)
	cmd.Flags().BoolVar(&allFlag, "all", false, "Check every supported encoding")

	return cmd
}
