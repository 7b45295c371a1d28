package app

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/birdayz/textcodec/pkg/codec"
)

// OutputFormat controls how encoded bytes and results are printed.
type OutputFormat string

const (
	OutputFormatRaw     OutputFormat = "raw"
	OutputFormatHex     OutputFormat = "hex"
	OutputFormatBase64  OutputFormat = "base64"
	OutputFormatEscaped OutputFormat = "escaped"
	OutputFormatJSON    OutputFormat = "json"
	OutputFormatMsgPack OutputFormat = "msgpack"
)

var outputFormats = []string{"raw", "hex", "base64", "escaped", "json", "msgpack"}

// ParseOutputFormat validates s.
func ParseOutputFormat(s string) (OutputFormat, error) {
	for _, f := range outputFormats {
		if s == f {
			return OutputFormat(s), nil
		}
	}
	return "", fmt.Errorf("must be one of: %s", strings.Join(outputFormats, ", "))
}

func (e *OutputFormat) String() string {
	return string(*e)
}

func (e *OutputFormat) Set(v string) error {
	f, err := ParseOutputFormat(v)
	if err != nil {
		return err
	}
	*e = f
	return nil
}

func (e *OutputFormat) Type() string {
	return "OutputFormat"
}

// Structured reports whether the format prints records instead of bytes.
func (e OutputFormat) Structured() bool {
	return e == OutputFormatJSON || e == OutputFormatMsgPack
}

// CompleteOutputFormat provides shell completion for --output.
func CompleteOutputFormat(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return outputFormats, cobra.ShellCompDirectiveNoFileComp
}

// InputFormat controls how bytes to decode are read.
type InputFormat string

const (
	InputFormatRaw    InputFormat = "raw"
	InputFormatHex    InputFormat = "hex"
	InputFormatBase64 InputFormat = "base64"
)

var inputFormats = []string{"raw", "hex", "base64"}

// ParseInputFormat validates s.
func ParseInputFormat(s string) (InputFormat, error) {
	for _, f := range inputFormats {
		if s == f {
			return InputFormat(s), nil
		}
	}
	return "", fmt.Errorf("must be one of: %s", strings.Join(inputFormats, ", "))
}

func (e *InputFormat) String() string {
	return string(*e)
}

func (e *InputFormat) Set(v string) error {
	f, err := ParseInputFormat(v)
	if err != nil {
		return err
	}
	*e = f
	return nil
}

func (e *InputFormat) Type() string {
	return "InputFormat"
}

// CompleteInputFormat provides shell completion for --input.
func CompleteInputFormat(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return inputFormats, cobra.ShellCompDirectiveNoFileComp
}

// CompleteEncoding provides shell completion for --encoding.
func CompleteEncoding(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return codec.Names(), cobra.ShellCompDirectiveNoFileComp
}

// CompleteErrorMode provides shell completion for --errors.
func CompleteErrorMode(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{codec.Strict.String(), codec.Replace.String()}, cobra.ShellCompDirectiveNoFileComp
}

// FormatBytes renders b for the byte-oriented output formats. Structured
// formats fall back to hex.
func FormatBytes(b []byte, f OutputFormat) []byte {
	switch f {
	case OutputFormatRaw:
		return b
	case OutputFormatBase64:
		return []byte(base64.StdEncoding.EncodeToString(b))
	case OutputFormatEscaped:
		return []byte(Escape(b))
	default:
		return []byte(hex.EncodeToString(b))
	}
}

// ParseBytes turns user input into the bytes it denotes. Whitespace is
// ignored in hex and base64 input, and hex may carry a 0x prefix.
func ParseBytes(data []byte, f InputFormat) ([]byte, error) {
	switch f {
	case InputFormatHex:
		s := stripSpace(data)
		s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("failed to decode hex input: %w", err)
		}
		return b, nil
	case InputFormatBase64:
		b, err := base64.StdEncoding.DecodeString(stripSpace(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 input: %w", err)
		}
		return b, nil
	default:
		return data, nil
	}
}

func stripSpace(data []byte) string {
	return string(bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, data))
}

// Escape renders b as a byte-string literal body: printable ASCII stays as is,
// everything else becomes an escape such as \n or \xe2.
func Escape(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		switch {
		case c == '\\':
			sb.WriteString(`\\`)
		case c == '\'':
			sb.WriteString(`\'`)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c >= 0x20 && c < 0x7F:
			sb.WriteByte(c)
		default:
			fmt.Fprintf(&sb, `\x%02x`, c)
		}
	}
	return sb.String()
}
