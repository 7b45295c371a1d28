package app

import (
	"encoding/hex"
	"fmt"
	"unicode/utf8"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/birdayz/textcodec/pkg/codec"
)

// EncodedResult is the structured record printed for --output json and
// --output msgpack by encode and decode.
type EncodedResult struct {
	Text     string `json:"text" msgpack:"text"`
	Encoding string `json:"encoding" msgpack:"encoding"`
	Chars    int    `json:"chars" msgpack:"chars"`
	Bytes    int    `json:"bytes" msgpack:"bytes"`
	Hex      string `json:"hex" msgpack:"hex"`
}

// NewEncodedResult pairs text with its encoded form.
func NewEncodedResult(text string, enc codec.Encoding, b []byte) EncodedResult {
	return EncodedResult{
		Text:     text,
		Encoding: enc.String(),
		Chars:    utf8.RuneCountInString(text),
		Bytes:    len(b),
		Hex:      hex.EncodeToString(b),
	}
}

// WriteBytes prints b in the given byte format. Every format but raw ends
// with a newline.
func (a *App) WriteBytes(b []byte, f OutputFormat) error {
	if _, err := a.OutWriter.Write(FormatBytes(b, f)); err != nil {
		return err
	}
	if f != OutputFormatRaw {
		_, err := fmt.Fprintln(a.OutWriter)
		return err
	}
	return nil
}

// WriteStructured prints v as pretty JSON or msgpack.
func (a *App) WriteStructured(v any, f OutputFormat) error {
	switch f {
	case OutputFormatMsgPack:
		b, err := msgpack.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal msgpack: %w", err)
		}
		_, err = a.OutWriter.Write(b)
		return err
	case OutputFormatJSON:
		b, err := a.JSONFormatter.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal json: %w", err)
		}
		if _, err := a.ColorableOut.Write(b); err != nil {
			return err
		}
		_, err = fmt.Fprintln(a.ColorableOut)
		return err
	default:
		return fmt.Errorf("output format %q is not structured", f)
	}
}

// WriteResult prints r in format f: the bytes for byte formats, the record
// for structured ones.
func (a *App) WriteResult(r EncodedResult, b []byte, f OutputFormat) error {
	if f.Structured() {
		return a.WriteStructured(r, f)
	}
	return a.WriteBytes(b, f)
}
