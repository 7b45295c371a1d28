// Package charinfo describes individual characters: their code point in
// several number bases, their Unicode name and category, and the bytes they
// occupy under a set of encodings.
package charinfo

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/runenames"

	"github.com/birdayz/textcodec/pkg/codec"
)

// Char describes a single character.
type Char struct {
	Rune      rune      `json:"-" msgpack:"-"`
	Char      string    `json:"char" msgpack:"char"`
	CodePoint string    `json:"codePoint" msgpack:"codePoint"`
	Decimal   string    `json:"decimal" msgpack:"decimal"`
	Hex       string    `json:"hex" msgpack:"hex"`
	Octal     string    `json:"octal" msgpack:"octal"`
	Binary    string    `json:"binary" msgpack:"binary"`
	Name      string    `json:"name" msgpack:"name"`
	Category  string    `json:"category" msgpack:"category"`
	Encoded   []Encoded `json:"encoded,omitempty" msgpack:"encoded,omitempty"`
}

// Encoded holds the bytes of one character under one encoding, or the reason
// it could not be encoded.
type Encoded struct {
	Encoding string `json:"encoding" msgpack:"encoding"`
	Bytes    []byte `json:"-" msgpack:"-"`
	Hex      string `json:"hex,omitempty" msgpack:"hex,omitempty"`
	Err      string `json:"error,omitempty" msgpack:"error,omitempty"`
}

// categories lists the two-letter general categories known to the unicode
// package, sorted so lookups are deterministic.
var categories = func() []string {
	var names []string
	for name := range unicode.Categories {
		if len(name) == 2 && name[1] >= 'a' && name[1] <= 'z' {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}()

// Describe returns everything charinfo knows about r, without encodings.
func Describe(r rune) Char {
	return Char{
		Rune:      r,
		Char:      string(r),
		CodePoint: fmt.Sprintf("U+%04X", r),
		Decimal:   strconv.FormatInt(int64(r), 10),
		Hex:       "0x" + strconv.FormatInt(int64(r), 16),
		Octal:     "0o" + strconv.FormatInt(int64(r), 8),
		Binary:    "0b" + strconv.FormatInt(int64(r), 2),
		Name:      runenames.Name(r),
		Category:  Category(r),
	}
}

// Category returns the two-letter Unicode general category of r, or "Cn" if r
// is unassigned.
func Category(r rune) string {
	for _, name := range categories {
		if unicode.Is(unicode.Categories[name], r) {
			return name
		}
	}
	return "Cn"
}

// Inspect describes every character of text and encodes each one under encs.
// A character that an encoding cannot represent is recorded on its Encoded
// entry rather than failing the inspection.
func Inspect(text string, encs ...codec.Encoding) ([]Char, error) {
	codecs := make([]*codec.Codec, 0, len(encs))
	for _, enc := range encs {
		c, err := codec.New(enc)
		if err != nil {
			return nil, err
		}
		codecs = append(codecs, c)
	}

	chars := make([]Char, 0, utf8.RuneCountInString(text))
	for i, n := 0, 0; i < len(text); n++ {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size == 1 {
			return nil, &codec.UnencodableCharacterError{Encoding: codec.UTF8, Rune: r, Index: n}
		}
		i += size

		ch := Describe(r)
		for _, c := range codecs {
			ch.Encoded = append(ch.Encoded, encodeOne(c, r))
		}
		chars = append(chars, ch)
	}
	return chars, nil
}

func encodeOne(c *codec.Codec, r rune) Encoded {
	e := Encoded{Encoding: c.Encoding().String()}
	b, err := c.Encode(string(r))
	switch {
	case errors.Is(err, codec.ErrUnencodableCharacter):
		e.Err = "not representable"
	case err != nil:
		e.Err = err.Error()
	default:
		e.Bytes = bytes.TrimPrefix(b, c.Encoding().BOM())
		e.Hex = hex.EncodeToString(e.Bytes)
	}
	return e
}
