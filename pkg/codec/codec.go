// Package codec converts text to bytes and back under a named character
// encoding.
//
// Encoded bytes carry no tag naming their encoding. Decoding with a different
// encoding than the one used to encode is not guaranteed to fail and may
// return unrelated but well-formed text; keeping track of the encoding is up
// to the caller.
package codec

import (
	"strings"
	"unicode/utf8"
)

// Encoder turns text into bytes.
type Encoder interface {
	Encode(text string) ([]byte, error)
}

// Decoder turns bytes back into text.
type Decoder interface {
	Decode(b []byte) (string, error)
}

var (
	_ Encoder = (*Codec)(nil)
	_ Decoder = (*Codec)(nil)
)

// Codec encodes and decodes under a single encoding. It is immutable and safe
// for concurrent use.
type Codec struct {
	enc  Encoding
	mode ErrorMode
	cs   charset
}

type Option func(*Codec)

// WithErrorMode sets how unmappable input is handled. The default is Strict.
func WithErrorMode(mode ErrorMode) Option {
	return func(c *Codec) {
		c.mode = mode
	}
}

// New returns a Codec for enc.
func New(enc Encoding, opts ...Option) (*Codec, error) {
	cs, ok := charsets[enc]
	if !ok {
		return nil, &UnsupportedEncodingError{Name: enc.String()}
	}
	c := &Codec{enc: enc, mode: Strict, cs: cs}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewNamed resolves name with Lookup and returns a Codec for it.
func NewNamed(name string, opts ...Option) (*Codec, error) {
	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return New(enc, opts...)
}

func (c *Codec) Encoding() Encoding {
	return c.enc
}

func (c *Codec) ErrorMode() ErrorMode {
	return c.mode
}

// Encode maps text to bytes. Ill-formed UTF-8 in text is reported as an
// unencodable utf8.RuneError.
func (c *Codec) Encode(text string) ([]byte, error) {
	text, err := c.checkRepertoire(text)
	if err != nil {
		return nil, err
	}
	return c.cs.encode(text)
}

// Decode maps b back to text.
func (c *Codec) Decode(b []byte) (string, error) {
	return c.cs.decode(b, c.mode)
}

// checkRepertoire returns text unchanged if every character can be encoded.
// Otherwise it fails in Strict mode and substitutes '?' in Replace mode.
func (c *Codec) checkRepertoire(text string) (string, error) {
	var sb *strings.Builder
	for i, n := 0, 0; i < len(text); n++ {
		r, size := utf8.DecodeRuneInString(text[i:])
		if (r == utf8.RuneError && size == 1) || !c.cs.encodes(r) {
			if c.mode == Strict {
				return "", &UnencodableCharacterError{Encoding: c.enc, Rune: r, Index: n}
			}
			if sb == nil {
				sb = &strings.Builder{}
				sb.Grow(len(text))
				sb.WriteString(text[:i])
			}
			sb.WriteByte('?')
		} else if sb != nil {
			sb.WriteString(text[i : i+size])
		}
		i += size
	}
	if sb == nil {
		return text, nil
	}
	return sb.String(), nil
}

// Encode maps text to bytes under enc in strict mode.
func Encode(text string, enc Encoding) ([]byte, error) {
	c, err := New(enc)
	if err != nil {
		return nil, err
	}
	return c.Encode(text)
}

// Decode maps b to text under enc in strict mode.
func Decode(b []byte, enc Encoding) (string, error) {
	c, err := New(enc)
	if err != nil {
		return "", err
	}
	return c.Decode(b)
}

// EncodeNamed is Encode with an encoding known only by name.
func EncodeNamed(text, name string) ([]byte, error) {
	c, err := NewNamed(name)
	if err != nil {
		return nil, err
	}
	return c.Encode(text)
}

// DecodeNamed is Decode with an encoding known only by name.
func DecodeNamed(b []byte, name string) (string, error) {
	c, err := NewNamed(name)
	if err != nil {
		return "", err
	}
	return c.Decode(b)
}

// Transcode re-encodes b from one encoding to another. The error mode applies
// to both steps.
func Transcode(b []byte, from, to Encoding, opts ...Option) ([]byte, error) {
	dec, err := New(from, opts...)
	if err != nil {
		return nil, err
	}
	enc, err := New(to, opts...)
	if err != nil {
		return nil, err
	}
	text, err := dec.Decode(b)
	if err != nil {
		return nil, err
	}
	return enc.Encode(text)
}
