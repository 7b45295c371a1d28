package codec

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// charset binds an Encoding to the x/text transforms implementing it. encode
// is only called with text whose characters all pass encodes.
type charset interface {
	encodes(r rune) bool
	encode(text string) ([]byte, error)
	decode(b []byte, mode ErrorMode) (string, error)
}

var charsets = map[Encoding]charset{
	ASCII:   asciiCharset{},
	Latin1:  charmapCharset{enc: Latin1, cm: charmap.ISO8859_1},
	Latin9:  charmapCharset{enc: Latin9, cm: charmap.ISO8859_15},
	CP437:   charmapCharset{enc: CP437, cm: charmap.CodePage437},
	UTF8:    utf8Charset{},
	UTF16:   utf16Charset{enc: UTF16, detectBOM: true},
	UTF16LE: utf16Charset{enc: UTF16LE},
	UTF16BE: utf16Charset{enc: UTF16BE, bigEndian: true},
	UTF32:   utf32Charset{enc: UTF32, detectBOM: true},
	UTF32LE: utf32Charset{enc: UTF32LE},
	UTF32BE: utf32Charset{enc: UTF32BE, bigEndian: true},
}

type asciiCharset struct{}

func (asciiCharset) encodes(r rune) bool {
	return r >= 0 && r < utf8.RuneSelf
}

func (asciiCharset) encode(text string) ([]byte, error) {
	return []byte(text), nil
}

func (asciiCharset) decode(b []byte, mode ErrorMode) (string, error) {
	for i, c := range b {
		if c < utf8.RuneSelf {
			continue
		}
		if mode == Strict {
			return "", &InvalidByteSequenceError{Encoding: ASCII, Offset: i, Bytes: []byte{c}, Reason: "byte outside the ASCII range"}
		}
		return replaceNonASCII(b), nil
	}
	return string(b), nil
}

func replaceNonASCII(b []byte) string {
	out := make([]rune, len(b))
	for j, c := range b {
		if c >= utf8.RuneSelf {
			out[j] = utf8.RuneError
		} else {
			out[j] = rune(c)
		}
	}
	return string(out)
}

// charmapCharset covers single-byte code pages. Every byte decodes to some
// character, so decoding never fails.
type charmapCharset struct {
	enc Encoding
	cm  *charmap.Charmap
}

func (c charmapCharset) encodes(r rune) bool {
	_, ok := c.cm.EncodeRune(r)
	return ok
}

func (c charmapCharset) encode(text string) ([]byte, error) {
	return c.cm.NewEncoder().Bytes([]byte(text))
}

func (c charmapCharset) decode(b []byte, _ ErrorMode) (string, error) {
	out, err := c.cm.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

type utf8Charset struct{}

func (utf8Charset) encodes(rune) bool {
	return true
}

func (utf8Charset) encode(text string) ([]byte, error) {
	return unicode.UTF8.NewEncoder().Bytes([]byte(text))
}

func (utf8Charset) decode(b []byte, mode ErrorMode) (string, error) {
	if mode == Strict {
		if err := validateUTF8(b); err != nil {
			return "", err
		}
	}
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// utf16Charset with detectBOM writes a little-endian BOM and honours a
// leading BOM on decode, defaulting to little-endian without one.
type utf16Charset struct {
	enc       Encoding
	bigEndian bool
	detectBOM bool
}

func (utf16Charset) encodes(rune) bool {
	return true
}

func (c utf16Charset) encode(text string) ([]byte, error) {
	bom := unicode.IgnoreBOM
	if c.detectBOM {
		bom = unicode.UseBOM
	}
	return unicode.UTF16(c.endianness(c.bigEndian), bom).NewEncoder().Bytes([]byte(text))
}

func (c utf16Charset) decode(b []byte, mode ErrorMode) (string, error) {
	bigEndian, offset := c.bigEndian, 0
	if c.detectBOM {
		switch {
		case bytes.HasPrefix(b, []byte{0xFE, 0xFF}):
			bigEndian, offset = true, 2
		case bytes.HasPrefix(b, []byte{0xFF, 0xFE}):
			bigEndian, offset = false, 2
		}
	}
	body := b[offset:]
	if mode == Strict {
		if err := validateUTF16(c.enc, body, bigEndian, offset); err != nil {
			return "", err
		}
	}
	out, err := unicode.UTF16(c.endianness(bigEndian), unicode.IgnoreBOM).NewDecoder().Bytes(body)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (utf16Charset) endianness(bigEndian bool) unicode.Endianness {
	if bigEndian {
		return unicode.BigEndian
	}
	return unicode.LittleEndian
}

type utf32Charset struct {
	enc       Encoding
	bigEndian bool
	detectBOM bool
}

func (utf32Charset) encodes(rune) bool {
	return true
}

func (c utf32Charset) encode(text string) ([]byte, error) {
	bom := utf32.IgnoreBOM
	if c.detectBOM {
		bom = utf32.UseBOM
	}
	return utf32.UTF32(c.endianness(c.bigEndian), bom).NewEncoder().Bytes([]byte(text))
}

func (c utf32Charset) decode(b []byte, mode ErrorMode) (string, error) {
	bigEndian, offset := c.bigEndian, 0
	if c.detectBOM {
		switch {
		case bytes.HasPrefix(b, []byte{0x00, 0x00, 0xFE, 0xFF}):
			bigEndian, offset = true, 4
		case bytes.HasPrefix(b, []byte{0xFF, 0xFE, 0x00, 0x00}):
			bigEndian, offset = false, 4
		}
	}
	body := b[offset:]
	if mode == Strict {
		if err := validateUTF32(c.enc, body, bigEndian, offset); err != nil {
			return "", err
		}
	}
	out, err := utf32.UTF32(c.endianness(bigEndian), utf32.IgnoreBOM).NewDecoder().Bytes(body)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (utf32Charset) endianness(bigEndian bool) utf32.Endianness {
	if bigEndian {
		return utf32.BigEndian
	}
	return utf32.LittleEndian
}
