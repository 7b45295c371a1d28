package codec

import (
	"bytes"
	"encoding/binary"
	"unicode/utf8"
)

const (
	surrHighMin = 0xD800
	surrLowMin  = 0xDC00
	surrMax     = 0xDFFF
)

// validateUTF8 reports the first ill-formed sequence in b. Overlong forms and
// encoded surrogates are rejected along with truncated and stray bytes.
func validateUTF8(b []byte) error {
	for i := 0; i < len(b); {
		if b[i] < utf8.RuneSelf {
			i++
			continue
		}
		r, size := utf8.DecodeRune(b[i:])
		if r != utf8.RuneError || size > 1 {
			i += size
			continue
		}
		if !utf8.FullRune(b[i:]) {
			return &InvalidByteSequenceError{Encoding: UTF8, Offset: i, Bytes: bytes.Clone(b[i:]), Reason: "unexpected end of data"}
		}
		reason := "invalid continuation byte"
		if c := b[i]; c < 0xC2 || c > 0xF4 {
			reason = "invalid start byte"
		}
		return &InvalidByteSequenceError{Encoding: UTF8, Offset: i, Bytes: []byte{b[i]}, Reason: reason}
	}
	return nil
}

func byteOrder(bigEndian bool) binary.ByteOrder {
	if bigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// validateUTF16 checks surrogate pairing and length. base is added to
// reported offsets to account for a stripped BOM.
func validateUTF16(enc Encoding, b []byte, bigEndian bool, base int) error {
	order := byteOrder(bigEndian)
	invalid := func(off, n int, reason string) error {
		return &InvalidByteSequenceError{Encoding: enc, Offset: base + off, Bytes: bytes.Clone(b[off : off+n]), Reason: reason}
	}

	i := 0
	for ; i+2 <= len(b); i += 2 {
		u := order.Uint16(b[i:])
		switch {
		case u >= surrHighMin && u < surrLowMin:
			if i+4 > len(b) {
				return invalid(i, len(b)-i, "unexpected end of data")
			}
			if next := order.Uint16(b[i+2:]); next < surrLowMin || next > surrMax {
				return invalid(i, 2, "unpaired high surrogate")
			}
			i += 2
		case u >= surrLowMin && u <= surrMax:
			return invalid(i, 2, "unpaired low surrogate")
		}
	}
	if i < len(b) {
		return invalid(i, len(b)-i, "truncated code unit")
	}
	return nil
}

func validateUTF32(enc Encoding, b []byte, bigEndian bool, base int) error {
	order := byteOrder(bigEndian)
	invalid := func(off, n int, reason string) error {
		return &InvalidByteSequenceError{Encoding: enc, Offset: base + off, Bytes: bytes.Clone(b[off : off+n]), Reason: reason}
	}

	i := 0
	for ; i+4 <= len(b); i += 4 {
		u := order.Uint32(b[i:])
		switch {
		case u > utf8.MaxRune:
			return invalid(i, 4, "code point out of range")
		case u >= surrHighMin && u <= surrMax:
			return invalid(i, 4, "surrogate code point")
		}
	}
	if i < len(b) {
		return invalid(i, len(b)-i, "truncated code unit")
	}
	return nil
}
