package codec

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedEncoding  = errors.New("unsupported encoding")
	ErrUnencodableCharacter = errors.New("unencodable character")
	ErrInvalidByteSequence  = errors.New("invalid byte sequence")
)

// UnsupportedEncodingError is returned when an encoding name or value is not
// known.
type UnsupportedEncodingError struct {
	Name string
}

func (e *UnsupportedEncodingError) Error() string {
	return fmt.Sprintf("unsupported encoding %q", e.Name)
}

func (e *UnsupportedEncodingError) Is(target error) bool {
	return target == ErrUnsupportedEncoding
}

// UnencodableCharacterError reports a character that has no representation in
// the target encoding. Index counts characters, not bytes.
type UnencodableCharacterError struct {
	Encoding Encoding
	Rune     rune
	Index    int
}

func (e *UnencodableCharacterError) Error() string {
	return fmt.Sprintf("%s: cannot encode character %q (U+%04X) at position %d", e.Encoding, e.Rune, e.Rune, e.Index)
}

func (e *UnencodableCharacterError) Is(target error) bool {
	return target == ErrUnencodableCharacter
}

// InvalidByteSequenceError reports bytes that are not well-formed under the
// source encoding. Offset is a byte offset into the input.
type InvalidByteSequenceError struct {
	Encoding Encoding
	Offset   int
	Bytes    []byte
	Reason   string
}

func (e *InvalidByteSequenceError) Error() string {
	return fmt.Sprintf("%s: cannot decode bytes % x at offset %d: %s", e.Encoding, e.Bytes, e.Offset, e.Reason)
}

func (e *InvalidByteSequenceError) Is(target error) bool {
	return target == ErrInvalidByteSequence
}
