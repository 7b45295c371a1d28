package codec

import (
	"fmt"
	"strings"
)

// Encoding identifies one mapping between text and bytes.
type Encoding uint8

const (
	Unknown Encoding = iota
	ASCII
	Latin1
	Latin9
	CP437
	UTF8
	UTF16
	UTF16LE
	UTF16BE
	UTF32
	UTF32LE
	UTF32BE
)

type encodingInfo struct {
	name    string
	aliases []string
	// minimum and maximum number of bytes per character, BOM excluded.
	min, max int
	bom      []byte
}

var encodings = [...]encodingInfo{
	ASCII:   {name: "ascii", aliases: []string{"us-ascii", "646"}, min: 1, max: 1},
	Latin1:  {name: "latin-1", aliases: []string{"latin1", "iso-8859-1", "iso8859-1", "l1", "8859"}, min: 1, max: 1},
	Latin9:  {name: "latin-9", aliases: []string{"latin9", "iso-8859-15", "iso8859-15", "l9"}, min: 1, max: 1},
	CP437:   {name: "cp437", aliases: []string{"ibm437", "437"}, min: 1, max: 1},
	UTF8:    {name: "utf-8", aliases: []string{"utf8", "u8"}, min: 1, max: 4},
	UTF16:   {name: "utf-16", aliases: []string{"utf16", "u16"}, min: 2, max: 4, bom: []byte{0xFF, 0xFE}},
	UTF16LE: {name: "utf-16-le", aliases: []string{"utf-16le", "utf16le"}, min: 2, max: 4},
	UTF16BE: {name: "utf-16-be", aliases: []string{"utf-16be", "utf16be"}, min: 2, max: 4},
	UTF32:   {name: "utf-32", aliases: []string{"utf32", "u32"}, min: 4, max: 4, bom: []byte{0xFF, 0xFE, 0x00, 0x00}},
	UTF32LE: {name: "utf-32-le", aliases: []string{"utf-32le", "utf32le"}, min: 4, max: 4},
	UTF32BE: {name: "utf-32-be", aliases: []string{"utf-32be", "utf32be"}, min: 4, max: 4},
}

var byName = func() map[string]Encoding {
	m := make(map[string]Encoding)
	for _, e := range All() {
		m[e.String()] = e
		for _, alias := range e.Aliases() {
			m[alias] = e
		}
	}
	return m
}()

// All returns every supported encoding.
func All() []Encoding {
	all := make([]Encoding, 0, len(encodings)-1)
	for e := ASCII; e <= UTF32BE; e++ {
		all = append(all, e)
	}
	return all
}

// Names returns the canonical names of all supported encodings.
func Names() []string {
	names := make([]string, 0, len(encodings)-1)
	for _, e := range All() {
		names = append(names, e.String())
	}
	return names
}

// Lookup resolves an encoding name. Matching is case-insensitive and treats
// '_' and ' ' like '-'.
func Lookup(name string) (Encoding, error) {
	if e, ok := byName[normalize(name)]; ok {
		return e, nil
	}
	return Unknown, &UnsupportedEncodingError{Name: name}
}

func normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("_", "-", " ", "-").Replace(name)
}

// Valid reports whether e is one of the supported encodings.
func (e Encoding) Valid() bool {
	return e > Unknown && int(e) < len(encodings)
}

// String returns the canonical name. Unknown is the empty string so an unset
// flag shows no default.
func (e Encoding) String() string {
	if e == Unknown {
		return ""
	}
	if !e.Valid() {
		return fmt.Sprintf("Encoding(%d)", uint8(e))
	}
	return encodings[e].name
}

// Aliases returns the alternative names accepted by Lookup.
func (e Encoding) Aliases() []string {
	if !e.Valid() {
		return nil
	}
	return encodings[e].aliases
}

// ByteRange returns the number of bytes a single character occupies.
func (e Encoding) ByteRange() (min, max int) {
	if !e.Valid() {
		return 0, 0
	}
	return encodings[e].min, encodings[e].max
}

// BOM returns the byte-order mark the encoder writes before the first
// character, or nil.
func (e Encoding) BOM() []byte {
	if !e.Valid() {
		return nil
	}
	return encodings[e].bom
}

func (e Encoding) MarshalText() ([]byte, error) {
	if e == Unknown {
		return []byte{}, nil
	}
	if !e.Valid() {
		return nil, &UnsupportedEncodingError{Name: e.String()}
	}
	return []byte(e.String()), nil
}

func (e *Encoding) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*e = Unknown
		return nil
	}
	v, err := Lookup(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// Set implements pflag.Value.
func (e *Encoding) Set(v string) error {
	enc, err := Lookup(v)
	if err != nil {
		return fmt.Errorf("must be one of: %s", strings.Join(Names(), ", "))
	}
	*e = enc
	return nil
}

// Type implements pflag.Value.
func (e *Encoding) Type() string {
	return "encoding"
}

// ErrorMode selects how a Codec treats characters and bytes it cannot map.
type ErrorMode uint8

const (
	// Strict fails on the first unmappable character or ill-formed byte sequence.
	Strict ErrorMode = iota
	// Replace substitutes '?' for unencodable characters and U+FFFD for
	// ill-formed byte sequences.
	Replace
)

// ParseErrorMode parses "strict" or "replace".
func ParseErrorMode(s string) (ErrorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return Strict, nil
	case "replace":
		return Replace, nil
	default:
		return Strict, fmt.Errorf("unknown error mode %q: must be one of: strict, replace", s)
	}
}

func (m ErrorMode) String() string {
	switch m {
	case Strict:
		return "strict"
	case Replace:
		return "replace"
	default:
		return fmt.Sprintf("ErrorMode(%d)", uint8(m))
	}
}

func (m ErrorMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *ErrorMode) UnmarshalText(text []byte) error {
	v, err := ParseErrorMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (m *ErrorMode) Set(v string) error {
	return m.UnmarshalText([]byte(v))
}

func (m *ErrorMode) Type() string {
	return "ErrorMode"
}
