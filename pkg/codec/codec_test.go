package codec

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samples = []string{
	"",
	"A",
	"hello, world",
	"€",
	"¼ and ½",
	"αβγδ",
	"伟大的",
	"😀 grinning",
	"\x00\x7f control",
	"\uFEFFleading bom character",
	"\U0010FFFF",
	"café crème",
}

func TestEncodeScenarios(t *testing.T) {
	testCases := []struct {
		name string
		text string
		enc  Encoding
		want []byte
	}{
		{"ascii letter as utf-8", "A", UTF8, []byte{0x41}},
		{"euro as utf-8", "€", UTF8, []byte{0xE2, 0x82, 0xAC}},
		{"euro as latin-9", "€", Latin9, []byte{0xA4}},
		{"e acute as cp437", "é", CP437, []byte{0x82}},
		{"utf-16 writes little-endian bom", "伟大的", UTF16, []byte{0xFF, 0xFE, 0x1F, 0x4F, 0x27, 0x59, 0x84, 0x76}},
		{"utf-16-be has no bom", "A", UTF16BE, []byte{0x00, 0x41}},
		{"surrogate pair as utf-16-le", "😀", UTF16LE, []byte{0x3D, 0xD8, 0x00, 0xDE}},
		{"emoji as utf-8", "😀", UTF8, []byte{0xF0, 0x9F, 0x98, 0x80}},
		{"utf-32 writes little-endian bom", "A", UTF32, []byte{0xFF, 0xFE, 0x00, 0x00, 0x41, 0x00, 0x00, 0x00}},
		{"euro as utf-32-be", "€", UTF32BE, []byte{0x00, 0x00, 0x20, 0xAC}},
		{"latin-1 fraction", "¼", Latin1, []byte{0xBC}},
		{"plain ascii", "kaf", ASCII, []byte("kaf")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Encode(tc.text, tc.enc)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeScenarios(t *testing.T) {
	testCases := []struct {
		name string
		in   []byte
		enc  Encoding
		want string
	}{
		{"single utf-8 byte", []byte{0x41}, UTF8, "A"},
		{"latin-1 accepts any byte", []byte{0xBC}, Latin1, "¼"},
		{"utf-16 big-endian bom", []byte{0xFE, 0xFF, 0x00, 0x41}, UTF16, "A"},
		{"utf-16 little-endian bom", []byte{0xFF, 0xFE, 0x41, 0x00}, UTF16, "A"},
		{"utf-16 without bom is little-endian", []byte{0x41, 0x00}, UTF16, "A"},
		{"utf-16-le keeps leading feff", []byte{0xFF, 0xFE, 0x41, 0x00}, UTF16LE, "\uFEFFA"},
		{"utf-32 big-endian bom", []byte{0x00, 0x00, 0xFE, 0xFF, 0x00, 0x00, 0x20, 0xAC}, UTF32, "€"},
		{"utf-8 replacement character is valid", []byte{0xEF, 0xBF, 0xBD}, UTF8, "\uFFFD"},
		{"empty input", nil, UTF16, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode(tc.in, tc.enc)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestEncodeUnencodableCharacter(t *testing.T) {
	_, err := Encode("€", Latin1)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnencodableCharacter))

	var uerr *UnencodableCharacterError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, Latin1, uerr.Encoding)
	assert.Equal(t, '€', uerr.Rune)
	assert.Equal(t, 0, uerr.Index)

	_, err = Encode("abc→", ASCII)
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, '→', uerr.Rune)
	assert.Equal(t, 3, uerr.Index)
}

func TestEncodeInvalidUTF8Text(t *testing.T) {
	_, err := Encode("ok\xffbad", UTF8)
	var uerr *UnencodableCharacterError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, utf8.RuneError, uerr.Rune)
	assert.Equal(t, 2, uerr.Index)
}

func TestDecodeInvalidByteSequence(t *testing.T) {
	testCases := []struct {
		name       string
		in         []byte
		enc        Encoding
		wantOffset int
		wantBytes  []byte
		wantReason string
	}{
		{"stray continuation byte", []byte{0xBC}, UTF8, 0, []byte{0xBC}, "invalid start byte"},
		{"truncated three byte sequence", []byte{0xE2, 0x82}, UTF8, 0, []byte{0xE2, 0x82}, "unexpected end of data"},
		{"lead byte without continuation", []byte{0x41, 0xE2, 0x41}, UTF8, 1, []byte{0xE2}, "invalid continuation byte"},
		{"encoded surrogate", []byte{0xED, 0xA0, 0x80}, UTF8, 0, []byte{0xED}, "invalid continuation byte"},
		{"overlong nul", []byte{0xC0, 0x80}, UTF8, 0, []byte{0xC0}, "invalid start byte"},
		{"high surrogate at end", []byte{0x41, 0x00, 0x3D, 0xD8}, UTF16LE, 2, []byte{0x3D, 0xD8}, "unexpected end of data"},
		{"lone low surrogate", []byte{0x00, 0xDE}, UTF16LE, 0, []byte{0x00, 0xDE}, "unpaired low surrogate"},
		{"odd length", []byte{0x41, 0x00, 0x42}, UTF16LE, 2, []byte{0x42}, "truncated code unit"},
		{"offset counts the bom", []byte{0xFE, 0xFF, 0xD8, 0x3D, 0x00, 0x41}, UTF16, 2, []byte{0xD8, 0x3D}, "unpaired high surrogate"},
		{"utf-32 above max rune", []byte{0x00, 0x00, 0x11, 0x00}, UTF32LE, 0, []byte{0x00, 0x00, 0x11, 0x00}, "code point out of range"},
		{"utf-32 surrogate", []byte{0x00, 0x00, 0xD8, 0x00}, UTF32BE, 0, []byte{0x00, 0x00, 0xD8, 0x00}, "surrogate code point"},
		{"utf-32 short tail", []byte{0x41, 0x00, 0x00, 0x00, 0x42}, UTF32LE, 4, []byte{0x42}, "truncated code unit"},
		{"ascii high byte", []byte{0x41, 0x80}, ASCII, 1, []byte{0x80}, "byte outside the ASCII range"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.in, tc.enc)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalidByteSequence))

			var ierr *InvalidByteSequenceError
			require.True(t, errors.As(err, &ierr))
			assert.Equal(t, tc.enc, ierr.Encoding)
			assert.Equal(t, tc.wantOffset, ierr.Offset)
			assert.Equal(t, tc.wantBytes, ierr.Bytes)
			assert.Equal(t, tc.wantReason, ierr.Reason)
		})
	}
}

func TestUnsupportedEncoding(t *testing.T) {
	for _, enc := range []Encoding{Unknown, Encoding(200)} {
		_, err := Encode("A", enc)
		require.True(t, errors.Is(err, ErrUnsupportedEncoding))

		_, err = Decode([]byte("A"), enc)
		require.True(t, errors.Is(err, ErrUnsupportedEncoding))
	}

	_, err := EncodeNamed("A", "ebcdic")
	var uerr *UnsupportedEncodingError
	require.True(t, errors.As(err, &uerr))
	require.Equal(t, "ebcdic", uerr.Name)
}

func TestNamedRoundTrip(t *testing.T) {
	b, err := EncodeNamed("伟大的", "UTF-16")
	require.NoError(t, err)
	s, err := DecodeNamed(b, "utf16")
	require.NoError(t, err)
	require.Equal(t, "伟大的", s)
}

func TestRoundTrip(t *testing.T) {
	for _, enc := range All() {
		for _, text := range samples {
			b, err := Encode(text, enc)
			if errors.Is(err, ErrUnencodableCharacter) {
				continue
			}
			require.NoError(t, err, "%s: encode %q", enc, text)

			got, err := Decode(b, enc)
			require.NoError(t, err, "%s: decode % x", enc, b)
			require.Equal(t, text, got, "%s round trip", enc)

			again, err := Encode(got, enc)
			require.NoError(t, err)
			require.Equal(t, b, again, "%s: re-encoding must reproduce the bytes", enc)
		}
	}
}

// Re-encoding normalizes utf-16/utf-32 input to a little-endian BOM.
func TestReencodeNormalizesByteOrder(t *testing.T) {
	testCases := []struct {
		name string
		in   []byte
		enc  Encoding
		want []byte
	}{
		{"utf-16 little-endian bom", []byte{0xFF, 0xFE, 0x41, 0x00}, UTF16, []byte{0xFF, 0xFE, 0x41, 0x00}},
		{"utf-16 big-endian bom", []byte{0xFE, 0xFF, 0x00, 0x41}, UTF16, []byte{0xFF, 0xFE, 0x41, 0x00}},
		{"utf-16 without bom", []byte{0x41, 0x00}, UTF16, []byte{0xFF, 0xFE, 0x41, 0x00}},
		{"utf-32 big-endian bom", []byte{0x00, 0x00, 0xFE, 0xFF, 0x00, 0x00, 0x00, 0x41}, UTF32, []byte{0xFF, 0xFE, 0x00, 0x00, 0x41, 0x00, 0x00, 0x00}},
		{"utf-16-be untouched", []byte{0x00, 0x41}, UTF16BE, []byte{0x00, 0x41}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			text, err := Decode(tc.in, tc.enc)
			require.NoError(t, err)
			require.Equal(t, "A", text)

			got, err := Encode(text, tc.enc)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestByteRange(t *testing.T) {
	runes := []rune{0x00, 'A', 0x7F, 0x80, 0xBC, 0xFF, 0x7FF, 0x800, '€', 0xFFFD, 0xFFFF, 0x10000, 0x1F600, 0x10FFFF}

	for _, enc := range All() {
		lo, hi := enc.ByteRange()
		for _, r := range runes {
			b, err := Encode(string(r), enc)
			if errors.Is(err, ErrUnencodableCharacter) {
				continue
			}
			require.NoError(t, err)
			require.True(t, bytes.HasPrefix(b, enc.BOM()))
			n := len(b) - len(enc.BOM())
			assert.GreaterOrEqual(t, n, lo, "%s: U+%04X", enc, r)
			assert.LessOrEqual(t, n, hi, "%s: U+%04X", enc, r)
		}
	}
}

func TestCrossEncodingMismatch(t *testing.T) {
	t.Run("utf-8 bytes read as utf-16", func(t *testing.T) {
		b, err := Encode("αβγδ", UTF8)
		require.NoError(t, err)
		require.Len(t, b, 8)

		got, err := Decode(b, UTF16)
		require.NoError(t, err)
		require.NotEqual(t, "αβγδ", got)
		require.Equal(t, string([]rune{0xB1CE, 0xB2CE, 0xB3CE, 0xB4CE}), got)
	})

	t.Run("utf-8 bytes read as latin-1", func(t *testing.T) {
		b, err := Encode("€", UTF8)
		require.NoError(t, err)

		got, err := Decode(b, Latin1)
		require.NoError(t, err)
		require.Equal(t, "â\u0082¬", got)
	})

	t.Run("latin-1 bytes read as utf-8", func(t *testing.T) {
		b, err := Encode("café", Latin1)
		require.NoError(t, err)

		_, err = Decode(b, UTF8)
		require.True(t, errors.Is(err, ErrInvalidByteSequence))
	})

	t.Run("non-ascii samples never survive a different encoding", func(t *testing.T) {
		pairs := [][2]Encoding{
			{UTF8, Latin1}, {UTF8, UTF16LE}, {UTF16LE, UTF16BE}, {UTF32LE, UTF32BE},
			{Latin1, CP437}, {UTF16, UTF32}, {Latin9, Latin1},
		}
		for _, pair := range pairs {
			for _, text := range []string{"€", "αβγδ", "伟大的", "¤"} {
				b, err := Encode(text, pair[0])
				if err != nil {
					continue
				}
				got, err := Decode(b, pair[1])
				if err == nil {
					assert.NotEqual(t, text, got, "%s -> %s", pair[0], pair[1])
				}
			}
		}
	})
}

func TestReplaceMode(t *testing.T) {
	c, err := New(Latin1, WithErrorMode(Replace))
	require.NoError(t, err)

	b, err := c.Encode("a€b")
	require.NoError(t, err)
	require.Equal(t, []byte("a?b"), b)

	u, err := New(UTF8, WithErrorMode(Replace))
	require.NoError(t, err)
	s, err := u.Decode([]byte{0x41, 0xBC, 0x42})
	require.NoError(t, err)
	require.Equal(t, "A\uFFFDB", s)

	a, err := New(ASCII, WithErrorMode(Replace))
	require.NoError(t, err)
	s, err = a.Decode([]byte{0x41, 0x80})
	require.NoError(t, err)
	require.Equal(t, "A\uFFFD", s)

	w, err := New(UTF16LE, WithErrorMode(Replace))
	require.NoError(t, err)
	s, err = w.Decode([]byte{0x00, 0xDE, 0x41, 0x00})
	require.NoError(t, err)
	require.Equal(t, "\uFFFDA", s)
}

func TestTranscode(t *testing.T) {
	in := []byte{0xFF, 0xFE, 0x1F, 0x4F, 0x27, 0x59, 0x84, 0x76}
	out, err := Transcode(in, UTF16, UTF8)
	require.NoError(t, err)
	require.Equal(t, []byte("伟大的"), out)

	_, err = Transcode(out, UTF8, Latin1)
	require.True(t, errors.Is(err, ErrUnencodableCharacter))

	out, err = Transcode(out, UTF8, Latin1, WithErrorMode(Replace))
	require.NoError(t, err)
	require.Equal(t, []byte("???"), out)
}

func TestCodecConcurrentUse(t *testing.T) {
	c, err := New(UTF16)
	require.NoError(t, err)

	want, err := c.Encode("伟大的")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b, err := c.Encode("伟大的")
				assert.NoError(t, err)
				assert.Equal(t, want, b)
				s, err := c.Decode(b)
				assert.NoError(t, err)
				assert.Equal(t, "伟大的", s)
			}
		}()
	}
	wg.Wait()
}
