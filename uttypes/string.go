package uttypes

import (
	"errors"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// ErrInvalidCodePoints is returned when encoding a string to UTF-16,
// ASCII, or Latin-1 hits a code point the target encoding cannot
// represent (§4.2).
var ErrInvalidCodePoints = errors.New("invalid-code-points")

// String is the canonical-UTF-8 text capability (§3). The owning Go
// string is always valid UTF-8; derived views are computed on demand
// rather than cached, since the source material is read-only far more
// often than it is re-encoded.
type String struct {
	value    string
	mutable  bool
}

// NewString wraps s as an immutable string value.
func NewString(s string) *String {
	return &String{value: s}
}

// NewMutableString wraps s as a mutable string value supporting
// Append/Prepend/Clear.
func NewMutableString(s string) *String {
	return &String{value: s, mutable: true}
}

func (s *String) String() string { return s.value }
func (s *String) Mutable() bool  { return s.mutable }

// CodePoints returns the string's Unicode code points.
func (s *String) CodePoints() []rune {
	return []rune(s.value)
}

// UTF16 encodes the string as UTF-16LE code units via
// golang.org/x/text/encoding/unicode, the same encoder the teacher's
// helper.go already imports for UTF-16 path conversions (it uses the
// decoder half; this is the encoder half of the same codec). Returns
// ErrInvalidCodePoints if any code point is unrepresentable; a valid
// UTF-8 Go string never contains an unpaired surrogate, so in practice
// this only guards against a String built unsafely via unsafe casts.
func (s *String) UTF16() ([]uint16, error) {
	for _, r := range s.value {
		if r >= 0xD800 && r <= 0xDFFF {
			return nil, ErrInvalidCodePoints
		}
	}
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	raw, err := enc.String(s.value)
	if err != nil {
		return nil, ErrInvalidCodePoints
	}
	units := make([]uint16, len(raw)/2)
	for i := range units {
		units[i] = uint16(raw[2*i]) | uint16(raw[2*i+1])<<8
	}
	return units, nil
}

// ASCII encodes the string as 7-bit ASCII bytes, failing with
// ErrInvalidCodePoints if any code point is >= 0x80.
func (s *String) ASCII() ([]byte, error) {
	out := make([]byte, 0, len(s.value))
	for _, r := range s.value {
		if r >= 0x80 {
			return nil, ErrInvalidCodePoints
		}
		out = append(out, byte(r))
	}
	return out, nil
}

// Latin1 encodes the string as ISO-8859-1 bytes, failing with
// ErrInvalidCodePoints if any code point is >= 0x100.
func (s *String) Latin1() ([]byte, error) {
	out := make([]byte, 0, len(s.value))
	for _, r := range s.value {
		if r >= 0x100 {
			return nil, ErrInvalidCodePoints
		}
		out = append(out, byte(r))
	}
	return out, nil
}

// DecodeUTF16 builds a String from UTF-16 code units, replacing any
// unpaired surrogate with U+FFFD per §4.2 ("decoding from UTF-16
// replaces unpaired surrogates with U+FFFD").
func DecodeUTF16(units []uint16) *String {
	runes := make([]rune, 0, len(units))
	for i := 0; i < len(units); i++ {
		u := units[i]
		switch {
		case u < 0xD800 || u > 0xDFFF:
			runes = append(runes, rune(u))
		case u <= 0xDBFF:
			if i+1 < len(units) && units[i+1] >= 0xDC00 && units[i+1] <= 0xDFFF {
				runes = append(runes, utf16.DecodeRune(rune(u), rune(units[i+1])))
				i++
			} else {
				runes = append(runes, utf8.RuneError)
			}
		default:
			runes = append(runes, utf8.RuneError)
		}
	}
	return NewString(string(runes))
}

// DecodeASCII and DecodeLatin1 never fail (§4.2): every byte maps to a
// valid code point in both encodings.
func DecodeASCII(b []byte) *String {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c & 0x7F)
	}
	return NewString(string(runes))
}

func DecodeLatin1(b []byte) *String {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return NewString(string(runes))
}

func (s *String) Append(suffix string) {
	if !s.mutable {
		panic("uttypes: Append on immutable string")
	}
	s.value += suffix
}

func (s *String) Prepend(prefix string) {
	if !s.mutable {
		panic("uttypes: Prepend on immutable string")
	}
	s.value = prefix + s.value
}

func (s *String) Clear() {
	if !s.mutable {
		panic("uttypes: Clear on immutable string")
	}
	s.value = ""
}
