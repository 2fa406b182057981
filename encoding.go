package godbf

import (
	"fmt"
	"unicode/utf8"

	"github.com/axgle/mahonia"
)

// TextDecoder converts raw DBF bytes into a Go string. Field names, text
// content and memo content all pass through the configured decoder.
type TextDecoder interface {
	Decode(b []byte) string
}

// asciiDecoder is the default: strict 7-bit ASCII, anything above 0x7F is
// replaced with the Unicode replacement rune.
type asciiDecoder struct{}

func (asciiDecoder) Decode(b []byte) string {
	out := make([]rune, len(b))
	for i, c := range b {
		if c > 0x7F {
			out[i] = utf8.RuneError
		} else {
			out[i] = rune(c)
		}
	}
	return string(out)
}

type charsetDecoder struct {
	dec mahonia.Decoder
}

func (d charsetDecoder) Decode(b []byte) string {
	return d.dec.ConvertString(string(b))
}

// NewCharsetDecoder returns a TextDecoder backed by the named charset table
// (e.g. "gbk", "cp1251"). Fails with ErrUnknownCharset for unrecognized names.
func NewCharsetDecoder(name string) (TextDecoder, error) {
	dec := mahonia.NewDecoder(name)
	if dec == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCharset, name)
	}
	return charsetDecoder{dec: dec}, nil
}
