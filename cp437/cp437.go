// Package cp437 converts between CP437 glyph ordinals and Unicode runes
package cp437

import (
	"golang.org/x/text/encoding/charmap"
)

// controlGlyphs holds the display forms of ordinals 0x00-0x1F, which the charmap
// decodes as C0 control codes
var controlGlyphs = [32]rune{
	' ', '☺', '☻', '♥', '♦', '♣', '♠', '•', '◘', '○', '◙', '♂', '♀', '♪', '♫', '☼',
	'►', '◄', '↕', '‼', '¶', '§', '▬', '↨', '↑', '↓', '→', '←', '∟', '↔', '▲', '▼',
}

// house is the display form of 0x7F
const house = '⌂'

var glyphOrdinal map[rune]byte

func init() {
	glyphOrdinal = make(map[rune]byte, len(controlGlyphs)+1)
	for i, r := range controlGlyphs {
		if i == 0 {
			continue
		}
		glyphOrdinal[r] = byte(i)
	}
	glyphOrdinal[house] = 0x7f
}

// Rune returns the printable Unicode form of a glyph ordinal
func Rune(ord byte) rune {
	switch {
	case ord < 0x20:
		return controlGlyphs[ord]
	case ord == 0x7f:
		return house
	}
	return charmap.CodePage437.DecodeByte(ord)
}

// Ordinal returns the glyph ordinal for r, false if CP437 has no such glyph
func Ordinal(r rune) (byte, bool) {
	if o, ok := glyphOrdinal[r]; ok {
		return o, true
	}
	return charmap.CodePage437.EncodeRune(r)
}

// Encode maps a string to glyph ordinals, substituting '?' for unmapped runes
func Encode(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		o, ok := Ordinal(r)
		if !ok {
			o = '?'
		}
		out = append(out, o)
	}
	return out
}
