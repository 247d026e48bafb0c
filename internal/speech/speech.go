// Package speech holds helpers shared by the text-to-speech backends.
package speech

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"
)

// LooksLikeMP3 reports whether b starts with an ID3v2 tag or an MPEG audio
// frame sync word.
func LooksLikeMP3(b []byte) bool {
	if len(b) < 3 {
		return false
	}
	if bytes.HasPrefix(b, []byte("ID3")) {
		return true
	}
	return b[0] == 0xFF && b[1]&0xE0 == 0xE0
}

// Chunk splits text into pieces of at most max bytes, preferring sentence
// ends, then whitespace. Words longer than max are cut on rune boundaries.
// Empty pieces are dropped.
func Chunk(text string, max int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if max <= 0 || len(text) <= max {
		return []string{text}
	}

	var out []string
	for len(text) > max {
		cut := splitPoint(text, max)
		piece := strings.TrimSpace(text[:cut])
		if piece != "" {
			out = append(out, piece)
		}
		text = strings.TrimSpace(text[cut:])
	}
	if text != "" {
		out = append(out, text)
	}
	return out
}

// splitPoint returns the byte offset (<= max, > 0) at which to cut text.
func splitPoint(text string, max int) int {
	window := text[:max]
	for _, sep := range []string{". ", "! ", "? ", "\n"} {
		if i := strings.LastIndex(window, sep); i > 0 {
			return i + len(sep)
		}
	}
	if i := strings.LastIndexFunc(window, unicode.IsSpace); i > 0 {
		_, size := utf8.DecodeRuneInString(window[i:])
		return i + size
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	if cut == 0 {
		_, size := utf8.DecodeRuneInString(text)
		cut = size
	}
	return cut
}
