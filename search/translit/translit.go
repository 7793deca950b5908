// Package translit turns text into a pinyin string that can be used for
// substring matching, so "你好" can be found by typing "nihao".
package translit

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"
)

var args = newArgs()

func newArgs() pinyin.Args {
	a := pinyin.NewArgs()
	a.Style = pinyin.Normal
	a.Heteronym = false
	// Anything that is not a han character is kept as is, minus whitespace.
	a.Fallback = func(r rune, _ pinyin.Args) []string {
		if unicode.IsSpace(r) {
			return nil
		}
		return []string{string(r)}
	}
	return a
}

// Normalize returns the tone free pinyin of text with all separators removed
// and lowercased. Latin text comes back lowercased and without spaces.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, syllable := range pinyin.Pinyin(text, args) {
		if len(syllable) == 0 {
			continue
		}
		b.WriteString(syllable[0])
	}
	return strings.ToLower(b.String())
}
