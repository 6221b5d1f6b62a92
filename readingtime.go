package pubstatic

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

const wordsPerMinute = 200

// ReadingTime estimates how long text takes to read, e.g. "4 min read".
// CJK characters count as one word each.
func ReadingTime(text string) string {
	words := countWords(text)
	minutes := math.Ceil(float64(words) / wordsPerMinute)
	return fmt.Sprintf("%d min read", int(minutes))
}

func countWords(text string) int {
	n := 0
	for _, field := range strings.Fields(text) {
		cjk := 0
		other := false
		for _, r := range field {
			if unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul) {
				cjk++
			} else {
				other = true
			}
		}
		n += cjk
		if other {
			n++
		}
	}
	return n
}
