package rewrite

import (
	"fmt"
	"strings"
)

// Length is the target size of a rewritten article.
type Length string

const (
	Short  Length = "short"
	Medium Length = "medium"
	Long   Length = "long"
)

var lengthBands = map[Length][2]int{
	Short:  {150, 300},
	Medium: {400, 600},
	Long:   {800, 1200},
}

// ParseLength reports whether s names a known length. Unknown values map to
// Medium.
func ParseLength(s string) (Length, bool) {
	l := Length(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := lengthBands[l]; ok {
		return l, true
	}
	return Medium, false
}

// Words returns the word band of the length.
func (l Length) Words() (int, int) {
	band, ok := lengthBands[l]
	if !ok {
		band = lengthBands[Medium]
	}
	return band[0], band[1]
}

func (l Length) instruction() string {
	lo, hi := l.Words()
	switch l {
	case Short:
		return fmt.Sprintf("Be concise: 2-3 paragraphs, between %d and %d words.", lo, hi)
	case Long:
		return fmt.Sprintf("Write a complete, detailed analysis between %d and %d words.", lo, hi)
	default:
		return fmt.Sprintf("Develop the topic well: 4-6 paragraphs, between %d and %d words.", lo, hi)
	}
}
