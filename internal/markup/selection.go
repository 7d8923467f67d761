package markup

import (
	"fmt"
	"unicode/utf8"
)

// Selection is a range of character (rune) offsets into a buffer.
// Start == End represents a bare caret.
type Selection struct {
	Start int
	End   int
}

// Caret returns an empty selection positioned at offset.
func Caret(offset int) Selection {
	return Selection{Start: offset, End: offset}
}

// IsEmpty reports whether the selection is a caret with no extent.
func (s Selection) IsEmpty() bool {
	return s.Start == s.End
}

// Validate checks 0 <= Start <= End <= len(buffer) in runes.
func (s Selection) Validate(buffer string) error {
	length := utf8.RuneCountInString(buffer)
	if s.Start < 0 || s.End < s.Start || s.End > length {
		return fmt.Errorf("%w: [%d, %d] in buffer of length %d", ErrInvalidSelection, s.Start, s.End, length)
	}
	return nil
}

// byteOffset converts a rune offset into a byte index within s.
func byteOffset(s string, runes int) int {
	if runes <= 0 {
		return 0
	}
	count := 0
	for i := range s {
		if count == runes {
			return i
		}
		count++
	}
	return len(s)
}
