package markup

import (
	"strings"
	"time"
)

// Formats is the caret-mode emphasis state owned by the host between keystrokes.
// It is not derivable from the buffer and must be carried across editor calls.
type Formats struct {
	Bold   bool
	Italic bool
}

// ToggleBold wraps a non-empty selection in ** or, for a bare caret, opens or
// closes a bold run depending on formats.Bold.
func ToggleBold(buffer string, sel Selection, formats Formats) (string, Formats, error) {
	out, active, err := toggle(buffer, sel, BoldMarker, formats.Bold, lastBoldMarker)
	if err != nil {
		return buffer, formats, err
	}
	formats.Bold = active
	return out, formats, nil
}

// ToggleItalic is the * counterpart of ToggleBold.
func ToggleItalic(buffer string, sel Selection, formats Formats) (string, Formats, error) {
	out, active, err := toggle(buffer, sel, ItalicMarker, formats.Italic, lastItalicMarker)
	if err != nil {
		return buffer, formats, err
	}
	formats.Italic = active
	return out, formats, nil
}

func toggle(buffer string, sel Selection, marker string, active bool, findOpen func(string) int) (string, bool, error) {
	if err := sel.Validate(buffer); err != nil {
		return buffer, active, err
	}

	start := byteOffset(buffer, sel.Start)
	if !sel.IsEmpty() {
		end := byteOffset(buffer, sel.End)
		return buffer[:start] + marker + buffer[start:end] + marker + buffer[end:], active, nil
	}

	if !active {
		return buffer[:start] + marker + buffer[start:], true, nil
	}

	// Only close the run when something was typed after the opener, so the
	// buffer never gains an empty **** or ** pair.
	before := buffer[:start]
	open := findOpen(before)
	if open < 0 || open+len(marker) >= len(before) {
		return buffer, false, nil
	}
	return before + marker + buffer[start:], false, nil
}

func lastBoldMarker(before string) int {
	return strings.LastIndex(before, BoldMarker)
}

// lastItalicMarker prefers a lone '*' so that bold markers are skipped, falling
// back to the last '*' when an italic opener abuts a bold one.
func lastItalicMarker(before string) int {
	for i := len(before) - 1; i >= 0; i-- {
		if before[i] != '*' {
			continue
		}
		if i > 0 && before[i-1] == '*' {
			continue
		}
		if i+1 < len(before) && before[i+1] == '*' {
			continue
		}
		return i
	}
	return strings.LastIndexByte(before, '*')
}

// InsertHeader prefixes the line containing sel.Start with "# " unless it
// already starts with it.
func InsertHeader(buffer string, sel Selection) (string, error) {
	if err := sel.Validate(buffer); err != nil {
		return buffer, err
	}

	offset := byteOffset(buffer, sel.Start)
	lineStart := strings.LastIndexByte(buffer[:offset], '\n') + 1
	lineEnd := len(buffer)
	if idx := strings.IndexByte(buffer[lineStart:], '\n'); idx >= 0 {
		lineEnd = lineStart + idx
	}

	if strings.HasPrefix(buffer[lineStart:lineEnd], HeaderPrefix) {
		return buffer, nil
	}
	return buffer[:lineStart] + HeaderPrefix + buffer[lineStart:], nil
}

// InsertBullet starts a new bullet line at the caret. The host moves the caret
// forward by BulletCaretAdvance once the edit settles.
func InsertBullet(buffer string, sel Selection) (string, error) {
	return InsertAtCaret(buffer, sel, bulletInsertion)
}

// InsertAtCaret splices literal into buffer at sel.Start. Any selected text is kept.
func InsertAtCaret(buffer string, sel Selection, literal string) (string, error) {
	if err := sel.Validate(buffer); err != nil {
		return buffer, err
	}
	offset := byteOffset(buffer, sel.Start)
	return buffer[:offset] + literal + buffer[offset:], nil
}

// Timestamp formats t as an inline point-in-time token, e.g. <t:09:30:15 AM>.
func Timestamp(t time.Time) string {
	return "<t:" + t.Format(timestampLayout) + ">"
}

// TimeRange wraps body in a range token spanning start to end.
func TimeRange(start, end time.Time, body string) string {
	var b strings.Builder
	b.Grow(len(body) + 32)
	b.WriteString("<rs:")
	b.WriteString(start.Format(rangeLayout))
	b.WriteByte('-')
	b.WriteString(end.Format(rangeLayout))
	b.WriteByte('>')
	b.WriteString(body)
	b.WriteString(RangeEndToken)
	return b.String()
}
