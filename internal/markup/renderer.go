package markup

import (
	"io"
	"strings"
)

// Segment is one styled run of text within a rendered line.
type Segment struct {
	Text      string      `json:"text"`
	Kind      Kind        `json:"kind"`
	Tone      Tone        `json:"tone"`
	Clickable *Annotation `json:"clickable,omitempty"`
}

// Line groups the segments produced from one buffer line.
type Line struct {
	Index      int         `json:"index"`
	Tone       Tone        `json:"tone"`
	Annotation *Annotation `json:"annotation,omitempty"`
	Segments   []Segment   `json:"segments"`
}

// Text concatenates the line's segments.
func (l Line) Text() string {
	var b strings.Builder
	for _, seg := range l.Segments {
		b.WriteString(seg.Text)
	}
	return b.String()
}

// Renderer walks a buffer one line at a time. It holds no state beyond its
// position, so Reset restarts the same sequence.
type Renderer struct {
	buffer string
	rest   string
	index  int
	done   bool
}

// NewRenderer prepares a renderer over buffer. An empty buffer yields no lines.
func NewRenderer(buffer string) *Renderer {
	r := &Renderer{buffer: buffer}
	r.Reset()
	return r
}

// Reset rewinds the renderer to the first line.
func (r *Renderer) Reset() {
	r.rest = r.buffer
	r.index = 0
	r.done = r.buffer == ""
}

// Next renders the following line, returning io.EOF once the buffer is exhausted.
// Every line except the last has "\n" appended to its final segment.
func (r *Renderer) Next() (Line, error) {
	if r == nil || r.done {
		return Line{}, io.EOF
	}

	raw, after, found := strings.Cut(r.rest, "\n")
	line := renderLine(raw)
	line.Index = r.index
	r.index++

	if found {
		r.rest = after
		last := len(line.Segments) - 1
		line.Segments[last].Text += "\n"
	} else {
		r.rest = ""
		r.done = true
	}
	return line, nil
}

// Render collects every line of buffer.
func Render(buffer string) []Line {
	r := NewRenderer(buffer)
	var lines []Line
	for {
		line, err := r.Next()
		if err != nil {
			return lines
		}
		lines = append(lines, line)
	}
}

// Segments flattens Render into a single slice.
func Segments(buffer string) []Segment {
	var segments []Segment
	for _, line := range Render(buffer) {
		segments = append(segments, line.Segments...)
	}
	return segments
}

// PlainText is the concatenated segment text of buffer: markers stripped,
// line breaks kept.
func PlainText(buffer string) string {
	var b strings.Builder
	b.Grow(len(buffer))
	for _, seg := range Segments(buffer) {
		b.WriteString(seg.Text)
	}
	return b.String()
}

// Summary returns the first non-blank rendered line with surrounding space
// trimmed, or "" when the buffer has no visible text.
func Summary(buffer string) string {
	r := NewRenderer(buffer)
	for {
		line, err := r.Next()
		if err != nil {
			return ""
		}
		if text := strings.TrimSpace(line.Text()); text != "" {
			return text
		}
	}
}

func renderLine(raw string) Line {
	line := Line{Tone: classify(raw)}

	// Only the first annotation on a line is surfaced; later ones are stripped.
	if m := annotationPattern.FindStringSubmatch(raw); m != nil {
		ann := annotationFor(m[1], m[2])
		line.Annotation = &ann
	}

	clean := stripPattern.ReplaceAllString(raw, "")

	switch {
	case strings.HasPrefix(clean, HeaderPrefix):
		line.Segments = []Segment{{Text: clean[len(HeaderPrefix):], Kind: KindHeader}}
	case isBullet(clean):
		line.Segments = []Segment{{Text: clean, Kind: KindBullet}}
	default:
		line.Segments = scanEmphasis(clean)
	}

	for i := range line.Segments {
		line.Segments[i].Tone = line.Tone
		if line.Annotation != nil {
			ann := *line.Annotation
			line.Segments[i].Clickable = &ann
		}
	}
	return line
}

func classify(raw string) Tone {
	switch {
	case strings.Contains(raw, "<t:"):
		return ToneAccent
	case strings.Contains(raw, "<r:"), strings.Contains(raw, "<rs:"):
		return TonePrimary
	default:
		return ToneDefault
	}
}

func isBullet(line string) bool {
	return strings.HasPrefix(line, BulletPrefix) || strings.HasPrefix(line, legacyBulletPrefix)
}

// scanEmphasis runs bold over the whole line first, then italic over whatever
// follows the last bold match. Text before a bold match is never re-scanned
// for italics. Marker pairs with nothing between them stay literal.
func scanEmphasis(line string) []Segment {
	var segments []Segment

	cursor := 0
	for _, m := range boldPattern.FindAllStringSubmatchIndex(line, -1) {
		if m[2] == m[3] {
			continue
		}
		if m[0] > cursor {
			segments = append(segments, Segment{Text: line[cursor:m[0]], Kind: KindPlain})
		}
		segments = append(segments, Segment{Text: line[m[2]:m[3]], Kind: KindBold})
		cursor = m[1]
	}

	remainder := line[cursor:]
	cursor = 0
	for _, m := range italicPattern.FindAllStringSubmatchIndex(remainder, -1) {
		if m[2] == m[3] {
			continue
		}
		if m[0] > cursor {
			segments = append(segments, Segment{Text: remainder[cursor:m[0]], Kind: KindPlain})
		}
		segments = append(segments, Segment{Text: remainder[m[2]:m[3]], Kind: KindItalic})
		cursor = m[1]
	}
	if cursor < len(remainder) {
		segments = append(segments, Segment{Text: remainder[cursor:], Kind: KindPlain})
	}

	if len(segments) == 0 {
		segments = append(segments, Segment{Text: line, Kind: KindPlain})
	}
	return segments
}
