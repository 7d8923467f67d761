package journal

import (
	"bufio"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// contentIndent prefixes every content line so markup headers inside an entry
// never read as file headings.
const contentIndent = "    "

const maxLineSize = 1 << 20

// Parser incrementally reads Markdown journals and emits sections as they are discovered.
type Parser struct {
	r        io.Reader
	scanner  *bufio.Scanner
	pending  *DateSection
	initDone bool
}

// NewParser returns a parser ready to tokenize Markdown from r.
func NewParser(r io.Reader) *Parser {
	return &Parser{r: r}
}

// NextSection streams the next parsed DateSection, returning io.EOF when done.
func (p *Parser) NextSection() (*DateSection, error) {
	if p.r == nil && p.scanner == nil && p.pending == nil {
		return nil, io.EOF
	}

	if !p.initDone {
		if p.r == nil {
			return nil, io.EOF
		}
		p.scanner = bufio.NewScanner(p.r)
		p.scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		p.initDone = true
	}

	section := p.pending
	p.pending = nil

	if section == nil {
		var err error
		section, err = p.consumeUntilSection()
		if err != nil {
			return nil, err
		}
		if section == nil {
			return nil, io.EOF
		}
	}

	var body entryBody
	for p.scanner.Scan() {
		raw := p.scanner.Text()

		if body.open() {
			if strings.HasPrefix(raw, contentIndent) {
				body.add(raw[len(contentIndent):])
				continue
			}
			if strings.TrimSpace(raw) == "" {
				body.blanks++
				continue
			}
		}

		line := strings.TrimSpace(raw)
		if date, ok := parseSectionHeading(line); ok {
			body.flush(section)
			p.pending = &DateSection{Date: date}
			return section, nil
		}

		body.flush(section)
		if entry, ok := parseEntryHeading(line, section.Date); ok {
			body.entry = &entry
		}
	}

	if err := p.scanner.Err(); err != nil {
		return nil, err
	}

	body.flush(section)
	return section, nil
}

func (p *Parser) consumeUntilSection() (*DateSection, error) {
	for p.scanner.Scan() {
		line := strings.TrimSpace(p.scanner.Text())
		if date, ok := parseSectionHeading(line); ok {
			return &DateSection{Date: date}, nil
		}
	}

	if err := p.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, nil
}

// entryBody accumulates content lines for the entry currently being read.
// Blank lines are held back until another content line proves they belong
// to the entry.
type entryBody struct {
	entry  *Entry
	lines  []string
	blanks int
}

func (b *entryBody) open() bool {
	return b.entry != nil
}

func (b *entryBody) add(line string) {
	for ; b.blanks > 0; b.blanks-- {
		b.lines = append(b.lines, "")
	}
	b.lines = append(b.lines, line)
}

func (b *entryBody) flush(section *DateSection) {
	if b.entry != nil {
		b.entry.Content = strings.Join(b.lines, "\n")
		section.Entries = append(section.Entries, *b.entry)
	}
	*b = entryBody{}
}

var entryPattern = regexp.MustCompile(`^### \[(\d{2}:\d{2})\] ([0-9a-fA-F-]{36})(.*)$`)

func parseEntryHeading(line string, date time.Time) (Entry, bool) {
	matches := entryPattern.FindStringSubmatch(line)
	if matches == nil {
		return Entry{}, false
	}

	parsedTime, err := time.Parse("15:04", matches[1])
	if err != nil {
		return Entry{}, false
	}

	id, err := uuid.Parse(matches[2])
	if err != nil {
		return Entry{}, false
	}

	entryTime := time.Date(
		date.Year(), date.Month(), date.Day(),
		parsedTime.Hour(), parsedTime.Minute(), 0, 0,
		date.Location(),
	)

	return Entry{
		ID:   id,
		Time: entryTime,
		Tags: parseTags(matches[3]),
	}, true
}

func parseSectionHeading(line string) (time.Time, bool) {
	if !strings.HasPrefix(line, "## ") {
		return time.Time{}, false
	}
	dateStr := strings.TrimSpace(line[3:])
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

func parseTags(segment string) []string {
	fields := strings.Fields(segment)
	var tags []string
	for _, field := range fields {
		if strings.HasPrefix(field, "#") && len(field) > 1 {
			tag := strings.TrimLeft(field, "#")
			if tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}
