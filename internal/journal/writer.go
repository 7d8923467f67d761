package journal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/faizmokh/diari/internal/files"
	"github.com/faizmokh/diari/internal/logger"
)

// Writer handles append, edit, and delete operations on Markdown journal files.
type Writer struct {
	manager *files.Manager
}

// NewWriter wires the dependencies required to manipulate Markdown journal files.
func NewWriter(manager *files.Manager) *Writer {
	return &Writer{manager: manager}
}

// Append adds a new entry at the end of the target section, creating the section if needed.
// Entries without an ID are assigned one; the stored entry is returned.
func (w *Writer) Append(ctx context.Context, date time.Time, entry Entry) (Entry, error) {
	if w == nil || w.manager == nil {
		return Entry{}, fmt.Errorf("writer not initialized with file manager")
	}

	entry = normalizeEntryTime(date, entry)
	entry.Tags = NormalizeTags(entry.Tags)
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	path, lines, state, err := w.loadSection(ctx, date)
	if err != nil {
		return Entry{}, err
	}

	if state == nil {
		if needsSeparation(lines) {
			lines = append(lines, "")
		}
		lines = append(lines, dateHeading(date))
		lines = append(lines, formatEntry(entry)...)
	} else {
		lines = insertLines(lines, state.end, formatEntry(entry))
	}

	if err := writeLines(path, lines); err != nil {
		return Entry{}, err
	}
	logger.Infof("appended entry %s on %s", entry.ID, date.Format(dateLayout))
	return entry, nil
}

// Edit replaces the entry carrying id with the supplied entry. The ID is kept.
func (w *Writer) Edit(ctx context.Context, date time.Time, id uuid.UUID, updated Entry) error {
	updated = normalizeEntryTime(date, updated)
	updated.Tags = NormalizeTags(updated.Tags)
	updated.ID = id

	path, lines, state, err := w.loadSection(ctx, date)
	if err != nil {
		return err
	}
	if state == nil {
		return ErrSectionNotFound
	}

	idx := state.section.Index(id)
	if idx < 0 {
		return ErrEntryNotFound
	}

	span := state.spans[idx]
	rest := append(formatEntry(updated), lines[span.end:]...)
	lines = append(lines[:span.start], rest...)
	if err := writeLines(path, lines); err != nil {
		return err
	}
	logger.Infof("edited entry %s on %s", id, date.Format(dateLayout))
	return nil
}

// Delete removes the entry carrying id from the section and returns it.
func (w *Writer) Delete(ctx context.Context, date time.Time, id uuid.UUID) (Entry, error) {
	path, lines, state, err := w.loadSection(ctx, date)
	if err != nil {
		return Entry{}, err
	}
	if state == nil {
		return Entry{}, ErrSectionNotFound
	}

	idx := state.section.Index(id)
	if idx < 0 {
		return Entry{}, ErrEntryNotFound
	}

	span := state.spans[idx]
	entry := state.section.Entries[idx]
	lines = append(lines[:span.start], lines[span.end:]...)
	if err := writeLines(path, lines); err != nil {
		return Entry{}, err
	}
	logger.Infof("deleted entry %s on %s", id, date.Format(dateLayout))
	return entry, nil
}

// loadSection pulls the current entries for the date together with the line
// span each entry occupies.
func (w *Writer) loadSection(ctx context.Context, date time.Time) (string, []string, *sectionState, error) {
	if w == nil || w.manager == nil {
		return "", nil, nil, fmt.Errorf("writer not initialized with file manager")
	}
	if err := ctx.Err(); err != nil {
		return "", nil, nil, err
	}

	path, err := w.manager.EnsureMonthFile(date)
	if err != nil {
		return "", nil, nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, nil, err
	}

	lines := splitLines(string(data))
	heading := dateHeading(date)

	start := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == heading {
			start = i
			break
		}
	}

	if start == -1 {
		return path, lines, nil, nil
	}

	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), "## ") && !strings.HasPrefix(lines[i], contentIndent) {
			end = i
			break
		}
	}
	end = trimTrailingBlank(lines, start+1, end)

	section, spans := scanEntries(lines, start+1, end, startOfDay(date))

	state := &sectionState{
		section: section,
		start:   start,
		end:     end,
		spans:   spans,
	}

	return path, lines, state, nil
}

type sectionState struct {
	section DateSection
	start   int
	end     int
	spans   []lineSpan
}

// lineSpan is the half-open range of lines holding one entry block.
type lineSpan struct {
	start int
	end   int
}

// scanEntries re-parses the section body so each entry can be mapped back to
// the lines it came from.
func scanEntries(lines []string, from, to int, date time.Time) (DateSection, []lineSpan) {
	section := DateSection{Date: date}
	var spans []lineSpan

	for i := from; i < to; i++ {
		entry, ok := parseEntryHeading(strings.TrimSpace(lines[i]), date)
		if !ok {
			continue
		}

		j := i + 1
		for j < to && isContentLine(lines[j]) {
			j++
		}
		blockEnd := trimTrailingBlank(lines, i+1, j)

		var body []string
		for _, line := range lines[i+1 : blockEnd] {
			body = append(body, strings.TrimPrefix(line, contentIndent))
		}
		entry.Content = strings.Join(body, "\n")

		section.Entries = append(section.Entries, entry)
		spans = append(spans, lineSpan{start: i, end: blockEnd})
		i = j - 1
	}
	return section, spans
}

func isContentLine(line string) bool {
	return strings.HasPrefix(line, contentIndent) || strings.TrimSpace(line) == ""
}

// trimTrailingBlank drops trailing separator lines. An indented blank line is
// content and stays.
func trimTrailingBlank(lines []string, from, to int) int {
	for to > from && isSeparator(lines[to-1]) {
		to--
	}
	return to
}

func isSeparator(line string) bool {
	return !strings.HasPrefix(line, contentIndent) && strings.TrimSpace(line) == ""
}

func dateHeading(date time.Time) string {
	return "## " + date.Format(dateLayout)
}

func splitLines(input string) []string {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	lines := strings.Split(input, "\n")
	// Remove the trailing empty element produced by Split when the input ends with a newline.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func needsSeparation(lines []string) bool {
	if len(lines) == 0 {
		return false
	}
	return !isSeparator(lines[len(lines)-1])
}

func insertLines(lines []string, index int, block []string) []string {
	if index < 0 || index > len(lines) {
		return append(lines, block...)
	}
	tail := append(append([]string{}, block...), lines[index:]...)
	return append(lines[:index], tail...)
}

func writeLines(path string, lines []string) error {
	dir := filepath.Dir(path)
	temp, err := os.CreateTemp(dir, "diari-*")
	if err != nil {
		return err
	}
	defer os.Remove(temp.Name())

	content := strings.Join(lines, "\n")
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	if _, err := temp.WriteString(content); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Sync(); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Close(); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err == nil {
		if err := os.Chmod(temp.Name(), info.Mode()); err != nil {
			return err
		}
	}

	return os.Rename(temp.Name(), path)
}

func formatEntry(entry Entry) []string {
	var builder strings.Builder
	builder.Grow(56 + len(entry.Tags)*8)
	fmt.Fprintf(&builder, "### [%s] %s", entry.Time.Format("15:04"), entry.ID)
	for _, tag := range entry.Tags {
		builder.WriteByte(' ')
		builder.WriteByte('#')
		builder.WriteString(tag)
	}

	block := []string{builder.String()}
	if entry.Content == "" {
		return block
	}
	content := strings.ReplaceAll(entry.Content, "\r\n", "\n")
	for _, line := range strings.Split(content, "\n") {
		block = append(block, contentIndent+line)
	}
	return block
}

func normalizeEntryTime(date time.Time, entry Entry) Entry {
	loc := date.Location()
	if loc == nil {
		loc = time.UTC
	}
	hour := entry.Time.Hour()
	min := entry.Time.Minute()
	if entry.Time.IsZero() {
		hour = 0
		min = 0
	}
	entry.Time = time.Date(date.Year(), date.Month(), date.Day(), hour, min, 0, 0, loc)
	return entry
}
