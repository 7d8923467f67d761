package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"

	"github.com/faizmokh/diari/internal/journal"
	"github.com/faizmokh/diari/internal/markup"
)

const caretGlyph = "│"

// View renders the frame.
func (m Model) View() string {
	var b strings.Builder

	header := m.currentDate.Format("Monday, 02 January 2006")
	b.WriteString(m.styles.Header.Render(header))
	b.WriteByte('\n')
	b.WriteString(m.styles.Muted.Render(strings.Repeat("─", len([]rune(header)))))
	b.WriteString("\n\n")

	switch m.mode {
	case modeCompose:
		b.WriteString(m.composeView())
	case modeDetail:
		b.WriteString(m.viewport.View())
		b.WriteByte('\n')
	default:
		b.WriteString(m.listView())
	}

	if m.errorLine != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render("! " + m.errorLine))
		b.WriteByte('\n')
	} else if m.statusLine != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render(m.statusLine))
		b.WriteByte('\n')
	}

	switch m.mode {
	case modeMeta:
		b.WriteString("\n")
		b.WriteString(m.inputLabel)
		b.WriteByte('\n')
		b.WriteString("> ")
		b.WriteString(m.inputBuffer)
		b.WriteByte('\n')
	case modeConfirmDelete:
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Delete entry %d? (y/n, Esc to cancel)", m.selected+1))
		b.WriteByte('\n')
	}

	b.WriteString("\n")
	var keys help.KeyMap = m.browseKeys
	if m.mode == modeCompose {
		keys = m.composeKeys
	}
	b.WriteString(m.help.View(keys))
	b.WriteByte('\n')

	return b.String()
}

func (m Model) listView() string {
	if m.loading {
		return "Loading...\n"
	}
	if len(m.section.Entries) == 0 {
		return m.styles.Muted.Render("(no entries)") + "\n"
	}

	var b strings.Builder
	for i, entry := range m.section.Entries {
		line := m.formatEntry(entry)
		if i == m.selected {
			b.WriteString(m.styles.Selected.Render("> "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// formatEntry renders a list row: time, the first visible line in its
// rendered style, and tags in their mood colours.
func (m Model) formatEntry(entry journal.Entry) string {
	var b strings.Builder
	b.WriteString(m.styles.Muted.Render("[" + entry.Time.Format("15:04") + "]"))

	if lines := markup.Render(entry.Content); len(lines) > 0 {
		if first := firstVisibleLine(lines); first != nil {
			b.WriteByte(' ')
			b.WriteString(strings.TrimSuffix(m.styles.Paint([]markup.Line{*first}), "\n"))
		}
	}

	for _, tag := range entry.Tags {
		b.WriteByte(' ')
		b.WriteString(m.styles.Tag(tag))
	}
	return b.String()
}

func firstVisibleLine(lines []markup.Line) *markup.Line {
	for i := range lines {
		if strings.TrimSpace(lines[i].Text()) != "" {
			return &lines[i]
		}
	}
	return nil
}

// detailContent paints a full entry followed by the annotations found on
// its lines.
func (m Model) detailContent(entry journal.Entry) string {
	var b strings.Builder
	b.WriteString(m.styles.Muted.Render(entry.Time.Format("15:04")))
	for _, tag := range entry.Tags {
		b.WriteByte(' ')
		b.WriteString(m.styles.Tag(tag))
	}
	b.WriteString("\n\n")

	lines := markup.Render(entry.Content)
	b.WriteString(m.styles.Paint(lines))
	b.WriteByte('\n')

	var annotations []string
	for _, line := range lines {
		if line.Annotation == nil {
			continue
		}
		annotations = append(annotations, fmt.Sprintf("  line %d: %s %s", line.Index+1, line.Annotation.Type, line.Annotation.Value))
	}
	if len(annotations) > 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render("Annotations"))
		b.WriteByte('\n')
		b.WriteString(strings.Join(annotations, "\n"))
		b.WriteByte('\n')
	}
	return b.String()
}

// composeView shows the raw buffer with the caret and selection, then a
// rendered preview of the whole document.
func (m Model) composeView() string {
	var b strings.Builder
	c := m.composer

	if c.tracking() {
		if t, ok := c.state.(markup.Tracking); ok {
			b.WriteString(m.styles.Selected.Render(fmt.Sprintf("● Tracking since %s", t.Start.Format(time.Kitchen))))
			b.WriteString("\n\n")
		}
	}

	b.WriteString(m.editorText())
	b.WriteString("\n\n")

	var flags []string
	if c.formats.Bold {
		flags = append(flags, "bold")
	}
	if c.formats.Italic {
		flags = append(flags, "italic")
	}
	if len(flags) > 0 {
		b.WriteString(m.styles.Muted.Render("Typing: " + strings.Join(flags, ", ")))
		b.WriteString("\n\n")
	}

	b.WriteString(m.styles.Muted.Render("Preview"))
	b.WriteByte('\n')
	if preview := m.styles.PaintBuffer(c.document()); preview != "" {
		b.WriteString(preview)
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) editorText() string {
	c := m.composer
	runes := []rune(c.visible())
	sel := c.selection()

	var b strings.Builder
	b.WriteString(string(runes[:sel.Start]))
	if sel.IsEmpty() {
		b.WriteString(caretGlyph)
	} else {
		b.WriteString(m.styles.Selected.Render(string(runes[sel.Start:sel.End])))
	}
	b.WriteString(string(runes[sel.End:]))
	return b.String()
}
