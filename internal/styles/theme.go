// Package styles paints rendered markup with lipgloss.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/faizmokh/diari/internal/config"
	"github.com/faizmokh/diari/internal/journal"
	"github.com/faizmokh/diari/internal/markup"
)

// Theme defines the colour palette used for entries.
type Theme struct {
	// Text is the default text colour.
	Text lipgloss.Color

	// Accent colours lines carrying a timestamp.
	Accent lipgloss.Color

	// Primary colours lines carrying a time range.
	Primary lipgloss.Color

	// Muted is for secondary chrome such as help and dates.
	Muted lipgloss.Color

	// Header colours "# " lines.
	Header lipgloss.Color
}

// DefaultTheme returns the theme built from the default config.
func DefaultTheme() *Theme {
	return FromConfig(config.NewDefaultConfig().Theme)
}

// FromConfig converts configured colour strings into a Theme.
func FromConfig(cfg config.ThemeConfig) *Theme {
	return &Theme{
		Text:    lipgloss.Color(cfg.Text),
		Accent:  lipgloss.Color(cfg.Accent),
		Primary: lipgloss.Color(cfg.Primary),
		Muted:   lipgloss.Color(cfg.Muted),
		Header:  lipgloss.Color(cfg.Header),
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	Plain  lipgloss.Style
	Bold   lipgloss.Style
	Italic lipgloss.Style
	Header lipgloss.Style
	Bullet lipgloss.Style

	// Muted is used for dates, help, and other chrome.
	Muted lipgloss.Style
	// Selected highlights the focused row in lists.
	Selected lipgloss.Style
	// Error is used for failure messages.
	Error lipgloss.Style
}

// NewStyles builds styles from a theme. A nil theme uses DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	base := lipgloss.NewStyle().Foreground(theme.Text)
	return &Styles{
		theme:    theme,
		Plain:    base,
		Bold:     base.Bold(true),
		Italic:   base.Italic(true),
		Header:   lipgloss.NewStyle().Foreground(theme.Header).Bold(true),
		Bullet:   base,
		Muted:    lipgloss.NewStyle().Foreground(theme.Muted),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")),
	}
}

// Theme returns the palette the styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Segment returns the style for a segment: its kind picks weight and slant,
// its tone picks colour, and clickable segments are underlined.
func (s *Styles) Segment(seg markup.Segment) lipgloss.Style {
	var style lipgloss.Style
	switch seg.Kind {
	case markup.KindBold:
		style = s.Bold
	case markup.KindItalic:
		style = s.Italic
	case markup.KindHeader:
		style = s.Header
	case markup.KindBullet:
		style = s.Bullet
	default:
		style = s.Plain
	}

	switch seg.Tone {
	case markup.ToneAccent:
		style = style.Foreground(s.theme.Accent)
	case markup.TonePrimary:
		style = style.Foreground(s.theme.Primary)
	}

	if seg.Clickable != nil {
		style = style.Underline(true)
	}
	return style
}

// Paint renders lines as styled terminal text. Trailing newlines carried by
// segments are written outside the style so colours do not bleed.
func (s *Styles) Paint(lines []markup.Line) string {
	var b strings.Builder
	for _, line := range lines {
		for _, seg := range line.Segments {
			text, newline := strings.CutSuffix(seg.Text, "\n")
			if text != "" {
				b.WriteString(s.Segment(seg).Render(text))
			}
			if newline {
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}

// PaintBuffer renders and paints a raw markup buffer.
func (s *Styles) PaintBuffer(buffer string) string {
	return s.Paint(markup.Render(buffer))
}

// Tag paints a #tag in its mood colour.
func (s *Styles) Tag(tag string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(journal.TagColor(tag))).Render("#" + tag)
}
