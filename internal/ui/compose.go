package ui

import (
	"time"
	"unicode/utf8"

	"github.com/faizmokh/diari/internal/markup"
)

// composer is the in-TUI entry editor. Text edits go through the markup
// editor operations; while a time range is tracked the caret moves over the
// pending text instead of the document.
type composer struct {
	state   markup.RangeState
	caret   int
	anchor  int
	formats markup.Formats
	now     func() time.Time
}

func newComposer(content string, now func() time.Time) composer {
	if now == nil {
		now = time.Now
	}
	end := utf8.RuneCountInString(content)
	return composer{
		state:  markup.Idle{Buffer: content},
		caret:  end,
		anchor: end,
		now:    now,
	}
}

func (c composer) visible() string {
	return c.state.Visible()
}

func (c composer) tracking() bool {
	return markup.IsTracking(c.state)
}

func (c composer) selection() markup.Selection {
	if c.anchor < c.caret {
		return markup.Selection{Start: c.anchor, End: c.caret}
	}
	return markup.Selection{Start: c.caret, End: c.anchor}
}

func (c *composer) setVisible(text string, caret int) {
	c.state = markup.SetVisible(c.state, text)
	c.caret = caret
	c.anchor = caret
}

// insert types text at the caret, replacing any selection.
func (c *composer) insert(text string) error {
	visible := c.visible()
	sel := c.selection()
	if !sel.IsEmpty() {
		visible = deleteRange(visible, sel)
	}
	out, err := markup.InsertAtCaret(visible, markup.Caret(sel.Start), text)
	if err != nil {
		return err
	}
	c.setVisible(out, sel.Start+utf8.RuneCountInString(text))
	return nil
}

func (c *composer) backspace() {
	sel := c.selection()
	if sel.IsEmpty() {
		if sel.Start == 0 {
			return
		}
		sel.Start--
	}
	c.setVisible(deleteRange(c.visible(), sel), sel.Start)
}

func (c *composer) deleteForward() {
	sel := c.selection()
	if sel.IsEmpty() {
		if sel.End >= utf8.RuneCountInString(c.visible()) {
			return
		}
		sel.End++
	}
	c.setVisible(deleteRange(c.visible(), sel), sel.Start)
}

// move shifts the caret by delta runes. With extend the anchor stays put and
// the selection grows.
func (c *composer) move(delta int, extend bool) {
	caret := c.caret + delta
	if caret < 0 {
		caret = 0
	}
	if n := utf8.RuneCountInString(c.visible()); caret > n {
		caret = n
	}
	c.caret = caret
	if !extend {
		c.anchor = caret
	}
}

func (c *composer) home() {
	runes := []rune(c.visible())
	caret := c.caret
	for caret > 0 && runes[caret-1] != '\n' {
		caret--
	}
	c.caret, c.anchor = caret, caret
}

func (c *composer) end() {
	runes := []rune(c.visible())
	caret := c.caret
	for caret < len(runes) && runes[caret] != '\n' {
		caret++
	}
	c.caret, c.anchor = caret, caret
}

func (c *composer) toggleBold() error {
	return c.toggle(markup.ToggleBold, markup.BoldMarker)
}

func (c *composer) toggleItalic() error {
	return c.toggle(markup.ToggleItalic, markup.ItalicMarker)
}

type toggleFunc func(string, markup.Selection, markup.Formats) (string, markup.Formats, error)

func (c *composer) toggle(fn toggleFunc, marker string) error {
	visible := c.visible()
	sel := c.selection()
	out, formats, err := fn(visible, sel, c.formats)
	if err != nil {
		return err
	}
	c.formats = formats

	width := utf8.RuneCountInString(marker)
	caret := c.caret
	switch {
	case !sel.IsEmpty():
		caret = sel.End + 2*width
	case out != visible:
		caret += width
	}
	c.setVisible(out, caret)
	return nil
}

func (c *composer) header() error {
	visible := c.visible()
	out, err := markup.InsertHeader(visible, c.selection())
	if err != nil {
		return err
	}
	caret := c.caret
	if out != visible {
		caret += utf8.RuneCountInString(markup.HeaderPrefix)
	}
	c.setVisible(out, caret)
	return nil
}

func (c *composer) bullet() error {
	sel := c.selection()
	out, err := markup.InsertBullet(c.visible(), markup.Caret(sel.Start))
	if err != nil {
		return err
	}
	c.setVisible(out, sel.Start+markup.BulletCaretAdvance)
	return nil
}

func (c *composer) stamp() error {
	return c.insertLiteral(markup.Timestamp(c.now()))
}

func (c *composer) insertLiteral(literal string) error {
	sel := c.selection()
	out, err := markup.InsertAtCaret(c.visible(), markup.Caret(sel.Start), literal)
	if err != nil {
		return err
	}
	c.setVisible(out, sel.Start+utf8.RuneCountInString(literal))
	return nil
}

// toggleRange starts tracking or folds the tracked text into the document.
// It reports whether a range is now being tracked.
func (c *composer) toggleRange() (bool, error) {
	var (
		next markup.RangeState
		err  error
	)
	if c.tracking() {
		next, err = markup.StopTracking(c.state, c.now())
	} else {
		next, err = markup.StartTracking(c.state, c.now())
	}
	if err != nil {
		return c.tracking(), err
	}
	c.state = next
	c.formats = markup.Formats{}
	end := utf8.RuneCountInString(c.visible())
	c.caret, c.anchor = end, end
	return c.tracking(), nil
}

// document returns the buffer to persist, folding in any tracked range.
func (c composer) document() string {
	if c.tracking() {
		if next, err := markup.StopTracking(c.state, c.now()); err == nil {
			return next.Document()
		}
	}
	return c.state.Document()
}

func deleteRange(s string, sel markup.Selection) string {
	runes := []rune(s)
	if sel.Start < 0 || sel.End > len(runes) || sel.Start > sel.End {
		return s
	}
	return string(runes[:sel.Start]) + string(runes[sel.End:])
}
