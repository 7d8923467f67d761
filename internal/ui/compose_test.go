package ui

import (
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func at(hour, min int) time.Time {
	return time.Date(2025, time.November, 2, hour, min, 0, 0, time.Local)
}

func TestComposerCaretBoldRun(t *testing.T) {
	c := newComposer("", nil)

	mustDo(t, c.insert("Hi "))
	mustDo(t, c.toggleBold())
	if !c.formats.Bold || c.caret != 5 {
		t.Fatalf("after opening bold: formats = %+v, caret = %d", c.formats, c.caret)
	}
	mustDo(t, c.insert("there"))
	mustDo(t, c.toggleBold())

	if got, want := c.visible(), "Hi **there**"; got != want {
		t.Fatalf("visible = %q, want %q", got, want)
	}
	if c.formats.Bold {
		t.Fatal("bold still active after closing")
	}
	if c.caret != 12 {
		t.Fatalf("caret = %d, want 12", c.caret)
	}
}

func TestComposerWrapsSelection(t *testing.T) {
	c := newComposer("make this bold", nil)
	c.move(-4, true)

	mustDo(t, c.toggleBold())
	if got, want := c.visible(), "make this **bold**"; got != want {
		t.Fatalf("visible = %q, want %q", got, want)
	}
	if c.caret != 18 || !c.selection().IsEmpty() {
		t.Fatalf("caret = %d, selection = %+v", c.caret, c.selection())
	}
}

func TestComposerEmptyItalicLeavesNoPair(t *testing.T) {
	c := newComposer("a", nil)

	mustDo(t, c.toggleItalic())
	mustDo(t, c.toggleItalic())

	if got, want := c.visible(), "a*"; got != want {
		t.Fatalf("visible = %q, want %q", got, want)
	}
	if c.formats.Italic {
		t.Fatal("italic still active")
	}
}

func TestComposerHeaderAndBullet(t *testing.T) {
	c := newComposer("line one\nline two", nil)

	mustDo(t, c.header())
	mustDo(t, c.header())
	if got, want := c.visible(), "line one\n# line two"; got != want {
		t.Fatalf("visible = %q, want %q", got, want)
	}

	mustDo(t, c.bullet())
	mustDo(t, c.insert("eggs"))
	if got, want := c.visible(), "line one\n# line two\n• eggs"; got != want {
		t.Fatalf("visible = %q, want %q", got, want)
	}
}

func TestComposerTimestamp(t *testing.T) {
	clock := &fakeClock{now: at(7, 0)}
	c := newComposer("Woke ", clock.Now)

	mustDo(t, c.stamp())
	if got, want := c.visible(), "Woke <t:07:00:00 AM>"; got != want {
		t.Fatalf("visible = %q, want %q", got, want)
	}
}

func TestComposerRangeTracking(t *testing.T) {
	clock := &fakeClock{now: at(9, 30)}
	c := newComposer("Morning", clock.Now)

	tracking, err := c.toggleRange()
	if err != nil || !tracking {
		t.Fatalf("toggleRange start = %v, %v", tracking, err)
	}
	if c.visible() != "" || c.caret != 0 {
		t.Fatalf("tracking visible = %q caret %d, want empty field", c.visible(), c.caret)
	}

	mustDo(t, c.insert("Ran 5k"))
	clock.now = at(10, 15)

	want := "Morning<rs:09:30 AM-10:15 AM>Ran 5k<re>"
	if got := c.document(); got != want {
		t.Fatalf("document while tracking = %q, want %q", got, want)
	}

	tracking, err = c.toggleRange()
	if err != nil || tracking {
		t.Fatalf("toggleRange stop = %v, %v", tracking, err)
	}
	if got := c.visible(); got != want {
		t.Fatalf("visible after stop = %q, want %q", got, want)
	}
}

func TestComposerBlankRangeIsDropped(t *testing.T) {
	clock := &fakeClock{now: at(9, 30)}
	c := newComposer("Morning", clock.Now)

	if _, err := c.toggleRange(); err != nil {
		t.Fatalf("start: %v", err)
	}
	mustDo(t, c.insert("   "))
	if _, err := c.toggleRange(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if got := c.document(); got != "Morning" {
		t.Fatalf("document = %q, want %q", got, "Morning")
	}
}

func TestComposerEditing(t *testing.T) {
	c := newComposer("héllo\nworld", nil)

	c.home()
	if c.caret != 6 {
		t.Fatalf("home caret = %d, want 6", c.caret)
	}
	c.backspace()
	if got := c.visible(); got != "hélloworld" {
		t.Fatalf("visible = %q", got)
	}

	c.move(-100, false)
	c.move(2, true)
	mustDo(t, c.insert("E"))
	if got := c.visible(); got != "Elloworld" {
		t.Fatalf("visible = %q, want %q", got, "Elloworld")
	}

	c.end()
	c.deleteForward()
	c.backspace()
	if got := c.visible(); got != "Elloworl" {
		t.Fatalf("visible = %q, want %q", got, "Elloworl")
	}
}

func mustDo(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
