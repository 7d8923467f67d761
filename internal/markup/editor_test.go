package markup

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestToggleBoldWrapsSelection(t *testing.T) {
	cases := []struct {
		buffer string
		sel    Selection
		want   string
	}{
		{buffer: "hello world", sel: Selection{Start: 6, End: 11}, want: "hello **world**"},
		{buffer: "hello world", sel: Selection{Start: 0, End: 5}, want: "**hello** world"},
		{buffer: "héllo wörld", sel: Selection{Start: 6, End: 11}, want: "héllo **wörld**"},
	}

	for _, tc := range cases {
		got, formats, err := ToggleBold(tc.buffer, tc.sel, Formats{})
		if err != nil {
			t.Fatalf("ToggleBold(%q): %v", tc.buffer, err)
		}
		if got != tc.want {
			t.Fatalf("ToggleBold(%q) = %q, want %q", tc.buffer, got, tc.want)
		}
		if formats.Bold {
			t.Fatalf("ToggleBold(%q) activated bold for a selection", tc.buffer)
		}
		if n, m := utf8.RuneCountInString(got), utf8.RuneCountInString(tc.buffer); n != m+4 {
			t.Fatalf("len(result) = %d, want %d", n, m+4)
		}
		runes := []rune(got)
		selected := string([]rune(tc.buffer)[tc.sel.Start:tc.sel.End])
		if span := string(runes[tc.sel.Start : tc.sel.End+4]); span != "**"+selected+"**" {
			t.Fatalf("wrapped span = %q, want %q", span, "**"+selected+"**")
		}
	}
}

func TestToggleItalicWrapsSelection(t *testing.T) {
	got, _, err := ToggleItalic("a quiet day", Selection{Start: 2, End: 7}, Formats{})
	if err != nil {
		t.Fatalf("ToggleItalic: %v", err)
	}
	if got != "a *quiet* day" {
		t.Fatalf("ToggleItalic = %q, want %q", got, "a *quiet* day")
	}
}

func TestToggleBoldCaretCycle(t *testing.T) {
	buffer, formats, err := ToggleBold("Today ", Caret(6), Formats{})
	if err != nil {
		t.Fatalf("ToggleBold open: %v", err)
	}
	if buffer != "Today **" || !formats.Bold {
		t.Fatalf("after open = (%q, %+v), want (%q, bold)", buffer, formats, "Today **")
	}

	buffer += "great"
	buffer, formats, err = ToggleBold(buffer, Caret(utf8.RuneCountInString(buffer)), formats)
	if err != nil {
		t.Fatalf("ToggleBold close: %v", err)
	}
	if buffer != "Today **great**" {
		t.Fatalf("after close = %q, want %q", buffer, "Today **great**")
	}
	if formats.Bold {
		t.Fatalf("bold still active after close")
	}
}

func TestToggleBoldWithoutContentOnlyFlipsState(t *testing.T) {
	buffer, formats, err := ToggleBold("x **", Caret(4), Formats{Bold: true})
	if err != nil {
		t.Fatalf("ToggleBold: %v", err)
	}
	if buffer != "x **" {
		t.Fatalf("buffer = %q, want unchanged %q", buffer, "x **")
	}
	if formats.Bold {
		t.Fatalf("bold should be inactive after an empty toggle cycle")
	}
}

func TestToggleBoldActiveWithoutOpener(t *testing.T) {
	buffer, formats, err := ToggleBold("opener was deleted", Caret(6), Formats{Bold: true})
	if err != nil {
		t.Fatalf("ToggleBold: %v", err)
	}
	if buffer != "opener was deleted" || formats.Bold {
		t.Fatalf("got (%q, %+v), want buffer unchanged and bold off", buffer, formats)
	}
}

func TestToggleItalicSkipsBoldMarkers(t *testing.T) {
	buffer := "note **bold** *x"
	got, formats, err := ToggleItalic(buffer, Caret(utf8.RuneCountInString(buffer)), Formats{Italic: true})
	if err != nil {
		t.Fatalf("ToggleItalic: %v", err)
	}
	if got != "note **bold** *x*" {
		t.Fatalf("ToggleItalic = %q, want %q", got, "note **bold** *x*")
	}
	if formats.Italic {
		t.Fatalf("italic still active after close")
	}
}

func TestToggleItalicKeepsBoldState(t *testing.T) {
	_, formats, err := ToggleItalic("", Caret(0), Formats{Bold: true})
	if err != nil {
		t.Fatalf("ToggleItalic: %v", err)
	}
	if !formats.Bold || !formats.Italic {
		t.Fatalf("formats = %+v, want both active", formats)
	}
}

func TestEditorRejectsInvalidSelection(t *testing.T) {
	bad := []Selection{
		{Start: 3, End: 1},
		{Start: -1, End: 0},
		{Start: 0, End: 99},
	}
	for _, sel := range bad {
		if _, _, err := ToggleBold("short", sel, Formats{}); !errors.Is(err, ErrInvalidSelection) {
			t.Fatalf("ToggleBold(%+v) error = %v, want ErrInvalidSelection", sel, err)
		}
		if _, err := InsertHeader("short", sel); !errors.Is(err, ErrInvalidSelection) {
			t.Fatalf("InsertHeader(%+v) error = %v, want ErrInvalidSelection", sel, err)
		}
		if _, err := InsertAtCaret("short", sel, "x"); !errors.Is(err, ErrInvalidSelection) {
			t.Fatalf("InsertAtCaret(%+v) error = %v, want ErrInvalidSelection", sel, err)
		}
	}
}

func TestInsertHeaderTargetsCaretLine(t *testing.T) {
	cases := []struct {
		name   string
		buffer string
		caret  int
		want   string
	}{
		{name: "first line", buffer: "first\nsecond", caret: 0, want: "# first\nsecond"},
		{name: "end of first line", buffer: "first\nsecond", caret: 5, want: "# first\nsecond"},
		{name: "start of second line", buffer: "first\nsecond", caret: 6, want: "first\n# second"},
		{name: "middle of second line", buffer: "first\nsecond", caret: 9, want: "first\n# second"},
		{name: "empty buffer", buffer: "", caret: 0, want: "# "},
	}

	for _, tc := range cases {
		got, err := InsertHeader(tc.buffer, Caret(tc.caret))
		if err != nil {
			t.Fatalf("%s: InsertHeader: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: InsertHeader = %q, want %q", tc.name, got, tc.want)
		}

		again, err := InsertHeader(got, Caret(tc.caret+2))
		if err != nil {
			t.Fatalf("%s: second InsertHeader: %v", tc.name, err)
		}
		if again != got {
			t.Fatalf("%s: second InsertHeader = %q, want no-op %q", tc.name, again, got)
		}
	}
}

func TestInsertBullet(t *testing.T) {
	got, err := InsertBullet("groceries", Caret(9))
	if err != nil {
		t.Fatalf("InsertBullet: %v", err)
	}
	if got != "groceries\n• " {
		t.Fatalf("InsertBullet = %q, want %q", got, "groceries\n• ")
	}
	if n := utf8.RuneCountInString(got); n != 9+BulletCaretAdvance {
		t.Fatalf("rune length = %d, want %d", n, 9+BulletCaretAdvance)
	}
}

func TestInsertAtCaretUsesRuneOffsets(t *testing.T) {
	got, err := InsertAtCaret("café day", Caret(4), " au lait")
	if err != nil {
		t.Fatalf("InsertAtCaret: %v", err)
	}
	if got != "café au lait day" {
		t.Fatalf("InsertAtCaret = %q, want %q", got, "café au lait day")
	}
}

func TestTimestampFormat(t *testing.T) {
	at := time.Date(2025, time.November, 2, 14, 5, 9, 0, time.UTC)
	if got := Timestamp(at); got != "<t:02:05:09 PM>" {
		t.Fatalf("Timestamp = %q, want %q", got, "<t:02:05:09 PM>")
	}

	morning := time.Date(2025, time.November, 2, 9, 30, 0, 0, time.UTC)
	buffer, err := InsertAtCaret("Woke up ", Caret(8), Timestamp(morning))
	if err != nil {
		t.Fatalf("InsertAtCaret: %v", err)
	}
	if !strings.HasSuffix(buffer, "<t:09:30:00 AM>") {
		t.Fatalf("buffer = %q, want timestamp suffix", buffer)
	}
}
