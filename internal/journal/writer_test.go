package journal

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/faizmokh/diari/internal/files"
)

func newTestManager(t *testing.T) *files.Manager {
	t.Helper()
	mgr, err := files.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return mgr
}

func TestWriterAppendCreatesSection(t *testing.T) {
	mgr := newTestManager(t)
	writer := NewWriter(mgr)

	date := time.Date(2025, time.November, 2, 0, 0, 0, 0, time.UTC)
	entry := Entry{
		ID:      uuid.MustParse(firstID),
		Time:    time.Date(2025, time.November, 2, 9, 45, 0, 0, time.UTC),
		Content: "# Sunday\nSlept **late**",
		Tags:    []string{"happy", "home"},
	}

	saved, err := writer.Append(context.Background(), date, entry)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if saved.ID != entry.ID {
		t.Fatalf("saved.ID = %s, want %s", saved.ID, entry.ID)
	}

	got, err := os.ReadFile(mgr.MonthPath(date))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	want := strings.TrimLeft(`
# November 2025

## 2025-11-02
### [09:45] `+firstID+` #happy #home
    # Sunday
    Slept **late**
`, "\n")

	if string(got) != want {
		t.Fatalf("file contents = %q, want %q", got, want)
	}
}

func TestWriterAppendAssignsID(t *testing.T) {
	mgr := newTestManager(t)
	date := time.Date(2025, time.November, 2, 0, 0, 0, 0, time.UTC)

	saved, err := NewWriter(mgr).Append(context.Background(), date, Entry{Content: "untitled"})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if saved.ID == uuid.Nil {
		t.Fatal("Append did not assign an ID")
	}

	entry, err := NewReader(mgr).Entry(context.Background(), date, saved.ID)
	if err != nil {
		t.Fatalf("Entry: %v", err)
	}
	if entry.Content != "untitled" {
		t.Fatalf("Content = %q, want %q", entry.Content, "untitled")
	}
}

func TestWriterAppendExtendsExistingSection(t *testing.T) {
	mgr := newTestManager(t)
	writer := NewWriter(mgr)

	date := time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC)
	path, err := mgr.EnsureMonthFile(date)
	if err != nil {
		t.Fatalf("EnsureMonthFile: %v", err)
	}

	initial := strings.TrimLeft(`
# November 2025

## 2025-11-03
### [08:00] `+firstID+` #calm
    Coffee

    on the balcony

## 2025-11-04
### [10:00] `+thirdID+`
    Next day
`, "\n")
	if err := os.WriteFile(path, []byte(initial), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := writer.Append(context.Background(), date, Entry{
		ID:      uuid.MustParse(secondID),
		Time:    time.Date(2025, time.November, 3, 14, 10, 0, 0, time.UTC),
		Content: "Afternoon nap",
	}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	want := strings.TrimLeft(`
# November 2025

## 2025-11-03
### [08:00] `+firstID+` #calm
    Coffee

    on the balcony
### [14:10] `+secondID+`
    Afternoon nap

## 2025-11-04
### [10:00] `+thirdID+`
    Next day
`, "\n")
	if string(got) != want {
		t.Fatalf("file contents = %q, want %q", got, want)
	}
}

func TestWriterEditReplacesEntry(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager(t)
	writer := NewWriter(mgr)
	date := time.Date(2025, time.November, 5, 0, 0, 0, 0, time.UTC)

	first, err := writer.Append(ctx, date, Entry{Time: date.Add(8 * time.Hour), Content: "one\ntwo\nthree"})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	second, err := writer.Append(ctx, date, Entry{Time: date.Add(9 * time.Hour), Content: "after"})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	updated := first
	updated.Content = "*rewritten*"
	updated.Tags = []string{"Grateful"}
	updated.ID = uuid.New()
	if err := writer.Edit(ctx, date, first.ID, updated); err != nil {
		t.Fatalf("Edit: %v", err)
	}

	section, err := NewReader(mgr).Section(ctx, date)
	if err != nil {
		t.Fatalf("Section: %v", err)
	}
	if len(section.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(section.Entries))
	}
	got := section.Entries[0]
	if got.ID != first.ID {
		t.Fatalf("ID = %s, want the original %s", got.ID, first.ID)
	}
	if got.Content != "*rewritten*" || len(got.Tags) != 1 || got.Tags[0] != "Grateful" {
		t.Fatalf("edited entry = %+v", got)
	}
	if section.Entries[1].ID != second.ID || section.Entries[1].Content != "after" {
		t.Fatalf("neighbour changed: %+v", section.Entries[1])
	}
}

func TestWriterEditUnknownEntry(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager(t)
	writer := NewWriter(mgr)
	date := time.Date(2025, time.November, 5, 0, 0, 0, 0, time.UTC)

	if err := writer.Edit(ctx, date, uuid.New(), Entry{}); !errors.Is(err, ErrSectionNotFound) {
		t.Fatalf("Edit on missing section err = %v, want ErrSectionNotFound", err)
	}
	if _, err := writer.Append(ctx, date, Entry{Content: "x"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := writer.Edit(ctx, date, uuid.New(), Entry{}); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("Edit on missing entry err = %v, want ErrEntryNotFound", err)
	}
}

func TestWriterDeleteRemovesEntry(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager(t)
	writer := NewWriter(mgr)
	date := time.Date(2025, time.November, 6, 0, 0, 0, 0, time.UTC)

	keep, err := writer.Append(ctx, date, Entry{Time: date.Add(7 * time.Hour), Content: "keep"})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	drop, err := writer.Append(ctx, date, Entry{Time: date.Add(8 * time.Hour), Content: "drop\n\nmultiline"})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	removed, err := writer.Delete(ctx, date, drop.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if removed.Content != "drop\n\nmultiline" {
		t.Fatalf("removed.Content = %q", removed.Content)
	}

	section, err := NewReader(mgr).Section(ctx, date)
	if err != nil {
		t.Fatalf("Section: %v", err)
	}
	if len(section.Entries) != 1 || section.Entries[0].ID != keep.ID {
		t.Fatalf("entries = %+v, want only %s", section.Entries, keep.ID)
	}
	if _, err := writer.Delete(ctx, date, drop.ID); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("second Delete err = %v, want ErrEntryNotFound", err)
	}
}

func TestWriterHonoursCancelledContext(t *testing.T) {
	mgr := newTestManager(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewWriter(mgr).Append(ctx, time.Now(), Entry{Content: "late"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestWriterKeepsTrailingNewlineWithItsEntry(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager(t)
	writer := NewWriter(mgr)
	reader := NewReader(mgr)
	date := time.Date(2025, time.November, 5, 0, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i, content := range []string{"first", "second\n", "third"} {
		saved, err := writer.Append(ctx, date, Entry{Time: date.Add(time.Duration(8+i) * time.Hour), Content: content})
		if err != nil {
			t.Fatalf("Append(%q): %v", content, err)
		}
		ids = append(ids, saved.ID)
	}
	assertContents(t, reader, date, "first", "second\n", "third")

	if err := writer.Edit(ctx, date, ids[0], Entry{Time: date.Add(8 * time.Hour), Content: "first, edited"}); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	assertContents(t, reader, date, "first, edited", "second\n", "third")

	if err := writer.Edit(ctx, date, ids[1], Entry{Time: date.Add(9 * time.Hour), Content: "second\n\n"}); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	assertContents(t, reader, date, "first, edited", "second\n\n", "third")

	if _, err := writer.Delete(ctx, date, ids[1]); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	assertContents(t, reader, date, "first, edited", "third")
}

func TestWriterTrailingNewlineBeforeNextDay(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager(t)
	writer := NewWriter(mgr)
	first := time.Date(2025, time.November, 6, 0, 0, 0, 0, time.UTC)
	second := first.AddDate(0, 0, 1)

	if _, err := writer.Append(ctx, first, Entry{Time: first.Add(7 * time.Hour), Content: "late night\n"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := writer.Append(ctx, second, Entry{Time: second.Add(7 * time.Hour), Content: "morning"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	reader := NewReader(mgr)
	assertContents(t, reader, first, "late night\n")
	assertContents(t, reader, second, "morning")
}

func TestWriterTagsRoundTrip(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager(t)
	writer := NewWriter(mgr)
	date := time.Date(2025, time.November, 8, 0, 0, 0, 0, time.UTC)

	saved, err := writer.Append(ctx, date, Entry{Content: "packing", Tags: []string{"work trip", "#x", "  ", "x"}})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	want := []string{"work-trip", "x"}
	assertTags(t, saved.Tags, want)

	entry, err := NewReader(mgr).Entry(ctx, date, saved.ID)
	if err != nil {
		t.Fatalf("Entry: %v", err)
	}
	assertTags(t, entry.Tags, want)

	if err := writer.Edit(ctx, date, saved.ID, Entry{Content: "packed", Tags: []string{"##done", "long  haul"}}); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	entry, err = NewReader(mgr).Entry(ctx, date, saved.ID)
	if err != nil {
		t.Fatalf("Entry: %v", err)
	}
	assertTags(t, entry.Tags, []string{"done", "long-haul"})
}

func assertContents(t *testing.T, reader *Reader, date time.Time, want ...string) {
	t.Helper()
	section, err := reader.Section(context.Background(), date)
	if err != nil {
		t.Fatalf("Section: %v", err)
	}
	got := make([]string, len(section.Entries))
	for i, entry := range section.Entries {
		got[i] = entry.Content
	}
	if strings.Join(got, "|") != strings.Join(want, "|") || len(got) != len(want) {
		t.Fatalf("contents = %q, want %q", got, want)
	}
}

func assertTags(t *testing.T, got, want []string) {
	t.Helper()
	if strings.Join(got, " ") != strings.Join(want, " ") || len(got) != len(want) {
		t.Fatalf("tags = %q, want %q", got, want)
	}
}
