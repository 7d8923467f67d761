package journal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/faizmokh/diari/internal/files"
	"github.com/faizmokh/diari/internal/logger"
)

var errNoManager = errors.New("journal: reader has no file manager")

// Reader loads day sections from month files. Reads never create files.
type Reader struct {
	manager *files.Manager
}

// NewReader returns a Reader over manager's journal tree.
func NewReader(manager *files.Manager) *Reader {
	return &Reader{manager: manager}
}

// Section returns the section for date's day, or ErrSectionNotFound.
func (r *Reader) Section(ctx context.Context, date time.Time) (DateSection, error) {
	sections, err := r.month(ctx, date)
	if err != nil {
		return DateSection{}, err
	}
	for _, section := range sections {
		if sameDay(section.Date, date) {
			logger.Debugf("loaded %d entries for %s", len(section.Entries), date.Format(dateLayout))
			return section, nil
		}
	}
	return DateSection{}, ErrSectionNotFound
}

// Entry looks up a single entry by ID within the date's section.
func (r *Reader) Entry(ctx context.Context, date time.Time, id uuid.UUID) (Entry, error) {
	section, err := r.Section(ctx, date)
	if err != nil {
		return Entry{}, err
	}
	idx := section.Index(id)
	if idx < 0 {
		return Entry{}, ErrEntryNotFound
	}
	return section.Entries[idx], nil
}

// SectionsBetween returns the sections dated within [start, end] in
// chronological order. Each month file is read once.
func (r *Reader) SectionsBetween(ctx context.Context, start, end time.Time) ([]DateSection, error) {
	if end.Before(start) {
		return nil, nil
	}

	first, last := startOfDay(start), startOfDay(end)
	var out []DateSection
	for month := firstOfMonth(first); !month.After(last); month = month.AddDate(0, 1, 0) {
		sections, err := r.month(ctx, month)
		if err != nil {
			return nil, err
		}
		for _, section := range sections {
			d := section.Date
			day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, first.Location())
			if day.Before(first) || day.After(last) {
				continue
			}
			out = append(out, section)
		}
	}
	return out, nil
}

// month parses every section of t's month file. A missing file yields none.
func (r *Reader) month(ctx context.Context, t time.Time) ([]DateSection, error) {
	if r == nil || r.manager == nil {
		return nil, errNoManager
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(r.manager.MonthPath(t))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open month file: %w", err)
	}
	defer file.Close()

	var sections []DateSection
	parser := NewParser(file)
	for {
		section, err := parser.NextSection()
		if errors.Is(err, io.EOF) {
			return sections, nil
		}
		if err != nil {
			return nil, err
		}
		sections = append(sections, *section)
	}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
