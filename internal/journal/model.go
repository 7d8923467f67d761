package journal

import (
	"time"

	"github.com/google/uuid"
)

// dateLayout formats day headings and log lines.
const dateLayout = "2006-01-02"

// Entry is a single journal entry. Content is the raw markup buffer and is
// stored verbatim.
type Entry struct {
	ID      uuid.UUID `json:"id"`
	Time    time.Time `json:"time"`
	Tags    []string  `json:"tags,omitempty"`
	Content string    `json:"content"`
}

// DateSection groups entries beneath the same YYYY-MM-DD heading.
type DateSection struct {
	Date    time.Time `json:"date"`
	Entries []Entry   `json:"entries"`
}

// Index returns the position of the entry with id, or -1.
func (s DateSection) Index(id uuid.UUID) int {
	for i, entry := range s.Entries {
		if entry.ID == id {
			return i
		}
	}
	return -1
}

// At returns the entry at a 1-based index.
func (s DateSection) At(index int) (Entry, error) {
	if index < 1 || index > len(s.Entries) {
		return Entry{}, ErrInvalidIndex
	}
	return s.Entries[index-1], nil
}
