package markup

import (
	"strings"
	"time"
)

// RangeState is either Idle or Tracking. While tracking, typed text is kept
// apart from the document and only folded in when the range stops.
type RangeState interface {
	// Document is the entry buffer as it will be persisted.
	Document() string
	// Visible is the text the host should bind to its input field.
	Visible() string

	isRangeState()
}

// Idle is the resting state: the visible field edits the document directly.
type Idle struct {
	Buffer string
}

// Tracking holds the untouched document plus the text typed since Start.
type Tracking struct {
	Buffer  string
	Pending string
	Start   time.Time
}

func (s Idle) Document() string { return s.Buffer }
func (s Idle) Visible() string  { return s.Buffer }
func (Idle) isRangeState()      {}

func (s Tracking) Document() string { return s.Buffer }
func (s Tracking) Visible() string  { return s.Pending }
func (Tracking) isRangeState()      {}

// StartTracking moves from Idle to Tracking, recording now as the range start.
func StartTracking(state RangeState, now time.Time) (RangeState, error) {
	switch s := state.(type) {
	case nil:
		return Tracking{Start: now}, nil
	case Idle:
		return Tracking{Buffer: s.Buffer, Start: now}, nil
	case Tracking:
		return s, ErrAlreadyTracking
	default:
		return state, ErrAlreadyTracking
	}
}

// StopTracking returns to Idle. The pending text is appended to the document
// as a time range unless it is blank, in which case it is dropped.
func StopTracking(state RangeState, now time.Time) (RangeState, error) {
	s, ok := state.(Tracking)
	if !ok {
		if state == nil {
			return Idle{}, ErrNotTracking
		}
		return state, ErrNotTracking
	}

	if strings.TrimSpace(s.Pending) == "" {
		return Idle{Buffer: s.Buffer}, nil
	}
	return Idle{Buffer: s.Buffer + TimeRange(s.Start, now, s.Pending)}, nil
}

// SetVisible records an edit made to the host's input field.
func SetVisible(state RangeState, text string) RangeState {
	switch s := state.(type) {
	case Tracking:
		s.Pending = text
		return s
	default:
		return Idle{Buffer: text}
	}
}

// IsTracking reports whether state is a Tracking value.
func IsTracking(state RangeState) bool {
	_, ok := state.(Tracking)
	return ok
}
