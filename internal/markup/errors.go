package markup

import "errors"

// ErrInvalidSelection is returned when a selection falls outside the buffer or start > end.
var ErrInvalidSelection = errors.New("invalid selection")

// ErrAlreadyTracking is returned when a time range is started twice.
var ErrAlreadyTracking = errors.New("time range already being tracked")

// ErrNotTracking is returned when stopping a time range that was never started.
var ErrNotTracking = errors.New("no time range being tracked")
