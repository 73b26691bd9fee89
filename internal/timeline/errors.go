package timeline

import "errors"

// Configuration errors. These indicate caller misuse and are never retried
// internally. Expected "not found" outcomes (unknown event IDs, disconnected
// chains) are reported through ok-booleans or nil returns, never as errors.
var (
	// ErrTimelineSupportDisabled is returned when a timeline is allocated
	// manually while historical timeline retention is disabled.
	ErrTimelineSupportDisabled = errors.New("timeline support is disabled for this set")

	// ErrNoTimeline is returned when batch ingestion is invoked without a
	// target timeline.
	ErrNoTimeline = errors.New("no target timeline given")

	// ErrLiveForwardPagination is returned when batch ingestion is invoked
	// in the forward direction against the live timeline. Forward appends
	// to the live timeline must go through AddLiveEvent; arbitrary forward
	// pagination would corrupt the "nothing newer than live" invariant.
	ErrLiveForwardPagination = errors.New("cannot paginate forwards into the live timeline")
)
