package domain

import "errors"

var (
	// ErrStaleInventory rejects a whole allocation batch: a re-read found an
	// assigned unit inactive or on the wrong platform. Nothing from the
	// checkout may be committed; the caller re-runs allocation on fresh data.
	ErrStaleInventory = errors.New("stale inventory in allocation batch")

	// ErrStorageConflict reports a conditional occupancy update that affected
	// zero rows: another checkout claimed the unit first. The allocator drops
	// the candidate and continues with the next eligible unit.
	ErrStorageConflict = errors.New("inventory unit already claimed")
)
