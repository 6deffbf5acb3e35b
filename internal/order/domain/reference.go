package domain

import (
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewReference mints the public order number shown to buyers and support
// staff. ULIDs sort by creation time, which keeps order lists naturally
// chronological.
func NewReference(now time.Time) string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(now.UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(now.UTC()), entropy).String()
}
