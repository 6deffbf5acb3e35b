package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/slotlinelabs/slotline/internal/catalog/domain"
	"gorm.io/gorm"
)

// Assignment binds one unit of a cart line to concrete inventory, or stands
// in as a pending placeholder when none was available. AccountID and
// ProfileID follow the branch that produced the assignment; profile
// assignments also carry the owning account for the audit trail, but only
// the profile is occupied.
type Assignment struct {
	PriceID    snowflake.ID
	PlatformID snowflake.ID
	Amount     int64
	AccountID  *snowflake.ID
	ProfileID  *snowflake.ID
	Months     int
	Pending    bool

	// Claimed records that this allocation flipped the unit's occupied flag.
	Claimed bool
}

// Placeholder reports whether the assignment carries no inventory at all.
func (a Assignment) Placeholder() bool {
	return a.AccountID == nil && a.ProfileID == nil
}

// Allocator converts the new (non-renewal) lines of a checkout snapshot into
// assignments. It must run inside the order-processing transaction: live
// units are claimed at selection time and a claim conflict silently moves on
// to the next eligible unit. Exhausted inventory degrades to pending
// placeholders, never an error.
type Allocator interface {
	Allocate(ctx context.Context, tx *gorm.DB, cc catalogdomain.CheckoutContext) ([]Assignment, error)
}

// Validator re-reads every assigned unit after allocation and rejects the
// whole batch with ErrStaleInventory when any unit went inactive or sits on
// the wrong platform. Deliberately a second read, independent from the
// allocator's own queries.
type Validator interface {
	Validate(ctx context.Context, tx *gorm.DB, assignments []Assignment) error
}
