package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository reads and claims inventory. All candidate listings return rows
// in ascending id order so allocation is deterministic for a fixed database
// state.
type Repository interface {
	// ListWholeAccountCandidates returns accounts sellable as whole accounts
	// on the platform, not occupied, not inactive.
	ListWholeAccountCandidates(ctx context.Context, db *gorm.DB, platformID snowflake.ID, limit int) ([]Account, error)

	// ListMemberAccountCandidates returns accounts sellable as member seats
	// on the platform, not occupied, not inactive.
	ListMemberAccountCandidates(ctx context.Context, db *gorm.DB, platformID snowflake.ID, limit int) ([]Account, error)

	// ListHomeProfileCandidates returns unoccupied home profiles under
	// profile-sale accounts of the platform whose account is not inactive.
	ListHomeProfileCandidates(ctx context.Context, db *gorm.DB, platformID snowflake.ID, limit int) ([]Profile, error)

	// ListProfileCandidates returns unoccupied non-home profiles on the
	// platform. With motherOnly the owning account must be a mother account,
	// otherwise it must be designated for per-profile sale. The owning
	// account must not be inactive.
	ListProfileCandidates(ctx context.Context, db *gorm.DB, platformID snowflake.ID, motherOnly bool, limit int) ([]Profile, error)

	// ClaimAccount conditionally flips occupied on the account. A zero-row
	// update returns ErrStorageConflict.
	ClaimAccount(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	// ClaimProfile conditionally flips occupied on the profile. A zero-row
	// update returns ErrStorageConflict.
	ClaimProfile(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	FindAccountsByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]Account, error)
	FindProfilesByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]Profile, error)
}
