package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	inventorydomain "github.com/slotlinelabs/slotline/internal/inventory/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() inventorydomain.Repository {
	return &repo{}
}

func (r *repo) ListWholeAccountCandidates(ctx context.Context, db *gorm.DB, platformID snowflake.ID, limit int) ([]inventorydomain.Account, error) {
	var accounts []inventorydomain.Account
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM accounts
		 WHERE platform_id = ?
		   AND sellable_whole = ?
		   AND occupied = ?
		   AND inactive = ?
		 ORDER BY id ASC
		 LIMIT ?`,
		platformID, true, false, false, limit,
	).Scan(&accounts).Error
	return accounts, err
}

func (r *repo) ListMemberAccountCandidates(ctx context.Context, db *gorm.DB, platformID snowflake.ID, limit int) ([]inventorydomain.Account, error) {
	var accounts []inventorydomain.Account
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM accounts
		 WHERE platform_id = ?
		   AND sellable_member = ?
		   AND occupied = ?
		   AND inactive = ?
		 ORDER BY id ASC
		 LIMIT ?`,
		platformID, true, false, false, limit,
	).Scan(&accounts).Error
	return accounts, err
}

func (r *repo) ListHomeProfileCandidates(ctx context.Context, db *gorm.DB, platformID snowflake.ID, limit int) ([]inventorydomain.Profile, error) {
	var profiles []inventorydomain.Profile
	err := db.WithContext(ctx).Raw(
		`SELECT p.* FROM profiles p
		 JOIN accounts a ON a.id = p.account_id
		 WHERE a.platform_id = ?
		   AND a.sellable_whole = ?
		   AND a.sellable_member = ?
		   AND a.inactive = ?
		   AND p.home_profile = ?
		   AND p.occupied = ?
		 ORDER BY p.id ASC
		 LIMIT ?`,
		platformID, false, false, false, true, false, limit,
	).Scan(&profiles).Error
	return profiles, err
}

func (r *repo) ListProfileCandidates(ctx context.Context, db *gorm.DB, platformID snowflake.ID, motherOnly bool, limit int) ([]inventorydomain.Profile, error) {
	query := `SELECT p.* FROM profiles p
		 JOIN accounts a ON a.id = p.account_id
		 WHERE a.platform_id = ?
		   AND a.inactive = ?
		   AND p.home_profile = ?
		   AND p.occupied = ?`
	args := []any{platformID, false, false, false}

	if motherOnly {
		query += ` AND a.mother_account = ?`
		args = append(args, true)
	} else {
		query += ` AND a.sellable_whole = ? AND a.sellable_member = ?`
		args = append(args, false, false)
	}
	query += ` ORDER BY p.id ASC LIMIT ?`
	args = append(args, limit)

	var profiles []inventorydomain.Profile
	err := db.WithContext(ctx).Raw(query, args...).Scan(&profiles).Error
	return profiles, err
}

// ClaimAccount flips occupied with a conditional update. Rows-affected is
// the acceptance signal: zero means another checkout won the unit.
func (r *repo) ClaimAccount(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	res := db.WithContext(ctx).Exec(
		`UPDATE accounts SET occupied = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND occupied = ? AND inactive = ?`,
		true, id, false, false,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return inventorydomain.ErrStorageConflict
	}
	return nil
}

func (r *repo) ClaimProfile(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	res := db.WithContext(ctx).Exec(
		`UPDATE profiles SET occupied = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND occupied = ?`,
		true, id, false,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return inventorydomain.ErrStorageConflict
	}
	return nil
}

func (r *repo) FindAccountsByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]inventorydomain.Account, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var accounts []inventorydomain.Account
	err := db.WithContext(ctx).
		Model(&inventorydomain.Account{}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&accounts).Error
	return accounts, err
}

func (r *repo) FindProfilesByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]inventorydomain.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var profiles []inventorydomain.Profile
	err := db.WithContext(ctx).
		Model(&inventorydomain.Profile{}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&profiles).Error
	return profiles, err
}
