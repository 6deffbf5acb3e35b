package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/slotlinelabs/slotline/internal/catalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() catalogdomain.Repository {
	return &repo{}
}

func (r *repo) FindCartTotals(ctx context.Context, db *gorm.DB, id snowflake.ID) (*catalogdomain.CartTotals, error) {
	var totals catalogdomain.CartTotals
	err := db.WithContext(ctx).Raw(
		`SELECT id, total_amount, total_local, exchange_rate, discount
		 FROM carts WHERE id = ?`,
		id,
	).Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	if totals.ID == 0 {
		return nil, nil
	}
	return &totals, nil
}

func (r *repo) ListCartLines(ctx context.Context, db *gorm.DB, cartID snowflake.ID) ([]catalogdomain.Line, error) {
	var lines []catalogdomain.Line
	err := db.WithContext(ctx).Raw(
		`SELECT id, price_id, quantity, duration_months, renewal, renewed_sale_id, account_id, profile_id
		 FROM cart_lines WHERE cart_id = ? ORDER BY id ASC`,
		cartID,
	).Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repo) FindPricesByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]catalogdomain.Price, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var prices []catalogdomain.Price
	err := db.WithContext(ctx).
		Model(&catalogdomain.Price{}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&prices).Error
	if err != nil {
		return nil, err
	}
	return prices, nil
}

func (r *repo) FindPlatformsByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]catalogdomain.Platform, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var platforms []catalogdomain.Platform
	err := db.WithContext(ctx).
		Model(&catalogdomain.Platform{}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&platforms).Error
	if err != nil {
		return nil, err
	}
	return platforms, nil
}
