package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/slotlinelabs/slotline/pkg/flexbool"
	"gorm.io/gorm"
)

// PricingFn resolves the unit amount charged for a price, already bound to
// the buyer's audience tier.
type PricingFn func(Price) int64

// Line is the snapshot projection of one cart line: everything allocation
// and materialization need, detached from the cart row itself.
type Line struct {
	ID             snowflake.ID  `json:"id"`
	PriceID        snowflake.ID  `json:"price_id"`
	Quantity       int           `json:"quantity"`
	DurationMonths int           `json:"duration_months"`
	Renewal        flexbool.Bool `json:"renewal"`
	RenewedSaleID  *snowflake.ID `json:"renewed_sale_id"`
	AccountID      *snowflake.ID `json:"account_id"`
	ProfileID      *snowflake.ID `json:"profile_id"`
}

// Months returns the contracted month count, always positive.
func (l Line) Months() int {
	if l.DurationMonths < 1 {
		return 1
	}
	return l.DurationMonths
}

// CartTotals is the cached pricing a cart may carry.
type CartTotals struct {
	ID           snowflake.ID `json:"id"`
	TotalAmount  *int64       `json:"total_amount"`
	TotalLocal   *int64       `json:"total_local"`
	ExchangeRate *float64     `json:"exchange_rate"`
	Discount     *int64       `json:"discount"`
}

// CheckoutContext is the read-only snapshot a checkout operates on: the
// cart's lines plus every price and platform they reference, the resolved
// total and exchange rate. Building it has no side effects.
type CheckoutContext struct {
	CartID    snowflake.ID
	Lines     []Line
	Prices    map[snowflake.ID]Price
	Platforms map[snowflake.ID]Platform
	Total     int64
	Rate      float64
	PriceFor  PricingFn
}

// PlatformForPrice resolves the platform a price belongs to.
func (c CheckoutContext) PlatformForPrice(p Price) (Platform, bool) {
	pl, ok := c.Platforms[p.PlatformID]
	return pl, ok
}

type BuildCheckoutContextRequest struct {
	BuyerID      snowflake.ID
	Reseller     bool
	CartID       snowflake.ID
	ClientTotal  *int64
	ExchangeRate *float64
}

type Service interface {
	BuildCheckoutContext(ctx context.Context, req BuildCheckoutContextRequest) (CheckoutContext, error)
}

type Repository interface {
	FindCartTotals(ctx context.Context, db *gorm.DB, id snowflake.ID) (*CartTotals, error)
	ListCartLines(ctx context.Context, db *gorm.DB, cartID snowflake.ID) ([]Line, error)
	FindPricesByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]Price, error)
	FindPlatformsByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]Platform, error)
}
